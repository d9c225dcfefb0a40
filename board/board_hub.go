package board

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/paint-queue/models"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard (staff screens, admin view) and fans
// queue events out to them.
type Hub struct {
	clients map[*websocket.Conn]models.Role
	mutex   sync.Mutex
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]models.Role),
		log:     log,
	}
}

func (h *Hub) Register(conn *websocket.Conn, role models.Role) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Notify broadcasts an event to every client. Clients that fail to accept
// the write are dropped.
func (h *Hub) Notify(event string, data interface{}) {
	h.broadcast(Message{Event: event, Data: data})
}

func (h *Hub) broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("error marshaling board message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warnf("dropping %s board client: %v", role, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	h.log.Debugf("broadcast %s to %d clients", msg.Event, len(h.clients))
}
