package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/paint-queue/board"
	"github.com/yeremiapane/paint-queue/middlewares"
	"github.com/yeremiapane/paint-queue/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type BoardController struct {
	Hub   *board.Hub
	Queue *services.QueueService
}

func NewBoardController(hub *board.Hub, queue *services.QueueService) *BoardController {
	return &BoardController{Hub: hub, Queue: queue}
}

// BoardSocket -> live board feed; the current queue is sent on connect
func (bc *BoardController) BoardSocket(c *gin.Context) {
	role := middlewares.GetRole(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	if entries, err := bc.Queue.Board(c.Request.Context(), role); err == nil {
		ws.WriteJSON(board.Message{Event: services.EventBoardUpdate, Data: entries})
	}
	bc.Hub.Register(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	bc.Hub.Unregister(ws)
}
