package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/paint-queue/models"
)

// Board events pushed to live dashboards.
const (
	EventOrderCreated = "order_created"
	EventOrderUpdate  = "order_update"
	EventBoardUpdate  = "board_update"
)

// Notifier receives queue events, typically the websocket hub.
type Notifier interface {
	Notify(event string, data interface{})
}

// BoardEntry is one order as displayed on the dashboard.
type BoardEntry struct {
	models.Order
	ETCMinutes          int                  `json:"etc_minutes"`
	ETCDisplay          string               `json:"etc_display"`
	EstimatedCompletion time.Time            `json:"estimated_completion"`
	AllowedTransitions  []models.OrderStatus `json:"allowed_transitions"`
}

type QueueStats struct {
	ByStatus      map[models.OrderStatus]int `json:"by_status"`
	ActiveOrders  int                        `json:"active_orders"`
	QueuedMinutes int                        `json:"queued_minutes"`
	QueueDisplay  string                     `json:"queue_display"`
}

// OrderForm is the add-order form as submitted by staff.
type OrderForm struct {
	Sequence      string           `json:"sequence"`
	CustomerName  string           `json:"customer_name"`
	ClientContact string           `json:"client_contact"`
	PaintType     string           `json:"paint_type"`
	Category      models.Category  `json:"category"`
	ColourCode    string           `json:"colour_code"`
	PaintQuantity string           `json:"paint_quantity"`
	OrderType     models.OrderType `json:"order_type"`
}

var contactPattern = regexp.MustCompile(`^\d{10}$`)

// Validate trims the form and checks every field. The first problem found
// is returned as a *ValidationError.
func (f *OrderForm) Validate() error {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.ClientContact = strings.TrimSpace(f.ClientContact)
	f.PaintType = strings.TrimSpace(f.PaintType)
	f.ColourCode = strings.TrimSpace(f.ColourCode)
	f.PaintQuantity = strings.TrimSpace(f.PaintQuantity)

	if f.Category == "" {
		f.Category = models.CategoryNewMix
	}
	if f.OrderType == "" {
		f.OrderType = models.OrderTypeWalkIn
	}

	switch {
	case f.CustomerName == "":
		return &ValidationError{Field: "customer_name", Message: "client name is required"}
	case !contactPattern.MatchString(f.ClientContact):
		return &ValidationError{Field: "client_contact", Message: "contact number must be exactly 10 digits"}
	case f.PaintType == "":
		return &ValidationError{Field: "paint_type", Message: "paint colour cannot be empty"}
	case !f.Category.Valid():
		return &ValidationError{Field: "category", Message: "category must be New Mix, Reorder Mix or Colour Code"}
	case f.PaintQuantity != "" && !models.ValidPaintQuantity(f.PaintQuantity):
		return &ValidationError{Field: "paint_quantity", Message: "unknown paint quantity " + f.PaintQuantity}
	case !f.OrderType.Valid():
		return &ValidationError{Field: "order_type", Message: "order type must be Walk-in, Phone Order or Paid"}
	}
	return nil
}

// InitialColourCode applies the default colour code policy: New Mix orders
// wait for a code, others use what was typed or N/A.
func (f *OrderForm) InitialColourCode() string {
	if f.Category == models.CategoryNewMix {
		return models.ColourCodePending
	}
	if f.ColourCode == "" {
		return models.ColourCodeNA
	}
	return f.ColourCode
}

// QueueService wires the workflow and estimator to the Order Store.
type QueueService struct {
	Store        OrderStore
	Workflow     *Workflow
	Clients      ClientDirectory
	Notifier     Notifier
	ShopName     string
	SupportPhone string
	Location     *time.Location
	Now          func() time.Time

	log   *logrus.Logger
	locks orderLocks
}

func NewQueueService(store OrderStore, clients ClientDirectory, notifier Notifier, log *logrus.Logger) *QueueService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QueueService{
		Store:    store,
		Workflow: NewWorkflow(store),
		Clients:  clients,
		Notifier: notifier,
		ShopName: "Paint Queue System",
		Location: time.Local,
		Now:      time.Now,
		log:      log,
	}
}

func (s *QueueService) now() time.Time {
	return s.Now().In(s.Location)
}

// Board returns the active queue, in store order, with ETC figures.
func (s *QueueService) Board(ctx context.Context, role models.Role) ([]BoardEntry, error) {
	orders, err := s.Store.ListActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.entries(orders, role), nil
}

// Orders returns every order with ETC figures.
func (s *QueueService) Orders(ctx context.Context, role models.Role) ([]BoardEntry, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.entries(orders, role), nil
}

func (s *QueueService) entries(orders []models.Order, role models.Role) []BoardEntry {
	etc := EstimateETC(orders)
	now := s.now()
	out := make([]BoardEntry, 0, len(orders))
	for _, o := range orders {
		minutes := etc[o.TransactionID]
		out = append(out, BoardEntry{
			Order:               o,
			ETCMinutes:          minutes,
			ETCDisplay:          FormatMinutes(minutes),
			EstimatedCompletion: EstimatedCompletion(o, minutes, now),
			AllowedTransitions:  s.Workflow.AllowedTransitions(o.CurrentStatus, role),
		})
	}
	return out
}

// GetOrder finds one order. The store has no single-order endpoint, so the
// full list is scanned.
func (s *QueueService) GetOrder(ctx context.Context, transactionID string) (models.Order, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.TransactionID == transactionID {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// CreateOrder validates the form, builds the transaction id, runs the
// advisory duplicate check and creates the order in Waiting.
func (s *QueueService) CreateOrder(ctx context.Context, form OrderForm) (models.Order, error) {
	if err := form.Validate(); err != nil {
		return models.Order{}, err
	}

	now := s.now()
	var seq int
	if form.Sequence != "" {
		n, err := ParseSequence(form.Sequence)
		if err != nil {
			return models.Order{}, err
		}
		seq = n
	} else {
		orders, err := s.Store.ListOrders(ctx)
		if err != nil {
			return models.Order{}, err
		}
		if seq, err = NextSequence(orders, now); err != nil {
			return models.Order{}, err
		}
	}

	dup, err := s.Store.CheckDuplicate(ctx, DuplicateQuery{
		CustomerName:  form.CustomerName,
		ClientContact: form.ClientContact,
		PaintType:     form.PaintType,
		Category:      form.Category,
	})
	switch {
	case err != nil:
		s.log.Warnf("duplicate check failed, creating order anyway: %v", err)
	case dup:
		return models.Order{}, ErrDuplicateOrder
	}

	created, err := s.Store.CreateOrder(ctx, models.NewOrder{
		TransactionID: GenerateTransactionID(now, seq),
		CustomerName:  form.CustomerName,
		ClientContact: form.ClientContact,
		PaintType:     form.PaintType,
		Category:      form.Category,
		ColourCode:    form.InitialColourCode(),
		PaintQuantity: form.PaintQuantity,
		OrderType:     form.OrderType,
		CurrentStatus: models.StatusWaiting,
		StartTime:     now,
	})
	if err != nil {
		return models.Order{}, err
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": created.TransactionID,
		"category":       created.Category,
	}).Info("order created")

	if s.Clients != nil {
		if err := s.Clients.Remember(ctx, created.CustomerName, created.ClientContact); err != nil {
			s.log.Warnf("could not remember client contact: %v", err)
		}
	}
	s.notify(EventOrderCreated, created)
	return created, nil
}

// Transitions lists the moves available for an order and what each needs.
func (s *QueueService) Transitions(ctx context.Context, transactionID string, role models.Role) ([]Requirements, error) {
	order, err := s.GetOrder(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	var out []Requirements
	for _, target := range Next(order.CurrentStatus) {
		out = append(out, s.Workflow.RequirementsFor(order, target, role))
	}
	return out, nil
}

// UpdateStatus runs one status change end to end. Updates on the same order
// are serialised; a failed validation sends nothing to the store.
func (s *QueueService) UpdateStatus(ctx context.Context, transactionID string, req TransitionRequest) (models.Order, error) {
	release, err := s.locks.acquire(ctx, transactionID)
	if err != nil {
		return models.Order{}, err
	}
	defer release()

	order, err := s.GetOrder(ctx, transactionID)
	if err != nil {
		return models.Order{}, err
	}

	update, err := s.Workflow.AttemptTransition(ctx, order, req)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"from":           order.CurrentStatus,
			"to":             req.Target,
			"role":           req.Role,
		}).Warnf("transition rejected: %v", err)
		return models.Order{}, err
	}

	updated, err := s.Store.UpdateOrder(ctx, transactionID, update.Patch(req.Role))
	if err != nil {
		return models.Order{}, err
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"from":           order.CurrentStatus,
		"to":             updated.CurrentStatus,
		"employee":       updated.AssignedEmployee,
	}).Info("order status updated")

	s.notify(EventOrderUpdate, updated)
	return updated, nil
}

// ReadyOrders lists orders waiting for an admin to complete them.
func (s *QueueService) ReadyOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	ready := make([]models.Order, 0)
	for _, o := range orders {
		if o.CurrentStatus == models.StatusReady {
			ready = append(ready, o)
		}
	}
	return ready, nil
}

func (s *QueueService) Stats(ctx context.Context) (QueueStats, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{ByStatus: make(map[models.OrderStatus]int, len(models.AllStatuses))}
	for _, st := range models.AllStatuses {
		stats.ByStatus[st] = 0
	}
	for _, o := range orders {
		stats.ByStatus[o.CurrentStatus]++
		if o.CurrentStatus.Active() {
			stats.ActiveOrders++
		}
	}
	stats.QueuedMinutes = QueuedMinutes(orders)
	stats.QueueDisplay = FormatMinutes(stats.QueuedMinutes)
	return stats, nil
}

// Receipt assembles the printable receipt for an order, with the
// completion estimate taken from its current place in the queue.
func (s *QueueService) Receipt(ctx context.Context, transactionID string) (models.Receipt, error) {
	orders, err := s.Store.ListOrders(ctx)
	if err != nil {
		return models.Receipt{}, err
	}
	etc := EstimateETC(orders)
	for _, o := range orders {
		if o.TransactionID != transactionID {
			continue
		}
		return models.Receipt{
			Title:               "PAINT QUEUE SYSTEM - ORDER RECEIPT",
			ShopName:            s.ShopName,
			OrderNo:             o.TransactionID,
			TrackID:             o.TrackID(),
			ClientName:          o.CustomerName,
			Contact:             o.ClientContact,
			PaintColour:         o.PaintType,
			Category:            o.Category,
			ColourCode:          o.ColourCode,
			PaintQuantity:       o.PaintQuantity,
			OrderType:           o.OrderType,
			StartTime:           o.StartTime.In(s.Location),
			EstimatedCompletion: EstimatedCompletion(o, etc[o.TransactionID], s.now()),
			SupportPhone:        s.SupportPhone,
		}, nil
	}
	return models.Receipt{}, ErrOrderNotFound
}

// LookupEmployee previews an employee code for the UI.
func (s *QueueService) LookupEmployee(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrMissingEmployee
	}
	return s.Store.LookupEmployee(ctx, code)
}

func (s *QueueService) SuggestClients(ctx context.Context, prefix string) ([]models.ClientContact, error) {
	if s.Clients == nil {
		return []models.ClientContact{}, nil
	}
	return s.Clients.Suggest(ctx, prefix, 10)
}

func (s *QueueService) notify(event string, data interface{}) {
	if s.Notifier != nil {
		s.Notifier.Notify(event, data)
	}
}

// orderLocks hands out one slot per transaction id. A slot is dropped once
// nobody holds or waits for it.
type orderLocks struct {
	mu    sync.Mutex
	slots map[string]*orderSlot
}

type orderSlot struct {
	ch   chan struct{}
	refs int
}

func (l *orderLocks) acquire(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	if l.slots == nil {
		l.slots = make(map[string]*orderSlot)
	}
	slot, ok := l.slots[id]
	if !ok {
		slot = &orderSlot{ch: make(chan struct{}, 1)}
		l.slots[id] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		return func() {
			<-slot.ch
			l.done(id, slot)
		}, nil
	case <-ctx.Done():
		l.done(id, slot)
		return nil, errors.Join(ErrUpdateCancelled, ctx.Err())
	}
}

func (l *orderLocks) done(id string, slot *orderSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, id)
	}
}

// size reports how many transaction ids currently have a slot.
func (l *orderLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
