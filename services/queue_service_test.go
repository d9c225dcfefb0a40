package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/paint-queue/models"
)

// memStore is an in-memory OrderStore.
type memStore struct {
	mu        sync.Mutex
	orders    []models.Order
	employees map[string]string
	dup       bool
	dupErr    error
	listErr   error
	updates   []models.StatusPatch
	// block, when set, holds UpdateOrder until closed.
	block chan struct{}
}

func newMemStore(orders ...models.Order) *memStore {
	return &memStore{
		orders:    orders,
		employees: map[string]string{"EMP001": "Thabo Nkosi", "EMP002": "Lerato Dlamini"},
	}
}

func (m *memStore) ListOrders(context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Order(nil), m.orders...), nil
}

func (m *memStore) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	all, err := m.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Order
	for _, o := range all {
		if o.CurrentStatus.Active() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) CreateOrder(_ context.Context, n models.NewOrder) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.TransactionID == n.TransactionID {
			return models.Order{}, ErrTransactionIDTaken
		}
	}
	o := n.ToOrder()
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memStore) UpdateOrder(_ context.Context, id string, patch models.StatusPatch) (models.Order, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, patch)
	for i, o := range m.orders {
		if o.TransactionID != id {
			continue
		}
		o.CurrentStatus = patch.CurrentStatus
		if patch.AssignedEmployee != nil {
			o.AssignedEmployee = *patch.AssignedEmployee
		}
		if patch.ColourCode != nil {
			o.ColourCode = *patch.ColourCode
		}
		m.orders[i] = o
		return o, nil
	}
	return models.Order{}, ErrOrderNotFound
}

func (m *memStore) LookupEmployee(_ context.Context, code string) (string, error) {
	name, ok := m.employees[code]
	if !ok {
		return "", ErrEmployeeNotFound
	}
	return name, nil
}

func (m *memStore) CheckDuplicate(context.Context, DuplicateQuery) (bool, error) {
	return m.dup, m.dupErr
}

func (m *memStore) patchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type memClients struct {
	saved map[string]string
}

func (c *memClients) Remember(_ context.Context, name, contact string) error {
	c.saved[name] = contact
	return nil
}

func (c *memClients) Suggest(_ context.Context, prefix string, _ int) ([]models.ClientContact, error) {
	var out []models.ClientContact
	for name, contact := range c.saved {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			out = append(out, models.ClientContact{CustomerName: name, ClientContact: contact})
		}
	}
	return out, nil
}

var fixedNow = time.Date(2025, 1, 28, 9, 0, 0, 0, time.UTC)

func newTestQueue(store *memStore) (*QueueService, *recordingNotifier, *memClients) {
	notifier := &recordingNotifier{}
	clients := &memClients{saved: map[string]string{}}
	q := NewQueueService(store, clients, notifier, quietLogger())
	q.Location = time.UTC
	q.Now = func() time.Time { return fixedNow }
	q.SupportPhone = "083 579 6982"
	return q, notifier, clients
}

func validForm() OrderForm {
	return OrderForm{
		CustomerName:  " Jane ",
		ClientContact: "0821234567",
		PaintType:     "Signal Red",
		Category:      models.CategoryNewMix,
		PaintQuantity: "5L",
	}
}

func TestOrderFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(f *OrderForm)
		field string
	}{
		{"ok", func(f *OrderForm) {}, ""},
		{"missing name", func(f *OrderForm) { f.CustomerName = "  " }, "customer_name"},
		{"short contact", func(f *OrderForm) { f.ClientContact = "082123" }, "client_contact"},
		{"letters in contact", func(f *OrderForm) { f.ClientContact = "08212345ab" }, "client_contact"},
		{"empty paint", func(f *OrderForm) { f.PaintType = "" }, "paint_type"},
		{"bad category", func(f *OrderForm) { f.Category = "Touch Up" }, "category"},
		{"bad quantity", func(f *OrderForm) { f.PaintQuantity = "3L" }, "paint_quantity"},
		{"bad order type", func(f *OrderForm) { f.OrderType = "Courier" }, "order_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			err := f.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "Jane", f.CustomerName)
				assert.Equal(t, models.OrderTypeWalkIn, f.OrderType)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestInitialColourCode(t *testing.T) {
	f := OrderForm{Category: models.CategoryNewMix, ColourCode: "VW-1"}
	assert.Equal(t, models.ColourCodePending, f.InitialColourCode())
	f = OrderForm{Category: models.CategoryReorderMix, ColourCode: "VW-1"}
	assert.Equal(t, "VW-1", f.InitialColourCode())
	f = OrderForm{Category: models.CategoryColourCode}
	assert.Equal(t, models.ColourCodeNA, f.InitialColourCode())
}

func TestCreateOrder(t *testing.T) {
	store := newMemStore(models.Order{TransactionID: "28012025-0007", Category: models.CategoryReorderMix, CurrentStatus: models.StatusWaiting})
	q, notifier, clients := newTestQueue(store)

	created, err := q.CreateOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "28012025-0008", created.TransactionID)
	assert.Equal(t, models.StatusWaiting, created.CurrentStatus)
	assert.Equal(t, models.ColourCodePending, created.ColourCode)
	assert.Equal(t, models.Unassigned, created.AssignedEmployee)
	assert.Equal(t, fixedNow, created.StartTime)
	assert.Equal(t, "0821234567", clients.saved["Jane"])
	assert.Equal(t, []string{EventOrderCreated}, notifier.Events())

	form := validForm()
	form.Sequence = "0008"
	_, err = q.CreateOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrTransactionIDTaken)

	form.Sequence = "8"
	_, err = q.CreateOrder(context.Background(), form)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreateOrderDuplicateCheck(t *testing.T) {
	store := newMemStore()
	store.dup = true
	q, _, _ := newTestQueue(store)
	_, err := q.CreateOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrDuplicateOrder)

	// A failing check is advisory only.
	store.dup = false
	store.dupErr = storeUnavailable(errors.New("timeout"))
	created, err := q.CreateOrder(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, "28012025-0001", created.TransactionID)
}

func TestBoard(t *testing.T) {
	store := newMemStore(
		models.Order{TransactionID: "A", Category: models.CategoryNewMix, CurrentStatus: models.StatusMixing},
		models.Order{TransactionID: "B", Category: models.CategoryReorderMix, CurrentStatus: models.StatusReady},
		models.Order{TransactionID: "C", Category: models.CategoryColourCode, CurrentStatus: models.StatusWaiting},
	)
	q, _, _ := newTestQueue(store)

	board, err := q.Board(context.Background(), models.RoleUser)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "A", board[0].TransactionID)
	assert.Equal(t, 0, board[0].ETCMinutes)
	assert.Equal(t, "C", board[1].TransactionID)
	assert.Equal(t, 120, board[1].ETCMinutes)
	assert.Equal(t, "2h", board[1].ETCDisplay)
	assert.Equal(t, fixedNow.Add(180*time.Minute), board[1].EstimatedCompletion)
	assert.Equal(t, []models.OrderStatus{models.StatusMixing}, board[1].AllowedTransitions)

	all, err := q.Orders(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []models.OrderStatus{models.StatusComplete}, all[1].AllowedTransitions)

	store.listErr = storeUnavailable(errors.New("down"))
	_, err = q.Board(context.Background(), models.RoleUser)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestUpdateStatus(t *testing.T) {
	store := newMemStore(models.Order{
		TransactionID:    "28012025-0001",
		Category:         models.CategoryNewMix,
		CurrentStatus:    models.StatusWaiting,
		ColourCode:       models.ColourCodePending,
		AssignedEmployee: models.Unassigned,
	})
	q, notifier, _ := newTestQueue(store)
	ctx := context.Background()
	id := "28012025-0001"

	_, err := q.UpdateStatus(ctx, id, TransitionRequest{Target: models.StatusMixing, Role: models.RoleUser, EmployeeCode: "EMP404"})
	assert.ErrorIs(t, err, ErrUnresolvedEmployee)
	assert.Zero(t, store.patchCount())

	steps := []TransitionRequest{
		{Target: models.StatusMixing, Role: models.RoleUser, EmployeeCode: "EMP001"},
		{Target: models.StatusSpraying, Role: models.RoleUser, EmployeeCode: "EMP002"},
		{Target: models.StatusReady, Role: models.RoleUser, ColourCode: "VW-1234"},
	}
	for _, step := range steps {
		_, err := q.UpdateStatus(ctx, id, step)
		require.NoError(t, err, "target=%s", step.Target)
	}

	_, err = q.UpdateStatus(ctx, id, TransitionRequest{Target: models.StatusComplete, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 3, store.patchCount())

	done, err := q.UpdateStatus(ctx, id, TransitionRequest{Target: models.StatusComplete, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, done.CurrentStatus)
	assert.Equal(t, "Lerato Dlamini", done.AssignedEmployee)
	assert.Equal(t, "VW-1234", done.ColourCode)
	assert.Equal(t, models.RoleAdmin, store.updates[3].Role)
	assert.Len(t, notifier.Events(), 4)

	_, err = q.UpdateStatus(ctx, "nope", TransitionRequest{Target: models.StatusMixing, EmployeeCode: "EMP001"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusSerialisedPerOrder(t *testing.T) {
	store := newMemStore(models.Order{TransactionID: "X", Category: models.CategoryNewMix, CurrentStatus: models.StatusWaiting})
	store.block = make(chan struct{})
	q, _, _ := newTestQueue(store)

	first := make(chan error, 1)
	go func() {
		_, err := q.UpdateStatus(context.Background(), "X", TransitionRequest{Target: models.StatusMixing, EmployeeCode: "EMP001"})
		first <- err
	}()

	// Wait until the first update holds the slot.
	require.Eventually(t, func() bool {
		q.locks.mu.Lock()
		defer q.locks.mu.Unlock()
		slot, ok := q.locks.slots["X"]
		return ok && len(slot.ch) == 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := q.UpdateStatus(ctx, "X", TransitionRequest{Target: models.StatusMixing, EmployeeCode: "EMP002"})
	assert.ErrorIs(t, err, ErrUpdateCancelled)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(store.block)
	require.NoError(t, <-first)

	// The second attempt now sees Mixing and is rejected as a repeat.
	_, err = q.UpdateStatus(context.Background(), "X", TransitionRequest{Target: models.StatusMixing, EmployeeCode: "EMP002"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1, store.patchCount())
	assert.Zero(t, q.locks.size())
}

func TestOrderLocksDropIdleSlots(t *testing.T) {
	var locks orderLocks

	for i := 0; i < 100; i++ {
		release, err := locks.acquire(context.Background(), GenerateTransactionID(fixedNow, i+1))
		require.NoError(t, err)
		release()
	}
	assert.Zero(t, locks.size())

	release, err := locks.acquire(context.Background(), "A")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "A")
	assert.ErrorIs(t, err, ErrUpdateCancelled)
	assert.Equal(t, 1, locks.size(), "holder keeps the slot after a waiter gives up")

	release()
	assert.Zero(t, locks.size())
}

func TestTransitions(t *testing.T) {
	store := newMemStore(models.Order{TransactionID: "A", Category: models.CategoryNewMix, CurrentStatus: models.StatusSpraying, ColourCode: models.ColourCodePending})
	q, _, _ := newTestQueue(store)

	reqs, err := q.Transitions(context.Background(), "A", models.RoleUser)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, models.StatusReMixing, reqs[0].Target)
	assert.True(t, reqs[0].NeedsEmployee)
	assert.Equal(t, models.StatusReady, reqs[1].Target)
	assert.True(t, reqs[1].NeedsColour)
}

func TestReadyOrdersAndStats(t *testing.T) {
	store := newMemStore(
		models.Order{TransactionID: "A", Category: models.CategoryNewMix, CurrentStatus: models.StatusWaiting},
		models.Order{TransactionID: "B", Category: models.CategoryColourCode, CurrentStatus: models.StatusReady},
		models.Order{TransactionID: "C", Category: models.CategoryReorderMix, CurrentStatus: models.StatusSpraying},
		models.Order{TransactionID: "D", Category: models.CategoryReorderMix, CurrentStatus: models.StatusComplete},
	)
	q, _, _ := newTestQueue(store)

	ready, err := q.ReadyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "B", ready[0].TransactionID)

	stats, err := q.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveOrders)
	assert.Equal(t, 150, stats.QueuedMinutes)
	assert.Equal(t, "2h 30m", stats.QueueDisplay)
	assert.Equal(t, 1, stats.ByStatus[models.StatusReady])
	assert.Equal(t, 0, stats.ByStatus[models.StatusReMixing])
}

func TestReceipt(t *testing.T) {
	store := newMemStore(
		models.Order{TransactionID: "28012025-0001", Category: models.CategoryNewMix, CurrentStatus: models.StatusMixing},
		models.Order{TransactionID: "28012025-0002", CustomerName: "Jane", ClientContact: "0821234567", PaintType: "Signal Red",
			Category: models.CategoryReorderMix, CurrentStatus: models.StatusWaiting, StartTime: fixedNow},
	)
	q, _, _ := newTestQueue(store)

	r, err := q.Receipt(context.Background(), "28012025-0002")
	require.NoError(t, err)
	assert.Equal(t, "PAINT QUEUE SYSTEM - ORDER RECEIPT", r.Title)
	assert.Equal(t, "TRK-28012025-0002", r.TrackID)
	assert.Equal(t, "Signal Red", r.PaintColour)
	assert.Equal(t, fixedNow.Add(150*time.Minute), r.EstimatedCompletion)
	assert.Equal(t, "083 579 6982", r.SupportPhone)

	_, err = q.Receipt(context.Background(), "28012025-0404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestLookupEmployeeAndSuggest(t *testing.T) {
	q, _, clients := newTestQueue(newMemStore())
	name, err := q.LookupEmployee(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Thabo Nkosi", name)

	_, err = q.LookupEmployee(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingEmployee)

	clients.saved["Jane"] = "0821234567"
	clients.saved["Bob"] = "0831234567"
	got, err := q.SuggestClients(context.Background(), "Ja")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0821234567", got[0].ClientContact)
}

func TestQueueMonitorBroadcastsOnChange(t *testing.T) {
	store := newMemStore(models.Order{TransactionID: "A", Category: models.CategoryNewMix, CurrentStatus: models.StatusWaiting})
	q, notifier, _ := newTestQueue(store)
	m := NewQueueMonitor(q)

	assert.True(t, m.CheckQueue())
	assert.False(t, m.CheckQueue())

	_, err := q.UpdateStatus(context.Background(), "A", TransitionRequest{Target: models.StatusMixing, EmployeeCode: "EMP001"})
	require.NoError(t, err)
	assert.True(t, m.CheckQueue())
	assert.Equal(t, []string{EventBoardUpdate, EventOrderUpdate, EventBoardUpdate}, notifier.Events())

	store.listErr = errors.New("down")
	assert.False(t, m.CheckQueue())
}
