package service

import (
    "context"
    "time"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
)

// Mock stores: structs with function fields so each test wires only
// the calls it expects.  Unset functions report not-found/zero values.

type mockSessionStore struct {
    createFn         func(ctx context.Context, s *model.Session) error
    getDetailFn      func(ctx context.Context, id uint64) (*repository.SessionDetail, error)
    getOpenFn        func(ctx context.Context, id uint64) (*repository.SessionDetail, error)
    getOpenByTableFn func(ctx context.Context, tableID uint64) (*repository.SessionDetail, error)
    completeFn       func(ctx context.Context, id uint64, endTime time.Time, durationMinutes int, cost float64) error
    transitionFn     func(ctx context.Context, id uint64, from []string, to string) error
    transferFn       func(ctx context.Context, id uint64, userID *uint64, customerName, customerPhone *string) error
    touchFn          func(ctx context.Context, id uint64) error
    deleteFn         func(ctx context.Context, id uint64) error
}

func (m *mockSessionStore) Create(ctx context.Context, s *model.Session) error {
    if m.createFn == nil {
        return nil
    }
    return m.createFn(ctx, s)
}

func (m *mockSessionStore) GetDetail(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
    if m.getDetailFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getDetailFn(ctx, id)
}

func (m *mockSessionStore) GetOpen(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
    if m.getOpenFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getOpenFn(ctx, id)
}

func (m *mockSessionStore) GetOpenByTable(ctx context.Context, tableID uint64) (*repository.SessionDetail, error) {
    if m.getOpenByTableFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getOpenByTableFn(ctx, tableID)
}

func (m *mockSessionStore) Complete(ctx context.Context, id uint64, endTime time.Time, durationMinutes int, cost float64) error {
    if m.completeFn == nil {
        return nil
    }
    return m.completeFn(ctx, id, endTime, durationMinutes, cost)
}

func (m *mockSessionStore) Transition(ctx context.Context, id uint64, from []string, to string) error {
    if m.transitionFn == nil {
        return nil
    }
    return m.transitionFn(ctx, id, from, to)
}

func (m *mockSessionStore) Transfer(ctx context.Context, id uint64, userID *uint64, customerName, customerPhone *string) error {
    if m.transferFn == nil {
        return nil
    }
    return m.transferFn(ctx, id, userID, customerName, customerPhone)
}

func (m *mockSessionStore) Touch(ctx context.Context, id uint64) error {
    if m.touchFn == nil {
        return nil
    }
    return m.touchFn(ctx, id)
}

func (m *mockSessionStore) Delete(ctx context.Context, id uint64) error {
    if m.deleteFn == nil {
        return nil
    }
    return m.deleteFn(ctx, id)
}

type mockTableStore struct {
    getByIDFn      func(ctx context.Context, id uint64) (*model.Table, error)
    updateStatusFn func(ctx context.Context, id uint64, status string) error
    statuses       map[uint64]string
}

func (m *mockTableStore) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
    if m.getByIDFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getByIDFn(ctx, id)
}

func (m *mockTableStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
    if m.statuses != nil {
        m.statuses[id] = status
    }
    if m.updateStatusFn == nil {
        return nil
    }
    return m.updateStatusFn(ctx, id, status)
}

type mockReservationStore struct {
    createFn        func(ctx context.Context, res *model.Reservation) error
    getDetailFn     func(ctx context.Context, id uint64) (*repository.ReservationDetail, error)
    hasConflictFn   func(ctx context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error)
    updateFn        func(ctx context.Context, res *model.Reservation) error
    updateStatusFn  func(ctx context.Context, id uint64, status string) error
    deleteFn        func(ctx context.Context, id uint64) error
    listSlotDayFn   func(ctx context.Context, tableID uint64, date string) ([]repository.SlotReservation, error)
}

func (m *mockReservationStore) Create(ctx context.Context, res *model.Reservation) error {
    if m.createFn == nil {
        return nil
    }
    return m.createFn(ctx, res)
}

func (m *mockReservationStore) GetDetail(ctx context.Context, id uint64) (*repository.ReservationDetail, error) {
    if m.getDetailFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getDetailFn(ctx, id)
}

func (m *mockReservationStore) HasConflict(ctx context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
    if m.hasConflictFn == nil {
        return false, nil
    }
    return m.hasConflictFn(ctx, tableID, date, timeOfDay, excludeID)
}

func (m *mockReservationStore) Update(ctx context.Context, res *model.Reservation) error {
    if m.updateFn == nil {
        return nil
    }
    return m.updateFn(ctx, res)
}

func (m *mockReservationStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
    if m.updateStatusFn == nil {
        return nil
    }
    return m.updateStatusFn(ctx, id, status)
}

func (m *mockReservationStore) Delete(ctx context.Context, id uint64) error {
    if m.deleteFn == nil {
        return nil
    }
    return m.deleteFn(ctx, id)
}

func (m *mockReservationStore) ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]repository.SlotReservation, error) {
    if m.listSlotDayFn == nil {
        return nil, nil
    }
    return m.listSlotDayFn(ctx, tableID, date)
}

type mockSessionSlotStore struct {
    listSlotDayFn func(ctx context.Context, tableID uint64, date string) ([]repository.SlotSession, error)
}

func (m *mockSessionSlotStore) ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]repository.SlotSession, error) {
    if m.listSlotDayFn == nil {
        return nil, nil
    }
    return m.listSlotDayFn(ctx, tableID, date)
}

type mockSettingsStore struct {
    settings *model.BusinessSettings
}

func (m *mockSettingsStore) Get(ctx context.Context) (*model.BusinessSettings, error) {
    if m.settings == nil {
        return nil, repository.ErrNotFound
    }
    return m.settings, nil
}

type mockPaymentStore struct {
    createFn    func(ctx context.Context, p *model.Payment) error
    getDetailFn func(ctx context.Context, id uint64) (*repository.PaymentDetail, error)
    completedFn func(ctx context.Context, sessionID uint64) ([]repository.PaymentDetail, error)
    refundFn    func(ctx context.Context, id uint64) (*repository.PaymentDetail, error)
}

func (m *mockPaymentStore) Create(ctx context.Context, p *model.Payment) error {
    if m.createFn == nil {
        return nil
    }
    return m.createFn(ctx, p)
}

func (m *mockPaymentStore) GetDetail(ctx context.Context, id uint64) (*repository.PaymentDetail, error) {
    if m.getDetailFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getDetailFn(ctx, id)
}

func (m *mockPaymentStore) ListCompletedBySession(ctx context.Context, sessionID uint64) ([]repository.PaymentDetail, error) {
    if m.completedFn == nil {
        return nil, nil
    }
    return m.completedFn(ctx, sessionID)
}

func (m *mockPaymentStore) Refund(ctx context.Context, id uint64) (*repository.PaymentDetail, error) {
    if m.refundFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.refundFn(ctx, id)
}

type mockOrderBillStore struct {
    listBySessionFn func(ctx context.Context, sessionID uint64) ([]repository.OrderDetail, error)
    sumBySessionFn  func(ctx context.Context, sessionID uint64) (*repository.OrderTotals, error)
}

func (m *mockOrderBillStore) ListBySession(ctx context.Context, sessionID uint64) ([]repository.OrderDetail, error) {
    if m.listBySessionFn == nil {
        return nil, nil
    }
    return m.listBySessionFn(ctx, sessionID)
}

func (m *mockOrderBillStore) SumBySession(ctx context.Context, sessionID uint64) (*repository.OrderTotals, error) {
    if m.sumBySessionFn == nil {
        return &repository.OrderTotals{}, nil
    }
    return m.sumBySessionFn(ctx, sessionID)
}

type mockOrderStore struct {
    createFn       func(ctx context.Context, o *model.Order, items []model.OrderItem) error
    getDetailFn    func(ctx context.Context, id uint64) (*repository.OrderDetail, error)
    updateStatusFn func(ctx context.Context, id uint64, status string) error
}

func (m *mockOrderStore) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
    if m.createFn == nil {
        return nil
    }
    return m.createFn(ctx, o, items)
}

func (m *mockOrderStore) GetDetail(ctx context.Context, id uint64) (*repository.OrderDetail, error) {
    if m.getDetailFn == nil {
        return nil, repository.ErrNotFound
    }
    return m.getDetailFn(ctx, id)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
    if m.updateStatusFn == nil {
        return nil
    }
    return m.updateStatusFn(ctx, id, status)
}

type mockMenuStore struct {
    items map[uint64]model.MenuItem
}

func (m *mockMenuStore) GetItemsByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error) {
    out := make(map[uint64]model.MenuItem)
    for _, id := range ids {
        if it, ok := m.items[id]; ok {
            out[id] = it
        }
    }
    return out, nil
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
    events []recordedEvent
}

type recordedEvent struct {
    Name    string
    TableID uint64
    Data    any
}

func (r *eventRecorder) publish(_ context.Context, event string, tableID uint64, data any) error {
    r.events = append(r.events, recordedEvent{Name: event, TableID: tableID, Data: data})
    return nil
}

func (r *eventRecorder) names() []string {
    out := make([]string, 0, len(r.events))
    for _, e := range r.events {
        out = append(out, e.Name)
    }
    return out
}
