package service

import (
    "context"
    "fmt"
    "log"
    "math"
    "time"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/schedule"
)

// PaymentStore is the slice of the payment repository billing needs.
type PaymentStore interface {
    Create(ctx context.Context, p *model.Payment) error
    GetDetail(ctx context.Context, id uint64) (*repository.PaymentDetail, error)
    ListCompletedBySession(ctx context.Context, sessionID uint64) ([]repository.PaymentDetail, error)
    Refund(ctx context.Context, id uint64) (*repository.PaymentDetail, error)
}

// OrderBillStore supplies a session's orders and their summed totals.
type OrderBillStore interface {
    ListBySession(ctx context.Context, sessionID uint64) ([]repository.OrderDetail, error)
    SumBySession(ctx context.Context, sessionID uint64) (*repository.OrderTotals, error)
}

// BillingService computes session bills and processes settlements.
// The session portion of a bill is taxed at SessionTaxRate; order
// lines already carry tax computed when the order was placed.
type BillingService struct {
    sessions SessionStore
    tables   TableStore
    orders   OrderBillStore
    payments PaymentStore
    publish  Publisher
    now      func() time.Time
}

// NewBillingService wires a BillingService.  publish may be nil, in
// which case no events are emitted.
func NewBillingService(sessions SessionStore, tables TableStore, orders OrderBillStore, payments PaymentStore, publish Publisher) *BillingService {
    if publish == nil {
        publish = func(context.Context, string, uint64, any) error { return nil }
    }
    return &BillingService{
        sessions: sessions,
        tables:   tables,
        orders:   orders,
        payments: payments,
        publish:  publish,
        now:      time.Now,
    }
}

// Bill is the full projection of what a session owes right now.
type Bill struct {
    Session         *repository.SessionDetail `json:"session"`
    DurationMinutes int                       `json:"duration_minutes"`
    SessionCost     float64                   `json:"session_cost"`
    SessionTax      float64                   `json:"session_tax"`
    Orders          []repository.OrderDetail  `json:"orders"`
    OrdersSubtotal  float64                   `json:"orders_subtotal"`
    OrdersTax       float64                   `json:"orders_tax"`
    Discount        float64                   `json:"discount"`
    GrandTotal      float64                   `json:"grand_total"`
    PaymentStatus   string                    `json:"payment_status"`
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }

// Bill projects the current bill for a session.  While the session is
// open, duration and cost are recomputed from elapsed time; once
// closed, the frozen values are used.  The bill is "paid" as soon as a
// completed payment row exists for the session.
func (s *BillingService) Bill(ctx context.Context, sessionID uint64) (*Bill, error) {
    detail, err := s.sessions.GetDetail(ctx, sessionID)
    if err != nil {
        return nil, err
    }

    var minutes int
    var cost float64
    if detail.EndTime == nil {
        minutes = schedule.SessionMinutes(detail.StartTime, s.now())
        cost = schedule.SessionCost(minutes, detail.HourlyRate)
    } else {
        if detail.DurationMinutes != nil {
            minutes = *detail.DurationMinutes
        }
        cost = detail.SessionCost
        if cost == 0 {
            cost = detail.Amount
        }
    }

    orders, err := s.orders.ListBySession(ctx, sessionID)
    if err != nil {
        return nil, err
    }
    totals, err := s.orders.SumBySession(ctx, sessionID)
    if err != nil {
        return nil, err
    }

    sessionTax := roundCents(cost * SessionTaxRate)
    bill := &Bill{
        Session:         detail,
        DurationMinutes: minutes,
        SessionCost:     cost,
        SessionTax:      sessionTax,
        Orders:          orders,
        OrdersSubtotal:  totals.Subtotal,
        OrdersTax:       totals.Tax,
        Discount:        totals.Discount,
        GrandTotal:      roundCents(totals.Subtotal + totals.Tax + cost + sessionTax - totals.Discount),
        PaymentStatus:   "unpaid",
    }

    paid, err := s.payments.ListCompletedBySession(ctx, sessionID)
    if err != nil {
        return nil, err
    }
    if len(paid) > 0 {
        bill.PaymentStatus = "paid"
    }
    return bill, nil
}

var validPaymentMethods = map[string]bool{
    model.PayCash:   true,
    model.PayCard:   true,
    model.PayUPI:    true,
    model.PayWallet: true,
}

// PaymentInput carries a settlement request.  Exactly one of
// SessionID or OrderID must be set.
type PaymentInput struct {
    SessionID     *uint64
    OrderID       *uint64
    Amount        float64
    Method        string
    TransactionID *string
}

// ProcessPayment records a completed payment.  Paying a session also
// finalizes it if it is still open: the cost is frozen exactly as an
// explicit end would freeze it, the table is freed and the plug
// switched off.
func (s *BillingService) ProcessPayment(ctx context.Context, in PaymentInput) (*repository.PaymentDetail, error) {
    if in.SessionID == nil && in.OrderID == nil {
        return nil, fmt.Errorf("session_id or order_id is required: %w", repository.ErrValidation)
    }
    if !validPaymentMethods[in.Method] {
        return nil, fmt.Errorf("invalid payment method %q: %w", in.Method, repository.ErrValidation)
    }
    if in.Amount <= 0 {
        return nil, fmt.Errorf("amount must be positive: %w", repository.ErrValidation)
    }

    var tableID uint64
    if in.SessionID != nil {
        detail, err := s.sessions.GetDetail(ctx, *in.SessionID)
        if err != nil {
            return nil, err
        }
        tableID = detail.TableID
        if detail.EndTime == nil {
            if err := s.finalizeSession(ctx, detail); err != nil {
                return nil, err
            }
        }
    }

    payment := &model.Payment{
        PaymentID:     newRef("PAY"),
        SessionID:     in.SessionID,
        OrderID:       in.OrderID,
        Amount:        in.Amount,
        Method:        in.Method,
        Status:        model.PaymentCompleted,
        TransactionID: in.TransactionID,
    }
    if err := s.payments.Create(ctx, payment); err != nil {
        return nil, err
    }

    detail, err := s.payments.GetDetail(ctx, payment.ID)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventPaymentProcessed, tableID, paymentEvent(detail))
    return detail, nil
}

// finalizeSession closes an open session during payment, mirroring an
// explicit end.
func (s *BillingService) finalizeSession(ctx context.Context, detail *repository.SessionDetail) error {
    end := s.now()
    minutes := schedule.SessionMinutes(detail.StartTime, end)
    cost := schedule.SessionCost(minutes, detail.HourlyRate)
    if err := s.sessions.Complete(ctx, detail.ID, end, minutes, cost); err != nil {
        // Already closed by a concurrent end; the stored values win.
        if err == repository.ErrNotFound {
            return nil
        }
        return err
    }
    if err := s.tables.UpdateStatus(ctx, detail.TableID, model.TableAvailable); err != nil {
        log.Printf("payment: table %d status update failed: %v", detail.TableID, err)
    }
    if detail.PlugID != nil {
        _ = s.publish(ctx, queue.EventPlugAutoControl, detail.TableID, queue.PlugControlEvent{
            TableID:     detail.TableID,
            TableNumber: detail.TableNumber,
            PlugID:      *detail.PlugID,
            Action:      "off",
            Reason:      "payment_completed",
        })
    }
    return nil
}

// Refund reverses a completed payment.  Pending, failed and
// already-refunded payments cannot be refunded.
func (s *BillingService) Refund(ctx context.Context, id uint64) (*repository.PaymentDetail, error) {
    detail, err := s.payments.Refund(ctx, id)
    if err != nil {
        return nil, err
    }
    var tableID uint64
    if detail.SessionID != nil {
        if sd, err := s.sessions.GetDetail(ctx, *detail.SessionID); err == nil {
            tableID = sd.TableID
        }
    }
    _ = s.publish(ctx, queue.EventPaymentRefunded, tableID, paymentEvent(detail))
    return detail, nil
}

func paymentEvent(d *repository.PaymentDetail) queue.PaymentEvent {
    return queue.PaymentEvent{
        PaymentID: d.ID,
        Reference: d.PaymentID,
        SessionID: d.SessionID,
        OrderID:   d.OrderID,
        Amount:    d.Amount,
        Method:    d.Method,
        Status:    d.Status,
    }
}
