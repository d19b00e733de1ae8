// Package queue defines the domain events published to the message
// broker and the background consumer that drives the smart plugs.
// Events flow through the fanout exchange "pos.events" with a
// "table.<id>" routing key so point consumers can tell which table a
// message concerns without parsing the body.
package queue

// Event names carried in the envelope.  Front-of-house displays and
// the plug controller switch on these.
const (
    EventSessionStarted  = "session_started"
    EventSessionEnded    = "session_ended"
    EventSessionPaused   = "session_paused"
    EventSessionResumed  = "session_resumed"
    EventSessionExtended = "session_extended"

    EventNewReservation           = "new_reservation"
    EventReservationStatusUpdated = "reservation_status_updated"
    EventReservationCancelled     = "reservation_cancelled"

    EventNewOrder           = "new_order"
    EventOrderStatusUpdated = "order_status_updated"

    EventPaymentProcessed = "payment_processed"
    EventPaymentRefunded  = "payment_refunded"

    EventPlugAutoControl = "plug_auto_control"
)

// Envelope wraps every published event with its name and emit time so
// consumers can dispatch before decoding the payload.
type Envelope struct {
    Event     string `json:"event"`
    Timestamp string `json:"timestamp"`
    Data      any    `json:"data"`
}

// SessionEvent is the payload for the session_* events.
type SessionEvent struct {
    SessionID    uint64   `json:"session_id"`
    SessionRef   string   `json:"session_ref"`
    TableID      uint64   `json:"table_id"`
    TableNumber  string   `json:"table_number"`
    CustomerName string   `json:"customer_name"`
    Status       string   `json:"status"`
    Amount       *float64 `json:"amount,omitempty"`
    Minutes      *int     `json:"duration_minutes,omitempty"`
}

// ReservationEvent is the payload for the reservation events.
type ReservationEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    Reference     string `json:"reference"`
    TableID       uint64 `json:"table_id"`
    TableNumber   string `json:"table_number"`
    CustomerName  string `json:"customer_name"`
    Date          string `json:"reservation_date"`
    Time          string `json:"reservation_time"`
    Status        string `json:"status"`
}

// OrderEvent is the payload for the order events.
type OrderEvent struct {
    OrderID     uint64  `json:"order_id"`
    OrderNumber string  `json:"order_number"`
    TableID     uint64  `json:"table_id"`
    TableNumber string  `json:"table_number"`
    Status      string  `json:"status"`
    TotalAmount float64 `json:"total_amount"`
}

// PaymentEvent is the payload for the payment events.
type PaymentEvent struct {
    PaymentID uint64  `json:"payment_id"`
    Reference string  `json:"payment_ref"`
    SessionID *uint64 `json:"session_id,omitempty"`
    OrderID   *uint64 `json:"order_id,omitempty"`
    Amount    float64 `json:"amount"`
    Method    string  `json:"payment_method"`
    Status    string  `json:"payment_status"`
}

// PlugControlEvent tells the plug controller to power a table's
// socket.  Action is "on" or "off"; Reason names the session
// transition that triggered it.
type PlugControlEvent struct {
    TableID     uint64 `json:"table_id"`
    TableNumber string `json:"table_number"`
    PlugID      string `json:"plug_id"`
    Action      string `json:"action"`
    Reason      string `json:"reason"`
}
