package model

import "time"

// Payment method values accepted by the billing endpoints.
const (
    PayCash   = "cash"
    PayCard   = "card"
    PayUPI    = "upi"
    PayWallet = "wallet"
)

// Payment status values as stored in `payments.payment_status`.
const (
    PaymentCompleted = "completed"
    PaymentPending   = "pending"
    PaymentFailed    = "failed"
    PaymentRefunded  = "refunded"
)

// Payment is a settlement record linked to a session, an order, or
// both, mirroring the `payments` table.  Exactly one payment with
// status completed marks a session's bill as paid.
//
// Fields:
//  ID            – primary key identifier.
//  PaymentID     – public identifier ("PAY-<ms>-<n>").
//  SessionID     – settled session, if any.
//  OrderID       – settled order, if any.
//  Amount        – amount received.
//  Method        – one of the method constants above.
//  Status        – settlement state.
//  TransactionID – external processor reference (nullable).
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Payment struct {
    ID            uint64    // payments.id
    PaymentID     string    // payments.payment_id
    SessionID     *uint64   // payments.session_id (nullable)
    OrderID       *uint64   // payments.order_id (nullable)
    Amount        float64   // payments.amount
    Method        string    // payments.payment_method
    Status        string    // payments.payment_status
    TransactionID *string   // payments.transaction_id (nullable)
    CreatedAt     time.Time // payments.created_at
    UpdatedAt     time.Time // payments.updated_at
}
