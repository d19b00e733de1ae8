package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/poslight/pos-backend/internal/model"
)

// PaymentRepo provides persistence for settlement records.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PaymentDetail is a payment joined with its session/order context for
// history views and receipts.
type PaymentDetail struct {
    ID            uint64    `json:"id"`
    PaymentID     string    `json:"payment_id"`
    SessionID     *uint64   `json:"session_id,omitempty"`
    OrderID       *uint64   `json:"order_id,omitempty"`
    Amount        float64   `json:"amount"`
    Method        string    `json:"payment_method"`
    Status        string    `json:"payment_status"`
    TransactionID *string   `json:"transaction_id,omitempty"`
    SessionRef    *string   `json:"session_ref,omitempty"`
    CustomerName  *string   `json:"customer_name,omitempty"`
    TableNumber   *string   `json:"table_number,omitempty"`
    TableName     *string   `json:"table_name,omitempty"`
    OrderNumber   *string   `json:"order_number,omitempty"`
    CreatedAt     time.Time `json:"created_at"`
}

const paymentDetailQ = `SELECT p.id, p.payment_id, p.session_id, p.order_id, p.amount, p.payment_method,
              p.payment_status, p.transaction_id, p.created_at,
              s.session_id, s.customer_name, t.table_number, t.table_name, o.order_number
       FROM payments p
       LEFT JOIN sessions s ON s.id = p.session_id
       LEFT JOIN tables t ON t.id = s.table_id
       LEFT JOIN orders o ON o.id = p.order_id`

func scanPaymentDetail(row interface{ Scan(...any) error }) (*PaymentDetail, error) {
    var d PaymentDetail
    var sessionID, orderID sql.NullInt64
    var txID, sessionRef, custName, tblNum, tblName, orderNum sql.NullString
    err := row.Scan(&d.ID, &d.PaymentID, &sessionID, &orderID, &d.Amount, &d.Method,
        &d.Status, &txID, &d.CreatedAt,
        &sessionRef, &custName, &tblNum, &tblName, &orderNum)
    if err != nil {
        return nil, err
    }
    if sessionID.Valid {
        v := uint64(sessionID.Int64)
        d.SessionID = &v
    }
    if orderID.Valid {
        v := uint64(orderID.Int64)
        d.OrderID = &v
    }
    if txID.Valid {
        d.TransactionID = &txID.String
    }
    if sessionRef.Valid {
        d.SessionRef = &sessionRef.String
    }
    if custName.Valid {
        d.CustomerName = &custName.String
    }
    if tblNum.Valid {
        d.TableNumber = &tblNum.String
    }
    if tblName.Valid {
        d.TableName = &tblName.String
    }
    if orderNum.Valid {
        d.OrderNumber = &orderNum.String
    }
    return &d, nil
}

// Create inserts a payment and populates the generated ID.  Payments
// are written with their final status (normally completed) in a single
// statement; there is no pending-then-confirm handshake.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments (payment_id, session_id, order_id, amount, payment_method, payment_status, transaction_id)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        p.PaymentID, p.SessionID, p.OrderID, p.Amount, p.Method, p.Status, p.TransactionID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// GetDetail returns one payment with its session/order context.
func (r *PaymentRepo) GetDetail(ctx context.Context, id uint64) (*PaymentDetail, error) {
    d, err := scanPaymentDetail(r.db.QueryRowContext(ctx, paymentDetailQ+` WHERE p.id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return d, err
}

// PaymentFilter narrows List results.
type PaymentFilter struct {
    Method string
    Status string
    Date   string
    Page   int
    Limit  int
}

// List returns payments matching the filter (newest first) along with
// the unpaginated total for page calculations.
func (r *PaymentRepo) List(ctx context.Context, f PaymentFilter) ([]PaymentDetail, int, error) {
    where := ""
    args := make([]any, 0, 3)
    if f.Method != "" {
        where += " AND p.payment_method = ?"
        args = append(args, f.Method)
    }
    if f.Status != "" {
        where += " AND p.payment_status = ?"
        args = append(args, f.Status)
    }
    if f.Date != "" {
        where += " AND DATE(p.created_at) = ?"
        args = append(args, f.Date)
    }

    var total int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM payments p WHERE 1=1`+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    page := f.Page
    if page < 1 {
        page = 1
    }
    limit := f.Limit
    if limit < 1 {
        limit = 10
    }
    q := paymentDetailQ + ` WHERE 1=1` + where + ` ORDER BY p.created_at DESC LIMIT ? OFFSET ?`
    args = append(args, limit, (page-1)*limit)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]PaymentDetail, 0)
    for rows.Next() {
        d, err := scanPaymentDetail(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, *d)
    }
    return out, total, rows.Err()
}

// ListByUser returns payments tied to the user's sessions or orders.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]PaymentDetail, error) {
    const q = paymentDetailQ + ` WHERE s.user_id = ? OR o.user_id = ? ORDER BY p.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]PaymentDetail, 0)
    for rows.Next() {
        d, err := scanPaymentDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    return out, rows.Err()
}

// ListCompletedBySession returns the completed payments for a session.
// A non-empty result marks the session's bill as paid.
func (r *PaymentRepo) ListCompletedBySession(ctx context.Context, sessionID uint64) ([]PaymentDetail, error) {
    const q = paymentDetailQ + ` WHERE p.session_id = ? AND p.payment_status = 'completed' ORDER BY p.created_at`
    rows, err := r.db.QueryContext(ctx, q, sessionID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]PaymentDetail, 0)
    for rows.Next() {
        d, err := scanPaymentDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    return out, rows.Err()
}

// Refund moves a completed payment to refunded.  The update is
// conditional on the payment being completed, so double refunds and
// refunds of pending/failed payments report ErrNotFound.
func (r *PaymentRepo) Refund(ctx context.Context, id uint64) (*PaymentDetail, error) {
    d, err := r.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    if d.Status != model.PaymentCompleted {
        return nil, ErrNotFound
    }
    const q = `UPDATE payments SET payment_status = 'refunded', updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND payment_status = 'completed'`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        return nil, ErrNotFound
    }
    d.Status = model.PaymentRefunded
    return d, nil
}

// BillingStats aggregates one day of payments by method and status.
type BillingStats struct {
    TotalPayments     int      `json:"total_payments"`
    TotalRevenue      *float64 `json:"total_revenue"`
    AveragePayment    *float64 `json:"average_payment"`
    CashRevenue       float64  `json:"cash_revenue"`
    CardRevenue       float64  `json:"card_revenue"`
    UPIRevenue        float64  `json:"upi_revenue"`
    WalletRevenue     float64  `json:"wallet_revenue"`
    CompletedPayments int      `json:"completed_payments"`
    PendingPayments   int      `json:"pending_payments"`
    FailedPayments    int      `json:"failed_payments"`
    RefundedPayments  int      `json:"refunded_payments"`
}

// StatsByDate aggregates payments recorded on the given date.
func (r *PaymentRepo) StatsByDate(ctx context.Context, date string) (*BillingStats, error) {
    const q = `SELECT
            COUNT(*),
            SUM(amount),
            AVG(amount),
            COALESCE(SUM(CASE WHEN payment_method = 'cash' THEN amount ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN payment_method = 'card' THEN amount ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN payment_method = 'upi' THEN amount ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN payment_method = 'wallet' THEN amount ELSE 0 END), 0),
            SUM(CASE WHEN payment_status = 'completed' THEN 1 ELSE 0 END),
            SUM(CASE WHEN payment_status = 'pending' THEN 1 ELSE 0 END),
            SUM(CASE WHEN payment_status = 'failed' THEN 1 ELSE 0 END),
            SUM(CASE WHEN payment_status = 'refunded' THEN 1 ELSE 0 END)
        FROM payments WHERE DATE(created_at) = ?`
    var st BillingStats
    var revenue, avg sql.NullFloat64
    var completed, pending, failed, refunded sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, date).Scan(
        &st.TotalPayments, &revenue, &avg,
        &st.CashRevenue, &st.CardRevenue, &st.UPIRevenue, &st.WalletRevenue,
        &completed, &pending, &failed, &refunded)
    if err != nil {
        return nil, err
    }
    if revenue.Valid {
        st.TotalRevenue = &revenue.Float64
    }
    if avg.Valid {
        st.AveragePayment = &avg.Float64
    }
    st.CompletedPayments = int(completed.Int64)
    st.PendingPayments = int(pending.Int64)
    st.FailedPayments = int(failed.Int64)
    st.RefundedPayments = int(refunded.Int64)
    return &st, nil
}
