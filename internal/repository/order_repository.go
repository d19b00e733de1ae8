package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/poslight/pos-backend/internal/model"
)

// OrderRepo provides persistence for orders and their line items.
// An order and its items are always written together inside a caller
// supplied transaction so a failed line insert rolls back the whole
// order.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so callers can open the transaction
// spanning the order row and its items.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts the order row within the given transaction and
// populates the generated ID.  The caller must commit or roll back.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    const q = `INSERT INTO orders
        (order_number, session_id, table_id, user_id, status, subtotal, tax_amount, discount_amount, total_amount, notes)
        VALUES (?, ?, ?, ?, 'pending', ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        o.OrderNumber, o.SessionID, o.TableID, o.UserID,
        o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount, o.Notes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    o.Status = model.OrderPending
    return nil
}

// CreateItemsBulkTx inserts all line items in a single statement
// within the transaction.  Each item must already carry the order ID.
// An empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
    if len(items) == 0 {
        return nil
    }
    query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, total_price, notes) VALUES `
    args := make([]any, 0, len(items)*6)
    for i, it := range items {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?)"
        args = append(args, it.OrderID, it.MenuItemID, it.Quantity, it.UnitPrice, it.TotalPrice, it.Notes)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// CreateWithItems inserts the order and all of its line items in one
// transaction.  If any insert fails the whole order rolls back.
func (r *OrderRepo) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := r.CreateTx(ctx, tx, o); err != nil {
        return err
    }
    for i := range items {
        items[i].OrderID = o.ID
    }
    if err := r.CreateItemsBulkTx(ctx, tx, items); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// OrderItemDetail is a line item joined with its menu item name.
type OrderItemDetail struct {
    ID         uint64  `json:"id"`
    MenuItemID uint64  `json:"menu_item_id"`
    Name       string  `json:"name"`
    Station    string  `json:"station"`
    Quantity   int     `json:"quantity"`
    UnitPrice  float64 `json:"unit_price"`
    TotalPrice float64 `json:"total_price"`
    Notes      *string `json:"notes,omitempty"`
}

// OrderDetail is an order joined with its table number and line items.
type OrderDetail struct {
    ID             uint64            `json:"id"`
    OrderNumber    string            `json:"order_number"`
    SessionID      *uint64           `json:"session_id,omitempty"`
    TableID        uint64            `json:"table_id"`
    UserID         *uint64           `json:"user_id,omitempty"`
    Status         string            `json:"status"`
    Subtotal       float64           `json:"subtotal"`
    TaxAmount      float64           `json:"tax_amount"`
    DiscountAmount float64           `json:"discount_amount"`
    TotalAmount    float64           `json:"total_amount"`
    Notes          *string           `json:"notes,omitempty"`
    TableNumber    string            `json:"table_number"`
    TableName      string            `json:"table_name"`
    Items          []OrderItemDetail `json:"items"`
    CreatedAt      time.Time         `json:"created_at"`
    UpdatedAt      time.Time         `json:"updated_at"`
}

const orderDetailQ = `SELECT o.id, o.order_number, o.session_id, o.table_id, o.user_id, o.status,
              o.subtotal, o.tax_amount, o.discount_amount, o.total_amount, o.notes,
              o.created_at, o.updated_at, t.table_number, t.table_name
       FROM orders o
       JOIN tables t ON t.id = o.table_id`

func scanOrderDetail(row interface{ Scan(...any) error }) (*OrderDetail, error) {
    var d OrderDetail
    var sessionID, userID sql.NullInt64
    var notes sql.NullString
    err := row.Scan(&d.ID, &d.OrderNumber, &sessionID, &d.TableID, &userID, &d.Status,
        &d.Subtotal, &d.TaxAmount, &d.DiscountAmount, &d.TotalAmount, &notes,
        &d.CreatedAt, &d.UpdatedAt, &d.TableNumber, &d.TableName)
    if err != nil {
        return nil, err
    }
    if sessionID.Valid {
        v := uint64(sessionID.Int64)
        d.SessionID = &v
    }
    if userID.Valid {
        v := uint64(userID.Int64)
        d.UserID = &v
    }
    if notes.Valid {
        d.Notes = &notes.String
    }
    d.Items = []OrderItemDetail{}
    return &d, nil
}

// loadItems populates Items for every order in details, in one query.
func (r *OrderRepo) loadItems(ctx context.Context, details []OrderDetail) error {
    if len(details) == 0 {
        return nil
    }
    index := make(map[uint64]int, len(details))
    ids := make([]any, 0, len(details))
    placeholders := ""
    for i, d := range details {
        if i > 0 {
            placeholders += ","
        }
        placeholders += "?"
        ids = append(ids, d.ID)
        index[d.ID] = i
    }
    q := `SELECT oi.order_id, oi.id, oi.menu_item_id, mi.name, mi.station, oi.quantity, oi.unit_price, oi.total_price, oi.notes
          FROM order_items oi
          JOIN menu_items mi ON mi.id = oi.menu_item_id
          WHERE oi.order_id IN (` + placeholders + `)
          ORDER BY oi.order_id, oi.id`
    rows, err := r.db.QueryContext(ctx, q, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var orderID uint64
        var it OrderItemDetail
        var notes sql.NullString
        if err := rows.Scan(&orderID, &it.ID, &it.MenuItemID, &it.Name, &it.Station,
            &it.Quantity, &it.UnitPrice, &it.TotalPrice, &notes); err != nil {
            return err
        }
        if notes.Valid {
            it.Notes = &notes.String
        }
        if idx, ok := index[orderID]; ok {
            details[idx].Items = append(details[idx].Items, it)
        }
    }
    return rows.Err()
}

// GetDetail returns one order with its line items.
func (r *OrderRepo) GetDetail(ctx context.Context, id uint64) (*OrderDetail, error) {
    d, err := scanOrderDetail(r.db.QueryRowContext(ctx, orderDetailQ+` WHERE o.id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    one := []OrderDetail{*d}
    if err := r.loadItems(ctx, one); err != nil {
        return nil, err
    }
    return &one[0], nil
}

func (r *OrderRepo) listDetails(ctx context.Context, q string, args ...any) ([]OrderDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]OrderDetail, 0)
    for rows.Next() {
        d, err := scanOrderDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := r.loadItems(ctx, out); err != nil {
        return nil, err
    }
    return out, nil
}

// ListAll returns every order with items, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]OrderDetail, error) {
    return r.listDetails(ctx, orderDetailQ+` ORDER BY o.created_at DESC`)
}

// ListBySession returns a session's orders with items, newest first.
func (r *OrderRepo) ListBySession(ctx context.Context, sessionID uint64) ([]OrderDetail, error) {
    return r.listDetails(ctx, orderDetailQ+` WHERE o.session_id = ? ORDER BY o.created_at DESC`, sessionID)
}

// ListPendingByStation returns undelivered orders grouped by the prep
// station of their items, for the kitchen/bar displays.  An order
// whose items span stations appears under each station with only the
// relevant lines.
func (r *OrderRepo) ListPendingByStation(ctx context.Context) (map[string][]OrderDetail, error) {
    details, err := r.listDetails(ctx,
        orderDetailQ+` WHERE o.status IN ('pending', 'preparing') ORDER BY o.created_at ASC`)
    if err != nil {
        return nil, err
    }
    grouped := make(map[string][]OrderDetail)
    for _, d := range details {
        byStation := make(map[string][]OrderItemDetail)
        for _, it := range d.Items {
            byStation[it.Station] = append(byStation[it.Station], it)
        }
        for station, items := range byStation {
            slim := d
            slim.Items = items
            grouped[station] = append(grouped[station], slim)
        }
    }
    return grouped, nil
}

// UpdateStatus moves an order to the given status.  Served and
// cancelled orders are final; updating one reports ErrNotFound.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND status NOT IN ('served', 'cancelled')`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// OrderTotals is the per-session roll-up consumed by the bill
// projection.
type OrderTotals struct {
    Subtotal float64
    Tax      float64
    Discount float64
}

// SumBySession returns the summed subtotal, tax and discount of all
// orders attached to a session.
func (r *OrderRepo) SumBySession(ctx context.Context, sessionID uint64) (*OrderTotals, error) {
    const q = `SELECT COALESCE(SUM(subtotal), 0), COALESCE(SUM(tax_amount), 0), COALESCE(SUM(discount_amount), 0)
               FROM orders WHERE session_id = ?`
    var t OrderTotals
    err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&t.Subtotal, &t.Tax, &t.Discount)
    if err != nil {
        return nil, err
    }
    return &t, nil
}
