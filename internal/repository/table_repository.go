package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/poslight/pos-backend/internal/model"
)

// TableRepo provides CRUD operations for physical tables.  Table
// status is never written here except through UpdateStatus, which the
// session and reservation flows call; staff edits via Update leave the
// status column untouched.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableCols = `id, table_number, table_name, table_type, hourly_rate, capacity, status, plug_id, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
    var t model.Table
    var plugID sql.NullString
    err := row.Scan(&t.ID, &t.Number, &t.Name, &t.Type, &t.HourlyRate, &t.Capacity, &t.Status, &plugID, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if plugID.Valid {
        p := plugID.String
        t.PlugID = &p
    }
    return &t, nil
}

// Create inserts a table and populates the generated ID.  New tables
// always start as available.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
    const q = `INSERT INTO tables (table_number, table_name, table_type, hourly_rate, capacity, status, plug_id)
               VALUES (?, ?, ?, ?, ?, 'available', ?)`
    res, err := r.db.ExecContext(ctx, q, t.Number, t.Name, t.Type, t.HourlyRate, t.Capacity, t.PlugID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    t.Status = model.TableAvailable
    return nil
}

// GetByID returns a single table or ErrNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
    const q = `SELECT ` + tableCols + ` FROM tables WHERE id = ?`
    t, err := scanTable(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return t, err
}

// List returns all tables, optionally filtered by type and/or status.
// Results are ordered by table number for stable display.
func (r *TableRepo) List(ctx context.Context, tableType, status string) ([]model.Table, error) {
    q := `SELECT ` + tableCols + ` FROM tables WHERE 1=1`
    args := make([]any, 0, 2)
    if tableType != "" {
        q += " AND table_type = ?"
        args = append(args, tableType)
    }
    if status != "" {
        q += " AND status = ?"
        args = append(args, status)
    }
    q += " ORDER BY table_number"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Table, 0)
    for rows.Next() {
        t, err := scanTable(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *t)
    }
    return out, rows.Err()
}

// Update edits the staff-editable columns of a table.  Status is
// intentionally excluded; it belongs to the session/reservation flows.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
    const q = `UPDATE tables SET table_number = ?, table_name = ?, table_type = ?, hourly_rate = ?,
               capacity = ?, plug_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, t.Number, t.Name, t.Type, t.HourlyRate, t.Capacity, t.PlugID, t.ID)
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

// UpdateStatus sets a table's availability.  Only the session and
// reservation flows call this.
func (r *TableRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE tables SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
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

// Delete removes a table.  MySQL reports foreign key violations with
// error 1451 when sessions or reservations still reference the row;
// that case surfaces as ErrConflict so handlers answer 400 instead of
// leaking a driver error.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
    if err != nil {
        if strings.Contains(err.Error(), "1451") {
            return ErrConflict
        }
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
