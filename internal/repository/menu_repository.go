package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/poslight/pos-backend/internal/model"
)

// MenuRepo provides CRUD operations for menu categories and items.
type MenuRepo struct {
    db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// CreateCategory inserts a category and populates the generated ID.
// Duplicate names surface as ErrConflict.
func (r *MenuRepo) CreateCategory(ctx context.Context, c *model.MenuCategory) error {
    const q = `INSERT INTO menu_categories (name, sort_order, is_active) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.Name, c.SortOrder, c.IsActive)
    if err != nil {
        if strings.Contains(err.Error(), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// ListCategories returns categories in display order.  When activeOnly
// is set, hidden categories are skipped.
func (r *MenuRepo) ListCategories(ctx context.Context, activeOnly bool) ([]model.MenuCategory, error) {
    q := `SELECT id, name, sort_order, is_active FROM menu_categories`
    if activeOnly {
        q += ` WHERE is_active = 1`
    }
    q += ` ORDER BY sort_order, name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MenuCategory, 0)
    for rows.Next() {
        var c model.MenuCategory
        if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// UpdateCategory rewrites a category's editable fields.
func (r *MenuRepo) UpdateCategory(ctx context.Context, c *model.MenuCategory) error {
    const q = `UPDATE menu_categories SET name = ?, sort_order = ?, is_active = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.Name, c.SortOrder, c.IsActive, c.ID)
    if err != nil {
        if strings.Contains(err.Error(), "1062") {
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

// DeleteCategory removes a category.  Items still referencing it
// trigger MySQL error 1451, reported as ErrConflict.
func (r *MenuRepo) DeleteCategory(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM menu_categories WHERE id = ?`, id)
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

const menuItemCols = `id, category_id, name, description, price, is_available, station, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*model.MenuItem, error) {
    var m model.MenuItem
    var desc sql.NullString
    err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &desc, &m.Price, &m.IsAvailable, &m.Station, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if desc.Valid {
        m.Description = &desc.String
    }
    return &m, nil
}

// CreateItem inserts a menu item and populates the generated ID.
func (r *MenuRepo) CreateItem(ctx context.Context, m *model.MenuItem) error {
    const q = `INSERT INTO menu_items (category_id, name, description, price, is_available, station)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.CategoryID, m.Name, m.Description, m.Price, m.IsAvailable, m.Station)
    if err != nil {
        if strings.Contains(err.Error(), "1452") {
            return ErrValidation
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// GetItem returns a single menu item or ErrNotFound.
func (r *MenuRepo) GetItem(ctx context.Context, id uint64) (*model.MenuItem, error) {
    const q = `SELECT ` + menuItemCols + ` FROM menu_items WHERE id = ?`
    m, err := scanMenuItem(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return m, err
}

// ListItems returns menu items, optionally restricted to one category
// and/or to currently available items.
func (r *MenuRepo) ListItems(ctx context.Context, categoryID uint64, availableOnly bool) ([]model.MenuItem, error) {
    q := `SELECT ` + menuItemCols + ` FROM menu_items WHERE 1=1`
    args := make([]any, 0, 1)
    if categoryID != 0 {
        q += " AND category_id = ?"
        args = append(args, categoryID)
    }
    if availableOnly {
        q += " AND is_available = 1"
    }
    q += " ORDER BY name"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MenuItem, 0)
    for rows.Next() {
        m, err := scanMenuItem(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}

// GetItemsByIDs returns the items with the given IDs, keyed by ID.
// Order pricing reads unit prices through this so clients cannot
// submit their own.
func (r *MenuRepo) GetItemsByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error) {
    if len(ids) == 0 {
        return map[uint64]model.MenuItem{}, nil
    }
    placeholders := ""
    args := make([]any, 0, len(ids))
    for i, id := range ids {
        if i > 0 {
            placeholders += ","
        }
        placeholders += "?"
        args = append(args, id)
    }
    q := `SELECT ` + menuItemCols + ` FROM menu_items WHERE id IN (` + placeholders + `)`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]model.MenuItem, len(ids))
    for rows.Next() {
        m, err := scanMenuItem(rows)
        if err != nil {
            return nil, err
        }
        out[m.ID] = *m
    }
    return out, rows.Err()
}

// UpdateItem rewrites a menu item's editable fields.
func (r *MenuRepo) UpdateItem(ctx context.Context, m *model.MenuItem) error {
    const q = `UPDATE menu_items SET category_id = ?, name = ?, description = ?, price = ?,
               is_available = ?, station = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, m.CategoryID, m.Name, m.Description, m.Price, m.IsAvailable, m.Station, m.ID)
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

// SetItemAvailability flips just the availability flag, for the quick
// 86-an-item action.
func (r *MenuRepo) SetItemAvailability(ctx context.Context, id uint64, available bool) error {
    const q = `UPDATE menu_items SET is_available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, available, id)
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

// DeleteItem removes a menu item.  Order lines referencing it trigger
// MySQL error 1451, reported as ErrConflict.
func (r *MenuRepo) DeleteItem(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
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
