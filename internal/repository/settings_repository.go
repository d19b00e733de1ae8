package repository

import (
    "context"
    "database/sql"

    "github.com/poslight/pos-backend/internal/model"
)

// SettingsRepo reads and writes the single business_settings row.
type SettingsRepo struct {
    db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

const settingsCols = `id, business_name, phone, address,
        weekdays_start, weekdays_end, saturday_start, saturday_end, sunday_start, sunday_end,
        receipt_header, receipt_footer`

// Get returns the settings row.  ErrNotFound means the row was never
// seeded, which main treats as a deployment error.
func (r *SettingsRepo) Get(ctx context.Context) (*model.BusinessSettings, error) {
    const q = `SELECT ` + settingsCols + ` FROM business_settings ORDER BY id LIMIT 1`
    var s model.BusinessSettings
    err := r.db.QueryRowContext(ctx, q).Scan(
        &s.ID, &s.BusinessName, &s.Phone, &s.Address,
        &s.WeekdaysStart, &s.WeekdaysEnd, &s.SaturdayStart, &s.SaturdayEnd, &s.SundayStart, &s.SundayEnd,
        &s.ReceiptHeader, &s.ReceiptFooter)
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Update rewrites the settings row in place.
func (r *SettingsRepo) Update(ctx context.Context, s *model.BusinessSettings) error {
    const q = `UPDATE business_settings SET business_name = ?, phone = ?, address = ?,
               weekdays_start = ?, weekdays_end = ?, saturday_start = ?, saturday_end = ?,
               sunday_start = ?, sunday_end = ?, receipt_header = ?, receipt_footer = ?,
               updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        s.BusinessName, s.Phone, s.Address,
        s.WeekdaysStart, s.WeekdaysEnd, s.SaturdayStart, s.SaturdayEnd, s.SundayStart, s.SundayEnd,
        s.ReceiptHeader, s.ReceiptFooter, s.ID)
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
