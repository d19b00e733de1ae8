package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/poslight/pos-backend/internal/model"
)

// ReservationRepo provides CRUD operations for table reservations.
// Dates and times are selected through DATE_FORMAT/TIME_FORMAT so the
// application always sees canonical "2006-01-02" and "15:04" strings,
// which is what the conflict rules compare.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail is a reservation joined with its table metadata
// and the booking user's name, as returned to clients.
type ReservationDetail struct {
    ID              uint64    `json:"id"`
    ReservationID   string    `json:"reservation_id"`
    TableID         uint64    `json:"table_id"`
    UserID          *uint64   `json:"user_id,omitempty"`
    CustomerName    string    `json:"customer_name"`
    CustomerPhone   string    `json:"customer_phone"`
    CustomerEmail   *string   `json:"customer_email,omitempty"`
    Date            string    `json:"reservation_date"`
    Time            string    `json:"reservation_time"`
    DurationHours   int       `json:"duration_hours"`
    PartySize       int       `json:"party_size"`
    SpecialRequests *string   `json:"special_requests,omitempty"`
    Status          string    `json:"status"`
    TableNumber     string    `json:"table_number"`
    TableName       string    `json:"table_name"`
    TableType       string    `json:"table_type"`
    UserName        *string   `json:"user_name,omitempty"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}

const reservationDetailQ = `SELECT r.id, r.reservation_id, r.table_id, r.user_id, r.customer_name, r.customer_phone,
              r.customer_email, DATE_FORMAT(r.reservation_date, '%Y-%m-%d'), TIME_FORMAT(r.reservation_time, '%H:%i'),
              r.duration_hours, r.party_size, r.special_requests, r.status, r.created_at, r.updated_at,
              t.table_number, t.table_name, t.table_type, u.name
       FROM reservations r
       JOIN tables t ON t.id = r.table_id
       LEFT JOIN users u ON u.id = r.user_id`

func scanReservationDetail(row interface{ Scan(...any) error }) (*ReservationDetail, error) {
    var d ReservationDetail
    var userID sql.NullInt64
    var email, requests, userName sql.NullString
    err := row.Scan(&d.ID, &d.ReservationID, &d.TableID, &userID, &d.CustomerName, &d.CustomerPhone,
        &email, &d.Date, &d.Time,
        &d.DurationHours, &d.PartySize, &requests, &d.Status, &d.CreatedAt, &d.UpdatedAt,
        &d.TableNumber, &d.TableName, &d.TableType, &userName)
    if err != nil {
        return nil, err
    }
    if userID.Valid {
        v := uint64(userID.Int64)
        d.UserID = &v
    }
    if email.Valid {
        d.CustomerEmail = &email.String
    }
    if requests.Valid {
        d.SpecialRequests = &requests.String
    }
    if userName.Valid {
        d.UserName = &userName.String
    }
    return &d, nil
}

// Create inserts a reservation and populates the generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations
        (reservation_id, table_id, user_id, customer_name, customer_phone, customer_email,
         reservation_date, reservation_time, duration_hours, party_size, special_requests, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'confirmed')`
    result, err := r.db.ExecContext(ctx, q,
        res.ReservationID, res.TableID, res.UserID, res.CustomerName, res.CustomerPhone, res.CustomerEmail,
        res.Date, res.Time, res.DurationHours, res.PartySize, res.SpecialRequests)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    res.Status = model.ReservationConfirmed
    return nil
}

// GetDetail returns one reservation with table and user metadata.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
    d, err := scanReservationDetail(r.db.QueryRowContext(ctx, reservationDetailQ+` WHERE r.id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return d, err
}

// ReservationFilter narrows List results.  Zero values mean "no
// filter"; Page/Limit paginate with sane defaults applied by List.
type ReservationFilter struct {
    Status    string
    Date      string
    TableType string
    Page      int
    Limit     int
}

// List returns reservations matching the filter, most recent booking
// window first.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]ReservationDetail, error) {
    q := reservationDetailQ + ` WHERE 1=1`
    args := make([]any, 0, 5)
    if f.Status != "" {
        q += " AND r.status = ?"
        args = append(args, f.Status)
    }
    if f.Date != "" {
        q += " AND r.reservation_date = ?"
        args = append(args, f.Date)
    }
    if f.TableType != "" {
        q += " AND t.table_type = ?"
        args = append(args, f.TableType)
    }
    q += " ORDER BY r.reservation_date DESC, r.reservation_time DESC LIMIT ? OFFSET ?"
    page := f.Page
    if page < 1 {
        page = 1
    }
    limit := f.Limit
    if limit < 1 {
        limit = 10
    }
    args = append(args, limit, (page-1)*limit)
    return r.listDetails(ctx, q, args...)
}

// ListByUser returns the given user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    const q = reservationDetailQ + ` WHERE r.user_id = ? ORDER BY r.reservation_date DESC, r.reservation_time DESC`
    return r.listDetails(ctx, q, userID)
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ReservationDetail, 0)
    for rows.Next() {
        d, err := scanReservationDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    return out, rows.Err()
}

// HasConflict reports whether another reservation holds the exact same
// table, date and start time with a slot-blocking status (confirmed or
// arrived).  This is deliberately an exact-time check, not an interval
// overlap: interval arithmetic only applies in slot generation.
// excludeID skips the reservation being edited; pass 0 on create.
func (r *ReservationRepo) HasConflict(ctx context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
    q := `SELECT COUNT(*) FROM reservations
          WHERE table_id = ? AND reservation_date = ? AND reservation_time = ?
          AND status IN ('confirmed', 'arrived')`
    args := []any{tableID, date, timeOfDay}
    if excludeID != 0 {
        q += " AND id != ?"
        args = append(args, excludeID)
    }
    var n int
    if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// Update rewrites the editable fields of a reservation.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
    const q = `UPDATE reservations SET table_id = ?, customer_name = ?, customer_phone = ?,
               customer_email = ?, reservation_date = ?, reservation_time = ?, duration_hours = ?,
               party_size = ?, special_requests = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q,
        res.TableID, res.CustomerName, res.CustomerPhone, res.CustomerEmail,
        res.Date, res.Time, res.DurationHours, res.PartySize, res.SpecialRequests, res.ID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// UpdateStatus moves a reservation to the given status.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// Delete removes a reservation row.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// ReservationStats aggregates one day of bookings.
type ReservationStats struct {
    TotalReservations     int      `json:"total_reservations"`
    ConfirmedReservations int      `json:"confirmed_reservations"`
    ArrivedReservations   int      `json:"arrived_reservations"`
    CancelledReservations int      `json:"cancelled_reservations"`
    NoShowReservations    int      `json:"no_show_reservations"`
    AvgPartySize          *float64 `json:"average_party_size"`
}

// StatsByDate aggregates reservations for the given date.
func (r *ReservationRepo) StatsByDate(ctx context.Context, date string) (*ReservationStats, error) {
    const q = `SELECT
            COUNT(*),
            SUM(CASE WHEN status = 'confirmed' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'arrived' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'no_show' THEN 1 ELSE 0 END),
            AVG(party_size)
        FROM reservations WHERE reservation_date = ?`
    var st ReservationStats
    var confirmed, arrived, cancelled, noShow sql.NullInt64
    var avgParty sql.NullFloat64
    err := r.db.QueryRowContext(ctx, q, date).Scan(
        &st.TotalReservations, &confirmed, &arrived, &cancelled, &noShow, &avgParty)
    if err != nil {
        return nil, err
    }
    st.ConfirmedReservations = int(confirmed.Int64)
    st.ArrivedReservations = int(arrived.Int64)
    st.CancelledReservations = int(cancelled.Int64)
    st.NoShowReservations = int(noShow.Int64)
    if avgParty.Valid {
        st.AvgPartySize = &avgParty.Float64
    }
    return &st, nil
}

// SlotReservation is the fragment of a reservation needed by slot
// generation: start time as "HH:MM" plus the booked duration.
type SlotReservation struct {
    Time          string
    DurationHours int
}

// ListForSlotDay returns the slot-blocking (confirmed or arrived)
// reservations for a table on the given date.
func (r *ReservationRepo) ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]SlotReservation, error) {
    const q = `SELECT TIME_FORMAT(reservation_time, '%H:%i'), duration_hours
               FROM reservations
               WHERE table_id = ? AND reservation_date = ? AND status IN ('confirmed', 'arrived')`
    rows, err := r.db.QueryContext(ctx, q, tableID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]SlotReservation, 0)
    for rows.Next() {
        var s SlotReservation
        if err := rows.Scan(&s.Time, &s.DurationHours); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
