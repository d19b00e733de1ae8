package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/poslight/pos-backend/internal/model"
)

// SessionRepo provides persistence for billable table sessions.  All
// state transitions are conditional updates qualified by the expected
// prior status; a transition that matches zero rows is reported as
// ErrNotFound regardless of whether the row is missing or merely in
// the wrong state, since the two cases are indistinguishable to a
// single UPDATE and callers treat them identically.
type SessionRepo struct {
    db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// DB exposes the underlying handle for cross-repository transactions.
func (r *SessionRepo) DB() *sql.DB { return r.db }

// SessionDetail is a session joined with its table metadata and the
// owning user's name, as returned to clients.  ElapsedMinutes is the
// live wall-clock duration (start to end, or start to now while the
// session is open) and is recomputed by the database on every read.
type SessionDetail struct {
    ID              uint64     `json:"id"`
    SessionID       string     `json:"session_id"`
    TableID         uint64     `json:"table_id"`
    UserID          *uint64    `json:"user_id,omitempty"`
    CustomerName    *string    `json:"customer_name,omitempty"`
    CustomerPhone   *string    `json:"customer_phone,omitempty"`
    StartTime       time.Time  `json:"start_time"`
    EndTime         *time.Time `json:"end_time"`
    DurationMinutes *int       `json:"duration_minutes"`
    HourlyRate      float64    `json:"hourly_rate"`
    Amount          float64    `json:"amount"`
    SessionCost     float64    `json:"session_cost"`
    TimeLimit       *int       `json:"time_limit,omitempty"`
    Status          string     `json:"status"`
    ElapsedMinutes  int        `json:"elapsed_minutes"`
    TableNumber     string     `json:"table_number"`
    TableName       string     `json:"table_name"`
    TableType       string     `json:"table_type"`
    PlugID          *string    `json:"plug_id,omitempty"`
    UserName        *string    `json:"user_name,omitempty"`
    CreatedAt       time.Time  `json:"created_at"`
    UpdatedAt       time.Time  `json:"updated_at"`
}

const sessionDetailQ = `SELECT s.id, s.session_id, s.table_id, s.user_id, s.customer_name, s.customer_phone,
              s.start_time, s.end_time, s.duration_minutes, s.hourly_rate, s.amount, s.session_cost,
              s.time_limit, s.status, s.created_at, s.updated_at,
              TIMESTAMPDIFF(MINUTE, s.start_time, COALESCE(s.end_time, NOW())) AS elapsed_minutes,
              t.table_number, t.table_name, t.table_type, t.plug_id, u.name
       FROM sessions s
       JOIN tables t ON t.id = s.table_id
       LEFT JOIN users u ON u.id = s.user_id`

func scanSessionDetail(row interface{ Scan(...any) error }) (*SessionDetail, error) {
    var d SessionDetail
    var userID sql.NullInt64
    var custName, custPhone, plugID, userName sql.NullString
    var endTime sql.NullTime
    var durMin, timeLimit sql.NullInt64
    err := row.Scan(&d.ID, &d.SessionID, &d.TableID, &userID, &custName, &custPhone,
        &d.StartTime, &endTime, &durMin, &d.HourlyRate, &d.Amount, &d.SessionCost,
        &timeLimit, &d.Status, &d.CreatedAt, &d.UpdatedAt,
        &d.ElapsedMinutes,
        &d.TableNumber, &d.TableName, &d.TableType, &plugID, &userName)
    if err != nil {
        return nil, err
    }
    if userID.Valid {
        v := uint64(userID.Int64)
        d.UserID = &v
    }
    if custName.Valid {
        d.CustomerName = &custName.String
    }
    if custPhone.Valid {
        d.CustomerPhone = &custPhone.String
    }
    if endTime.Valid {
        t := endTime.Time
        d.EndTime = &t
    }
    if durMin.Valid {
        n := int(durMin.Int64)
        d.DurationMinutes = &n
    }
    if timeLimit.Valid {
        n := int(timeLimit.Int64)
        d.TimeLimit = &n
    }
    if plugID.Valid {
        d.PlugID = &plugID.String
    }
    if userName.Valid {
        d.UserName = &userName.String
    }
    return &d, nil
}

// Create inserts a session row and populates the generated ID.  The
// prepaid amount doubles as the initial session_cost so unfinished
// sessions still report what was collected up front.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
    const q = `INSERT INTO sessions
        (session_id, table_id, user_id, amount, time_limit, customer_name, customer_phone, hourly_rate, start_time, session_cost, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active')`
    res, err := r.db.ExecContext(ctx, q,
        s.SessionID, s.TableID, s.UserID, s.Amount, s.TimeLimit,
        s.CustomerName, s.CustomerPhone, s.HourlyRate, s.StartTime, s.Amount)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    s.SessionCost = s.Amount
    s.Status = model.SessionActive
    return nil
}

// GetDetail returns one session with table and user metadata.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
    d, err := scanSessionDetail(r.db.QueryRowContext(ctx, sessionDetailQ+` WHERE s.id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return d, err
}

// GetOpenByTable returns the table's non-terminal session, or
// ErrNotFound when the table is free.  At most one such row can exist
// at a time.
func (r *SessionRepo) GetOpenByTable(ctx context.Context, tableID uint64) (*SessionDetail, error) {
    const q = sessionDetailQ + ` WHERE s.table_id = ? AND s.status IN ('active', 'paused') LIMIT 1`
    d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, tableID))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return d, err
}

// GetOpen returns the session only while it is active or paused.
func (r *SessionRepo) GetOpen(ctx context.Context, id uint64) (*SessionDetail, error) {
    const q = sessionDetailQ + ` WHERE s.id = ? AND s.status IN ('active', 'paused')`
    d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrNotFound
    }
    return d, err
}

func (r *SessionRepo) listDetails(ctx context.Context, q string, args ...any) ([]SessionDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]SessionDetail, 0)
    for rows.Next() {
        d, err := scanSessionDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    return out, rows.Err()
}

// ListAll returns every session, newest first.  Rows persisted before
// cost finalization carry a zero session_cost; those are patched from
// the prepaid amount for display.
func (r *SessionRepo) ListAll(ctx context.Context) ([]SessionDetail, error) {
    details, err := r.listDetails(ctx, sessionDetailQ+` ORDER BY s.start_time DESC`)
    if err != nil {
        return nil, err
    }
    for i := range details {
        if details[i].SessionCost == 0 {
            details[i].SessionCost = details[i].Amount
        }
    }
    return details, nil
}

// ListActive returns currently running sessions, oldest first so the
// longest-occupied tables surface at the top of the floor view.
func (r *SessionRepo) ListActive(ctx context.Context) ([]SessionDetail, error) {
    return r.listDetails(ctx, sessionDetailQ+` WHERE s.status = 'active' ORDER BY s.start_time ASC`)
}

// ListByUser returns the given user's sessions, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID uint64) ([]SessionDetail, error) {
    return r.listDetails(ctx, sessionDetailQ+` WHERE s.user_id = ? ORDER BY s.start_time DESC`, userID)
}

// Complete finalizes a session: it persists the end time, the ceiled
// duration and the frozen cost, and moves the status to completed.
// The update is conditional on the session still being open, so a
// concurrent or repeated end reports ErrNotFound and leaves the
// already-frozen values untouched.
func (r *SessionRepo) Complete(ctx context.Context, id uint64, endTime time.Time, durationMinutes int, cost float64) error {
    const q = `UPDATE sessions SET end_time = ?, duration_minutes = ?, session_cost = ?,
               status = 'completed', updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND status IN ('active', 'paused')`
    res, err := r.db.ExecContext(ctx, q, endTime, durationMinutes, cost, id)
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

// Transition performs a conditional status change (active→paused,
// paused→active, or open→cancelled).  Zero affected rows means the
// session is missing or not in the expected state; both surface as
// ErrNotFound, which also makes repeated pause/resume calls safe no-ops
// at the billing level.
func (r *SessionRepo) Transition(ctx context.Context, id uint64, from []string, to string) error {
    q := `UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status IN (`
    args := []any{to, id}
    for i, s := range from {
        if i > 0 {
            q += ", "
        }
        q += "?"
        args = append(args, s)
    }
    q += ")"
    res, err := r.db.ExecContext(ctx, q, args...)
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

// Transfer reassigns the payee without touching the lifecycle state.
func (r *SessionRepo) Transfer(ctx context.Context, id uint64, userID *uint64, customerName, customerPhone *string) error {
    const q = `UPDATE sessions SET user_id = ?, customer_name = ?, customer_phone = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, userID, customerName, customerPhone, id)
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

// Touch bumps updated_at.  Used by extend, which records the request
// without moving any billing boundary.
func (r *SessionRepo) Touch(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
    return err
}

// Delete removes a session row.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
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

// SessionStats aggregates one day of session activity.
type SessionStats struct {
    TotalSessions      int      `json:"total_sessions"`
    ActiveSessions     int      `json:"active_sessions"`
    CompletedSessions  int      `json:"completed_sessions"`
    PausedSessions     int      `json:"paused_sessions"`
    CancelledSessions  int      `json:"cancelled_sessions"`
    AvgDurationMinutes *float64 `json:"average_duration_minutes"`
    TotalRevenue       *float64 `json:"total_revenue"`
    AvgSessionCost     *float64 `json:"average_session_cost"`
}

// StatsByDate aggregates sessions whose start_time falls on the given
// date ("2006-01-02").
func (r *SessionRepo) StatsByDate(ctx context.Context, date string) (*SessionStats, error) {
    const q = `SELECT
            COUNT(*),
            SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'paused' THEN 1 ELSE 0 END),
            SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END),
            AVG(duration_minutes),
            SUM(session_cost),
            AVG(session_cost)
        FROM sessions WHERE DATE(start_time) = ?`
    var st SessionStats
    var active, completed, paused, cancelled sql.NullInt64
    var avgDur, revenue, avgCost sql.NullFloat64
    err := r.db.QueryRowContext(ctx, q, date).Scan(
        &st.TotalSessions, &active, &completed, &paused, &cancelled,
        &avgDur, &revenue, &avgCost)
    if err != nil {
        return nil, err
    }
    st.ActiveSessions = int(active.Int64)
    st.CompletedSessions = int(completed.Int64)
    st.PausedSessions = int(paused.Int64)
    st.CancelledSessions = int(cancelled.Int64)
    if avgDur.Valid {
        st.AvgDurationMinutes = &avgDur.Float64
    }
    if revenue.Valid {
        st.TotalRevenue = &revenue.Float64
    }
    if avgCost.Valid {
        st.AvgSessionCost = &avgCost.Float64
    }
    return &st, nil
}

// SlotSession is the fragment of a session needed by slot generation:
// its clock boundaries formatted as "HH:MM" wall times.  End is nil
// while the session has no recorded end time.
type SlotSession struct {
    Start string
    End   *string
}

// ListForSlotDay returns the open (active or paused) sessions recorded
// on the given date for a table, with start/end rendered as "HH:MM".
func (r *SessionRepo) ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]SlotSession, error) {
    const q = `SELECT TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i')
               FROM sessions
               WHERE table_id = ? AND DATE(created_at) = ? AND status IN ('active', 'paused')`
    rows, err := r.db.QueryContext(ctx, q, tableID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]SlotSession, 0)
    for rows.Next() {
        var s SlotSession
        var end sql.NullString
        if err := rows.Scan(&s.Start, &end); err != nil {
            return nil, err
        }
        if end.Valid {
            s.End = &end.String
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
