package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/schedule"
)

// SessionStore is the slice of the session repository the lifecycle
// rules need.
type SessionStore interface {
    Create(ctx context.Context, s *model.Session) error
    GetDetail(ctx context.Context, id uint64) (*repository.SessionDetail, error)
    GetOpen(ctx context.Context, id uint64) (*repository.SessionDetail, error)
    GetOpenByTable(ctx context.Context, tableID uint64) (*repository.SessionDetail, error)
    Complete(ctx context.Context, id uint64, endTime time.Time, durationMinutes int, cost float64) error
    Transition(ctx context.Context, id uint64, from []string, to string) error
    Transfer(ctx context.Context, id uint64, userID *uint64, customerName, customerPhone *string) error
    Touch(ctx context.Context, id uint64) error
    Delete(ctx context.Context, id uint64) error
}

// TableStore is the slice of the table repository the session and
// reservation flows need.
type TableStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Table, error)
    UpdateStatus(ctx context.Context, id uint64, status string) error
}

// SessionService drives the billable-session state machine.  A table
// holds at most one open (active or paused) session; ending a session
// freezes its duration and cost permanently.
type SessionService struct {
    sessions SessionStore
    tables   TableStore
    publish  Publisher
    now      func() time.Time
}

// NewSessionService wires a SessionService.  publish may be nil, in
// which case no events are emitted.
func NewSessionService(sessions SessionStore, tables TableStore, publish Publisher) *SessionService {
    if publish == nil {
        publish = func(context.Context, string, uint64, any) error { return nil }
    }
    return &SessionService{sessions: sessions, tables: tables, publish: publish, now: time.Now}
}

// StartSessionInput carries the fields accepted at session start.
type StartSessionInput struct {
    TableID       uint64
    UserID        *uint64
    CustomerName  *string
    CustomerPhone *string
    StartTime     *time.Time
    Amount        float64
    TimeLimit     *int
}

// Start opens a session on a table.  The table must exist, be
// available or reserved, and have no open session; either violation is
// a conflict.  On success the table becomes occupied and, when it has
// a plug, a power-on command is published.
func (s *SessionService) Start(ctx context.Context, in StartSessionInput) (*repository.SessionDetail, error) {
    table, err := s.tables.GetByID(ctx, in.TableID)
    if err != nil {
        return nil, err
    }
    if table.Status != model.TableAvailable && table.Status != model.TableReserved {
        return nil, fmt.Errorf("table %s is %s: %w", table.Number, table.Status, repository.ErrConflict)
    }
    if _, err := s.sessions.GetOpenByTable(ctx, in.TableID); err == nil {
        return nil, fmt.Errorf("table %s already has an open session: %w", table.Number, repository.ErrConflict)
    } else if err != repository.ErrNotFound {
        return nil, err
    }

    start := s.now()
    if in.StartTime != nil {
        start = *in.StartTime
    }
    sess := &model.Session{
        SessionID:     newRef("SES"),
        TableID:       in.TableID,
        UserID:        in.UserID,
        CustomerName:  in.CustomerName,
        CustomerPhone: in.CustomerPhone,
        StartTime:     start,
        HourlyRate:    table.HourlyRate,
        Amount:        in.Amount,
        TimeLimit:     in.TimeLimit,
    }
    if err := s.sessions.Create(ctx, sess); err != nil {
        return nil, err
    }
    if err := s.tables.UpdateStatus(ctx, in.TableID, model.TableOccupied); err != nil {
        log.Printf("session start: table %d status update failed: %v", in.TableID, err)
    }

    s.plugControl(ctx, table, "on", "session_started")
    detail, err := s.sessions.GetDetail(ctx, sess.ID)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventSessionStarted, table.ID, sessionEvent(detail))
    return detail, nil
}

// End closes an open session: the duration is ceiled to whole minutes,
// the cost frozen at the table's hourly rate, the table freed and the
// plug switched off.  A session that is already closed reports
// ErrNotFound and keeps its stored values.
func (s *SessionService) End(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
    open, err := s.sessions.GetOpen(ctx, id)
    if err != nil {
        return nil, err
    }
    end := s.now()
    minutes := schedule.SessionMinutes(open.StartTime, end)
    cost := schedule.SessionCost(minutes, open.HourlyRate)
    if err := s.sessions.Complete(ctx, id, end, minutes, cost); err != nil {
        return nil, err
    }
    if err := s.tables.UpdateStatus(ctx, open.TableID, model.TableAvailable); err != nil {
        log.Printf("session end: table %d status update failed: %v", open.TableID, err)
    }

    s.plugOff(ctx, open, "session_ended")
    detail, err := s.sessions.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventSessionEnded, open.TableID, sessionEvent(detail))
    return detail, nil
}

// Pause suspends an active session.  Billing is unaffected: the cost
// clock keeps running until the session ends.
func (s *SessionService) Pause(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
    if err := s.sessions.Transition(ctx, id, []string{model.SessionActive}, model.SessionPaused); err != nil {
        return nil, err
    }
    detail, err := s.sessions.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventSessionPaused, detail.TableID, sessionEvent(detail))
    return detail, nil
}

// Resume reactivates a paused session.
func (s *SessionService) Resume(ctx context.Context, id uint64) (*repository.SessionDetail, error) {
    if err := s.sessions.Transition(ctx, id, []string{model.SessionPaused}, model.SessionActive); err != nil {
        return nil, err
    }
    detail, err := s.sessions.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventSessionResumed, detail.TableID, sessionEvent(detail))
    return detail, nil
}

// Extend records an extension request on an open session.  It is a
// notification to the floor only: no billing boundary moves, and the
// eventual cost still follows from actual elapsed time.
func (s *SessionService) Extend(ctx context.Context, id uint64, minutes int) (*repository.SessionDetail, error) {
    if minutes <= 0 {
        return nil, fmt.Errorf("extend minutes must be positive: %w", repository.ErrValidation)
    }
    open, err := s.sessions.GetOpen(ctx, id)
    if err != nil {
        return nil, err
    }
    if err := s.sessions.Touch(ctx, id); err != nil {
        return nil, err
    }
    ev := sessionEvent(open)
    ev.Minutes = &minutes
    _ = s.publish(ctx, queue.EventSessionExtended, open.TableID, ev)
    return open, nil
}

// Transfer reassigns who the session is billed to.
func (s *SessionService) Transfer(ctx context.Context, id uint64, userID *uint64, customerName, customerPhone *string) (*repository.SessionDetail, error) {
    if err := s.sessions.Transfer(ctx, id, userID, customerName, customerPhone); err != nil {
        return nil, err
    }
    return s.sessions.GetDetail(ctx, id)
}

// Delete removes a session record entirely.
func (s *SessionService) Delete(ctx context.Context, id uint64) error {
    return s.sessions.Delete(ctx, id)
}

// plugControl publishes a power command for the table's plug, if any.
func (s *SessionService) plugControl(ctx context.Context, table *model.Table, action, reason string) {
    if table.PlugID == nil {
        return
    }
    _ = s.publish(ctx, queue.EventPlugAutoControl, table.ID, queue.PlugControlEvent{
        TableID:     table.ID,
        TableNumber: table.Number,
        PlugID:      *table.PlugID,
        Action:      action,
        Reason:      reason,
    })
}

func (s *SessionService) plugOff(ctx context.Context, d *repository.SessionDetail, reason string) {
    if d.PlugID == nil {
        return
    }
    _ = s.publish(ctx, queue.EventPlugAutoControl, d.TableID, queue.PlugControlEvent{
        TableID:     d.TableID,
        TableNumber: d.TableNumber,
        PlugID:      *d.PlugID,
        Action:      "off",
        Reason:      reason,
    })
}

func sessionEvent(d *repository.SessionDetail) queue.SessionEvent {
    ev := queue.SessionEvent{
        SessionID:   d.ID,
        SessionRef:  d.SessionID,
        TableID:     d.TableID,
        TableNumber: d.TableNumber,
        Status:      d.Status,
    }
    if d.CustomerName != nil {
        ev.CustomerName = *d.CustomerName
    }
    if d.Status == model.SessionCompleted {
        cost := d.SessionCost
        ev.Amount = &cost
        ev.Minutes = d.DurationMinutes
    }
    return ev
}
