package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
)

func strptr(s string) *string { return &s }

func availableTable(plug bool) *model.Table {
    t := &model.Table{ID: 7, Number: "T7", Name: "Console 7", Type: "gaming", HourlyRate: 10, Status: model.TableAvailable}
    if plug {
        p := "plug-7"
        t.PlugID = &p
    }
    return t
}

func TestSessionStart(t *testing.T) {
    rec := &eventRecorder{}
    tables := &mockTableStore{
        getByIDFn: func(_ context.Context, id uint64) (*model.Table, error) {
            return availableTable(true), nil
        },
        statuses: map[uint64]string{},
    }
    var created *model.Session
    sessions := &mockSessionStore{
        createFn: func(_ context.Context, s *model.Session) error {
            s.ID = 42
            created = s
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            plug := "plug-7"
            return &repository.SessionDetail{
                ID: id, SessionID: created.SessionID, TableID: 7, TableNumber: "T7",
                Status: model.SessionActive, HourlyRate: 10, PlugID: &plug,
            }, nil
        },
    }
    svc := NewSessionService(sessions, tables, rec.publish)

    detail, err := svc.Start(context.Background(), StartSessionInput{
        TableID:      7,
        CustomerName: strptr("Asha"),
        Amount:       20,
    })
    require.NoError(t, err)
    assert.Equal(t, uint64(42), detail.ID)
    assert.Equal(t, float64(10), created.HourlyRate, "rate copied from the table")
    assert.Regexp(t, `^SES-\d+-\d{3}$`, created.SessionID)
    assert.Equal(t, model.TableOccupied, tables.statuses[7])

    names := rec.names()
    assert.Contains(t, names, queue.EventPlugAutoControl)
    assert.Contains(t, names, queue.EventSessionStarted)
    for _, ev := range rec.events {
        if ev.Name == queue.EventPlugAutoControl {
            pc := ev.Data.(queue.PlugControlEvent)
            assert.Equal(t, "on", pc.Action)
            assert.Equal(t, "session_started", pc.Reason)
        }
    }
}

func TestSessionStartRejectsOccupiedTable(t *testing.T) {
    tables := &mockTableStore{
        getByIDFn: func(_ context.Context, id uint64) (*model.Table, error) {
            return &model.Table{ID: id, Number: "T7", Status: model.TableOccupied}, nil
        },
    }
    svc := NewSessionService(&mockSessionStore{}, tables, nil)
    _, err := svc.Start(context.Background(), StartSessionInput{TableID: 7})
    assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestSessionStartRejectsOpenSession(t *testing.T) {
    tables := &mockTableStore{
        getByIDFn: func(_ context.Context, id uint64) (*model.Table, error) {
            return availableTable(false), nil
        },
    }
    sessions := &mockSessionStore{
        getOpenByTableFn: func(_ context.Context, tableID uint64) (*repository.SessionDetail, error) {
            return &repository.SessionDetail{ID: 1, TableID: tableID, Status: model.SessionPaused}, nil
        },
    }
    svc := NewSessionService(sessions, tables, nil)
    _, err := svc.Start(context.Background(), StartSessionInput{TableID: 7})
    assert.ErrorIs(t, err, repository.ErrConflict, "a paused session still occupies the table")
}

func TestSessionEndFreezesDurationAndCost(t *testing.T) {
    start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
    end := start.Add(90 * time.Minute)

    rec := &eventRecorder{}
    tables := &mockTableStore{statuses: map[uint64]string{}}
    plug := "plug-7"
    var gotMinutes int
    var gotCost float64
    sessions := &mockSessionStore{
        getOpenFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            return &repository.SessionDetail{
                ID: id, TableID: 7, TableNumber: "T7", StartTime: start,
                HourlyRate: 10, Status: model.SessionActive, PlugID: &plug,
            }, nil
        },
        completeFn: func(_ context.Context, id uint64, endTime time.Time, minutes int, cost float64) error {
            gotMinutes = minutes
            gotCost = cost
            assert.Equal(t, end, endTime)
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            m := 90
            return &repository.SessionDetail{
                ID: id, TableID: 7, Status: model.SessionCompleted,
                DurationMinutes: &m, SessionCost: 15,
            }, nil
        },
    }
    svc := NewSessionService(sessions, tables, rec.publish)
    svc.now = func() time.Time { return end }

    detail, err := svc.End(context.Background(), 42)
    require.NoError(t, err)
    assert.Equal(t, 90, gotMinutes, "10:00 to 11:30 bills 90 minutes")
    assert.Equal(t, 15.0, gotCost, "90 minutes at $10/h is $15.00")
    assert.Equal(t, model.SessionCompleted, detail.Status)
    assert.Equal(t, model.TableAvailable, tables.statuses[7])

    names := rec.names()
    assert.Contains(t, names, queue.EventSessionEnded)
    assert.Contains(t, names, queue.EventPlugAutoControl)
}

func TestSessionEndTwiceReportsNotFound(t *testing.T) {
    sessions := &mockSessionStore{
        getOpenFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            return nil, repository.ErrNotFound
        },
    }
    svc := NewSessionService(sessions, &mockTableStore{}, nil)
    _, err := svc.End(context.Background(), 42)
    assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionPauseResume(t *testing.T) {
    rec := &eventRecorder{}
    var transitions [][2]string
    sessions := &mockSessionStore{
        transitionFn: func(_ context.Context, id uint64, from []string, to string) error {
            require.Len(t, from, 1)
            transitions = append(transitions, [2]string{from[0], to})
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            return &repository.SessionDetail{ID: id, TableID: 7}, nil
        },
    }
    svc := NewSessionService(sessions, &mockTableStore{}, rec.publish)

    _, err := svc.Pause(context.Background(), 1)
    require.NoError(t, err)
    _, err = svc.Resume(context.Background(), 1)
    require.NoError(t, err)

    assert.Equal(t, [][2]string{
        {model.SessionActive, model.SessionPaused},
        {model.SessionPaused, model.SessionActive},
    }, transitions)
    assert.Equal(t, []string{queue.EventSessionPaused, queue.EventSessionResumed}, rec.names())
}

func TestSessionPauseWrongStateReportsNotFound(t *testing.T) {
    sessions := &mockSessionStore{
        transitionFn: func(_ context.Context, id uint64, from []string, to string) error {
            return repository.ErrNotFound
        },
    }
    svc := NewSessionService(sessions, &mockTableStore{}, nil)
    _, err := svc.Pause(context.Background(), 1)
    assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionExtendIsNotificationOnly(t *testing.T) {
    rec := &eventRecorder{}
    touched := false
    completed := false
    sessions := &mockSessionStore{
        getOpenFn: func(_ context.Context, id uint64) (*repository.SessionDetail, error) {
            return &repository.SessionDetail{ID: id, TableID: 7, Status: model.SessionActive}, nil
        },
        touchFn: func(_ context.Context, id uint64) error {
            touched = true
            return nil
        },
        completeFn: func(context.Context, uint64, time.Time, int, float64) error {
            completed = true
            return nil
        },
    }
    svc := NewSessionService(sessions, &mockTableStore{}, rec.publish)

    _, err := svc.Extend(context.Background(), 1, 30)
    require.NoError(t, err)
    assert.True(t, touched)
    assert.False(t, completed, "extend must not move any billing boundary")

    require.Len(t, rec.events, 1)
    assert.Equal(t, queue.EventSessionExtended, rec.events[0].Name)
    ev := rec.events[0].Data.(queue.SessionEvent)
    require.NotNil(t, ev.Minutes)
    assert.Equal(t, 30, *ev.Minutes)
}

func TestSessionExtendRejectsNonPositiveMinutes(t *testing.T) {
    svc := NewSessionService(&mockSessionStore{}, &mockTableStore{}, nil)
    _, err := svc.Extend(context.Background(), 1, 0)
    assert.ErrorIs(t, err, repository.ErrValidation)
    _, err = svc.Extend(context.Background(), 1, -5)
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestSessionStartPropagatesStoreError(t *testing.T) {
    boom := errors.New("db gone")
    tables := &mockTableStore{
        getByIDFn: func(context.Context, uint64) (*model.Table, error) { return nil, boom },
    }
    svc := NewSessionService(&mockSessionStore{}, tables, nil)
    _, err := svc.Start(context.Background(), StartSessionInput{TableID: 7})
    assert.ErrorIs(t, err, boom)
}
