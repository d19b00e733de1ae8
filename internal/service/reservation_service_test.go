package service

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
)

func uintptr64(v uint64) *uint64 { return &v }

func openSettings() *mockSettingsStore {
    return &mockSettingsStore{settings: &model.BusinessSettings{
        WeekdaysStart: "09:00", WeekdaysEnd: "21:00",
        SaturdayStart: "10:00", SaturdayEnd: "23:00",
    }}
}

func reservationTables() *mockTableStore {
    return &mockTableStore{
        getByIDFn: func(_ context.Context, id uint64) (*model.Table, error) {
            return &model.Table{ID: id, Number: "T3", Status: model.TableAvailable}, nil
        },
        statuses: map[uint64]string{},
    }
}

func TestReservationCreate(t *testing.T) {
    rec := &eventRecorder{}
    tables := reservationTables()
    var created *model.Reservation
    reservations := &mockReservationStore{
        createFn: func(_ context.Context, res *model.Reservation) error {
            res.ID = 9
            created = res
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{
                ID: id, ReservationID: created.ReservationID, TableID: 3, TableNumber: "T3",
                CustomerName: "Mina", Date: "2025-03-14", Time: "18:00", Status: model.ReservationConfirmed,
            }, nil
        },
    }
    svc := NewReservationService(reservations, tables, &mockSessionSlotStore{}, openSettings(), rec.publish)

    detail, err := svc.Create(context.Background(), ReservationInput{
        TableID:       3,
        CustomerName:  "Mina",
        CustomerPhone: "555-0101",
        Date:          "2025-03-14",
        Time:          "18:00",
    })
    require.NoError(t, err)
    assert.Regexp(t, `^RES-\d+-\d{3}$`, created.ReservationID)
    assert.Equal(t, 2, created.DurationHours, "duration defaults to two hours")
    assert.Equal(t, 1, created.PartySize, "party size defaults to one")
    assert.Equal(t, model.TableReserved, tables.statuses[3])
    assert.Equal(t, model.ReservationConfirmed, detail.Status)
    assert.Equal(t, []string{queue.EventNewReservation}, rec.names())
}

func TestReservationCreateExactTimeConflict(t *testing.T) {
    reservations := &mockReservationStore{
        hasConflictFn: func(_ context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
            return date == "2025-03-14" && timeOfDay == "18:00", nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    _, err := svc.Create(context.Background(), ReservationInput{
        TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
        Date: "2025-03-14", Time: "18:00",
    })
    assert.ErrorIs(t, err, repository.ErrConflict)
}

// The creation guard compares start times literally, so a 19:00
// booking behind an 18:00 two-hour one is accepted even though the
// windows overlap.  Slot generation is where the overlap shows up.
func TestReservationCreateAcceptsOverlappingWindow(t *testing.T) {
    reservations := &mockReservationStore{
        hasConflictFn: func(_ context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
            return timeOfDay == "18:00", nil
        },
        createFn: func(_ context.Context, res *model.Reservation) error {
            res.ID = 10
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{ID: id, TableID: 3, Time: "19:00"}, nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    _, err := svc.Create(context.Background(), ReservationInput{
        TableID: 3, CustomerName: "Omar", CustomerPhone: "555-0102",
        Date: "2025-03-14", Time: "19:00",
    })
    assert.NoError(t, err)
}

func TestReservationCreateValidation(t *testing.T) {
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    _, err := svc.Create(context.Background(), ReservationInput{TableID: 3})
    assert.ErrorIs(t, err, repository.ErrValidation)

    _, err = svc.Create(context.Background(), ReservationInput{
        TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
        Date: "14-03-2025", Time: "18:00",
    })
    assert.ErrorIs(t, err, repository.ErrValidation)

    _, err = svc.Create(context.Background(), ReservationInput{
        TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
        Date: "2025-03-14", Time: "6pm",
    })
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestReservationUpdateOwnership(t *testing.T) {
    reservations := &mockReservationStore{
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{
                ID: id, TableID: 3, UserID: uintptr64(5), Status: model.ReservationConfirmed,
                Date: "2025-03-14", Time: "18:00",
            }, nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    in := ReservationInput{
        TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
        Date: "2025-03-14", Time: "18:00",
    }
    _, err := svc.Update(context.Background(), 1, Actor{UserID: 8, Role: model.RoleUser}, in)
    assert.ErrorIs(t, err, repository.ErrForbidden)

    // The owner and staff may edit.
    _, err = svc.Update(context.Background(), 1, Actor{UserID: 5, Role: model.RoleUser}, in)
    assert.NoError(t, err)
    _, err = svc.Update(context.Background(), 1, Actor{UserID: 8, Role: model.RoleStaff}, in)
    assert.NoError(t, err)
}

func TestReservationUpdateImmutableStatuses(t *testing.T) {
    for _, status := range []string{model.ReservationArrived, model.ReservationNoShow} {
        reservations := &mockReservationStore{
            getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
                return &repository.ReservationDetail{ID: id, TableID: 3, Status: status}, nil
            },
        }
        svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)
        _, err := svc.Update(context.Background(), 1, Actor{Role: model.RoleAdmin}, ReservationInput{
            TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
            Date: "2025-03-14", Time: "18:00",
        })
        assert.ErrorIs(t, err, repository.ErrValidation, status)
    }
}

func TestReservationUpdateMovedRechecksConflict(t *testing.T) {
    var checkedExclude uint64
    reservations := &mockReservationStore{
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{
                ID: id, TableID: 3, Status: model.ReservationConfirmed,
                Date: "2025-03-14", Time: "18:00",
            }, nil
        },
        hasConflictFn: func(_ context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
            checkedExclude = excludeID
            return true, nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    _, err := svc.Update(context.Background(), 1, Actor{Role: model.RoleStaff}, ReservationInput{
        TableID: 3, CustomerName: "Mina", CustomerPhone: "555-0101",
        Date: "2025-03-14", Time: "20:00",
    })
    assert.ErrorIs(t, err, repository.ErrConflict)
    assert.Equal(t, uint64(1), checkedExclude, "the guard must exclude the reservation being moved")
}

func TestReservationStatusDrivesTableStatus(t *testing.T) {
    cases := []struct {
        status string
        table  string
    }{
        {model.ReservationConfirmed, model.TableReserved},
        {model.ReservationArrived, model.TableOccupied},
        {model.ReservationCompleted, model.TableAvailable},
        {model.ReservationNoShow, model.TableAvailable},
    }
    for _, c := range cases {
        tables := reservationTables()
        reservations := &mockReservationStore{
            getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
                return &repository.ReservationDetail{ID: id, TableID: 3, Status: model.ReservationConfirmed}, nil
            },
        }
        svc := NewReservationService(reservations, tables, &mockSessionSlotStore{}, openSettings(), nil)
        _, err := svc.UpdateStatus(context.Background(), 1, c.status)
        require.NoError(t, err, c.status)
        assert.Equal(t, c.table, tables.statuses[3], c.status)
    }
}

func TestReservationStatusRejectsUnknown(t *testing.T) {
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)
    _, err := svc.UpdateStatus(context.Background(), 1, "vanished")
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestReservationCancel(t *testing.T) {
    rec := &eventRecorder{}
    tables := reservationTables()
    reservations := &mockReservationStore{
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{ID: id, TableID: 3, Status: model.ReservationConfirmed}, nil
        },
    }
    svc := NewReservationService(reservations, tables, &mockSessionSlotStore{}, openSettings(), rec.publish)

    _, err := svc.Cancel(context.Background(), 1, Actor{Role: model.RoleStaff})
    require.NoError(t, err)
    assert.Equal(t, model.TableAvailable, tables.statuses[3])
    assert.Equal(t, []string{queue.EventReservationCancelled}, rec.names())
}

func TestReservationCancelRejectedAfterArrival(t *testing.T) {
    reservations := &mockReservationStore{
        getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
            return &repository.ReservationDetail{ID: id, TableID: 3, Status: model.ReservationArrived}, nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)
    _, err := svc.Cancel(context.Background(), 1, Actor{Role: model.RoleStaff})
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestReservationDeleteFreesTableOnlyWhenConfirmed(t *testing.T) {
    for _, c := range []struct {
        status string
        freed  bool
    }{
        {model.ReservationConfirmed, true},
        {model.ReservationCancelled, false},
    } {
        tables := reservationTables()
        reservations := &mockReservationStore{
            getDetailFn: func(_ context.Context, id uint64) (*repository.ReservationDetail, error) {
                return &repository.ReservationDetail{ID: id, TableID: 3, Status: c.status}, nil
            },
        }
        svc := NewReservationService(reservations, tables, &mockSessionSlotStore{}, openSettings(), nil)
        require.NoError(t, svc.Delete(context.Background(), 1), c.status)
        if c.freed {
            assert.Equal(t, model.TableAvailable, tables.statuses[3], c.status)
        } else {
            assert.Empty(t, tables.statuses[3], c.status)
        }
    }
}

func TestSlotsBlockedByReservationWindow(t *testing.T) {
    reservations := &mockReservationStore{
        listSlotDayFn: func(_ context.Context, tableID uint64, date string) ([]repository.SlotReservation, error) {
            return []repository.SlotReservation{{Time: "18:00", DurationHours: 2}}, nil
        },
    }
    svc := NewReservationService(reservations, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    // 2025-03-14 is a Friday, so weekday hours 09:00-21:00 apply.
    result, err := svc.Slots(context.Background(), 3, "2025-03-14", 1)
    require.NoError(t, err)

    byTime := map[string]bool{}
    for _, s := range result.Slots {
        byTime[s.Time] = s.Available
    }
    assert.True(t, byTime["17:00"])
    assert.False(t, byTime["18:00"])
    assert.False(t, byTime["19:00"])
    assert.True(t, byTime["20:00"])
    require.Len(t, result.Blocked, 1)
    assert.Equal(t, BlockedInterval{Start: "18:00", End: "20:00", Reason: "Reservation"}, result.Blocked[0])
}

func TestSlotsSessionBlocksOnlyWithBothBoundaries(t *testing.T) {
    end := "12:00"
    sessions := &mockSessionSlotStore{
        listSlotDayFn: func(_ context.Context, tableID uint64, date string) ([]repository.SlotSession, error) {
            return []repository.SlotSession{
                {Start: "10:00", End: &end}, // blocks 10:00-12:00
                {Start: "14:00", End: nil},  // open-ended, ignored
            }, nil
        },
    }
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), sessions, openSettings(), nil)

    result, err := svc.Slots(context.Background(), 3, "2025-03-14", 1)
    require.NoError(t, err)

    byTime := map[string]bool{}
    for _, s := range result.Slots {
        byTime[s.Time] = s.Available
    }
    assert.False(t, byTime["10:00"])
    assert.False(t, byTime["11:00"])
    assert.True(t, byTime["12:00"])
    assert.True(t, byTime["14:00"], "a session without an end time does not block slots")
    require.Len(t, result.Blocked, 1)
    assert.Equal(t, "Session Running", result.Blocked[0].Reason)
}

func TestSlotsSaturdayWindow(t *testing.T) {
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    // 2025-03-15 is a Saturday: 10:00-23:00.
    result, err := svc.Slots(context.Background(), 3, "2025-03-15", 1)
    require.NoError(t, err)
    require.NotEmpty(t, result.Slots)
    assert.Equal(t, "10:00", result.Slots[0].Time)
    assert.Equal(t, "22:00", result.Slots[len(result.Slots)-1].Time)
}

func TestSlotsClosedDayRejected(t *testing.T) {
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    // Sunday hours are unset in openSettings.
    _, err := svc.Slots(context.Background(), 3, "2025-03-16", 1)
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestSlotsRequiredParams(t *testing.T) {
    svc := NewReservationService(&mockReservationStore{}, reservationTables(), &mockSessionSlotStore{}, openSettings(), nil)

    _, err := svc.Slots(context.Background(), 0, "2025-03-14", 1)
    assert.ErrorIs(t, err, repository.ErrValidation)
    _, err = svc.Slots(context.Background(), 3, "", 1)
    assert.ErrorIs(t, err, repository.ErrValidation)
    _, err = svc.Slots(context.Background(), 3, "2025-03-14", 0)
    assert.ErrorIs(t, err, repository.ErrValidation)
}
