package schedule

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestMinutesOfDay(t *testing.T) {
    cases := []struct {
        in   string
        want int
        ok   bool
    }{
        {"00:00", 0, true},
        {"09:00", 540, true},
        {"21:30", 1290, true},
        {"23:59", 1439, true},
        {"24:00", 0, false},
        {"12:60", 0, false},
        {"noon", 0, false},
        {"", 0, false},
    }
    for _, c := range cases {
        got, err := MinutesOfDay(c.in)
        if !c.ok {
            assert.Error(t, err, c.in)
            continue
        }
        require.NoError(t, err, c.in)
        assert.Equal(t, c.want, got, c.in)
    }
}

func TestFormatMinutes(t *testing.T) {
    assert.Equal(t, "09:00", FormatMinutes(540))
    assert.Equal(t, "00:05", FormatMinutes(5))
    assert.Equal(t, "21:30", FormatMinutes(1290))
}

func TestDayHoursWindow(t *testing.T) {
    h := DayHours{
        WeekdaysStart: "09:00", WeekdaysEnd: "21:00",
        SaturdayStart: "10:00", SaturdayEnd: "23:00",
    }

    open, close_, ok, err := h.Window(time.Wednesday)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, 540, open)
    assert.Equal(t, 1260, close_)

    open, close_, ok, err = h.Window(time.Saturday)
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, 600, open)
    assert.Equal(t, 1380, close_)

    // Sunday hours were never set, so the business is closed.
    _, _, ok, err = h.Window(time.Sunday)
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestGenerateSlotsNoBlocks(t *testing.T) {
    slots := GenerateSlots(540, 1260, 1, nil) // 09:00-21:00, 1h slots
    require.Len(t, slots, 12)
    assert.Equal(t, "09:00", slots[0].Time)
    assert.Equal(t, "20:00", slots[11].Time)
    for _, s := range slots {
        assert.True(t, s.Available, s.Time)
        assert.Empty(t, s.Reason, s.Time)
    }
}

func TestGenerateSlotsLastSlotMustFit(t *testing.T) {
    // 2h slots in a 12h window: the 21:00 close leaves no room after
    // 19:00, so the walk stops at 19:00.
    slots := GenerateSlots(540, 1260, 2, nil)
    require.Len(t, slots, 6)
    assert.Equal(t, "19:00", slots[5].Time)
}

func TestGenerateSlotsReservationBlocks(t *testing.T) {
    // An 18:00 reservation for 2 hours blocks the 18:00 and 19:00
    // one-hour slots but leaves 17:00 and 20:00 open.
    blocked := []Interval{{Start: 1080, End: 1200, Reason: "Reservation"}}
    slots := GenerateSlots(540, 1260, 1, blocked)

    byTime := map[string]Slot{}
    for _, s := range slots {
        byTime[s.Time] = s
    }
    assert.True(t, byTime["17:00"].Available)
    assert.False(t, byTime["18:00"].Available)
    assert.Equal(t, "Reservation", byTime["18:00"].Reason)
    assert.False(t, byTime["19:00"].Available)
    assert.True(t, byTime["20:00"].Available)
}

func TestGenerateSlotsHalfOpenBoundary(t *testing.T) {
    // A block ending at 14:00 must not touch the 14:00 slot, and a
    // block starting at 15:00 must not touch the 14:00 slot either.
    blocked := []Interval{
        {Start: 780, End: 840, Reason: "Reservation"},     // 13:00-14:00
        {Start: 900, End: 960, Reason: "Session Running"}, // 15:00-16:00
    }
    slots := GenerateSlots(540, 1260, 1, blocked)
    byTime := map[string]Slot{}
    for _, s := range slots {
        byTime[s.Time] = s
    }
    assert.False(t, byTime["13:00"].Available)
    assert.True(t, byTime["14:00"].Available)
    assert.False(t, byTime["15:00"].Available)
}

func TestGenerateSlotsRunningSessionReason(t *testing.T) {
    blocked := []Interval{{Start: 600, End: 660, Reason: "Session Running"}}
    slots := GenerateSlots(540, 720, 1, blocked)
    require.Len(t, slots, 3)
    assert.Equal(t, "Session Running", slots[1].Reason)
    assert.True(t, slots[2].Available)
}

func TestGenerateSlotsZeroDuration(t *testing.T) {
    assert.Empty(t, GenerateSlots(540, 1260, 0, nil))
}
