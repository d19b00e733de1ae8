// Package schedule holds the pure time arithmetic behind slot
// generation and session billing: opening-hours resolution, blocked
// intervals and the duration-stepped slot walk.  Nothing here touches
// the database, which keeps the rules directly testable.
package schedule

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

// Interval is a half-open [Start, End) span of minutes since midnight
// during which a table cannot host a new booking, tagged with the
// human-readable reason shown on unavailable slots.
type Interval struct {
    Start  int
    End    int
    Reason string
}

// Slot is one candidate start time offered to a booking client.
type Slot struct {
    Time      string `json:"time"`
    Available bool   `json:"available"`
    Reason    string `json:"reason,omitempty"`
}

// MinutesOfDay parses an "HH:MM" clock string into minutes since
// midnight.
func MinutesOfDay(hhmm string) (int, error) {
    parts := strings.SplitN(hhmm, ":", 2)
    if len(parts) != 2 {
        return 0, fmt.Errorf("invalid time %q", hhmm)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil {
        return 0, fmt.Errorf("invalid time %q", hhmm)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil {
        return 0, fmt.Errorf("invalid time %q", hhmm)
    }
    if h < 0 || h > 23 || m < 0 || m > 59 {
        return 0, fmt.Errorf("invalid time %q", hhmm)
    }
    return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(m int) string {
    return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DayWindow resolves the opening window for a weekday from the
// per-day-class hours.  Monday through Friday share the weekday pair;
// Saturday and Sunday each have their own.  An empty start or end
// means the business is closed that day, reported by open=false.
type DayHours struct {
    WeekdaysStart string
    WeekdaysEnd   string
    SaturdayStart string
    SaturdayEnd   string
    SundayStart   string
    SundayEnd     string
}

// Window returns the [open, close) minutes for the given weekday.
func (h DayHours) Window(day time.Weekday) (openMin, closeMin int, open bool, err error) {
    var start, end string
    switch day {
    case time.Saturday:
        start, end = h.SaturdayStart, h.SaturdayEnd
    case time.Sunday:
        start, end = h.SundayStart, h.SundayEnd
    default:
        start, end = h.WeekdaysStart, h.WeekdaysEnd
    }
    if start == "" || end == "" {
        return 0, 0, false, nil
    }
    openMin, err = MinutesOfDay(start)
    if err != nil {
        return 0, 0, false, err
    }
    closeMin, err = MinutesOfDay(end)
    if err != nil {
        return 0, 0, false, err
    }
    return openMin, closeMin, true, nil
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
    return aStart < bEnd && aEnd > bStart
}

// GenerateSlots walks from openMin to closeMin in steps of the
// requested duration and marks each candidate against the blocked
// intervals.  A slot whose span would run past closing is not emitted
// at all; a slot intersecting a blocked interval is emitted as
// unavailable carrying the interval's reason.  Overlap is half-open,
// so a booking ending at 14:00 does not block the 14:00 slot.
func GenerateSlots(openMin, closeMin, durationHours int, blocked []Interval) []Slot {
    step := durationHours * 60
    slots := make([]Slot, 0)
    if step <= 0 {
        return slots
    }
    for start := openMin; start+step <= closeMin; start += step {
        end := start + step
        slot := Slot{Time: FormatMinutes(start), Available: true}
        for _, b := range blocked {
            if overlaps(start, end, b.Start, b.End) {
                slot.Available = false
                slot.Reason = b.Reason
                break
            }
        }
        slots = append(slots, slot)
    }
    return slots
}
