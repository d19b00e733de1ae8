package schedule

import (
    "math"
    "time"
)

// SessionMinutes returns the billed duration between start and end.
// Any started minute counts in full, so a 90m01s session bills 91
// minutes.
func SessionMinutes(start, end time.Time) int {
    secs := end.Sub(start).Seconds()
    if secs <= 0 {
        return 0
    }
    return int(math.Ceil(secs / 60.0))
}

// SessionCost prices billed minutes at the table's hourly rate,
// rounded to cents.
func SessionCost(minutes int, hourlyRate float64) float64 {
    cost := (float64(minutes) / 60.0) * hourlyRate
    return math.Round(cost*100) / 100
}
