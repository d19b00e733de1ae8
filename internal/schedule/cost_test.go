package schedule

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestSessionMinutes(t *testing.T) {
    start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

    assert.Equal(t, 90, SessionMinutes(start, start.Add(90*time.Minute)))
    // A started minute bills in full.
    assert.Equal(t, 91, SessionMinutes(start, start.Add(90*time.Minute+time.Second)))
    assert.Equal(t, 1, SessionMinutes(start, start.Add(10*time.Second)))
    assert.Equal(t, 0, SessionMinutes(start, start))
    assert.Equal(t, 0, SessionMinutes(start, start.Add(-time.Minute)))
}

func TestSessionCost(t *testing.T) {
    // 90 minutes at $10/h is $15.00.
    assert.Equal(t, 15.0, SessionCost(90, 10.0))
    assert.Equal(t, 0.0, SessionCost(0, 10.0))
    assert.Equal(t, 10.0, SessionCost(60, 10.0))
    // Rounded to cents: 25 minutes at $7/h = 2.9166... -> 2.92.
    assert.Equal(t, 2.92, SessionCost(25, 7.0))
    // One billed minute at $12.5/h = 0.2083... -> 0.21.
    assert.Equal(t, 0.21, SessionCost(1, 12.5))
}
