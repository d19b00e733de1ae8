// Package service holds the domain rules between the HTTP handlers
// and the repositories: session lifecycle, reservation conflict
// checking, slot generation, order pricing and billing.  Services
// depend on narrow store interfaces so the rules are testable without
// a database, and publish domain events best-effort — a broker outage
// never fails the request that produced the event.
package service

import (
    "context"
    "fmt"
    "math/rand"
    "time"
)

// SessionTaxRate is applied to the session portion of a bill.  Order
// totals carry their own tax computed at order time.
const SessionTaxRate = 0.085

// Publisher sends one domain event keyed by the table it concerns.
// queue.Publish satisfies this; tests substitute a recorder.
type Publisher func(ctx context.Context, event string, tableID uint64, data any) error

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
    UserID uint64
    Role   string
}

// Staff reports whether the actor may act on records they do not own.
func (a Actor) Staff() bool { return a.Role == "admin" || a.Role == "staff" }

// newRef builds a public reference like SES-1741600000000-042: prefix,
// millisecond timestamp, three random digits.
func newRef(prefix string) string {
    return fmt.Sprintf("%s-%d-%03d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
