package model

import "time"

// Session status values as stored in `sessions.status`.  Active and
// paused are the non-terminal states; completed and cancelled are
// terminal and never transition further.
const (
    SessionActive    = "active"
    SessionPaused    = "paused"
    SessionCompleted = "completed"
    SessionCancelled = "cancelled"
)

// Session represents one billable occupancy of a table by a
// customer, mirroring the `sessions` table.  While the session is
// open EndTime, DurationMinutes are NULL and SessionCost holds at
// most the prepaid amount; the authoritative cost is computed from
// elapsed time on read.  Once the session completes, EndTime,
// DurationMinutes and SessionCost are frozen and never recomputed.
//
// Fields:
//  ID              – primary key identifier.
//  SessionID       – public identifier ("SES-<ms>-<n>").
//  TableID         – occupied table.
//  UserID          – registered customer, if any.
//  CustomerName    – walk-in customer name (nullable).
//  CustomerPhone   – walk-in customer phone (nullable).
//  StartTime       – when billing started.
//  EndTime         – when the session completed (nullable while open).
//  DurationMinutes – ceil of elapsed minutes, set at completion.
//  HourlyRate      – rate captured from the table at start.
//  Amount          – prepaid amount supplied at start.
//  SessionCost     – final time charge, authoritative once terminal.
//  TimeLimit       – optional cap in minutes requested at start.
//  Status          – lifecycle state (see constants above).
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Session struct {
    ID              uint64     // sessions.id
    SessionID       string     // sessions.session_id
    TableID         uint64     // sessions.table_id
    UserID          *uint64    // sessions.user_id (nullable)
    CustomerName    *string    // sessions.customer_name (nullable)
    CustomerPhone   *string    // sessions.customer_phone (nullable)
    StartTime       time.Time  // sessions.start_time
    EndTime         *time.Time // sessions.end_time (nullable)
    DurationMinutes *int       // sessions.duration_minutes (nullable)
    HourlyRate      float64    // sessions.hourly_rate
    Amount          float64    // sessions.amount
    SessionCost     float64    // sessions.session_cost
    TimeLimit       *int       // sessions.time_limit (nullable)
    Status          string     // sessions.status
    CreatedAt       time.Time  // sessions.created_at
    UpdatedAt       time.Time  // sessions.updated_at
}
