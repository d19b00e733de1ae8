package model

import "time"

// Reservation status values as stored in `reservations.status`.
// Confirmed and arrived block the table's time slot; the remaining
// statuses are terminal.
const (
    ReservationConfirmed = "confirmed"
    ReservationArrived   = "arrived"
    ReservationCancelled = "cancelled"
    ReservationNoShow    = "no_show"
    ReservationCompleted = "completed"
)

// Reservation records a future or current booking of a table for a
// time window, mirroring the `reservations` table.  Date is stored
// as a DATE column and Time as a TIME column; both are handled as
// strings ("2006-01-02" and "15:04") throughout the application
// because the conflict rules compare them literally.
//
// Fields:
//  ID              – primary key identifier.
//  ReservationID   – public identifier ("RES-<ms>-<n>").
//  TableID         – reserved table.
//  UserID          – registered customer, if any.
//  CustomerName    – contact name.
//  CustomerPhone   – contact phone.
//  CustomerEmail   – contact email (nullable).
//  Date            – reservation date ("2006-01-02").
//  Time            – start of the window ("15:04").
//  DurationHours   – requested window length in hours.
//  PartySize       – number of guests.
//  SpecialRequests – free-form notes (nullable).
//  Status          – booking state (see constants above).
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Reservation struct {
    ID              uint64    // reservations.id
    ReservationID   string    // reservations.reservation_id
    TableID         uint64    // reservations.table_id
    UserID          *uint64   // reservations.user_id (nullable)
    CustomerName    string    // reservations.customer_name
    CustomerPhone   string    // reservations.customer_phone
    CustomerEmail   *string   // reservations.customer_email (nullable)
    Date            string    // reservations.reservation_date
    Time            string    // reservations.reservation_time
    DurationHours   int       // reservations.duration_hours
    PartySize       int       // reservations.party_size
    SpecialRequests *string   // reservations.special_requests (nullable)
    Status          string    // reservations.status
    CreatedAt       time.Time // reservations.created_at
    UpdatedAt       time.Time // reservations.updated_at
}
