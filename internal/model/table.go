package model

import "time"

// Table status values as stored in the `tables.status` column.
// Status is mutated only by the session and reservation flows;
// staff edits never write it directly.
const (
    TableAvailable   = "available"
    TableOccupied    = "occupied"
    TableReserved    = "reserved"
    TableMaintenance = "maintenance"
)

// Table represents a physical billable resource (pool table,
// snooker table, dining table, PS5 station and so on) as stored
// in the `tables` table.  HourlyRate is the rate charged for
// timed sessions on this table; it is copied onto a session at
// start so later rate edits never change a running bill.
//
// Fields:
//  ID         – primary key identifier.
//  Number     – short display number (e.g. "T-04").
//  Name       – human readable name.
//  Type       – table category (pool, snooker, dining, console...).
//  HourlyRate – amount charged per hour of occupancy.
//  Capacity   – number of guests the table seats.
//  Status     – current availability (see constants above).
//  PlugID     – identifier of the linked smart plug, if any.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Table struct {
    ID         uint64    // tables.id
    Number     string    // tables.table_number
    Name       string    // tables.table_name
    Type       string    // tables.table_type
    HourlyRate float64   // tables.hourly_rate
    Capacity   uint32    // tables.capacity
    Status     string    // tables.status
    PlugID     *string   // tables.plug_id (nullable)
    CreatedAt  time.Time // tables.created_at
    UpdatedAt  time.Time // tables.updated_at
}
