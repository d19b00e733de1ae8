package service

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/schedule"
)

// ReservationStore is the slice of the reservation repository the
// booking rules need.
type ReservationStore interface {
    Create(ctx context.Context, res *model.Reservation) error
    GetDetail(ctx context.Context, id uint64) (*repository.ReservationDetail, error)
    HasConflict(ctx context.Context, tableID uint64, date, timeOfDay string, excludeID uint64) (bool, error)
    Update(ctx context.Context, res *model.Reservation) error
    UpdateStatus(ctx context.Context, id uint64, status string) error
    Delete(ctx context.Context, id uint64) error
    ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]repository.SlotReservation, error)
}

// SessionSlotStore supplies the running sessions slot generation must
// block around.
type SessionSlotStore interface {
    ListForSlotDay(ctx context.Context, tableID uint64, date string) ([]repository.SlotSession, error)
}

// SettingsStore supplies opening hours.
type SettingsStore interface {
    Get(ctx context.Context) (*model.BusinessSettings, error)
}

// ReservationService enforces the booking rules.  The double-booking
// guard is an exact (table, date, start time) match; interval overlap
// is applied only when generating slots, so a manually placed 19:00
// booking behind an 18:00 two-hour one is accepted.
type ReservationService struct {
    reservations ReservationStore
    tables       TableStore
    sessions     SessionSlotStore
    settings     SettingsStore
    publish      Publisher
}

// NewReservationService wires a ReservationService.  publish may be
// nil, in which case no events are emitted.
func NewReservationService(reservations ReservationStore, tables TableStore, sessions SessionSlotStore, settings SettingsStore, publish Publisher) *ReservationService {
    if publish == nil {
        publish = func(context.Context, string, uint64, any) error { return nil }
    }
    return &ReservationService{
        reservations: reservations,
        tables:       tables,
        sessions:     sessions,
        settings:     settings,
        publish:      publish,
    }
}

// ReservationInput carries the editable reservation fields.
type ReservationInput struct {
    TableID         uint64
    UserID          *uint64
    CustomerName    string
    CustomerPhone   string
    CustomerEmail   *string
    Date            string // "2006-01-02"
    Time            string // "15:04"
    DurationHours   int
    PartySize       int
    SpecialRequests *string
}

func (in *ReservationInput) applyDefaults() {
    if in.DurationHours <= 0 {
        in.DurationHours = 2
    }
    if in.PartySize <= 0 {
        in.PartySize = 1
    }
}

func (in *ReservationInput) validate() error {
    if in.TableID == 0 || in.CustomerName == "" || in.CustomerPhone == "" || in.Date == "" || in.Time == "" {
        return fmt.Errorf("table, customer name, phone, date and time are required: %w", repository.ErrValidation)
    }
    if _, err := time.Parse("2006-01-02", in.Date); err != nil {
        return fmt.Errorf("invalid date %q: %w", in.Date, repository.ErrValidation)
    }
    if _, err := schedule.MinutesOfDay(in.Time); err != nil {
        return fmt.Errorf("invalid time %q: %w", in.Time, repository.ErrValidation)
    }
    return nil
}

// Create books a table.  The table must be available or reserved, and
// no confirmed or arrived reservation may hold the exact same start
// slot.  On success the table is marked reserved.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*repository.ReservationDetail, error) {
    if err := in.validate(); err != nil {
        return nil, err
    }
    in.applyDefaults()

    table, err := s.tables.GetByID(ctx, in.TableID)
    if err != nil {
        return nil, err
    }
    if table.Status != model.TableAvailable && table.Status != model.TableReserved {
        return nil, fmt.Errorf("table %s is %s: %w", table.Number, table.Status, repository.ErrConflict)
    }
    conflict, err := s.reservations.HasConflict(ctx, in.TableID, in.Date, in.Time, 0)
    if err != nil {
        return nil, err
    }
    if conflict {
        return nil, fmt.Errorf("table %s is already reserved at %s %s: %w", table.Number, in.Date, in.Time, repository.ErrConflict)
    }

    res := &model.Reservation{
        ReservationID:   newRef("RES"),
        TableID:         in.TableID,
        UserID:          in.UserID,
        CustomerName:    in.CustomerName,
        CustomerPhone:   in.CustomerPhone,
        CustomerEmail:   in.CustomerEmail,
        Date:            in.Date,
        Time:            in.Time,
        DurationHours:   in.DurationHours,
        PartySize:       in.PartySize,
        SpecialRequests: in.SpecialRequests,
    }
    if err := s.reservations.Create(ctx, res); err != nil {
        return nil, err
    }
    if err := s.tables.UpdateStatus(ctx, in.TableID, model.TableReserved); err != nil {
        log.Printf("reservation create: table %d status update failed: %v", in.TableID, err)
    }

    detail, err := s.reservations.GetDetail(ctx, res.ID)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventNewReservation, in.TableID, reservationEvent(detail))
    return detail, nil
}

// Update edits a reservation.  Customers may only edit their own
// bookings; reservations already arrived or marked no-show are
// immutable.  Moving the booking re-runs the exact-time guard
// excluding the reservation itself.
func (s *ReservationService) Update(ctx context.Context, id uint64, actor Actor, in ReservationInput) (*repository.ReservationDetail, error) {
    current, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    if !actor.Staff() && (current.UserID == nil || *current.UserID != actor.UserID) {
        return nil, repository.ErrForbidden
    }
    if current.Status == model.ReservationArrived || current.Status == model.ReservationNoShow {
        return nil, fmt.Errorf("reservation is %s and can no longer be edited: %w", current.Status, repository.ErrValidation)
    }
    if err := in.validate(); err != nil {
        return nil, err
    }
    in.applyDefaults()

    moved := in.TableID != current.TableID || in.Date != current.Date || in.Time != current.Time
    if moved {
        conflict, err := s.reservations.HasConflict(ctx, in.TableID, in.Date, in.Time, id)
        if err != nil {
            return nil, err
        }
        if conflict {
            return nil, fmt.Errorf("table is already reserved at %s %s: %w", in.Date, in.Time, repository.ErrConflict)
        }
    }

    res := &model.Reservation{
        ID:              id,
        TableID:         in.TableID,
        CustomerName:    in.CustomerName,
        CustomerPhone:   in.CustomerPhone,
        CustomerEmail:   in.CustomerEmail,
        Date:            in.Date,
        Time:            in.Time,
        DurationHours:   in.DurationHours,
        PartySize:       in.PartySize,
        SpecialRequests: in.SpecialRequests,
    }
    if err := s.reservations.Update(ctx, res); err != nil {
        return nil, err
    }
    return s.reservations.GetDetail(ctx, id)
}

var validReservationStatuses = map[string]bool{
    model.ReservationConfirmed: true,
    model.ReservationArrived:   true,
    model.ReservationCancelled: true,
    model.ReservationNoShow:    true,
    model.ReservationCompleted: true,
}

// tableStatusFor derives the table state implied by a reservation
// status.
func tableStatusFor(status string) string {
    switch status {
    case model.ReservationConfirmed:
        return model.TableReserved
    case model.ReservationArrived:
        return model.TableOccupied
    default:
        return model.TableAvailable
    }
}

// UpdateStatus moves a reservation through its lifecycle and keeps the
// table state in step: confirmed holds the table reserved, arrived
// occupies it, every other status frees it.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint64, status string) (*repository.ReservationDetail, error) {
    if !validReservationStatuses[status] {
        return nil, fmt.Errorf("invalid reservation status %q: %w", status, repository.ErrValidation)
    }
    current, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    if err := s.reservations.UpdateStatus(ctx, id, status); err != nil {
        return nil, err
    }
    if err := s.tables.UpdateStatus(ctx, current.TableID, tableStatusFor(status)); err != nil {
        log.Printf("reservation status: table %d status update failed: %v", current.TableID, err)
    }
    detail, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventReservationStatusUpdated, current.TableID, reservationEvent(detail))
    return detail, nil
}

// Cancel marks a booking cancelled and frees the table.  Customers may
// only cancel their own bookings; arrived and no-show reservations
// cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, id uint64, actor Actor) (*repository.ReservationDetail, error) {
    current, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    if !actor.Staff() && (current.UserID == nil || *current.UserID != actor.UserID) {
        return nil, repository.ErrForbidden
    }
    if current.Status == model.ReservationArrived || current.Status == model.ReservationNoShow {
        return nil, fmt.Errorf("reservation is %s and cannot be cancelled: %w", current.Status, repository.ErrValidation)
    }
    if err := s.reservations.UpdateStatus(ctx, id, model.ReservationCancelled); err != nil {
        return nil, err
    }
    if err := s.tables.UpdateStatus(ctx, current.TableID, model.TableAvailable); err != nil {
        log.Printf("reservation cancel: table %d status update failed: %v", current.TableID, err)
    }
    detail, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventReservationCancelled, current.TableID, reservationEvent(detail))
    return detail, nil
}

// Delete removes a booking outright.  The table is freed only when the
// reservation was still holding it (confirmed).
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
    current, err := s.reservations.GetDetail(ctx, id)
    if err != nil {
        return err
    }
    if err := s.reservations.Delete(ctx, id); err != nil {
        return err
    }
    if current.Status == model.ReservationConfirmed {
        if err := s.tables.UpdateStatus(ctx, current.TableID, model.TableAvailable); err != nil {
            log.Printf("reservation delete: table %d status update failed: %v", current.TableID, err)
        }
    }
    return nil
}

// BlockedInterval is a span of the day a table cannot take a new
// booking, rendered for clients.
type BlockedInterval struct {
    Start  string `json:"start"`
    End    string `json:"end"`
    Reason string `json:"reason"`
}

// SlotsResult is the answer to a slot query: the stepped candidate
// slots plus the raw blocked intervals behind them.
type SlotsResult struct {
    TableID       uint64            `json:"table_id"`
    Date          string            `json:"date"`
    DurationHours int               `json:"duration_hours"`
    Slots         []schedule.Slot   `json:"slots"`
    Blocked       []BlockedInterval `json:"blocked"`
}

// Slots generates the bookable start times for a table on a date.
// Opening hours come from business settings by weekday class; blocked
// intervals come from that day's confirmed/arrived reservations and
// from open sessions recorded that day that have both clock boundaries.
func (s *ReservationService) Slots(ctx context.Context, tableID uint64, date string, durationHours int) (*SlotsResult, error) {
    if tableID == 0 || date == "" || durationHours <= 0 {
        return nil, fmt.Errorf("table_id, date and duration_hours are required: %w", repository.ErrValidation)
    }
    day, err := time.Parse("2006-01-02", date)
    if err != nil {
        return nil, fmt.Errorf("invalid date %q: %w", date, repository.ErrValidation)
    }
    if _, err := s.tables.GetByID(ctx, tableID); err != nil {
        return nil, err
    }

    settings, err := s.settings.Get(ctx)
    if err != nil {
        return nil, err
    }
    hours := schedule.DayHours{
        WeekdaysStart: settings.WeekdaysStart,
        WeekdaysEnd:   settings.WeekdaysEnd,
        SaturdayStart: settings.SaturdayStart,
        SaturdayEnd:   settings.SaturdayEnd,
        SundayStart:   settings.SundayStart,
        SundayEnd:     settings.SundayEnd,
    }
    openMin, closeMin, open, err := hours.Window(day.Weekday())
    if err != nil {
        return nil, err
    }
    if !open {
        return nil, fmt.Errorf("business is closed on %s: %w", day.Weekday(), repository.ErrValidation)
    }

    blocked := make([]schedule.Interval, 0)
    reservations, err := s.reservations.ListForSlotDay(ctx, tableID, date)
    if err != nil {
        return nil, err
    }
    for _, res := range reservations {
        start, err := schedule.MinutesOfDay(res.Time)
        if err != nil {
            continue
        }
        blocked = append(blocked, schedule.Interval{
            Start:  start,
            End:    start + res.DurationHours*60,
            Reason: "Reservation",
        })
    }
    sessions, err := s.sessions.ListForSlotDay(ctx, tableID, date)
    if err != nil {
        return nil, err
    }
    for _, sess := range sessions {
        if sess.End == nil {
            continue
        }
        start, err := schedule.MinutesOfDay(sess.Start)
        if err != nil {
            continue
        }
        end, err := schedule.MinutesOfDay(*sess.End)
        if err != nil {
            continue
        }
        blocked = append(blocked, schedule.Interval{Start: start, End: end, Reason: "Session Running"})
    }

    result := &SlotsResult{
        TableID:       tableID,
        Date:          date,
        DurationHours: durationHours,
        Slots:         schedule.GenerateSlots(openMin, closeMin, durationHours, blocked),
        Blocked:       make([]BlockedInterval, 0, len(blocked)),
    }
    for _, b := range blocked {
        result.Blocked = append(result.Blocked, BlockedInterval{
            Start:  schedule.FormatMinutes(b.Start),
            End:    schedule.FormatMinutes(b.End),
            Reason: b.Reason,
        })
    }
    return result, nil
}

func reservationEvent(d *repository.ReservationDetail) queue.ReservationEvent {
    return queue.ReservationEvent{
        ReservationID: d.ID,
        Reference:     d.ReservationID,
        TableID:       d.TableID,
        TableNumber:   d.TableNumber,
        CustomerName:  d.CustomerName,
        Date:          d.Date,
        Time:          d.Time,
        Status:        d.Status,
    }
}
