package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/repository"
)

// ReportHandler aggregates the per-day operational summary from the
// session, reservation and payment tables.
type ReportHandler struct {
    Sessions     *repository.SessionRepo
    Reservations *repository.ReservationRepo
    Payments     *repository.PaymentRepo
}

func NewReportHandler(s *repository.SessionRepo, r *repository.ReservationRepo, p *repository.PaymentRepo) *ReportHandler {
    return &ReportHandler{Sessions: s, Reservations: r, Payments: p}
}

type dailyReport struct {
    Date         string                       `json:"date"`
    Sessions     *repository.SessionStats     `json:"sessions"`
    Reservations *repository.ReservationStats `json:"reservations"`
    Billing      *repository.BillingStats     `json:"billing"`
}

// Daily returns the summary for one date (?date=2006-01-02, default
// today).
func (h *ReportHandler) Daily(c echo.Context) error {
    date := c.QueryParam("date")
    if date == "" {
        date = time.Now().Format("2006-01-02")
    } else if _, err := time.Parse("2006-01-02", date); err != nil {
        return fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
    }

    ctx := c.Request().Context()
    sessions, err := h.Sessions.StatsByDate(ctx, date)
    if err != nil {
        return respondErr(c, err)
    }
    reservations, err := h.Reservations.StatsByDate(ctx, date)
    if err != nil {
        return respondErr(c, err)
    }
    billing, err := h.Payments.StatsByDate(ctx, date)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", dailyReport{
        Date:         date,
        Sessions:     sessions,
        Reservations: reservations,
        Billing:      billing,
    })
}
