package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/schedule"
)

// SettingsHandler exposes the single business settings row: opening
// hours and receipt fields.
type SettingsHandler struct {
    Settings *repository.SettingsRepo
}

func NewSettingsHandler(settings *repository.SettingsRepo) *SettingsHandler {
    return &SettingsHandler{Settings: settings}
}

type settingsPayload struct {
    BusinessName  string `json:"business_name"`
    Phone         string `json:"phone"`
    Address       string `json:"address"`
    WeekdaysStart string `json:"weekdays_start"`
    WeekdaysEnd   string `json:"weekdays_end"`
    SaturdayStart string `json:"saturday_start"`
    SaturdayEnd   string `json:"saturday_end"`
    SundayStart   string `json:"sunday_start"`
    SundayEnd     string `json:"sunday_end"`
    ReceiptHeader string `json:"receipt_header"`
    ReceiptFooter string `json:"receipt_footer"`
}

func toSettingsPayload(s *model.BusinessSettings) settingsPayload {
    return settingsPayload{
        BusinessName:  s.BusinessName,
        Phone:         s.Phone,
        Address:       s.Address,
        WeekdaysStart: s.WeekdaysStart,
        WeekdaysEnd:   s.WeekdaysEnd,
        SaturdayStart: s.SaturdayStart,
        SaturdayEnd:   s.SaturdayEnd,
        SundayStart:   s.SundayStart,
        SundayEnd:     s.SundayEnd,
        ReceiptHeader: s.ReceiptHeader,
        ReceiptFooter: s.ReceiptFooter,
    }
}

// Get returns the business settings.
func (h *SettingsHandler) Get(c echo.Context) error {
    s, err := h.Settings.Get(c.Request().Context())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", toSettingsPayload(s))
}

// hoursValid accepts an empty pair (closed that day) or two parseable
// "HH:MM" strings.
func hoursValid(start, end string) bool {
    if start == "" && end == "" {
        return true
    }
    if _, err := schedule.MinutesOfDay(start); err != nil {
        return false
    }
    if _, err := schedule.MinutesOfDay(end); err != nil {
        return false
    }
    return true
}

// Update replaces the business settings.  Hour pairs must both be set
// or both be empty; an empty pair closes the business that day.
func (h *SettingsHandler) Update(c echo.Context) error {
    var req settingsPayload
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if !hoursValid(req.WeekdaysStart, req.WeekdaysEnd) ||
        !hoursValid(req.SaturdayStart, req.SaturdayEnd) ||
        !hoursValid(req.SundayStart, req.SundayEnd) {
        return fail(c, http.StatusBadRequest, "opening hours must be HH:MM pairs, or both empty for a closed day")
    }

    ctx := c.Request().Context()
    current, err := h.Settings.Get(ctx)
    if err != nil {
        return respondErr(c, err)
    }
    current.BusinessName = req.BusinessName
    current.Phone = req.Phone
    current.Address = req.Address
    current.WeekdaysStart = req.WeekdaysStart
    current.WeekdaysEnd = req.WeekdaysEnd
    current.SaturdayStart = req.SaturdayStart
    current.SaturdayEnd = req.SaturdayEnd
    current.SundayStart = req.SundayStart
    current.SundayEnd = req.SundayEnd
    current.ReceiptHeader = req.ReceiptHeader
    current.ReceiptFooter = req.ReceiptFooter

    if err := h.Settings.Update(ctx, current); err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "settings updated", toSettingsPayload(current))
}
