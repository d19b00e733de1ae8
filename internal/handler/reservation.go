package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// ReservationHandler exposes booking management over HTTP.
type ReservationHandler struct {
    Svc          *service.ReservationService
    Reservations *repository.ReservationRepo
}

func NewReservationHandler(svc *service.ReservationService, reservations *repository.ReservationRepo) *ReservationHandler {
    return &ReservationHandler{Svc: svc, Reservations: reservations}
}

type reservationReq struct {
    TableID         uint64  `json:"table_id"`
    CustomerName    string  `json:"customer_name"`
    CustomerPhone   string  `json:"customer_phone"`
    CustomerEmail   *string `json:"customer_email"`
    Date            string  `json:"reservation_date"`
    Time            string  `json:"reservation_time"`
    DurationHours   int     `json:"duration_hours"`
    PartySize       int     `json:"party_size"`
    SpecialRequests *string `json:"special_requests"`
}

func (req reservationReq) toInput() service.ReservationInput {
    return service.ReservationInput{
        TableID:         req.TableID,
        CustomerName:    req.CustomerName,
        CustomerPhone:   req.CustomerPhone,
        CustomerEmail:   req.CustomerEmail,
        Date:            req.Date,
        Time:            req.Time,
        DurationHours:   req.DurationHours,
        PartySize:       req.PartySize,
        SpecialRequests: req.SpecialRequests,
    }
}

// Create books a table.  Customer bookings are attributed to the
// authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    in := req.toInput()
    if a := actor(c); a.Role == model.RoleUser {
        in.UserID = callerID(c)
    }
    detail, err := h.Svc.Create(c.Request().Context(), in)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "reservation created", detail)
}

// Get returns one reservation.  Customers may only read their own.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid reservation id")
    }
    detail, err := h.Reservations.GetDetail(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    a := actor(c)
    if !a.Staff() && (detail.UserID == nil || *detail.UserID != a.UserID) {
        return fail(c, http.StatusForbidden, "forbidden")
    }
    return ok(c, http.StatusOK, "", detail)
}

// List returns reservations filtered by status, date and table type.
func (h *ReservationHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    out, err := h.Reservations.List(c.Request().Context(), repository.ReservationFilter{
        Status:    c.QueryParam("status"),
        Date:      c.QueryParam("date"),
        TableType: c.QueryParam("table_type"),
        Page:      page,
        Limit:     limit,
    })
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

// ListMine returns the authenticated user's reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    uid, _ := c.Get("user_id").(uint64)
    out, err := h.Reservations.ListByUser(c.Request().Context(), uid)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

// Update edits a reservation's details.
func (h *ReservationHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid reservation id")
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.Update(c.Request().Context(), id, actor(c), req.toInput())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "reservation updated", detail)
}

type reservationStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus moves a reservation through its lifecycle.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid reservation id")
    }
    var req reservationStatusReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "reservation status updated", detail)
}

// Cancel marks a reservation cancelled and frees the table.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid reservation id")
    }
    detail, err := h.Svc.Cancel(c.Request().Context(), id, actor(c))
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "reservation cancelled", detail)
}

// Delete removes a reservation outright.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid reservation id")
    }
    if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
        return respondErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Slots returns the bookable start times for a table on a date.
func (h *ReservationHandler) Slots(c echo.Context) error {
    tableID, _ := strconv.ParseUint(c.QueryParam("table_id"), 10, 64)
    duration, _ := strconv.Atoi(c.QueryParam("duration_hours"))
    if duration == 0 {
        duration = 2
    }
    result, err := h.Svc.Slots(c.Request().Context(), tableID, c.QueryParam("date"), duration)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", result)
}
