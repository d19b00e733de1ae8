package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// SessionHandler exposes the session lifecycle over HTTP.  Lifecycle
// rules live in the service; the handler only binds requests and maps
// errors.
type SessionHandler struct {
    Svc      *service.SessionService
    Sessions *repository.SessionRepo
    Orders   *repository.OrderRepo
}

func NewSessionHandler(svc *service.SessionService, sessions *repository.SessionRepo, orders *repository.OrderRepo) *SessionHandler {
    return &SessionHandler{Svc: svc, Sessions: sessions, Orders: orders}
}

type startSessionReq struct {
    TableID       uint64     `json:"table_id"`
    UserID        *uint64    `json:"user_id"`
    CustomerName  *string    `json:"customer_name"`
    CustomerPhone *string    `json:"customer_phone"`
    StartTime     *time.Time `json:"start_time"`
    Amount        float64    `json:"amount"`
    TimeLimit     *int       `json:"time_limit"`
}

// Start opens a session on a table.
func (h *SessionHandler) Start(c echo.Context) error {
    var req startSessionReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.TableID == 0 {
        return fail(c, http.StatusBadRequest, "table_id is required")
    }
    detail, err := h.Svc.Start(c.Request().Context(), service.StartSessionInput{
        TableID:       req.TableID,
        UserID:        req.UserID,
        CustomerName:  req.CustomerName,
        CustomerPhone: req.CustomerPhone,
        StartTime:     req.StartTime,
        Amount:        req.Amount,
        TimeLimit:     req.TimeLimit,
    })
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "session started", detail)
}

// End closes an open session, freezing its duration and cost.
func (h *SessionHandler) End(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    detail, err := h.Svc.End(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "session ended", detail)
}

func (h *SessionHandler) Pause(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    detail, err := h.Svc.Pause(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "session paused", detail)
}

func (h *SessionHandler) Resume(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    detail, err := h.Svc.Resume(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "session resumed", detail)
}

type extendReq struct {
    Minutes int `json:"minutes"`
}

// Extend records an extension request for the floor displays.  No
// billing boundary moves.
func (h *SessionHandler) Extend(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    var req extendReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.Extend(c.Request().Context(), id, req.Minutes)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "session extended", detail)
}

type transferReq struct {
    UserID        *uint64 `json:"user_id"`
    CustomerName  *string `json:"customer_name"`
    CustomerPhone *string `json:"customer_phone"`
}

// Transfer reassigns who the session is billed to.
func (h *SessionHandler) Transfer(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    var req transferReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.Transfer(c.Request().Context(), id, req.UserID, req.CustomerName, req.CustomerPhone)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "session transferred", detail)
}

// Delete removes a session record entirely.
func (h *SessionHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
        return respondErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Get returns one session with its orders.  Customers can only read
// their own sessions.
func (h *SessionHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    ctx := c.Request().Context()
    detail, err := h.Sessions.GetDetail(ctx, id)
    if err != nil {
        return respondErr(c, err)
    }
    a := actor(c)
    if !a.Staff() && (detail.UserID == nil || *detail.UserID != a.UserID) {
        return fail(c, http.StatusForbidden, "forbidden")
    }
    orders, err := h.Orders.ListBySession(ctx, id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", echo.Map{"session": detail, "orders": orders})
}

// GetOpenByTable returns the open session on a table, if any.  Floor
// displays poll this for the running timer.
func (h *SessionHandler) GetOpenByTable(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    detail, err := h.Sessions.GetOpenByTable(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", detail)
}

// List returns all sessions, newest first.
func (h *SessionHandler) List(c echo.Context) error {
    out, err := h.Sessions.ListAll(c.Request().Context())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

// ListActive returns open (active or paused) sessions for floor views.
func (h *SessionHandler) ListActive(c echo.Context) error {
    out, err := h.Sessions.ListActive(c.Request().Context())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

// ListMine returns the authenticated user's sessions.
func (h *SessionHandler) ListMine(c echo.Context) error {
    uid, _ := c.Get("user_id").(uint64)
    out, err := h.Sessions.ListByUser(c.Request().Context(), uid)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}
