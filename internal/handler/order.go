package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// OrderHandler exposes food and drink ordering over HTTP.
type OrderHandler struct {
    Svc    *service.OrderService
    Orders *repository.OrderRepo
}

func NewOrderHandler(svc *service.OrderService, orders *repository.OrderRepo) *OrderHandler {
    return &OrderHandler{Svc: svc, Orders: orders}
}

type orderItemReq struct {
    MenuItemID uint64  `json:"menu_item_id"`
    Quantity   int     `json:"quantity"`
    Notes      *string `json:"notes"`
}

type orderReq struct {
    TableID   uint64         `json:"table_id"`
    SessionID *uint64        `json:"session_id"`
    Items     []orderItemReq `json:"items"`
    Discount  float64        `json:"discount_amount"`
    Notes     *string        `json:"notes"`
}

// Create prices and records an order.  Unit prices come from the menu,
// never from the request.
func (h *OrderHandler) Create(c echo.Context) error {
    var req orderReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.TableID == 0 {
        return fail(c, http.StatusBadRequest, "table_id is required")
    }
    items := make([]service.OrderItemInput, 0, len(req.Items))
    for _, it := range req.Items {
        items = append(items, service.OrderItemInput{
            MenuItemID: it.MenuItemID,
            Quantity:   it.Quantity,
            Notes:      it.Notes,
        })
    }
    detail, err := h.Svc.Create(c.Request().Context(), service.OrderInput{
        TableID:   req.TableID,
        SessionID: req.SessionID,
        UserID:    callerID(c),
        Items:     items,
        Discount:  req.Discount,
        Notes:     req.Notes,
    })
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "order created", detail)
}

// Get returns one order with its line items.
func (h *OrderHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid order id")
    }
    detail, err := h.Orders.GetDetail(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", detail)
}

// List returns all orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
    out, err := h.Orders.ListAll(c.Request().Context())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

// Kitchen returns open orders grouped by prep station, each order
// carrying only the lines that station prepares.
func (h *OrderHandler) Kitchen(c echo.Context) error {
    out, err := h.Orders.ListPendingByStation(c.Request().Context())
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}

type orderStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus advances an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid order id")
    }
    var req orderStatusReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.UpdateStatus(c.Request().Context(), id, req.Status)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "order status updated", detail)
}
