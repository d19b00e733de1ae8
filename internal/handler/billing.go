package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// BillingHandler exposes bill projection, payments and refunds.
type BillingHandler struct {
    Svc      *service.BillingService
    Payments *repository.PaymentRepo
}

func NewBillingHandler(svc *service.BillingService, payments *repository.PaymentRepo) *BillingHandler {
    return &BillingHandler{Svc: svc, Payments: payments}
}

// Bill returns the current bill for a session: live cost while the
// session is open, frozen values once it has ended.
func (h *BillingHandler) Bill(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid session id")
    }
    bill, err := h.Svc.Bill(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", bill)
}

type paymentReq struct {
    SessionID     *uint64 `json:"session_id"`
    OrderID       *uint64 `json:"order_id"`
    Amount        float64 `json:"amount"`
    Method        string  `json:"payment_method"`
    TransactionID *string `json:"transaction_id"`
}

// ProcessPayment records a settlement.  Paying an open session also
// ends it.
func (h *BillingHandler) ProcessPayment(c echo.Context) error {
    var req paymentReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    detail, err := h.Svc.ProcessPayment(c.Request().Context(), service.PaymentInput{
        SessionID:     req.SessionID,
        OrderID:       req.OrderID,
        Amount:        req.Amount,
        Method:        req.Method,
        TransactionID: req.TransactionID,
    })
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "payment processed", detail)
}

// Refund reverses a completed payment.
func (h *BillingHandler) Refund(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid payment id")
    }
    detail, err := h.Svc.Refund(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "payment refunded", detail)
}

// GetPayment returns one payment with its session/order context.
func (h *BillingHandler) GetPayment(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid payment id")
    }
    detail, err := h.Payments.GetDetail(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", detail)
}

// ListPayments returns the payment history, paginated and filtered by
// method, status and date.
func (h *BillingHandler) ListPayments(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    out, total, err := h.Payments.List(c.Request().Context(), repository.PaymentFilter{
        Method: c.QueryParam("payment_method"),
        Status: c.QueryParam("payment_status"),
        Date:   c.QueryParam("date"),
        Page:   page,
        Limit:  limit,
    })
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", echo.Map{"payments": out, "total": total})
}

// ListMyPayments returns payments tied to the caller's sessions or
// orders.
func (h *BillingHandler) ListMyPayments(c echo.Context) error {
    uid, _ := c.Get("user_id").(uint64)
    out, err := h.Payments.ListByUser(c.Request().Context(), uid)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", out)
}
