package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// PlugHandler lets staff drive a table's smart plug directly, outside
// the automatic session flow.  Commands go over the same event channel
// the session lifecycle uses; the plug consumer does the switching.
type PlugHandler struct {
    Tables  *repository.TableRepo
    Publish service.Publisher
}

func NewPlugHandler(tables *repository.TableRepo, publish service.Publisher) *PlugHandler {
    if publish == nil {
        publish = func(context.Context, string, uint64, any) error { return nil }
    }
    return &PlugHandler{Tables: tables, Publish: publish}
}

type plugReq struct {
    Action string `json:"action"` // "on" | "off"
}

// Control publishes a manual power command for the table's plug.
func (h *PlugHandler) Control(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    var req plugReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Action != "on" && req.Action != "off" {
        return fail(c, http.StatusBadRequest, "action must be on or off")
    }

    ctx := c.Request().Context()
    table, err := h.Tables.GetByID(ctx, id)
    if err != nil {
        return respondErr(c, err)
    }
    if table.PlugID == nil {
        return fail(c, http.StatusBadRequest, "table has no smart plug")
    }

    ev := queue.PlugControlEvent{
        TableID:     table.ID,
        TableNumber: table.Number,
        PlugID:      *table.PlugID,
        Action:      req.Action,
        Reason:      "manual",
    }
    if err := h.Publish(ctx, queue.EventPlugAutoControl, table.ID, ev); err != nil {
        return fail(c, http.StatusBadGateway, "plug command could not be queued")
    }
    return ok(c, http.StatusOK, "plug command sent", ev)
}
