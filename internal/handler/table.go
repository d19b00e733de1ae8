package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
)

// TableHandler exposes table management over HTTP.
type TableHandler struct {
    Tables *repository.TableRepo
}

func NewTableHandler(tables *repository.TableRepo) *TableHandler {
    return &TableHandler{Tables: tables}
}

type tableReq struct {
    Number     string  `json:"table_number"`
    Name       string  `json:"table_name"`
    Type       string  `json:"table_type"`
    HourlyRate float64 `json:"hourly_rate"`
    Capacity   uint32  `json:"capacity"`
    PlugID     *string `json:"plug_id"`
}

type tableResp struct {
    ID         uint64    `json:"id"`
    Number     string    `json:"table_number"`
    Name       string    `json:"table_name"`
    Type       string    `json:"table_type"`
    HourlyRate float64   `json:"hourly_rate"`
    Capacity   uint32    `json:"capacity"`
    Status     string    `json:"status"`
    PlugID     *string   `json:"plug_id,omitempty"`
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}

func toTableResp(t *model.Table) tableResp {
    return tableResp{
        ID:         t.ID,
        Number:     t.Number,
        Name:       t.Name,
        Type:       t.Type,
        HourlyRate: t.HourlyRate,
        Capacity:   t.Capacity,
        Status:     t.Status,
        PlugID:     t.PlugID,
        CreatedAt:  t.CreatedAt,
        UpdatedAt:  t.UpdatedAt,
    }
}

// Create adds a table.  New tables always start available.
func (h *TableHandler) Create(c echo.Context) error {
    var req tableReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Number == "" || req.Name == "" || req.Type == "" {
        return fail(c, http.StatusBadRequest, "table_number, table_name and table_type are required")
    }
    if req.HourlyRate < 0 {
        return fail(c, http.StatusBadRequest, "hourly_rate cannot be negative")
    }
    t := &model.Table{
        Number:     req.Number,
        Name:       req.Name,
        Type:       req.Type,
        HourlyRate: req.HourlyRate,
        Capacity:   req.Capacity,
        PlugID:     req.PlugID,
    }
    if err := h.Tables.Create(c.Request().Context(), t); err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "table created", toTableResp(t))
}

// Get returns one table.
func (h *TableHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    t, err := h.Tables.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", toTableResp(t))
}

// List returns tables, optionally filtered by type and status.
func (h *TableHandler) List(c echo.Context) error {
    tables, err := h.Tables.List(c.Request().Context(), c.QueryParam("table_type"), c.QueryParam("status"))
    if err != nil {
        return respondErr(c, err)
    }
    out := make([]tableResp, 0, len(tables))
    for i := range tables {
        out = append(out, toTableResp(&tables[i]))
    }
    return ok(c, http.StatusOK, "", out)
}

// Update edits a table's staff-editable fields.  Status belongs to the
// session and reservation flows and is not writable here.
func (h *TableHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    var req tableReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Number == "" || req.Name == "" || req.Type == "" {
        return fail(c, http.StatusBadRequest, "table_number, table_name and table_type are required")
    }
    t := &model.Table{
        ID:         id,
        Number:     req.Number,
        Name:       req.Name,
        Type:       req.Type,
        HourlyRate: req.HourlyRate,
        Capacity:   req.Capacity,
        PlugID:     req.PlugID,
    }
    if err := h.Tables.Update(c.Request().Context(), t); err != nil {
        return respondErr(c, err)
    }
    updated, err := h.Tables.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "table updated", toTableResp(updated))
}

type tableStatusReq struct {
    Status string `json:"status"`
}

// SetMaintenance toggles a table in and out of maintenance.  Other
// statuses are owned by the session and reservation flows.
func (h *TableHandler) SetMaintenance(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    var req tableStatusReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Status != model.TableMaintenance && req.Status != model.TableAvailable {
        return fail(c, http.StatusBadRequest, "status must be maintenance or available")
    }
    if err := h.Tables.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
        return respondErr(c, err)
    }
    t, err := h.Tables.GetByID(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "table status updated", toTableResp(t))
}

// Delete removes a table.  Tables still referenced by sessions or
// reservations cannot be deleted.
func (h *TableHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid table id")
    }
    if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
        return respondErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
