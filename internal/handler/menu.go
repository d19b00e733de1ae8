package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
)

// MenuHandler exposes menu category and item management.
type MenuHandler struct {
    Menu *repository.MenuRepo
}

func NewMenuHandler(menu *repository.MenuRepo) *MenuHandler {
    return &MenuHandler{Menu: menu}
}

type categoryReq struct {
    Name      string `json:"name"`
    SortOrder int    `json:"sort_order"`
    IsActive  *bool  `json:"is_active"`
}

type categoryResp struct {
    ID        uint64 `json:"id"`
    Name      string `json:"name"`
    SortOrder int    `json:"sort_order"`
    IsActive  bool   `json:"is_active"`
}

func toCategoryResp(c *model.MenuCategory) categoryResp {
    return categoryResp{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder, IsActive: c.IsActive}
}

type menuItemReq struct {
    CategoryID  uint64  `json:"category_id"`
    Name        string  `json:"name"`
    Description *string `json:"description"`
    Price       float64 `json:"price"`
    IsAvailable *bool   `json:"is_available"`
    Station     string  `json:"station"`
}

type menuItemResp struct {
    ID          uint64    `json:"id"`
    CategoryID  uint64    `json:"category_id"`
    Name        string    `json:"name"`
    Description *string   `json:"description,omitempty"`
    Price       float64   `json:"price"`
    IsAvailable bool      `json:"is_available"`
    Station     string    `json:"station"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}

func toMenuItemResp(m *model.MenuItem) menuItemResp {
    return menuItemResp{
        ID:          m.ID,
        CategoryID:  m.CategoryID,
        Name:        m.Name,
        Description: m.Description,
        Price:       m.Price,
        IsAvailable: m.IsAvailable,
        Station:     m.Station,
        CreatedAt:   m.CreatedAt,
        UpdatedAt:   m.UpdatedAt,
    }
}

// CreateCategory adds a menu category.
func (h *MenuHandler) CreateCategory(c echo.Context) error {
    var req categoryReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Name == "" {
        return fail(c, http.StatusBadRequest, "name is required")
    }
    cat := &model.MenuCategory{Name: req.Name, SortOrder: req.SortOrder, IsActive: true}
    if req.IsActive != nil {
        cat.IsActive = *req.IsActive
    }
    if err := h.Menu.CreateCategory(c.Request().Context(), cat); err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "category created", toCategoryResp(cat))
}

// ListCategories returns categories in display order.  active=true
// limits the answer to visible categories.
func (h *MenuHandler) ListCategories(c echo.Context) error {
    activeOnly := c.QueryParam("active") == "true"
    cats, err := h.Menu.ListCategories(c.Request().Context(), activeOnly)
    if err != nil {
        return respondErr(c, err)
    }
    out := make([]categoryResp, 0, len(cats))
    for i := range cats {
        out = append(out, toCategoryResp(&cats[i]))
    }
    return ok(c, http.StatusOK, "", out)
}

// UpdateCategory edits a category.
func (h *MenuHandler) UpdateCategory(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid category id")
    }
    var req categoryReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Name == "" {
        return fail(c, http.StatusBadRequest, "name is required")
    }
    cat := &model.MenuCategory{ID: id, Name: req.Name, SortOrder: req.SortOrder, IsActive: true}
    if req.IsActive != nil {
        cat.IsActive = *req.IsActive
    }
    if err := h.Menu.UpdateCategory(c.Request().Context(), cat); err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "category updated", toCategoryResp(cat))
}

// DeleteCategory removes a category.  Categories with items cannot be
// deleted.
func (h *MenuHandler) DeleteCategory(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid category id")
    }
    if err := h.Menu.DeleteCategory(c.Request().Context(), id); err != nil {
        return respondErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// CreateItem adds a menu item.
func (h *MenuHandler) CreateItem(c echo.Context) error {
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Name == "" || req.CategoryID == 0 {
        return fail(c, http.StatusBadRequest, "name and category_id are required")
    }
    if req.Price < 0 {
        return fail(c, http.StatusBadRequest, "price cannot be negative")
    }
    item := &model.MenuItem{
        CategoryID:  req.CategoryID,
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        IsAvailable: true,
        Station:     req.Station,
    }
    if req.IsAvailable != nil {
        item.IsAvailable = *req.IsAvailable
    }
    if err := h.Menu.CreateItem(c.Request().Context(), item); err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusCreated, "menu item created", toMenuItemResp(item))
}

// GetItem returns one menu item.
func (h *MenuHandler) GetItem(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid item id")
    }
    item, err := h.Menu.GetItem(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "", toMenuItemResp(item))
}

// ListItems returns menu items, optionally filtered by category and
// availability.
func (h *MenuHandler) ListItems(c echo.Context) error {
    categoryID, _ := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
    availableOnly := c.QueryParam("available") == "true"
    items, err := h.Menu.ListItems(c.Request().Context(), categoryID, availableOnly)
    if err != nil {
        return respondErr(c, err)
    }
    out := make([]menuItemResp, 0, len(items))
    for i := range items {
        out = append(out, toMenuItemResp(&items[i]))
    }
    return ok(c, http.StatusOK, "", out)
}

// UpdateItem edits a menu item.
func (h *MenuHandler) UpdateItem(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid item id")
    }
    var req menuItemReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Name == "" || req.CategoryID == 0 {
        return fail(c, http.StatusBadRequest, "name and category_id are required")
    }
    if req.Price < 0 {
        return fail(c, http.StatusBadRequest, "price cannot be negative")
    }
    item := &model.MenuItem{
        ID:          id,
        CategoryID:  req.CategoryID,
        Name:        req.Name,
        Description: req.Description,
        Price:       req.Price,
        IsAvailable: true,
        Station:     req.Station,
    }
    if req.IsAvailable != nil {
        item.IsAvailable = *req.IsAvailable
    }
    if err := h.Menu.UpdateItem(c.Request().Context(), item); err != nil {
        return respondErr(c, err)
    }
    updated, err := h.Menu.GetItem(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "menu item updated", toMenuItemResp(updated))
}

type availabilityReq struct {
    IsAvailable bool `json:"is_available"`
}

// SetAvailability flips an item's 86 flag without touching anything
// else.
func (h *MenuHandler) SetAvailability(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid item id")
    }
    var req availabilityReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if err := h.Menu.SetItemAvailability(c.Request().Context(), id, req.IsAvailable); err != nil {
        return respondErr(c, err)
    }
    item, err := h.Menu.GetItem(c.Request().Context(), id)
    if err != nil {
        return respondErr(c, err)
    }
    return ok(c, http.StatusOK, "availability updated", toMenuItemResp(item))
}

// DeleteItem removes a menu item.
func (h *MenuHandler) DeleteItem(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid item id")
    }
    if err := h.Menu.DeleteItem(c.Request().Context(), id); err != nil {
        return respondErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
