// Package router maps the HTTP surface onto the handlers and wires
// the auth middleware per route group.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/handler"
    "github.com/poslight/pos-backend/internal/middleware"
    "github.com/poslight/pos-backend/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
    Auth         *handler.AuthHandler
    Sessions     *handler.SessionHandler
    Reservations *handler.ReservationHandler
    Billing      *handler.BillingHandler
    Tables       *handler.TableHandler
    Orders       *handler.OrderHandler
    Menu         *handler.MenuHandler
    Settings     *handler.SettingsHandler
    Plugs        *handler.PlugHandler
    Reports      *handler.ReportHandler
}

// RegisterRoutes registers the unauthenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts the auth endpoints.  Register, login and the
// refresh flows are public; logout works with either a bearer token or
// a refresh token in the body, so it stays outside the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    g.POST("/logout", a.Logout)

    me := e.Group("/v1")
    me.Use(middleware.JWTAuth(jwtSecret))
    me.GET("/me", a.Me)
}

// RegisterAPI mounts the POS endpoints in three tiers: reads and
// self-service for every authenticated user, floor operations for
// admin and staff, and catalog/settings management for admin only.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string) {
    v1 := e.Group("/v1")
    v1.Use(middleware.JWTAuth(jwtSecret))

    // Any authenticated role: browse and self-service.
    v1.GET("/tables", h.Tables.List)
    v1.GET("/tables/:id", h.Tables.Get)
    v1.GET("/menu/categories", h.Menu.ListCategories)
    v1.GET("/menu/items", h.Menu.ListItems)
    v1.GET("/menu/items/:id", h.Menu.GetItem)
    v1.GET("/reservations/slots", h.Reservations.Slots)
    v1.POST("/reservations", h.Reservations.Create)
    v1.GET("/reservations/:id", h.Reservations.Get)
    v1.PUT("/reservations/:id", h.Reservations.Update)
    v1.POST("/reservations/:id/cancel", h.Reservations.Cancel)
    v1.GET("/sessions/:id", h.Sessions.Get)
    v1.GET("/my/sessions", h.Sessions.ListMine)
    v1.GET("/my/reservations", h.Reservations.ListMine)
    v1.GET("/my/payments", h.Billing.ListMyPayments)

    // Floor operations: admin and staff.
    staff := v1.Group("")
    staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
    staff.GET("/sessions", h.Sessions.List)
    staff.GET("/sessions/active", h.Sessions.ListActive)
    staff.GET("/sessions/table/:id", h.Sessions.GetOpenByTable)
    staff.POST("/sessions", h.Sessions.Start)
    staff.POST("/sessions/:id/end", h.Sessions.End)
    staff.POST("/sessions/:id/pause", h.Sessions.Pause)
    staff.POST("/sessions/:id/resume", h.Sessions.Resume)
    staff.POST("/sessions/:id/extend", h.Sessions.Extend)
    staff.POST("/sessions/:id/transfer", h.Sessions.Transfer)
    staff.DELETE("/sessions/:id", h.Sessions.Delete)
    staff.GET("/sessions/:id/bill", h.Billing.Bill)

    staff.GET("/reservations", h.Reservations.List)
    staff.PUT("/reservations/:id/status", h.Reservations.UpdateStatus)
    staff.DELETE("/reservations/:id", h.Reservations.Delete)

    staff.POST("/orders", h.Orders.Create)
    staff.GET("/orders", h.Orders.List)
    staff.GET("/orders/kitchen", h.Orders.Kitchen)
    staff.GET("/orders/:id", h.Orders.Get)
    staff.PUT("/orders/:id/status", h.Orders.UpdateStatus)

    staff.POST("/payments", h.Billing.ProcessPayment)
    staff.GET("/payments", h.Billing.ListPayments)
    staff.GET("/payments/:id", h.Billing.GetPayment)
    staff.POST("/payments/:id/refund", h.Billing.Refund)

    // 86-ing an item mid-shift is a floor call, not an admin one.
    staff.PUT("/menu/items/:id/availability", h.Menu.SetAvailability)

    staff.POST("/plugs/:id/control", h.Plugs.Control)
    staff.GET("/reports/daily", h.Reports.Daily)

    // Catalog and configuration: admin only.
    admin := v1.Group("")
    admin.Use(middleware.RequireRole(model.RoleAdmin))
    admin.POST("/tables", h.Tables.Create)
    admin.PUT("/tables/:id", h.Tables.Update)
    admin.PUT("/tables/:id/status", h.Tables.SetMaintenance)
    admin.DELETE("/tables/:id", h.Tables.Delete)

    admin.POST("/menu/categories", h.Menu.CreateCategory)
    admin.PUT("/menu/categories/:id", h.Menu.UpdateCategory)
    admin.DELETE("/menu/categories/:id", h.Menu.DeleteCategory)
    admin.POST("/menu/items", h.Menu.CreateItem)
    admin.PUT("/menu/items/:id", h.Menu.UpdateItem)
    admin.DELETE("/menu/items/:id", h.Menu.DeleteItem)

    admin.GET("/settings", h.Settings.Get)
    admin.PUT("/settings", h.Settings.Update)
}
