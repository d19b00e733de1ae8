package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/service"
)

// Every endpoint answers with the same envelope so clients parse one
// shape: {"success": bool, "message": string, "data": ...}.

// Verbose switches 500 responses to include the underlying error text.
// main enables it outside prod; production answers stay opaque.
var Verbose bool

func ok(c echo.Context, status int, message string, data any) error {
    return c.JSON(status, echo.Map{"success": true, "message": message, "data": data})
}

func fail(c echo.Context, status int, message string) error {
    return c.JSON(status, echo.Map{"success": false, "message": message})
}

// respondErr maps the repository sentinels onto HTTP statuses.  The
// error text is passed through for the 4xx family, where it carries
// the domain explanation; everything else is an opaque 500 so driver
// internals never reach clients.
func respondErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return fail(c, http.StatusNotFound, "not found")
    case errors.Is(err, repository.ErrValidation),
        errors.Is(err, repository.ErrConflict):
        return fail(c, http.StatusBadRequest, err.Error())
    case errors.Is(err, repository.ErrForbidden):
        return fail(c, http.StatusForbidden, "forbidden")
    default:
        c.Logger().Errorf("internal error: %v", err)
        if Verbose {
            return fail(c, http.StatusInternalServerError, err.Error())
        }
        return fail(c, http.StatusInternalServerError, "internal error")
    }
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}

// actor builds the caller identity from the JWT middleware context.
func actor(c echo.Context) service.Actor {
    uid, _ := c.Get("user_id").(uint64)
    role, _ := c.Get("role").(string)
    return service.Actor{UserID: uid, Role: role}
}

// callerID returns the authenticated user's id, or nil when absent.
func callerID(c echo.Context) *uint64 {
    if uid, ok := c.Get("user_id").(uint64); ok && uid != 0 {
        return &uid
    }
    return nil
}
