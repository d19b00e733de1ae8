package middleware

// identity.go holds the helpers other middleware files use to key
// per-caller state (rate-limit buckets, cache entries) by identity.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID renders the authenticated caller's id for use in Redis keys.
// Unauthenticated requests share the "guest" identity.
func userID(c echo.Context) string {
    if uid, ok := c.Get("user_id").(uint64); ok {
        return strconv.FormatUint(uid, 10)
    }
    return "guest"
}
