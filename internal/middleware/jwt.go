package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the caller's identity into the request context.
// The subject claim is parsed into a uint64 and stored under
// "user_id"; the role claim is stored under "role".  Handlers read
// both via c.Get.  The provided secret must match the one used when
// issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Pin the signing method to HMAC; a token signed any other
            // way is rejected before the claims are trusted.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid claims"})
            }

            sub, _ := claims["sub"].(string)
            uid, err := strconv.ParseUint(sub, 10, 64)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid subject"})
            }
            role, _ := claims["role"].(string)

            c.Set("user_id", uid)
            c.Set("role", role)
            return next(c)
        }
    }
}
