package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/poslight/pos-backend/internal/utils"
)

const testSecret = "test-secret"

func doAuthed(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    var captured echo.Context
    h := JWTAuth(testSecret)(func(c echo.Context) error {
        captured = c
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec, captured
}

func TestJWTAuthSetsIdentity(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, "staff", 5)
    require.NoError(t, err)

    rec, c := doAuthed(t, "Bearer "+tok.Token)
    require.Equal(t, http.StatusOK, rec.Code)
    require.NotNil(t, c)
    assert.Equal(t, uint64(42), c.Get("user_id"))
    assert.Equal(t, "staff", c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec, _ := doAuthed(t, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
    tok, err := utils.NewAccessToken("other-secret", 42, "staff", 5)
    require.NoError(t, err)

    rec, _ := doAuthed(t, "Bearer "+tok.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
    claims := jwt.MapClaims{
        "sub":  "42",
        "role": "staff",
        "exp":  time.Now().UTC().Add(-time.Minute).Unix(),
        "iat":  time.Now().UTC().Add(-time.Hour).Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    require.NoError(t, err)

    rec, _ := doAuthed(t, "Bearer "+signed)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthNonNumericSubject(t *testing.T) {
    claims := jwt.MapClaims{
        "sub":  "not-a-number",
        "role": "staff",
        "exp":  time.Now().UTC().Add(time.Minute).Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    require.NoError(t, err)

    rec, _ := doAuthed(t, "Bearer "+signed)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "invalid subject")
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", "staff")

    h := RequireRole("admin", "staff")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOthers(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", "user")

    h := RequireRole("admin")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
