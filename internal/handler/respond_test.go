package handler

import (
    "errors"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/poslight/pos-backend/internal/repository"
)

func newCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestRespondErrMapsSentinels(t *testing.T) {
    cases := []struct {
        err    error
        status int
    }{
        {repository.ErrNotFound, http.StatusNotFound},
        {fmt.Errorf("table T-1 is occupied: %w", repository.ErrConflict), http.StatusBadRequest},
        {fmt.Errorf("date is required: %w", repository.ErrValidation), http.StatusBadRequest},
        {repository.ErrForbidden, http.StatusForbidden},
        {errors.New("driver: bad connection"), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        c, rec := newCtx(t)
        require.NoError(t, respondErr(c, tc.err))
        assert.Equal(t, tc.status, rec.Code, "error: %v", tc.err)
        assert.Contains(t, rec.Body.String(), `"success":false`)
    }
}

func TestRespondErrHidesInternalDetail(t *testing.T) {
    c, rec := newCtx(t)
    require.NoError(t, respondErr(c, errors.New("Error 1045: access denied for user")))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NotContains(t, rec.Body.String(), "1045")
}

func TestRespondErrKeepsDomainMessage(t *testing.T) {
    c, rec := newCtx(t)
    err := fmt.Errorf("table T-4 is already reserved at 2026-09-01 18:00: %w", repository.ErrConflict)
    require.NoError(t, respondErr(c, err))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "already reserved")
}

func TestEnvelopeShape(t *testing.T) {
    c, rec := newCtx(t)
    require.NoError(t, ok(c, http.StatusOK, "done", echo.Map{"id": 1}))
    body := rec.Body.String()
    assert.Contains(t, body, `"success":true`)
    assert.Contains(t, body, `"message":"done"`)
    assert.Contains(t, body, `"data"`)

    c2, rec2 := newCtx(t)
    require.NoError(t, fail(c2, http.StatusBadRequest, "nope"))
    assert.Contains(t, rec2.Body.String(), `"success":false`)
    assert.NotContains(t, rec2.Body.String(), `"data"`)
}
