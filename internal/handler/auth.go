package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/poslight/pos-backend/internal/config"
    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/repository"
    "github.com/poslight/pos-backend/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    Name     string  `json:"name"`
    Email    string  `json:"email"`
    Phone    *string `json:"phone"`
    Password string  `json:"password"`
    Role     string  `json:"role"` // staff | user; admin accounts are seeded
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Role  string `json:"role"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

// Register creates a user and returns a token pair immediately.
// Self-registration never grants admin; unknown roles fall back to the
// customer role.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.Email == "" || req.Password == "" {
        return fail(c, http.StatusBadRequest, "name, email and password are required")
    }
    role := strings.ToLower(strings.TrimSpace(req.Role))
    if role != model.RoleStaff && role != model.RoleUser {
        role = model.RoleUser
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Phone, role, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return fail(c, http.StatusConflict, "email already exists")
        }
        return fail(c, http.StatusInternalServerError, "create user failed")
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue access failed")
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue refresh failed")
    }
    if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return fail(c, http.StatusInternalServerError, "save refresh failed")
    }

    return ok(c, http.StatusCreated, "registered", authResp{
        User:    userPart{ID: uid, Name: req.Name, Email: req.Email, Role: role},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return fail(c, http.StatusBadRequest, "email and password are required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == sql.ErrNoRows {
            return fail(c, http.StatusUnauthorized, "invalid credentials")
        }
        return fail(c, http.StatusInternalServerError, "query failed")
    }
    if !u.IsActive {
        return fail(c, http.StatusUnauthorized, "account disabled")
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return fail(c, http.StatusUnauthorized, "invalid credentials")
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue access failed")
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue refresh failed")
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return fail(c, http.StatusInternalServerError, "save refresh failed")
    }

    return ok(c, http.StatusOK, "logged in", authResp{
        User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    })
}

// Refresh validates a refresh token by hash, revokes it, and issues a
// new pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return fail(c, http.StatusBadRequest, "refresh_token required")
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "invalid refresh")
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "load user failed")
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue access failed")
    }
    newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue refresh failed")
    }
    if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
        return fail(c, http.StatusInternalServerError, "save refresh failed")
    }

    return ok(c, http.StatusOK, "refreshed", authResp{
        User:    userPart{ID: userID, Name: u.Name, Email: u.Email, Role: u.Role},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
    })
}

// RefreshAccess validates a refresh token and returns a new access
// token WITHOUT rotating the refresh token.  Useful for obtaining a
// fresh short-lived access token mid-shift.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return fail(c, http.StatusBadRequest, "refresh_token required")
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "invalid refresh")
    }
    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return fail(c, http.StatusUnauthorized, "invalid refresh")
        }
        return fail(c, http.StatusInternalServerError, "load user failed")
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return fail(c, http.StatusInternalServerError, "issue access failed")
    }
    return ok(c, http.StatusOK, "refreshed", echo.Map{
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Logout revokes refresh tokens.  With a bearer token and no body it
// revokes every session of that user; with a refresh_token in the body
// it revokes just that session.  The endpoint works without the JWT
// middleware so a client with only a refresh token can still log out.
func (h *AuthHandler) Logout(c echo.Context) error {
    var uid uint64
    hasBearer := false
    authHeader := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(authHeader, "Bearer ") {
        rawToken := strings.TrimPrefix(authHeader, "Bearer ")
        tok, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
            if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, echo.ErrUnauthorized
            }
            return []byte(h.Cfg.JWTSecret), nil
        })
        if err == nil && tok.Valid {
            if claims, ok := tok.Claims.(jwt.MapClaims); ok {
                if sub, ok := claims["sub"].(string); ok {
                    if parsed, err := strconv.ParseUint(sub, 10, 64); err == nil {
                        uid = parsed
                        hasBearer = true
                    }
                }
            }
        }
    }

    var req refreshReq
    _ = c.Bind(&req)
    refreshToken := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if hasBearer && refreshToken == "" {
        if uid == 0 {
            return fail(c, http.StatusUnauthorized, "unauthorized")
        }
        if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
            return fail(c, http.StatusInternalServerError, "logout failed")
        }
        return c.NoContent(http.StatusNoContent)
    }
    if refreshToken != "" {
        hash := utils.HashRefreshRaw(refreshToken)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return fail(c, http.StatusUnauthorized, "invalid refresh token")
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return fail(c, http.StatusInternalServerError, "logout failed")
        }
        return c.NoContent(http.StatusNoContent)
    }
    return fail(c, http.StatusBadRequest, "provide Authorization header or refresh_token")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, _ := c.Get("user_id").(uint64)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if err == sql.ErrNoRows {
            return fail(c, http.StatusNotFound, "user not found")
        }
        return fail(c, http.StatusInternalServerError, "load user failed")
    }
    return ok(c, http.StatusOK, "", userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
}
