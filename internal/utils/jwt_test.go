package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenClaims(t *testing.T) {
    tok, err := NewAccessToken("secret", 7, "admin", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

    parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, parsed.Valid)

    claims := parsed.Claims.(jwt.MapClaims)
    // The subject is a decimal string so it survives the JSON number
    // round trip without float truncation.
    assert.Equal(t, "7", claims["sub"])
    assert.Equal(t, "admin", claims["role"])
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
    a, err := NewRefreshToken(30)
    require.NoError(t, err)
    b, err := NewRefreshToken(30)
    require.NoError(t, err)

    assert.Len(t, a.Raw, 96)
    assert.NotEqual(t, a.Raw, b.Raw)
    assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), a.Exp, 5*time.Second)
}

func TestHashRefreshRawIsStable(t *testing.T) {
    h1 := HashRefreshRaw("token-a")
    h2 := HashRefreshRaw("token-a")
    assert.Equal(t, h1, h2)
    assert.Len(t, h1, 64)
    assert.NotEqual(t, h1, HashRefreshRaw("token-b"))
}

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("hunter2", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "hunter2"))
    assert.False(t, VerifyPassword(hash, "hunter3"))
}
