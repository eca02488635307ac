package jwt

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, testutil.NewMemoryCache())

	token, err := svc.GenerateTokenUser("user-1", domain.RoleAdmin)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, domain.RoleAdmin, role)

	other := NewJWTService("another-secret", time.Hour, testutil.NewMemoryCache())
	_, _, err = other.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, testutil.NewMemoryCache())

	token, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewMemoryCache()
	svc := NewJWTService("secret", time.Hour, c)

	first, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)
	second, err := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NoError(t, err)
	require.NotEqual(t, first, second, "every token carries its own id")

	require.NoError(t, svc.RevokeToken(ctx, first))
	assert.True(t, svc.IsTokenRevoked(ctx, first))
	assert.False(t, svc.IsTokenRevoked(ctx, second))

	assert.ErrorIs(t, svc.RevokeToken(ctx, "garbage"), domain.ErrTokenInvalid)
}
