package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func TestIssueAndValidatePair(t *testing.T) {
	pair, err := auth.IssuePair(42)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(pair.Token, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	claims, err = auth.ValidateToken(pair.RefreshToken, auth.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	pair, err := auth.IssuePair(7)
	require.NoError(t, err)

	_, err = auth.ValidateToken(pair.RefreshToken, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)

	_, err = auth.ValidateToken(pair.Token, auth.TypeRefresh)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestGarbageToken(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token", auth.TypeAccess)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "secret123"))
	assert.False(t, auth.CheckPassword(hash, "secret124"))
}

func TestUserIDContext(t *testing.T) {
	_, ok := auth.UserIDFromCtx(context.Background())
	assert.False(t, ok)

	id, ok := auth.UserIDFromCtx(auth.WithUserID(context.Background(), 3))
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)
}
