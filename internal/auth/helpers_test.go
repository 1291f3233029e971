package auth

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		claims, err := RequireAuth(context.Background())
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("returns claims when present in context", func(t *testing.T) {
		expected := &UserClaims{UID: "user-123", Email: "test@example.com"}
		ctx := withUserClaims(context.Background(), expected)

		claims, err := RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected.UID, claims.UID)
		assert.Equal(t, expected.Email, claims.Email)
	})
}

func TestRequireUserAccess(t *testing.T) {
	t.Run("returns error when no claims in context", func(t *testing.T) {
		claims, err := RequireUserAccess(context.Background(), "user-123")
		assert.Nil(t, claims)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("returns error when user ID does not match", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123"})

		claims, err := RequireUserAccess(ctx, "user-456")
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
		assert.Contains(t, err.Error(), "cannot access another user's resources")
	})

	t.Run("empty requested ID means the caller", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123"})

		claims, err := RequireUserAccess(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})

	t.Run("returns claims when user ID matches", func(t *testing.T) {
		ctx := withUserClaims(context.Background(), &UserClaims{UID: "user-123"})

		claims, err := RequireUserAccess(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UID)
	})
}

func TestWrapStoreError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, WrapStoreError("list transactions", nil))
	})

	t.Run("wraps error with operation", func(t *testing.T) {
		err := WrapStoreError("list transactions", assert.AnError)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list transactions")
		assert.True(t, errors.Is(err, assert.AnError))
	})
}

func TestClaimsFromToken(t *testing.T) {
	claims := claimsFromToken("uid-1", map[string]interface{}{
		"email":          "a@example.com",
		"name":           "Ada",
		"email_verified": true,
		"picture":        "ignored",
	})
	assert.Equal(t, &UserClaims{UID: "uid-1", Email: "a@example.com", DisplayName: "Ada", Verified: true}, claims)

	bare := claimsFromToken("uid-2", nil)
	assert.Equal(t, "uid-2", bare.UID)
	assert.Empty(t, bare.Email)
	assert.False(t, bare.Verified)
}
