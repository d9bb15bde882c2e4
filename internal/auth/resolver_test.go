package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, ttl time.Duration) (*Resolver, *Authenticator, *memUserStore, *memRevocationStore) {
	t.Helper()
	alice := testUser(t, 1, "alice@example.com", "Password123", true)
	users := newMemUserStore(alice)
	ledger := newMemRevocationStore()
	codec := NewTokenCodec(strings.Repeat("r", 32), ttl)
	return NewResolver(codec, users, ledger), NewAuthenticator(users, ledger, codec), users, ledger
}

func TestResolveLadder(t *testing.T) {
	ctx := context.Background()
	r, a, users, _ := newTestResolver(t, 30*time.Minute)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)

	t.Run("success populates user and claims", func(t *testing.T) {
		u, claims, err := r.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, uint64(1), claims.UserID)
		assert.Equal(t, "user", u.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		_, _, err := r.Resolve(ctx, "")
		assert.Equal(t, ErrMissingToken, err)

		_, _, err = r.Resolve(ctx, "   ")
		assert.Equal(t, ErrMissingToken, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := r.Resolve(ctx, "definitely-not-a-jwt")
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("deleted user reads as invalid token", func(t *testing.T) {
		users.remove(1)

		_, _, err := r.Resolve(ctx, token)
		assert.Equal(t, ErrTokenInvalid, err)
	})
}

// A token issued while the account was active must stop resolving as
// soon as the account is deactivated, even though the is_active
// snapshot inside the claims still says true.
func TestResolveChecksAccountFreshness(t *testing.T) {
	ctx := context.Background()
	r, a, users, _ := newTestResolver(t, 30*time.Minute)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)

	claims, err := r.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.True(t, claims.IsActive, "snapshot recorded at issuance")

	users.setActive(1, false)

	_, _, err = r.Resolve(ctx, token)
	assert.Equal(t, ErrAccountInactive, err)
}

func TestResolveRevokedToken(t *testing.T) {
	ctx := context.Background()
	r, a, _, _ := newTestResolver(t, 30*time.Minute)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)
	claims, err := r.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx, claims))

	_, _, err = r.Resolve(ctx, token)
	assert.Equal(t, ErrTokenRevoked, err)

	_, err = r.ValidateToken(ctx, token)
	assert.Equal(t, ErrTokenRevoked, err)
}

// Logout must stay possible for a deactivated account: the token-level
// checks pass while the full resolution fails.
func TestValidateTokenSkipsIdentityChecks(t *testing.T) {
	ctx := context.Background()
	r, a, users, _ := newTestResolver(t, 30*time.Minute)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)

	users.setActive(1, false)

	claims, err := r.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)

	_, _, err = r.Resolve(ctx, token)
	assert.Equal(t, ErrAccountInactive, err)
}

func TestResolveExpiredToken(t *testing.T) {
	ctx := context.Background()
	r, a, _, _ := newTestResolver(t, time.Second)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)

	_, _, err = r.Resolve(ctx, token)
	require.NoError(t, err, "token must be alive right after issuance")

	time.Sleep(2 * time.Second)

	_, _, err = r.Resolve(ctx, token)
	assert.Equal(t, ErrTokenExpired, err)
}

// Expiry is detected before the ledger is consulted, so a token that is
// both revoked and expired reads as expired.
func TestExpiryOutranksRevocation(t *testing.T) {
	ctx := context.Background()
	r, a, _, _ := newTestResolver(t, time.Second)

	token, err := a.Login(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)
	claims, err := r.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.NoError(t, a.Logout(ctx, claims))

	time.Sleep(1200 * time.Millisecond)

	_, _, err = r.Resolve(ctx, token)
	assert.Equal(t, ErrTokenExpired, err)
}
