package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// tamper flips one character inside the payload segment so the
// signature no longer matches.
func tamper(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}

func TestTokenRoundTrip(t *testing.T) {
	tc := NewTokenCodec(testSecret, 30*time.Minute)

	token, err := tc.Issue(42, true)
	require.NoError(t, err)

	claims, err := tc.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.IsActive)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err, "jti must be a UUID")
}

func TestTokenDecodeRejections(t *testing.T) {
	tc := NewTokenCodec(testSecret, 30*time.Minute)
	token, err := tc.Issue(42, true)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := tc.Decode("not.a.token")
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		_, err := tc.Decode(tamper(t, token))
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenCodec("ffffffffffffffffffffffffffffffff", 30*time.Minute)
		_, err := other.Decode(token)
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": 42,
			"exp":     time.Now().Add(time.Hour).Unix(),
			"jti":     uuid.NewString(),
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tc.Decode(raw)
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("missing jti", func(t *testing.T) {
		bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 42,
			"sub":     "42",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		raw, err := bare.SignedString(tc.secret)
		require.NoError(t, err)

		_, err = tc.Decode(raw)
		assert.Equal(t, ErrTokenInvalid, err)
	})

	t.Run("missing user id", func(t *testing.T) {
		bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(time.Hour).Unix(),
			"jti": uuid.NewString(),
		})
		raw, err := bare.SignedString(tc.secret)
		require.NoError(t, err)

		_, err = tc.Decode(raw)
		assert.Equal(t, ErrTokenInvalid, err)
	})
}

func TestTokenExpiry(t *testing.T) {
	expired := NewTokenCodec(testSecret, -time.Minute)

	token, err := expired.Issue(42, true)
	require.NoError(t, err)

	t.Run("expiry is reported distinctly", func(t *testing.T) {
		_, err := expired.Decode(token)
		assert.Equal(t, ErrTokenExpired, err)
		assert.NotEqual(t, ErrTokenInvalid, err)
	})

	t.Run("bad signature outranks expiry", func(t *testing.T) {
		_, err := expired.Decode(tamper(t, token))
		assert.Equal(t, ErrTokenInvalid, err)
	})
}
