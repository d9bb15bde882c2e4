package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeBearer is the token_type value returned by login, as
// expected by clients sending Authorization: Bearer headers.
const TokenTypeBearer = "bearer"

// Claims carries the payload of an access token. On top of the
// registered claims (sub, iat, exp, jti) it records the numeric user
// ID and a snapshot of the account's active flag at issuance time.
// The snapshot is informational only; authorization always re-checks
// the database, because the account may have been deactivated after
// the token was signed.
type Claims struct {
	UserID   uint64 `json:"user_id"`
	IsActive bool   `json:"is_active"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens. Every issued
// token gets a fresh random jti, which later serves as its identity
// in the revocation ledger.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec from the signing secret and the token
// lifetime. Secret strength is enforced at config load.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (tc *TokenCodec) TTL() time.Duration { return tc.ttl }

// Issue creates and signs a token for the given user. The subject
// duplicates the user ID as a string to stay compatible with clients
// that only read registered claims.
func (tc *TokenCodec) Issue(userID uint64, isActive bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		IsActive: isActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tc.secret)
}

// Decode parses and verifies a token string. The callback pins the
// signing method to HMAC so tokens with a different algorithm are
// rejected regardless of their signature. Expiry is reported as
// ErrTokenExpired; every other defect, including a signature that
// does not verify or claims that are absent, comes back as
// ErrTokenInvalid.
func (tc *TokenCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	// The ledger and the identity lookup cannot work without these.
	if claims.ID == "" || claims.UserID == 0 || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
