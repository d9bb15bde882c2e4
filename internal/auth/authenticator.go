package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/repository"
	"github.com/ashkhen/user-accounts-service/internal/utils"
)

// UserStore is the slice of the user repository this package needs.
// Implementations report a missing row as repository.ErrNotFound.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RevocationStore is the ledger of revoked token IDs. Revoke reports a
// duplicate jti as repository.ErrAlreadyRevoked; the unique constraint
// behind it decides the winner between racing logouts.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator verifies credentials, issues tokens and records
// logouts. It never writes to the users table; logging in and out is
// tracked entirely by token state.
type Authenticator struct {
	users  UserStore
	ledger RevocationStore
	codec  *TokenCodec
}

func NewAuthenticator(users UserStore, ledger RevocationStore, codec *TokenCodec) *Authenticator {
	return &Authenticator{users: users, ledger: ledger, codec: codec}
}

// Login checks email and password and returns a signed access token.
// An unknown email and a wrong password yield the same
// ErrInvalidCredentials; the active check runs only after the password
// matched, so a deactivated account cannot be detected without knowing
// its password.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", ErrAccountInactive
	}
	return a.codec.Issue(u.ID, u.IsActive)
}

// Logout writes the token's jti into the revocation ledger, using the
// exp claim so the row can be pruned once the token would have died on
// its own. The caller must present claims that already passed
// ValidateToken. A duplicate insert means another request revoked the
// token first and is reported as ErrAlreadyRevoked.
func (a *Authenticator) Logout(ctx context.Context, claims *Claims) error {
	err := a.ledger.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
	if errors.Is(err, repository.ErrAlreadyRevoked) {
		return ErrAlreadyRevoked
	}
	return err
}
