package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/repository"
)

// Resolver turns a presented bearer token into an authenticated user.
// Checks run in a fixed order: presence, structural decode, the
// revocation ledger, then the identity fetch. The first failed step
// decides the error; later steps never run.
type Resolver struct {
	codec  *TokenCodec
	users  UserStore
	ledger RevocationStore
}

func NewResolver(codec *TokenCodec, users UserStore, ledger RevocationStore) *Resolver {
	return &Resolver{codec: codec, users: users, ledger: ledger}
}

// ValidateToken runs the token-level checks: presence, signature and
// structure, expiry, and the revocation ledger. It returns the decoded
// claims without touching the users table, which is exactly what logout
// needs, since a deactivated account must still be able to end its
// session.
func (r *Resolver) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	claims, err := r.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	revoked, err := r.ledger.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Resolve validates the token and then re-fetches the account it
// belongs to. The is_active snapshot inside the claims is not trusted
// here: a token issued while the account was active must stop working
// the moment the account is deactivated. A user that no longer exists
// reads as an invalid token.
func (r *Resolver) Resolve(ctx context.Context, token string) (model.User, *Claims, error) {
	claims, err := r.ValidateToken(ctx, token)
	if err != nil {
		return model.User{}, nil, err
	}
	u, err := r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, nil, ErrTokenInvalid
		}
		return model.User{}, nil, err
	}
	if !u.IsActive {
		return model.User{}, nil, ErrAccountInactive
	}
	return u, claims, nil
}
