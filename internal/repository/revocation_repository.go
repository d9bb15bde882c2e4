package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// RevocationRepo persists the revocation ledger backing logout
// (single unique 'token_jti' column). Every authenticated request
// performs one point lookup against the index on that column.
type RevocationRepo struct{ DB *sql.DB }

func NewRevocationRepo(db *sql.DB) *RevocationRepo { return &RevocationRepo{DB: db} }

// ErrAlreadyRevoked is returned when a jti is inserted twice. The unique
// constraint arbitrates racing logouts: the first insert wins, every
// later one gets this error.
var ErrAlreadyRevoked = errors.New("token already revoked")

// Revoke records a token in the ledger. expiresAt mirrors the token's
// exp claim so the pruning job knows when the row stops mattering.
func (r *RevocationRepo) Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO revoked_tokens (token_jti, user_id, expires_at) VALUES (?,?,?)",
		jti, userID, expiresAt)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyRevoked
		}
		return err
	}
	return nil
}

// IsRevoked reports whether a jti is present in the ledger.
func (r *RevocationRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_jti=?)", jti).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// PruneExpired deletes ledger rows whose tokens have expired on their
// own. Expired tokens are rejected before the ledger is consulted, so
// removing them never changes an authorization decision. Returns the
// number of rows removed.
func (r *RevocationRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at <= ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
