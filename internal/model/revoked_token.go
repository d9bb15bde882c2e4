package model

import "time"

// RevokedToken models an entry in the `revoked_tokens` table, the
// revocation ledger consulted on every authenticated request.  A row
// exists only for tokens that were explicitly logged out; the unique
// constraint on TokenJTI makes concurrent revocations of the same
// token resolve to exactly one winner.
//
// Fields:
//
//	ID        – primary key identifier.
//	TokenJTI  – unique identifier (jti claim) of the revoked token.
//	UserID    – owner of the token at revocation time.
//	RevokedAt – when the token was revoked.
//	ExpiresAt – natural expiry of the token; rows past this moment
//	            are dead weight and are removed by the pruning job.
type RevokedToken struct {
	ID        uint64    // revoked_tokens.id
	TokenJTI  string    // revoked_tokens.token_jti
	UserID    uint64    // revoked_tokens.user_id
	RevokedAt time.Time // revoked_tokens.revoked_at
	ExpiresAt time.Time // revoked_tokens.expires_at
}
