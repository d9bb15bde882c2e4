// Package auth implements credential verification, access token issuance
// and per-request session resolution backed by a revocation ledger.
// These sentinel values let handlers and middleware distinguish failure
// scenarios without inspecting library errors.
package auth

import "errors"

// ErrInvalidCredentials is returned by Login for an unknown email or a
// wrong password. Both cases share one sentinel so responses cannot be
// used to probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountInactive is returned when the account is deactivated, either
// at login or when resolving a session for a token issued earlier.
var ErrAccountInactive = errors.New("account inactive")

// ErrMissingToken is returned when no bearer token was presented.
var ErrMissingToken = errors.New("missing token")

// ErrTokenInvalid is returned for tokens that fail structural checks:
// bad signature, wrong algorithm, garbled payload or missing claims.
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is returned for well-formed tokens past their exp
// claim. Kept separate from ErrTokenInvalid so clients can tell a
// stale session apart from a broken one.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenRevoked is returned for tokens found in the revocation ledger.
var ErrTokenRevoked = errors.New("token revoked")

// ErrAlreadyRevoked is returned by Logout when the token was revoked
// concurrently or by an earlier request.
var ErrAlreadyRevoked = errors.New("token already revoked")
