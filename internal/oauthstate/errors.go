package oauthstate

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument indicates a caller bug: an empty state token or a
// negative TTL. Never retried.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidState indicates the state token is unknown, already consumed,
// or expired. The three causes are deliberately indistinguishable so a
// caller probing the callback endpoint learns nothing about which one
// occurred. The only remedy is restarting the authorization flow.
var ErrInvalidState = errors.New("invalid or expired OAuth state parameter")

// ErrSessionMismatch indicates a state minted for one session was redeemed
// by another. This is a security-relevant rejection and is logged
// distinctly from ordinary ErrInvalidState failures.
var ErrSessionMismatch = errors.New("OAuth state does not match the initiating session")

// PersistenceError wraps an I/O failure while rewriting the state file.
// The in-memory mutation did not become durable; callers should treat the
// operation as failed rather than proceed with token exchange.
type PersistenceError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist OAuth states to %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
