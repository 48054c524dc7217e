package oauthstate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/teemow/workspace-mcp/internal/logging"
)

// StateFileName is the file name used for the persisted state table inside
// the credentials directory.
const StateFileName = "oauth_states.json"

// PendingAuthorization is the record stored for an outstanding OAuth state
// parameter. Callers receive a copy; mutating it has no effect on the store.
type PendingAuthorization struct {
	// State is the opaque token round-tripped through the provider redirect.
	// It is the map key on disk and is not serialized inside the record.
	State string `json:"-"`

	// SessionID optionally binds the state to the session that initiated
	// the flow. Empty means no binding.
	SessionID string `json:"session_id,omitempty"`

	// CreatedAt is the issuance time in UTC.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the time after which the record is invalid regardless
	// of presence.
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is a file-backed table of pending OAuth authorizations.
//
// Every operation loads the whole table, sweeps expired entries, applies
// its mutation and rewrites the file before returning. The mutex makes
// Issue and ValidateAndConsume serialize against each other and against
// themselves; the file is assumed to have a single owning process.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a store backed by the given file path. The parent directory
// is created if it does not exist.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			logger.Warn("Failed to create OAuth state directory",
				"dir", dir,
				"error", err.Error(),
			)
		}
	}

	logger.Debug("OAuth state store initialized", "file", path)

	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Issue persists a new pending authorization for the given state token.
//
// The record expires ttl after now; a ttl of zero is legal and produces a
// record that is already expired on the next load, which is useful as a
// defensive no-op issuance. An existing record for the same token is
// overwritten. Returns ErrInvalidArgument for an empty state or negative
// ttl, and *PersistenceError if the rewritten table cannot be written.
func (s *Store) Issue(state, sessionID string, ttl time.Duration) error {
	if state == "" {
		return fmt.Errorf("%w: OAuth state must be provided", ErrInvalidArgument)
	}
	if ttl < 0 {
		return fmt.Errorf("%w: ttl must be non-negative", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	states := s.load()
	s.sweep(states)

	now := time.Now().UTC()
	states[state] = &PendingAuthorization{
		SessionID: sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.save(states); err != nil {
		return err
	}

	s.logger.Debug("Stored OAuth state",
		"state", logging.SanitizeToken(state),
		"expires_at", states[state].ExpiresAt,
	)
	return nil
}

// ValidateAndConsume checks that a state token was issued, is unexpired and
// matches the caller's session binding, then deletes it so it can never
// validate again. It returns the consumed record on success.
//
// An unknown, consumed or expired token fails with ErrInvalidState. A
// session mismatch also consumes the record, so a follow-up attempt with
// the correct session fails with ErrInvalidState rather than succeeding
// against a stale record.
func (s *Store) ValidateAndConsume(state, sessionID string) (*PendingAuthorization, error) {
	if state == "" {
		return nil, fmt.Errorf("%w: missing OAuth state parameter", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	states := s.load()
	s.sweep(states)

	info, ok := states[state]
	if !ok {
		s.logger.Error("SECURITY: OAuth callback received unknown or expired state",
			logging.Security(),
			"state", logging.SanitizeToken(state),
		)
		return nil, ErrInvalidState
	}

	if info.SessionID != "" && sessionID != "" && info.SessionID != sessionID {
		// Consume the state so the mismatch cannot be retried against a
		// stale record.
		delete(states, state)
		if err := s.save(states); err != nil {
			return nil, err
		}
		s.logger.Error("SECURITY: OAuth state session mismatch",
			logging.Security(),
			"state", logging.SanitizeToken(state),
			"expected_session", info.SessionID,
			"got_session", sessionID,
		)
		return nil, ErrSessionMismatch
	}

	delete(states, state)
	if err := s.save(states); err != nil {
		return nil, err
	}

	s.logger.Debug("Validated and consumed OAuth state",
		"state", logging.SanitizeToken(state),
	)

	info.State = state
	return info, nil
}

// load reads the state table from disk. Caller must hold the mutex.
// A missing, unreadable or malformed file yields an empty table so new
// issuance stays available even after corruption.
func (s *Store) load() map[string]*PendingAuthorization {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read OAuth state file, treating as empty",
				"file", s.path,
				"error", err.Error(),
			)
		}
		return make(map[string]*PendingAuthorization)
	}

	states := make(map[string]*PendingAuthorization)
	if err := json.Unmarshal(data, &states); err != nil {
		s.logger.Error("Malformed OAuth state file, treating as empty",
			"file", s.path,
			"error", err.Error(),
		)
		return make(map[string]*PendingAuthorization)
	}

	// A JSON null unmarshals into a nil record. Drop such entries instead
	// of letting the sweep dereference them.
	for state, info := range states {
		if info == nil {
			s.logger.Warn("Dropping damaged OAuth state entry",
				"file", s.path,
				"state", logging.SanitizeToken(state),
			)
			delete(states, state)
		}
	}

	s.logger.Debug("Loaded OAuth states from disk", "count", len(states))
	return states
}

// save rewrites the whole state table. Caller must hold the mutex.
func (s *Store) save(states map[string]*PendingAuthorization) error {
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.logger.Error("Failed to write OAuth state file",
			"file", s.path,
			"error", err.Error(),
		)
		return &PersistenceError{Path: s.path, Err: err}
	}

	s.logger.Debug("Saved OAuth states to disk", "count", len(states))
	return nil
}

// sweep removes every record whose expiry is at or before now. Caller must
// hold the mutex. Staleness is bounded only by the time between store
// operations; a record issued and never followed by another operation sits
// in the file past its expiry until the next load sweeps it.
func (s *Store) sweep(states map[string]*PendingAuthorization) {
	now := time.Now().UTC()
	expired := 0

	for state, info := range states {
		if !info.ExpiresAt.After(now) {
			delete(states, state)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Info("Cleaned up expired OAuth states", "count", expired)
	}
}
