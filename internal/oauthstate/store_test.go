package oauthstate

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), StateFileName), slog.Default())
}

func TestStore_ConsumeOnce(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "session-a", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	info, err := store.ValidateAndConsume("state-123", "session-a")
	if err != nil {
		t.Fatalf("ValidateAndConsume() error = %v", err)
	}
	if info.State != "state-123" {
		t.Errorf("State = %s, want state-123", info.State)
	}
	if info.SessionID != "session-a" {
		t.Errorf("SessionID = %s, want session-a", info.SessionID)
	}

	// Second consumption must fail, indistinguishable from never-issued
	_, err = store.ValidateAndConsume("state-123", "session-a")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("second ValidateAndConsume() error = %v, want ErrInvalidState", err)
	}
}

func TestStore_NeverIssued(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ValidateAndConsume("unknown-state", "")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateAndConsume() error = %v, want ErrInvalidState", err)
	}
}

func TestStore_ZeroTTLExpiresImmediately(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "session-a", 0); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err := store.ValidateAndConsume("state-123", "session-a")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateAndConsume() error = %v, want ErrInvalidState", err)
	}
}

func TestStore_SessionMismatchConsumes(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "session-a", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err := store.ValidateAndConsume("state-123", "session-b")
	if !errors.Is(err, ErrSessionMismatch) {
		t.Fatalf("ValidateAndConsume() error = %v, want ErrSessionMismatch", err)
	}

	// The mismatch consumed the record, so even the correct session fails now
	_, err = store.ValidateAndConsume("state-123", "session-a")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateAndConsume() after mismatch error = %v, want ErrInvalidState", err)
	}
}

func TestStore_NoBindingCompatibility(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	info, err := store.ValidateAndConsume("state-123", "any-session")
	if err != nil {
		t.Fatalf("ValidateAndConsume() error = %v", err)
	}
	if info.SessionID != "" {
		t.Errorf("SessionID = %s, want empty", info.SessionID)
	}
}

func TestStore_BoundStateWithoutCallerSession(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "session-a", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Caller with no session constraint satisfies the binding
	if _, err := store.ValidateAndConsume("state-123", ""); err != nil {
		t.Errorf("ValidateAndConsume() error = %v", err)
	}
}

func TestStore_RestartSurvival(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)

	first := New(path, slog.Default())
	if err := first.Issue("state-123", "session-a", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Simulate a process restart by constructing a fresh store on the
	// same backing file
	second := New(path, slog.Default())
	info, err := second.ValidateAndConsume("state-123", "session-a")
	if err != nil {
		t.Fatalf("ValidateAndConsume() after restart error = %v", err)
	}
	if info.SessionID != "session-a" {
		t.Errorf("SessionID = %s, want session-a", info.SessionID)
	}
	if info.CreatedAt.IsZero() {
		t.Error("CreatedAt should survive the restart")
	}
	if info.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", info.CreatedAt.Location())
	}
}

func TestStore_SweepRemovesExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := New(path, slog.Default())

	if err := store.Issue("state-a", "", 0); err != nil {
		t.Fatalf("Issue(A) error = %v", err)
	}
	if err := store.Issue("state-b", "", 10*time.Minute); err != nil {
		t.Fatalf("Issue(B) error = %v", err)
	}

	// Issuing C sweeps A (already expired) but keeps B
	if err := store.Issue("state-c", "", 10*time.Minute); err != nil {
		t.Fatalf("Issue(C) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	persisted := string(data)

	if containsKey(persisted, "state-a") {
		t.Error("persisted table still contains swept state-a")
	}
	if !containsKey(persisted, "state-b") {
		t.Error("persisted table is missing unexpired state-b")
	}
	if !containsKey(persisted, "state-c") {
		t.Error("persisted table is missing freshly issued state-c")
	}
}

func TestStore_InvalidArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	store := New(path, slog.Default())

	if err := store.Issue("state-123", "", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}

	if err := store.Issue("", "session-a", 10*time.Minute); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Issue(empty state) error = %v, want ErrInvalidArgument", err)
	}
	if err := store.Issue("state-456", "session-a", -time.Second); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Issue(negative ttl) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := store.ValidateAndConsume("", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ValidateAndConsume(empty state) error = %v, want ErrInvalidArgument", err)
	}

	// Rejected calls must leave the persisted table unchanged
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	if string(before) != string(after) {
		t.Error("persisted table changed after rejected arguments")
	}
}

func TestStore_CollisionOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Issue("state-123", "session-a", 10*time.Minute); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := store.Issue("state-123", "session-b", 10*time.Minute); err != nil {
		t.Fatalf("Issue() overwrite error = %v", err)
	}

	info, err := store.ValidateAndConsume("state-123", "session-b")
	if err != nil {
		t.Fatalf("ValidateAndConsume() error = %v", err)
	}
	if info.SessionID != "session-b" {
		t.Errorf("SessionID = %s, want session-b (overwritten record)", info.SessionID)
	}
}

func TestStore_MalformedFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	if err := os.WriteFile(path, []byte("not json{{"), 0600); err != nil {
		t.Fatalf("seeding malformed file: %v", err)
	}

	store := New(path, slog.Default())

	// Issuance still works against the corrupted file
	if err := store.Issue("state-123", "", 10*time.Minute); err != nil {
		t.Fatalf("Issue() against malformed file error = %v", err)
	}
	if _, err := store.ValidateAndConsume("state-123", ""); err != nil {
		t.Errorf("ValidateAndConsume() error = %v", err)
	}
}

func TestStore_NullEntryTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	// Valid JSON, but the record itself is null
	if err := os.WriteFile(path, []byte(`{"state-x": null}`), 0600); err != nil {
		t.Fatalf("seeding null entry: %v", err)
	}

	store := New(path, slog.Default())

	if err := store.Issue("state-y", "", time.Minute); err != nil {
		t.Fatalf("Issue() against null entry error = %v", err)
	}
	if _, err := store.ValidateAndConsume("state-y", ""); err != nil {
		t.Errorf("ValidateAndConsume() error = %v", err)
	}

	// The damaged entry is dropped, not resurrected
	_, err := store.ValidateAndConsume("state-x", "")
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateAndConsume(damaged entry) error = %v, want ErrInvalidState", err)
	}
}

func TestStore_WriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	// A path whose parent is a regular file cannot be written
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("seeding blocker file: %v", err)
	}

	store := New(filepath.Join(blocker, StateFileName), slog.Default())

	err := store.Issue("state-123", "", 10*time.Minute)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Issue() error = %v, want *PersistenceError", err)
	}
}

func TestStore_ConcurrentIssueAndConsume(t *testing.T) {
	store := newTestStore(t)

	const flows = 16
	done := make(chan error, flows)
	for i := 0; i < flows; i++ {
		state := "state-" + string(rune('a'+i))
		go func() {
			if err := store.Issue(state, "", time.Minute); err != nil {
				done <- err
				return
			}
			_, err := store.ValidateAndConsume(state, "")
			done <- err
		}()
	}

	for i := 0; i < flows; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent flow error = %v", err)
		}
	}
}

func containsKey(doc, key string) bool {
	return strings.Contains(doc, `"`+key+`"`)
}
