package cmd

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
)

func TestResolveStateFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		path, err := resolveStateFile("/tmp/custom-states.json")
		if err != nil {
			t.Fatalf("resolveStateFile failed: %v", err)
		}
		if path != "/tmp/custom-states.json" {
			t.Errorf("expected explicit path, got %q", path)
		}
	})

	t.Run("defaults next to stored tokens", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(google.CredentialsDirEnvVar, dir)

		path, err := resolveStateFile("")
		if err != nil {
			t.Fatalf("resolveStateFile failed: %v", err)
		}
		if path != filepath.Join(dir, oauthstate.StateFileName) {
			t.Errorf("expected state file under credentials dir, got %q", path)
		}
	})
}

func TestNewLogger_Level(t *testing.T) {
	logger := newLogger(false)
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected debug to be disabled by default")
	}
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected info to be enabled by default")
	}

	debugLogger := newLogger(true)
	if !debugLogger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected debug to be enabled with --debug")
	}
}

func TestRunServe_UnsupportedTransport(t *testing.T) {
	t.Setenv(google.CredentialsDirEnvVar, t.TempDir())
	t.Setenv("INSTRUMENTATION_ENABLED", "false")

	err := runServe(serveOptions{
		Transport:    "websocket",
		CallbackAddr: "127.0.0.1:0",
	})
	if err == nil {
		t.Fatal("expected an error for unsupported transport")
	}
	if !strings.Contains(err.Error(), "unsupported transport type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"google_start_auth":         "Authentication Tools",
		"docs_get_content":          "Google Docs Tools",
		"drive_check_public_access": "Google Drive Tools",
		"something_else":            "Other",
	}

	for name, want := range tests {
		if got := getCategoryFromToolName(name); got != want {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", name, got, want)
		}
	}
}
