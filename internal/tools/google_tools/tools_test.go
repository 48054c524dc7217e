package google_tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/oauthstate"
	"github.com/teemow/workspace-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	t.Setenv(google.CredentialsDirEnvVar, t.TempDir())

	states := oauthstate.New(filepath.Join(t.TempDir(), oauthstate.StateFileName), nil)
	sc, err := server.NewServerContext(t.Context(), states, nil, nil)
	if err != nil {
		t.Fatalf("NewServerContext failed: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatal("result content is not text")
	}
	return text.Text
}

func TestHandleStartAuth_ReturnsConsentURL(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleStartAuth(context.Background(), callRequest(map[string]interface{}{"account": "work"}), sc)
	if err != nil {
		t.Fatalf("handleStartAuth failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", textContent(t, result))
	}

	text := textContent(t, result)
	if !strings.Contains(text, "accounts.google.com") {
		t.Errorf("expected consent URL in result, got: %s", text)
	}
	if !strings.Contains(text, `"work"`) {
		t.Errorf("expected account name in result, got: %s", text)
	}
}

func TestHandleSaveAuthCode_RejectsUnknownState(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSaveAuthCode(context.Background(), callRequest(map[string]interface{}{
		"authCode": "code",
		"state":    "never-issued",
	}), sc)
	if err != nil {
		t.Fatalf("handleSaveAuthCode failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown state")
	}
}

func TestHandleSaveAuthCode_RequiresArguments(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSaveAuthCode(context.Background(), callRequest(map[string]interface{}{}), sc)
	if err != nil {
		t.Fatalf("handleSaveAuthCode failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing arguments")
	}
}

func TestHandleAuthStatus_NotAuthenticated(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleAuthStatus(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handleAuthStatus failed: %v", err)
	}

	text := textContent(t, result)
	if !strings.Contains(text, "not authenticated") {
		t.Errorf("expected unauthenticated status, got: %s", text)
	}
}
