package drive_tools

import (
	"context"
	"path/filepath"
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

func TestHandleGetFilePermissions_RequiresIdentifier(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetFilePermissions(context.Background(), callRequest(map[string]interface{}{}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when neither fileId nor fileName is given")
	}
}

func TestHandleGetFilePermissions_Unauthenticated(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetFilePermissions(context.Background(), callRequest(map[string]interface{}{
		"fileId": "file-123",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result without stored credentials")
	}
}

func TestHandleCheckPublicAccess_RequiresFileID(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleCheckPublicAccess(context.Background(), callRequest(map[string]interface{}{}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing fileId")
	}
}

func TestGetDriveClient_NoToken(t *testing.T) {
	sc := newTestServerContext(t)

	client, err := getDriveClient(context.Background(), "nobody", sc)
	if err == nil {
		t.Fatal("expected error for account without token")
	}
	if client != nil {
		t.Error("expected nil client for account without token")
	}
}
