package common

import (
	"context"
	"errors"
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

func TestInstrumentedToolHandler_PassesThroughResult(t *testing.T) {
	sc := newTestServerContext(t)

	handler := InstrumentedToolHandler("test_tool", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("ok"), nil
		})

	result, err := handler(context.Background(), callRequest(map[string]interface{}{"account": "work"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || result.IsError {
		t.Fatal("expected successful result")
	}
}

func TestInstrumentedToolHandler_PassesThroughError(t *testing.T) {
	sc := newTestServerContext(t)

	wantErr := errors.New("boom")
	handler := InstrumentedToolHandler("test_tool", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, wantErr
		})

	_, err := handler(context.Background(), callRequest(nil))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
}

func TestInstrumentedToolHandlerWithService_ToolResultError(t *testing.T) {
	sc := newTestServerContext(t)

	handler := InstrumentedToolHandlerWithService("test_tool", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("bad input"), nil
		})

	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result to pass through")
	}
}
