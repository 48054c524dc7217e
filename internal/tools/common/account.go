package common

import (
	"context"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Defaults to "default" when no account is given.
func GetAccountFromArgs(ctx context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}

// GetSessionID returns the MCP session ID for the current request, or ""
// when the transport carries no session (e.g. direct handler invocation).
// OAuth states issued on behalf of a session are bound to this ID, so a
// callback from a different session is rejected.
func GetSessionID(ctx context.Context) string {
	session := mcpserver.ClientSessionFromContext(ctx)
	if session == nil {
		return ""
	}
	return session.SessionID()
}
