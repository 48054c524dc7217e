package docs_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/server"
)

// getDocsClient retrieves or creates a docs client for the specified account
func getDocsClient(ctx context.Context, account string, sc *server.ServerContext) (*docs.Client, error) {
	client := sc.DocsClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !docs.HasTokenForAccount(account) {
			errorMsg := google.GetAuthenticationErrorMessage(account)
			return nil, fmt.Errorf("%s", errorMsg)
		}

		var err error
		client, err = docs.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Docs client for account %s: %w", account, err)
		}
		sc.SetDocsClientForAccount(account, client)
	}
	return client, nil
}

// getDriveClient retrieves or creates a drive client for the specified account.
// Comment threads and image sharing checks go through the Drive API.
func getDriveClient(ctx context.Context, account string, sc *server.ServerContext) (*drive.Client, error) {
	client := sc.DriveClientForAccount(account)
	if client == nil {
		if !drive.HasTokenForAccount(account) {
			errorMsg := google.GetAuthenticationErrorMessage(account)
			return nil, fmt.Errorf("%s", errorMsg)
		}

		var err error
		client, err = drive.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
		}
		sc.SetDriveClientForAccount(account, client)
	}
	return client, nil
}

// RegisterDocsTools registers all Google Docs-related tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register read tools
	if err := registerReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}

	// Register write/edit tools
	if err := registerWriteTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register write tools: %w", err)
	}

	// Register comment thread tools
	if err := registerCommentTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register comment tools: %w", err)
	}

	return nil
}
