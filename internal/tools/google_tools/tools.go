package google_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterGoogleTools registers all Google OAuth-related tools with the MCP server
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Start OAuth flow tool
	startAuthTool := mcp.NewTool("google_start_auth",
		mcp.WithDescription("Start the OAuth flow to authorize Google services access (Docs, Drive) for a specific account. Returns a consent URL to open in a browser."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(startAuthTool, common.InstrumentedToolHandler("google_start_auth", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStartAuth(ctx, request, sc)
		}))

	// Save authorization code tool for environments where the loopback
	// callback cannot reach the server
	saveAuthCodeTool := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Complete Google authentication by saving a manually copied OAuth authorization code for a specific account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
		mcp.WithString("state",
			mcp.Required(),
			mcp.Description("The state parameter returned with the authorization code"),
		),
	)

	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandler("google_save_auth_code", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request, sc)
		}))

	// Auth status tool
	authStatusTool := mcp.NewTool("google_auth_status",
		mcp.WithDescription("Check whether a Google account is authenticated for Docs and Drive access"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(authStatusTool, common.InstrumentedToolHandler("google_auth_status", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuthStatus(ctx, request, sc)
		}))

	return nil
}

func handleStartAuth(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	flow := sc.AuthFlow()
	authURL, err := flow.Start(flow.RedirectURL(), account, common.GetSessionID(ctx))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start authorization for account %s: %v", account, err)), nil
	}

	result := fmt.Sprintf(`To authorize Google services access (Docs, Drive) for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account and grant access

The authorization completes automatically via the local callback. The link is single-use and expires after %s.`,
		account, authURL, server.StateTTL)

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	authCode, ok := args["authCode"].(string)
	if !ok || authCode == "" {
		return mcp.NewToolResultError("authCode is required"), nil
	}

	state, ok := args["state"].(string)
	if !ok || state == "" {
		return mcp.NewToolResultError("state is required"), nil
	}

	flow := sc.AuthFlow()
	savedAccount, err := flow.Complete(ctx, flow.RedirectURL(), state, authCode, common.GetSessionID(ctx))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization code for account %s: %v", account, err)), nil
	}

	sc.InvalidateClientsForAccount(savedAccount)

	return mcp.NewToolResultText(fmt.Sprintf("Authorization successful for account '%s'. Google services token saved. You can now use all Docs and Drive tools with this account.", savedAccount)), nil
}

func handleAuthStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	if google.HasTokenForAccount(account) {
		return mcp.NewToolResultText(fmt.Sprintf("Account '%s' is authenticated for Google Docs and Drive access.", account)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Account '%s' is not authenticated. Use the google_start_auth tool to authorize access.", account)), nil
}
