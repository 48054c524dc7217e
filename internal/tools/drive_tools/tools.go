package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// getDriveClient retrieves or creates a drive client for the specified account
func getDriveClient(ctx context.Context, account string, sc *server.ServerContext) (*drive.Client, error) {
	client := sc.DriveClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
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

// RegisterDriveTools registers the Drive permission inspection tools with
// the MCP server.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	permissionsTool := mcp.NewTool("drive_get_file_permissions",
		mcp.WithDescription("Get the full permission list for a Google Drive file, including who it is shared with and their roles"),
		mcp.WithString("fileId",
			mcp.Description("The ID of the Drive file. Either fileId or fileName must be provided"),
		),
		mcp.WithString("fileName",
			mcp.Description("Exact file name to look up instead of an ID. Fails if the name matches more than one file"),
		),
		mcp.WithString("account",
			mcp.Description("Account name for multi-account support (default: 'default')"),
		),
	)

	s.AddTool(permissionsTool, common.InstrumentedToolHandlerWithService("drive_get_file_permissions", "drive", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFilePermissions(ctx, request, sc)
		}))

	publicAccessTool := mcp.NewTool("drive_check_public_access",
		mcp.WithDescription("Check whether a Google Drive file is shared publicly via link, as required for embedding images into documents"),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the Drive file to check"),
		),
		mcp.WithString("account",
			mcp.Description("Account name for multi-account support (default: 'default')"),
		),
	)

	s.AddTool(publicAccessTool, common.InstrumentedToolHandlerWithService("drive_check_public_access", "drive", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckPublicAccess(ctx, request, sc)
		}))

	return nil
}

func handleGetFilePermissions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, _ := args["fileId"].(string)
	fileName, _ := args["fileName"].(string)
	if fileID == "" && fileName == "" {
		return mcp.NewToolResultError("either fileId or fileName is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info *drive.FileInfo
	if fileID != "" {
		info, err = client.GetFilePermissions(ctx, fileID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get file permissions: %v", err)), nil
		}
	} else {
		matches, err := client.FindByName(ctx, fileName, 10)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search for file: %v", err)), nil
		}
		switch len(matches) {
		case 0:
			return mcp.NewToolResultError(fmt.Sprintf("No file found with name %q", fileName)), nil
		case 1:
			info = matches[0]
		default:
			ids := make([]string, 0, len(matches))
			for _, m := range matches {
				ids = append(ids, fmt.Sprintf("%s (%s)", m.ID, m.MimeType))
			}
			return mcp.NewToolResultError(fmt.Sprintf(
				"Multiple files named %q found, use fileId to disambiguate: %s",
				fileName, strings.Join(ids, ", "))), nil
		}
	}

	jsonBytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize file info: %v", err)), nil
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Permissions for %q (%s):\n", info.Name, info.ID)
	if len(info.Permissions) == 0 {
		summary.WriteString("No permissions visible (you may not have permission to read them).\n")
	}
	for _, p := range info.Permissions {
		fmt.Fprintf(&summary, "- %s\n", drive.DescribePermission(p))
	}
	fmt.Fprintf(&summary, "\n%s", string(jsonBytes))

	return mcp.NewToolResultText(summary.String()), nil
}

func handleCheckPublicAccess(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := client.GetFilePermissions(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file permissions: %v", err)), nil
	}

	if !drive.HasPublicLinkPermission(info.Permissions) {
		return mcp.NewToolResultText(fmt.Sprintf(
			"%q (%s) is NOT publicly accessible.\n%s",
			info.Name, info.ID, drive.FormatPublicSharingError(info.Name, info.ID))), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"%q (%s) is publicly accessible via link.\nDirect image URL: %s\nShare URL: %s",
		info.Name, info.ID, drive.PublicImageURL(info.ID), drive.ShareURL(info.ID))), nil
}
