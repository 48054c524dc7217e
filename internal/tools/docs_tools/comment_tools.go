package docs_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// registerCommentTools registers comment thread tools.
// Listing is always available; adding, replying, and resolving are
// write operations and skipped in read-only mode.
func registerCommentTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List comments tool
	listCommentsTool := mcp.NewTool("docs_list_comments",
		mcp.WithDescription("List comment threads on a Google Doc, including replies and resolution status"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of comments (default: 25)"),
		),
	)

	s.AddTool(listCommentsTool, common.InstrumentedToolHandlerWithService("docs_list_comments", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListComments(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Add comment tool
	addCommentTool := mcp.NewTool("docs_add_comment",
		mcp.WithDescription("Add a new comment thread to a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The comment text"),
		),
	)

	s.AddTool(addCommentTool, common.InstrumentedToolHandlerWithService("docs_add_comment", "drive", "comment", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddComment(ctx, request, sc)
		}))

	// Reply to comment tool
	replyCommentTool := mcp.NewTool("docs_reply_comment",
		mcp.WithDescription("Reply to an existing comment thread on a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("commentId",
			mcp.Required(),
			mcp.Description("The ID of the comment thread"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The reply text"),
		),
	)

	s.AddTool(replyCommentTool, common.InstrumentedToolHandlerWithService("docs_reply_comment", "drive", "comment", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplyComment(ctx, request, sc)
		}))

	// Resolve comment tool
	resolveCommentTool := mcp.NewTool("docs_resolve_comment",
		mcp.WithDescription("Resolve a comment thread on a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("commentId",
			mcp.Required(),
			mcp.Description("The ID of the comment thread"),
		),
	)

	s.AddTool(resolveCommentTool, common.InstrumentedToolHandlerWithService("docs_resolve_comment", "drive", "comment", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResolveComment(ctx, request, sc)
		}))

	return nil
}

func handleListComments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comments, err := client.ListComments(ctx, documentID, pageSizeFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list comments: %v", err)), nil
	}

	if len(comments) == 0 {
		return mcp.NewToolResultText("The document has no comments"), nil
	}

	jsonBytes, err := json.MarshalIndent(comments, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize comments: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d comment(s):\n%s", len(comments), string(jsonBytes))), nil
}

func handleAddComment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comment, err := client.CreateComment(ctx, documentID, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add comment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added comment %s to document %s", comment.ID, documentID)), nil
}

func handleReplyComment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	commentID, ok := args["commentId"].(string)
	if !ok || commentID == "" {
		return mcp.NewToolResultError("commentId is required"), nil
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reply, err := client.ReplyToComment(ctx, documentID, commentID, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reply to comment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added reply %s to comment %s", reply.ID, commentID)), nil
}

func handleResolveComment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	commentID, ok := args["commentId"].(string)
	if !ok || commentID == "" {
		return mcp.NewToolResultError("commentId is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.ResolveComment(ctx, documentID, commentID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve comment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Resolved comment %s on document %s", commentID, documentID)), nil
}
