package docs_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

const defaultPageSize = 25

// registerReadTools registers document search and retrieval tools
func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Search documents tool
	searchTool := mcp.NewTool("docs_search",
		mcp.WithDescription("Search Google Docs by name"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for in document names"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of results (default: 25)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("docs_search", "docs", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	// Get document content tool
	getContentTool := mcp.NewTool("docs_get_content",
		mcp.WithDescription("Get the text content of a Google Doc, including all tabs. Plain text files in Drive are downloaded directly."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc or Drive file"),
		),
	)

	s.AddTool(getContentTool, common.InstrumentedToolHandlerWithService("docs_get_content", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetContent(ctx, request, sc)
		}))

	// List documents in folder tool
	listInFolderTool := mcp.NewTool("docs_list_in_folder",
		mcp.WithDescription("List Google Docs inside a Drive folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the Drive folder"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of results (default: 25)"),
		),
	)

	s.AddTool(listInFolderTool, common.InstrumentedToolHandlerWithService("docs_list_in_folder", "docs", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListInFolder(ctx, request, sc)
		}))

	// Find text positions tool
	findTextTool := mcp.NewTool("docs_find_text",
		mcp.WithDescription("Find the document index positions of a text string in a Google Doc. Useful for locating a range before applying index-based edits."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("searchText",
			mcp.Required(),
			mcp.Description("The text to locate"),
		),
		mcp.WithNumber("maxOccurrences",
			mcp.Description("Maximum number of occurrences to return (default: 10)"),
		),
	)

	s.AddTool(findTextTool, common.InstrumentedToolHandlerWithService("docs_find_text", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindText(ctx, request, sc)
		}))

	// Get document metadata tool
	getMetadataTool := mcp.NewTool("docs_get_metadata",
		mcp.WithDescription("Get metadata about a Google Doc or Drive file"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc or Drive file"),
		),
	)

	s.AddTool(getMetadataTool, common.InstrumentedToolHandlerWithService("docs_get_metadata", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMetadata(ctx, request, sc)
		}))

	return nil
}

// pageSizeFromArgs reads the optional pageSize argument.
func pageSizeFromArgs(args map[string]interface{}) int64 {
	if v, ok := args["pageSize"].(float64); ok && v > 0 {
		return int64(v)
	}
	return defaultPageSize
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := client.SearchDocuments(ctx, query, pageSizeFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search documents: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents found matching %q", query)), nil
	}

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize results: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d document(s):\n%s", len(results), string(jsonBytes))), nil
}

func handleGetContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := client.GetContent(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get document content: %v", err)), nil
	}

	return mcp.NewToolResultText(content), nil
}

func handleListInFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	folderID, ok := args["folderId"].(string)
	if !ok || folderID == "" {
		return mcp.NewToolResultError("folderId is required"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := client.ListInFolder(ctx, folderID, pageSizeFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list folder: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("The folder contains no Google Docs"), nil
	}

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize results: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d document(s) in folder:\n%s", len(results), string(jsonBytes))), nil
}

func handleFindText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	searchText, ok := args["searchText"].(string)
	if !ok || searchText == "" {
		return mcp.NewToolResultError("searchText is required"), nil
	}

	maxOccurrences := 10
	if v, ok := args["maxOccurrences"].(float64); ok && v > 0 {
		maxOccurrences = int(v)
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := client.GetDocument(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get document: %v", err)), nil
	}

	ranges := docs.FindTextRanges(doc, searchText, maxOccurrences)
	if len(ranges) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Text %q not found in document %s", searchText, documentID)), nil
	}

	jsonBytes, err := json.MarshalIndent(ranges, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize positions: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d occurrence(s) of %q:\n%s", len(ranges), searchText, string(jsonBytes))), nil
}

func handleGetMetadata(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metadata, err := client.GetFileMetadata(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get metadata: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize metadata: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document metadata:\n%s", string(jsonBytes))), nil
}
