package docs_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	googledocs "google.golang.org/api/docs/v1"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// registerWriteTools registers document creation and editing tools.
// All of them are skipped in read-only mode.
func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	// Create document tool
	createTool := mcp.NewTool("docs_create",
		mcp.WithDescription("Create a new Google Doc, optionally with initial content"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new document"),
		),
		mcp.WithString("content",
			mcp.Description("Initial text content for the document"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("docs_create", "docs", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreate(ctx, request, sc)
		}))

	// Update text tool
	updateTextTool := mcp.NewTool("docs_update_text",
		mcp.WithDescription("Insert or replace text in a Google Doc using document indexes. Provide index to insert, or startIndex and endIndex to replace a range."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to insert"),
		),
		mcp.WithNumber("index",
			mcp.Description("Position to insert text at (1-based document index)"),
		),
		mcp.WithNumber("startIndex",
			mcp.Description("Start of the range to replace"),
		),
		mcp.WithNumber("endIndex",
			mcp.Description("End of the range to replace (exclusive)"),
		),
	)

	s.AddTool(updateTextTool, common.InstrumentedToolHandlerWithService("docs_update_text", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateText(ctx, request, sc)
		}))

	// Find and replace tool
	findReplaceTool := mcp.NewTool("docs_find_and_replace",
		mcp.WithDescription("Replace all occurrences of a text string in a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("findText",
			mcp.Required(),
			mcp.Description("The text to find"),
		),
		mcp.WithString("replaceText",
			mcp.Description("The replacement text (empty deletes occurrences)"),
		),
		mcp.WithBoolean("matchCase",
			mcp.Description("Match case when searching (default: false)"),
		),
	)

	s.AddTool(findReplaceTool, common.InstrumentedToolHandlerWithService("docs_find_and_replace", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindAndReplace(ctx, request, sc)
		}))

	// Format text tool
	formatTextTool := mcp.NewTool("docs_format_text",
		mcp.WithDescription("Apply character formatting to a text range in a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("startIndex",
			mcp.Required(),
			mcp.Description("Start of the range to format"),
		),
		mcp.WithNumber("endIndex",
			mcp.Required(),
			mcp.Description("End of the range to format (exclusive)"),
		),
		mcp.WithBoolean("bold",
			mcp.Description("Set or clear bold"),
		),
		mcp.WithBoolean("italic",
			mcp.Description("Set or clear italic"),
		),
		mcp.WithBoolean("underline",
			mcp.Description("Set or clear underline"),
		),
		mcp.WithNumber("fontSize",
			mcp.Description("Font size in points"),
		),
		mcp.WithString("fontFamily",
			mcp.Description("Font family name, e.g. 'Arial'"),
		),
	)

	s.AddTool(formatTextTool, common.InstrumentedToolHandlerWithService("docs_format_text", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFormatText(ctx, request, sc)
		}))

	// Insert elements tool
	insertElementsTool := mcp.NewTool("docs_insert_elements",
		mcp.WithDescription("Insert structural elements into a Google Doc: a table, a page break, or bullet list formatting for a paragraph range"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Element type: 'table', 'page_break', or 'bullet_list'"),
		),
		mcp.WithNumber("index",
			mcp.Description("Position to insert at (for table and page_break)"),
		),
		mcp.WithNumber("rows",
			mcp.Description("Number of table rows (for table)"),
		),
		mcp.WithNumber("columns",
			mcp.Description("Number of table columns (for table)"),
		),
		mcp.WithNumber("startIndex",
			mcp.Description("Start of the paragraph range (for bullet_list)"),
		),
		mcp.WithNumber("endIndex",
			mcp.Description("End of the paragraph range (for bullet_list)"),
		),
	)

	s.AddTool(insertElementsTool, common.InstrumentedToolHandlerWithService("docs_insert_elements", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInsertElements(ctx, request, sc)
		}))

	// Insert image tool
	insertImageTool := mcp.NewTool("docs_insert_image_url",
		mcp.WithDescription("Insert an image into a Google Doc from a public URL or from a publicly shared Drive file"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to insert the image at"),
		),
		mcp.WithString("imageUrl",
			mcp.Description("Publicly accessible image URL"),
		),
		mcp.WithString("driveFileId",
			mcp.Description("Drive file ID of an image (must be shared with link access)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Image width in points"),
		),
		mcp.WithNumber("height",
			mcp.Description("Image height in points"),
		),
	)

	s.AddTool(insertImageTool, common.InstrumentedToolHandlerWithService("docs_insert_image_url", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInsertImage(ctx, request, sc)
		}))

	// Header/footer tool
	headerFooterTool := mcp.NewTool("docs_update_header_footer",
		mcp.WithDescription("Replace the text of a Google Doc's header or footer. The header or footer must already exist in the document."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("sectionType",
			mcp.Required(),
			mcp.Description("Section to update: 'header' or 'footer'"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New text content for the section"),
		),
	)

	s.AddTool(headerFooterTool, common.InstrumentedToolHandlerWithService("docs_update_header_footer", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateHeaderFooter(ctx, request, sc)
		}))

	// Search-based formatting tool
	formatMatchedTool := mcp.NewTool("docs_format_matched_text",
		mcp.WithDescription("Find text in a Google Doc and apply character formatting to it. No document indexes needed, just the text to format."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("targetText",
			mcp.Required(),
			mcp.Description("The text to find and format"),
		),
		mcp.WithNumber("occurrence",
			mcp.Description("Which occurrence to format, 1-based (default: 1)"),
		),
		mcp.WithBoolean("bold",
			mcp.Description("Set or clear bold"),
		),
		mcp.WithBoolean("italic",
			mcp.Description("Set or clear italic"),
		),
		mcp.WithBoolean("underline",
			mcp.Description("Set or clear underline"),
		),
		mcp.WithNumber("fontSize",
			mcp.Description("Font size in points"),
		),
		mcp.WithString("fontFamily",
			mcp.Description("Font family name, e.g. 'Arial'"),
		),
	)

	s.AddTool(formatMatchedTool, common.InstrumentedToolHandlerWithService("docs_format_matched_text", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFormatMatchedText(ctx, request, sc)
		}))

	// Combined replace and format tool
	replaceFormatTool := mcp.NewTool("docs_replace_and_format",
		mcp.WithDescription("Replace all occurrences of a text string in a Google Doc and optionally apply character formatting to the replacements"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("findText",
			mcp.Required(),
			mcp.Description("The text to find"),
		),
		mcp.WithString("replaceText",
			mcp.Required(),
			mcp.Description("The replacement text"),
		),
		mcp.WithBoolean("matchCase",
			mcp.Description("Match case when searching (default: false)"),
		),
		mcp.WithBoolean("bold",
			mcp.Description("Apply bold to the replaced text"),
		),
		mcp.WithBoolean("italic",
			mcp.Description("Apply italic to the replaced text"),
		),
		mcp.WithBoolean("underline",
			mcp.Description("Apply underline to the replaced text"),
		),
		mcp.WithNumber("fontSize",
			mcp.Description("Font size in points for the replaced text"),
		),
		mcp.WithString("fontFamily",
			mcp.Description("Font family name for the replaced text"),
		),
	)

	s.AddTool(replaceFormatTool, common.InstrumentedToolHandlerWithService("docs_replace_and_format", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplaceAndFormat(ctx, request, sc)
		}))

	// Batch update tool
	batchUpdateTool := mcp.NewTool("docs_batch_update",
		mcp.WithDescription("Apply multiple document operations atomically. Operations is a JSON array of objects with a 'type' field: insert_text, delete_text, replace_text, format_text, insert_table, insert_page_break, find_replace."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("operations",
			mcp.Required(),
			mcp.Description("JSON array of operations to apply in order"),
		),
	)

	s.AddTool(batchUpdateTool, common.InstrumentedToolHandlerWithService("docs_batch_update", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBatchUpdate(ctx, request, sc)
		}))

	return nil
}

// intArg reads a numeric argument as int64. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int64, bool) {
	if v, ok := args[key].(float64); ok {
		return int64(v), true
	}
	return 0, false
}

// formatFromArgs reads the optional character formatting arguments shared
// by the formatting tools.
func formatFromArgs(args map[string]interface{}) *docs.TextFormat {
	format := &docs.TextFormat{}
	if v, ok := args["bold"].(bool); ok {
		format.Bold = &v
	}
	if v, ok := args["italic"].(bool); ok {
		format.Italic = &v
	}
	if v, ok := args["underline"].(bool); ok {
		format.Underline = &v
	}
	if v, ok := args["fontSize"].(float64); ok {
		format.FontSize = v
	}
	if v, ok := args["fontFamily"].(string); ok {
		format.FontFamily = v
	}
	return format
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	content, _ := args["content"].(string)

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	documentID, err := client.CreateDocument(ctx, title, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created document %q\nID: %s\nURL: %s",
		title, documentID, docs.DocumentURL(documentID))), nil
}

func handleUpdateText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text is required"), nil
	}

	startIndex, hasStart := intArg(args, "startIndex")
	endIndex, hasEnd := intArg(args, "endIndex")
	index, hasIndex := intArg(args, "index")

	var requests []*googledocs.Request
	var action string
	switch {
	case hasStart && hasEnd:
		if endIndex <= startIndex {
			return mcp.NewToolResultError("endIndex must be greater than startIndex"), nil
		}
		requests = docs.NewReplaceRangeRequests(startIndex, endIndex, text)
		action = fmt.Sprintf("Replaced text in range %d-%d", startIndex, endIndex)
	case hasIndex:
		if text == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		requests = []*googledocs.Request{docs.NewInsertTextRequest(index, text)}
		action = fmt.Sprintf("Inserted text at index %d", index)
	default:
		return mcp.NewToolResultError("provide index to insert, or startIndex and endIndex to replace"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := client.BatchUpdate(ctx, documentID, requests); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update document: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s in document %s", action, documentID)), nil
}

func handleFindAndReplace(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	findText, ok := args["findText"].(string)
	if !ok || findText == "" {
		return mcp.NewToolResultError("findText is required"), nil
	}

	replaceText, _ := args["replaceText"].(string)
	matchCase, _ := args["matchCase"].(bool)

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{
		docs.NewFindReplaceRequest(findText, replaceText, matchCase),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to replace text: %v", err)), nil
	}

	occurrences := int64(0)
	if len(resp.Replies) > 0 && resp.Replies[0].ReplaceAllText != nil {
		occurrences = resp.Replies[0].ReplaceAllText.OccurrencesChanged
	}

	return mcp.NewToolResultText(fmt.Sprintf("Replaced %d occurrence(s) of %q in document %s",
		occurrences, findText, documentID)), nil
}

func handleFormatText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	startIndex, hasStart := intArg(args, "startIndex")
	endIndex, hasEnd := intArg(args, "endIndex")
	if !hasStart || !hasEnd || endIndex <= startIndex {
		return mcp.NewToolResultError("startIndex and endIndex are required, with endIndex > startIndex"), nil
	}

	format := formatFromArgs(args)
	req := docs.NewFormatTextRequest(startIndex, endIndex, format)
	if req == nil {
		return mcp.NewToolResultError("at least one formatting option is required (bold, italic, underline, fontSize, fontFamily)"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{req}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format text: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Applied formatting (%s) to range %d-%d in document %s",
		format.Describe(), startIndex, endIndex, documentID)), nil
}

func handleInsertElements(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	elementType, ok := args["type"].(string)
	if !ok || elementType == "" {
		return mcp.NewToolResultError("type is required: 'table', 'page_break', or 'bullet_list'"), nil
	}

	index, _ := intArg(args, "index")

	var req *googledocs.Request
	var action string
	switch elementType {
	case "table":
		rows, _ := intArg(args, "rows")
		columns, _ := intArg(args, "columns")
		if rows <= 0 || columns <= 0 {
			return mcp.NewToolResultError("rows and columns are required for a table"), nil
		}
		req = docs.NewInsertTableRequest(index, rows, columns)
		action = fmt.Sprintf("Inserted %dx%d table at index %d", rows, columns, index)

	case "page_break":
		req = docs.NewInsertPageBreakRequest(index)
		action = fmt.Sprintf("Inserted page break at index %d", index)

	case "bullet_list":
		startIndex, hasStart := intArg(args, "startIndex")
		endIndex, hasEnd := intArg(args, "endIndex")
		if !hasStart || !hasEnd || endIndex <= startIndex {
			return mcp.NewToolResultError("startIndex and endIndex are required for a bullet_list"), nil
		}
		req = docs.NewBulletListRequest(startIndex, endIndex)
		action = fmt.Sprintf("Applied bullet list to range %d-%d", startIndex, endIndex)

	default:
		return mcp.NewToolResultError(fmt.Sprintf("Invalid type %q, must be 'table', 'page_break', or 'bullet_list'", elementType)), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{req}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to insert element: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s in document %s", action, documentID)), nil
}

func handleInsertImage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	index, hasIndex := intArg(args, "index")
	if !hasIndex {
		return mcp.NewToolResultError("index is required"), nil
	}

	imageURL, _ := args["imageUrl"].(string)
	driveFileID, _ := args["driveFileId"].(string)

	if imageURL == "" && driveFileID == "" {
		return mcp.NewToolResultError("either imageUrl or driveFileId is required"), nil
	}

	// Drive-hosted images must be link-shared, otherwise the Docs API
	// cannot fetch them.
	if driveFileID != "" {
		driveClient, err := getDriveClient(ctx, account, sc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := driveClient.GetFilePermissions(ctx, driveFileID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to check Drive file sharing: %v", err)), nil
		}

		if !drive.HasPublicLinkPermission(info.Permissions) {
			return mcp.NewToolResultError(drive.FormatPublicSharingError(info.Name, driveFileID)), nil
		}

		imageURL = drive.PublicImageURL(driveFileID)
	}

	width, _ := args["width"].(float64)
	height, _ := args["height"].(float64)

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := docs.NewInsertImageRequest(index, imageURL, width, height)
	if _, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{req}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to insert image: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Inserted image at index %d in document %s", index, documentID)), nil
}

func handleUpdateHeaderFooter(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	sectionType, _ := args["sectionType"].(string)
	if sectionType != "header" && sectionType != "footer" {
		return mcp.NewToolResultError("sectionType must be 'header' or 'footer'"), nil
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.UpdateHeaderFooter(ctx, documentID, sectionType, content); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update %s: %v", sectionType, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %s content in document %s", sectionType, documentID)), nil
}

func handleFormatMatchedText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	targetText, ok := args["targetText"].(string)
	if !ok || targetText == "" {
		return mcp.NewToolResultError("targetText is required"), nil
	}

	occurrence, hasOccurrence := intArg(args, "occurrence")
	if !hasOccurrence {
		occurrence = 1
	}
	if occurrence < 1 {
		return mcp.NewToolResultError("occurrence must be 1 or greater"), nil
	}

	format := formatFromArgs(args)
	if format.IsZero() {
		return mcp.NewToolResultError("at least one formatting option is required (bold, italic, underline, fontSize, fontFamily)"), nil
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := client.GetDocument(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get document: %v", err)), nil
	}

	ranges := docs.FindTextRanges(doc, targetText, int(occurrence))
	if len(ranges) < int(occurrence) {
		return mcp.NewToolResultError(fmt.Sprintf("Text %q not found (occurrence %d) in document %s",
			targetText, occurrence, documentID)), nil
	}

	match := ranges[occurrence-1]
	req := docs.NewFormatTextRequest(match.StartIndex, match.EndIndex, format)
	if _, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{req}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format text: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Applied formatting (%s) to %q (occurrence %d) in document %s",
		format.Describe(), targetText, occurrence, documentID)), nil
}

func handleReplaceAndFormat(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	findText, ok := args["findText"].(string)
	if !ok || findText == "" {
		return mcp.NewToolResultError("findText is required"), nil
	}

	replaceText, ok := args["replaceText"].(string)
	if !ok || replaceText == "" {
		return mcp.NewToolResultError("replaceText is required"), nil
	}

	matchCase, _ := args["matchCase"].(bool)
	format := formatFromArgs(args)

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := client.BatchUpdate(ctx, documentID, []*googledocs.Request{
		docs.NewFindReplaceRequest(findText, replaceText, matchCase),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to replace text: %v", err)), nil
	}

	occurrences := int64(0)
	if len(resp.Replies) > 0 && resp.Replies[0].ReplaceAllText != nil {
		occurrences = resp.Replies[0].ReplaceAllText.OccurrencesChanged
	}
	if occurrences == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Text %q not found in document %s", findText, documentID)), nil
	}
	if format.IsZero() {
		return mcp.NewToolResultText(fmt.Sprintf("Replaced %d occurrence(s) of %q with %q in document %s",
			occurrences, findText, replaceText, documentID)), nil
	}

	// Replacement shifted the indexes, so re-fetch before formatting.
	doc, err := client.GetDocument(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Replaced text but failed to re-read document for formatting: %v", err)), nil
	}

	var formatRequests []*googledocs.Request
	for _, match := range docs.FindTextRanges(doc, replaceText, int(occurrences)) {
		formatRequests = append(formatRequests, docs.NewFormatTextRequest(match.StartIndex, match.EndIndex, format))
	}
	if len(formatRequests) > 0 {
		if _, err := client.BatchUpdate(ctx, documentID, formatRequests); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Replaced text but failed to format it: %v", err)), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf("Replaced %d occurrence(s) of %q with %q and applied formatting (%s) in document %s",
		occurrences, findText, replaceText, format.Describe(), documentID)), nil
}

func handleBatchUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, ok := args["documentId"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("documentId is required"), nil
	}

	operations, err := parseOperations(args["operations"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(operations) == 0 {
		return mcp.NewToolResultError("operations must contain at least one operation"), nil
	}

	var requests []*googledocs.Request
	var actions []string
	for i, op := range operations {
		reqs, desc, err := op.Requests()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("operation %d: %v", i, err)), nil
		}
		requests = append(requests, reqs...)
		actions = append(actions, desc)
	}

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := client.BatchUpdate(ctx, documentID, requests); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to apply batch update: %v", err)), nil
	}

	summary, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize summary: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Applied %d operation(s) to document %s:\n%s",
		len(operations), documentID, string(summary))), nil
}

// parseOperations accepts a JSON string or a decoded JSON array.
func parseOperations(raw interface{}) ([]*docs.BatchOperation, error) {
	var data []byte
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("operations is required")
		}
		data = []byte(v)
	case []interface{}:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid operations: %w", err)
		}
		data = encoded
	default:
		return nil, fmt.Errorf("operations is required")
	}

	var operations []*docs.BatchOperation
	if err := json.Unmarshal(data, &operations); err != nil {
		return nil, fmt.Errorf("invalid operations JSON: %w", err)
	}
	return operations, nil
}
