package docs_tools

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

func TestParseOperations(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantCount int
		wantErr   bool
	}{
		{
			name:      "JSON string",
			input:     `[{"type":"insert_text","index":1,"text":"hi"}]`,
			wantCount: 1,
		},
		{
			name: "decoded array",
			input: []interface{}{
				map[string]interface{}{"type": "insert_text", "index": float64(1), "text": "hi"},
				map[string]interface{}{"type": "find_replace", "find_text": "a", "replace_text": "b"},
			},
			wantCount: 2,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			input:   `[{"type":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := parseOperations(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOperations failed: %v", err)
			}
			if len(ops) != tt.wantCount {
				t.Errorf("expected %d operations, got %d", tt.wantCount, len(ops))
			}
		})
	}
}

func TestParseOperations_CarriesFormat(t *testing.T) {
	ops, err := parseOperations(`[{"type":"format_text","start_index":1,"end_index":5,"format":{"bold":true}}]`)
	if err != nil {
		t.Fatalf("parseOperations failed: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Format == nil || ops[0].Format.Bold == nil || !*ops[0].Format.Bold {
		t.Error("expected format.bold to survive parsing")
	}
}

func TestPageSizeFromArgs(t *testing.T) {
	if got := pageSizeFromArgs(map[string]interface{}{}); got != defaultPageSize {
		t.Errorf("expected default page size %d, got %d", defaultPageSize, got)
	}
	if got := pageSizeFromArgs(map[string]interface{}{"pageSize": float64(5)}); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := pageSizeFromArgs(map[string]interface{}{"pageSize": float64(-1)}); got != defaultPageSize {
		t.Errorf("expected default for negative size, got %d", got)
	}
}

func TestHandlersRequireDocumentID(t *testing.T) {
	sc := newTestServerContext(t)
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest, *server.ServerContext) (*mcp.CallToolResult, error){
		"docs_get_content":      handleGetContent,
		"docs_get_metadata":     handleGetMetadata,
		"docs_update_text":      handleUpdateText,
		"docs_find_and_replace": handleFindAndReplace,
		"docs_format_text":      handleFormatText,
		"docs_insert_elements":  handleInsertElements,
		"docs_insert_image_url": handleInsertImage,
		"docs_batch_update":     handleBatchUpdate,
		"docs_list_comments":    handleListComments,
		"docs_add_comment":      handleAddComment,
		"docs_resolve_comment":  handleResolveComment,
		"docs_find_text":        handleFindText,
		"docs_update_header_footer": handleUpdateHeaderFooter,
		"docs_format_matched_text":  handleFormatMatchedText,
		"docs_replace_and_format":   handleReplaceAndFormat,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(ctx, callRequest(map[string]interface{}{}), sc)
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if !result.IsError {
				t.Error("expected error result for missing documentId")
			}
		})
	}
}

func TestHandleUpdateText_RequiresRangeOrIndex(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleUpdateText(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"text":       "hello",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when neither index nor range is given")
	}
}

func TestHandleUpdateText_RejectsInvertedRange(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleUpdateText(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"text":       "hello",
		"startIndex": float64(10),
		"endIndex":   float64(5),
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for inverted range")
	}
}

func TestHandleFormatText_RequiresFormatOption(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleFormatText(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"startIndex": float64(1),
		"endIndex":   float64(5),
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when no formatting option is given")
	}
}

func TestHandleInsertElements_RejectsUnknownType(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleInsertElements(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"type":       "chart",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for unknown element type")
	}
}

func TestHandleUpdateHeaderFooter_RejectsInvalidSection(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleUpdateHeaderFooter(context.Background(), callRequest(map[string]interface{}{
		"documentId":  "doc-1",
		"sectionType": "margin",
		"content":     "Confidential",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for unknown section type")
	}
}

func TestHandleFormatMatchedText_RequiresFormatOption(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleFormatMatchedText(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"targetText": "beta",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when no formatting option is given")
	}
}

func TestHandleReplaceAndFormat_RequiresReplaceText(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleReplaceAndFormat(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
		"findText":   "beta",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when replaceText is missing")
	}
}

func TestHandleFindText_RequiresSearchText(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleFindText(context.Background(), callRequest(map[string]interface{}{
		"documentId": "doc-1",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when searchText is missing")
	}
}
