package docs

import (
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestNewInsertTextRequest(t *testing.T) {
	req := NewInsertTextRequest(5, "hello")

	if req.InsertText == nil {
		t.Fatal("InsertText should be set")
	}
	if req.InsertText.Location.Index != 5 {
		t.Errorf("Index = %d, want 5", req.InsertText.Location.Index)
	}
	if req.InsertText.Text != "hello" {
		t.Errorf("Text = %s, want hello", req.InsertText.Text)
	}
}

func TestNewInsertTextSegmentRequest(t *testing.T) {
	req := NewInsertTextSegmentRequest(0, "page footer", "kix.footer1")

	if req.InsertText == nil {
		t.Fatal("InsertText should be set")
	}
	if req.InsertText.Location.SegmentId != "kix.footer1" {
		t.Errorf("SegmentId = %s, want kix.footer1", req.InsertText.Location.SegmentId)
	}
	if req.InsertText.Location.Index != 0 {
		t.Errorf("Index = %d, want 0", req.InsertText.Location.Index)
	}
	if req.InsertText.Text != "page footer" {
		t.Errorf("Text = %s, want page footer", req.InsertText.Text)
	}
}

func TestNewReplaceRangeRequests(t *testing.T) {
	reqs := NewReplaceRangeRequests(3, 10, "new text")

	if len(reqs) != 2 {
		t.Fatalf("len(reqs) = %d, want 2 (delete then insert)", len(reqs))
	}
	if reqs[0].DeleteContentRange == nil {
		t.Fatal("first request should delete the old range")
	}
	if reqs[0].DeleteContentRange.Range.StartIndex != 3 || reqs[0].DeleteContentRange.Range.EndIndex != 10 {
		t.Errorf("delete range = %d-%d, want 3-10",
			reqs[0].DeleteContentRange.Range.StartIndex,
			reqs[0].DeleteContentRange.Range.EndIndex)
	}
	if reqs[1].InsertText == nil || reqs[1].InsertText.Location.Index != 3 {
		t.Error("second request should insert at the start of the deleted range")
	}
}

func TestNewFormatTextRequest(t *testing.T) {
	req := NewFormatTextRequest(1, 12, &TextFormat{
		Bold:       boolPtr(true),
		FontSize:   14,
		FontFamily: "Arial",
	})

	if req == nil || req.UpdateTextStyle == nil {
		t.Fatal("UpdateTextStyle should be set")
	}
	style := req.UpdateTextStyle.TextStyle
	if !style.Bold {
		t.Error("Bold should be true")
	}
	if style.FontSize == nil || style.FontSize.Magnitude != 14 {
		t.Error("FontSize should be 14pt")
	}
	if style.WeightedFontFamily == nil || style.WeightedFontFamily.FontFamily != "Arial" {
		t.Error("FontFamily should be Arial")
	}

	fields := req.UpdateTextStyle.Fields
	for _, want := range []string{"bold", "fontSize", "weightedFontFamily"} {
		if !strings.Contains(fields, want) {
			t.Errorf("Fields %q missing %q", fields, want)
		}
	}
	if strings.Contains(fields, "italic") {
		t.Errorf("Fields %q should not include italic (not requested)", fields)
	}
}

func TestNewFormatTextRequest_ExplicitFalse(t *testing.T) {
	req := NewFormatTextRequest(1, 5, &TextFormat{Bold: boolPtr(false)})

	if req == nil {
		t.Fatal("explicit false is a change and must produce a request")
	}
	style := req.UpdateTextStyle.TextStyle
	if style.Bold {
		t.Error("Bold should be false")
	}
	found := false
	for _, f := range style.ForceSendFields {
		if f == "Bold" {
			found = true
		}
	}
	if !found {
		t.Error("Bold=false must be force-sent or the API ignores it")
	}
}

func TestNewFormatTextRequest_NoChanges(t *testing.T) {
	if req := NewFormatTextRequest(1, 5, &TextFormat{}); req != nil {
		t.Error("empty format should produce no request")
	}
	if req := NewFormatTextRequest(1, 5, nil); req != nil {
		t.Error("nil format should produce no request")
	}
}

func TestNewFindReplaceRequest(t *testing.T) {
	req := NewFindReplaceRequest("old", "new", true)

	if req.ReplaceAllText == nil {
		t.Fatal("ReplaceAllText should be set")
	}
	if req.ReplaceAllText.ContainsText.Text != "old" {
		t.Errorf("find = %s, want old", req.ReplaceAllText.ContainsText.Text)
	}
	if !req.ReplaceAllText.ContainsText.MatchCase {
		t.Error("MatchCase should be true")
	}
	if req.ReplaceAllText.ReplaceText != "new" {
		t.Errorf("replace = %s, want new", req.ReplaceAllText.ReplaceText)
	}
}

func TestNewInsertImageRequest_Size(t *testing.T) {
	req := NewInsertImageRequest(1, "https://example.com/img.png", 200, 100)

	img := req.InsertInlineImage
	if img == nil {
		t.Fatal("InsertInlineImage should be set")
	}
	if img.ObjectSize == nil || img.ObjectSize.Width.Magnitude != 200 || img.ObjectSize.Height.Magnitude != 100 {
		t.Error("ObjectSize should carry the requested dimensions")
	}

	// Without dimensions the API picks the native size
	req = NewInsertImageRequest(1, "https://example.com/img.png", 0, 0)
	if req.InsertInlineImage.ObjectSize != nil {
		t.Error("ObjectSize should be nil when no dimensions requested")
	}
}

func TestBatchOperation_Requests(t *testing.T) {
	tests := []struct {
		name     string
		op       BatchOperation
		wantReqs int
		wantErr  bool
	}{
		{
			name:     "insert text",
			op:       BatchOperation{Type: "insert_text", Index: 1, Text: "Hello"},
			wantReqs: 1,
		},
		{
			name:     "replace text expands to two requests",
			op:       BatchOperation{Type: "replace_text", StartIndex: 1, EndIndex: 5, Text: "x"},
			wantReqs: 2,
		},
		{
			name:     "insert table",
			op:       BatchOperation{Type: "insert_table", Index: 20, Rows: 2, Columns: 3},
			wantReqs: 1,
		},
		{
			name:     "find replace",
			op:       BatchOperation{Type: "find_replace", FindText: "a", ReplaceText: "b"},
			wantReqs: 1,
		},
		{
			name:    "delete with inverted range",
			op:      BatchOperation{Type: "delete_text", StartIndex: 5, EndIndex: 2},
			wantErr: true,
		},
		{
			name:    "unknown type",
			op:      BatchOperation{Type: "explode"},
			wantErr: true,
		},
		{
			name:    "format without changes",
			op:      BatchOperation{Type: "format_text", StartIndex: 1, EndIndex: 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, desc, err := tt.op.Requests()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Requests() error = %v", err)
			}
			if len(reqs) != tt.wantReqs {
				t.Errorf("len(reqs) = %d, want %d", len(reqs), tt.wantReqs)
			}
			if desc == "" {
				t.Error("description should not be empty")
			}
		})
	}
}
