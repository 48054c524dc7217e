package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// TextFormat describes optional character formatting. Nil pointer fields
// leave the corresponding property unchanged.
type TextFormat struct {
	Bold       *bool   `json:"bold,omitempty"`
	Italic     *bool   `json:"italic,omitempty"`
	Underline  *bool   `json:"underline,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`   // points, 0 leaves unchanged
	FontFamily string  `json:"font_family,omitempty"` // empty leaves unchanged
}

// IsZero reports whether no formatting change is requested.
func (f *TextFormat) IsZero() bool {
	return f == nil || (f.Bold == nil && f.Italic == nil && f.Underline == nil &&
		f.FontSize == 0 && f.FontFamily == "")
}

// Describe returns a human-readable summary of the requested changes.
func (f *TextFormat) Describe() string {
	if f == nil {
		return ""
	}
	var changes []string
	if f.Bold != nil {
		changes = append(changes, fmt.Sprintf("bold: %t", *f.Bold))
	}
	if f.Italic != nil {
		changes = append(changes, fmt.Sprintf("italic: %t", *f.Italic))
	}
	if f.Underline != nil {
		changes = append(changes, fmt.Sprintf("underline: %t", *f.Underline))
	}
	if f.FontSize > 0 {
		changes = append(changes, fmt.Sprintf("font size: %gpt", f.FontSize))
	}
	if f.FontFamily != "" {
		changes = append(changes, fmt.Sprintf("font family: %s", f.FontFamily))
	}
	return strings.Join(changes, ", ")
}

// NewInsertTextRequest builds a request inserting text at an index.
func NewInsertTextRequest(index int64, text string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index},
			Text:     text,
		},
	}
}

// NewInsertTextSegmentRequest builds a request inserting text into a named
// segment such as a header or footer. Segment indexes start at 0.
func NewInsertTextSegmentRequest(index int64, text, segmentID string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index, SegmentId: segmentID},
			Text:     text,
		},
	}
}

// NewDeleteRangeRequest builds a request deleting [startIndex, endIndex).
func NewDeleteRangeRequest(startIndex, endIndex int64) *docs.Request {
	return &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
		},
	}
}

// NewReplaceRangeRequests builds the delete+insert pair that replaces
// [startIndex, endIndex) with text.
func NewReplaceRangeRequests(startIndex, endIndex int64, text string) []*docs.Request {
	return []*docs.Request{
		NewDeleteRangeRequest(startIndex, endIndex),
		NewInsertTextRequest(startIndex, text),
	}
}

// NewFormatTextRequest builds an updateTextStyle request for a range.
// Returns nil when format requests no change.
func NewFormatTextRequest(startIndex, endIndex int64, format *TextFormat) *docs.Request {
	if format.IsZero() {
		return nil
	}

	style := &docs.TextStyle{}
	var fields []string

	// Explicit false values must be force-sent or omitempty drops them
	// and the API treats the property as unset.
	if format.Bold != nil {
		style.Bold = *format.Bold
		style.ForceSendFields = append(style.ForceSendFields, "Bold")
		fields = append(fields, "bold")
	}
	if format.Italic != nil {
		style.Italic = *format.Italic
		style.ForceSendFields = append(style.ForceSendFields, "Italic")
		fields = append(fields, "italic")
	}
	if format.Underline != nil {
		style.Underline = *format.Underline
		style.ForceSendFields = append(style.ForceSendFields, "Underline")
		fields = append(fields, "underline")
	}
	if format.FontSize > 0 {
		style.FontSize = &docs.Dimension{
			Magnitude: format.FontSize,
			Unit:      "PT",
		}
		fields = append(fields, "fontSize")
	}
	if format.FontFamily != "" {
		style.WeightedFontFamily = &docs.WeightedFontFamily{
			FontFamily: format.FontFamily,
		}
		fields = append(fields, "weightedFontFamily")
	}

	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range: &docs.Range{
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		},
	}
}

// NewFindReplaceRequest builds a replaceAllText request.
func NewFindReplaceRequest(findText, replaceText string, matchCase bool) *docs.Request {
	return &docs.Request{
		ReplaceAllText: &docs.ReplaceAllTextRequest{
			ContainsText: &docs.SubstringMatchCriteria{
				Text:      findText,
				MatchCase: matchCase,
			},
			ReplaceText: replaceText,
		},
	}
}

// NewInsertTableRequest builds a request inserting a rows x columns table.
func NewInsertTableRequest(index, rows, columns int64) *docs.Request {
	return &docs.Request{
		InsertTable: &docs.InsertTableRequest{
			Location: &docs.Location{Index: index},
			Rows:     rows,
			Columns:  columns,
		},
	}
}

// NewInsertPageBreakRequest builds a request inserting a page break.
func NewInsertPageBreakRequest(index int64) *docs.Request {
	return &docs.Request{
		InsertPageBreak: &docs.InsertPageBreakRequest{
			Location: &docs.Location{Index: index},
		},
	}
}

// NewInsertImageRequest builds a request inserting an inline image from a
// publicly accessible URL. Width and height are in points; zero lets the
// API pick the native size.
func NewInsertImageRequest(index int64, uri string, width, height float64) *docs.Request {
	req := &docs.InsertInlineImageRequest{
		Location: &docs.Location{Index: index},
		Uri:      uri,
	}

	if width > 0 && height > 0 {
		req.ObjectSize = &docs.Size{
			Width:  &docs.Dimension{Magnitude: width, Unit: "PT"},
			Height: &docs.Dimension{Magnitude: height, Unit: "PT"},
		}
	}

	return &docs.Request{InsertInlineImage: req}
}

// NewBulletListRequest builds a request converting the paragraphs in
// [startIndex, endIndex) into a bulleted list.
func NewBulletListRequest(startIndex, endIndex int64) *docs.Request {
	return &docs.Request{
		CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range: &docs.Range{
				StartIndex: startIndex,
				EndIndex:   endIndex,
			},
			BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
		},
	}
}

// BatchOperation is one step of a heterogeneous docs_batch_update call.
type BatchOperation struct {
	Type        string      `json:"type"`
	Index       int64       `json:"index,omitempty"`
	StartIndex  int64       `json:"start_index,omitempty"`
	EndIndex    int64       `json:"end_index,omitempty"`
	Text        string      `json:"text,omitempty"`
	FindText    string      `json:"find_text,omitempty"`
	ReplaceText string      `json:"replace_text,omitempty"`
	MatchCase   bool        `json:"match_case,omitempty"`
	Rows        int64       `json:"rows,omitempty"`
	Columns     int64       `json:"columns,omitempty"`
	Format      *TextFormat `json:"format,omitempty"`
}

// Requests converts the operation into Docs API requests plus a short
// description for the confirmation message.
func (op *BatchOperation) Requests() ([]*docs.Request, string, error) {
	switch op.Type {
	case "insert_text":
		if op.Text == "" {
			return nil, "", fmt.Errorf("insert_text requires text")
		}
		return []*docs.Request{NewInsertTextRequest(op.Index, op.Text)},
			fmt.Sprintf("insert text at %d", op.Index), nil

	case "delete_text":
		if op.EndIndex <= op.StartIndex {
			return nil, "", fmt.Errorf("delete_text requires end_index > start_index")
		}
		return []*docs.Request{NewDeleteRangeRequest(op.StartIndex, op.EndIndex)},
			fmt.Sprintf("delete text %d-%d", op.StartIndex, op.EndIndex), nil

	case "replace_text":
		if op.EndIndex <= op.StartIndex {
			return nil, "", fmt.Errorf("replace_text requires end_index > start_index")
		}
		return NewReplaceRangeRequests(op.StartIndex, op.EndIndex, op.Text),
			fmt.Sprintf("replace text %d-%d", op.StartIndex, op.EndIndex), nil

	case "format_text":
		req := NewFormatTextRequest(op.StartIndex, op.EndIndex, op.Format)
		if req == nil {
			return nil, "", fmt.Errorf("format_text requires at least one formatting option")
		}
		return []*docs.Request{req},
			fmt.Sprintf("format text %d-%d (%s)", op.StartIndex, op.EndIndex, op.Format.Describe()), nil

	case "insert_table":
		if op.Rows <= 0 || op.Columns <= 0 {
			return nil, "", fmt.Errorf("insert_table requires positive rows and columns")
		}
		return []*docs.Request{NewInsertTableRequest(op.Index, op.Rows, op.Columns)},
			fmt.Sprintf("insert %dx%d table at %d", op.Rows, op.Columns, op.Index), nil

	case "insert_page_break":
		return []*docs.Request{NewInsertPageBreakRequest(op.Index)},
			fmt.Sprintf("insert page break at %d", op.Index), nil

	case "find_replace":
		if op.FindText == "" {
			return nil, "", fmt.Errorf("find_replace requires find_text")
		}
		return []*docs.Request{NewFindReplaceRequest(op.FindText, op.ReplaceText, op.MatchCase)},
			fmt.Sprintf("find/replace %q -> %q", op.FindText, op.ReplaceText), nil

	default:
		return nil, "", fmt.Errorf("unknown operation type %q", op.Type)
	}
}
