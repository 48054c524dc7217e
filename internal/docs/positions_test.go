package docs

import (
	"strings"
	"testing"

	docs "google.golang.org/api/docs/v1"
)

func paragraphElement(startIndex int64, content string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{
				{
					StartIndex: startIndex,
					TextRun:    &docs.TextRun{Content: content},
				},
			},
		},
	}
}

func TestFindTextRanges(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraphElement(1, "Alpha beta gamma\n"),
				paragraphElement(18, "beta delta beta\n"),
			},
		},
	}

	ranges := FindTextRanges(doc, "beta", 10)
	if len(ranges) != 3 {
		t.Fatalf("FindTextRanges() returned %d ranges, want 3", len(ranges))
	}

	wantStarts := []int64{7, 18, 29}
	for i, r := range ranges {
		if r.Occurrence != i+1 {
			t.Errorf("range %d occurrence = %d, want %d", i, r.Occurrence, i+1)
		}
		if r.StartIndex != wantStarts[i] {
			t.Errorf("range %d StartIndex = %d, want %d", i, r.StartIndex, wantStarts[i])
		}
		if r.EndIndex != wantStarts[i]+4 {
			t.Errorf("range %d EndIndex = %d, want %d", i, r.EndIndex, wantStarts[i]+4)
		}
		if !strings.Contains(r.Preview, "beta") {
			t.Errorf("range %d preview %q does not contain the match", i, r.Preview)
		}
	}
}

func TestFindTextRanges_IndexGapBetweenRuns(t *testing.T) {
	// A structural element without text between the paragraphs leaves a
	// gap in the document indexes that the flat text does not see.
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraphElement(1, "intro\n"),
				paragraphElement(20, "target here\n"),
			},
		},
	}

	ranges := FindTextRanges(doc, "target", 1)
	if len(ranges) != 1 {
		t.Fatalf("FindTextRanges() returned %d ranges, want 1", len(ranges))
	}
	if ranges[0].StartIndex != 20 {
		t.Errorf("StartIndex = %d, want 20", ranges[0].StartIndex)
	}
	if ranges[0].EndIndex != 26 {
		t.Errorf("EndIndex = %d, want 26", ranges[0].EndIndex)
	}
}

func TestFindTextRanges_MaxOccurrencesBound(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraphElement(1, "x x x x x\n"),
			},
		},
	}

	if got := len(FindTextRanges(doc, "x", 3)); got != 3 {
		t.Errorf("FindTextRanges() returned %d ranges, want 3", got)
	}
}

func TestFindTextRanges_NotFound(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				paragraphElement(1, "nothing to see\n"),
			},
		},
	}

	if got := FindTextRanges(doc, "absent", 10); got != nil {
		t.Errorf("FindTextRanges() = %v, want nil", got)
	}
	if got := FindTextRanges(doc, "", 10); got != nil {
		t.Errorf("FindTextRanges(empty search) = %v, want nil", got)
	}
	if got := FindTextRanges(nil, "x", 10); got != nil {
		t.Errorf("FindTextRanges(nil doc) = %v, want nil", got)
	}
}

func TestFindTextRanges_TableCells(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{
					Table: &docs.Table{
						TableRows: []*docs.TableRow{
							{
								TableCells: []*docs.TableCell{
									{Content: []*docs.StructuralElement{paragraphElement(5, "cell text\n")}},
								},
							},
						},
					},
				},
			},
		},
	}

	ranges := FindTextRanges(doc, "cell", 1)
	if len(ranges) != 1 {
		t.Fatalf("FindTextRanges() returned %d ranges, want 1", len(ranges))
	}
	if ranges[0].StartIndex != 5 {
		t.Errorf("StartIndex = %d, want 5", ranges[0].StartIndex)
	}
}

func TestFindTextRanges_TabFallback(t *testing.T) {
	doc := &docs.Document{
		Tabs: []*docs.Tab{
			{
				DocumentTab: &docs.DocumentTab{
					Body: &docs.Body{
						Content: []*docs.StructuralElement{
							paragraphElement(1, "tab content\n"),
						},
					},
				},
			},
		},
	}

	ranges := FindTextRanges(doc, "content", 1)
	if len(ranges) != 1 {
		t.Fatalf("FindTextRanges() returned %d ranges, want 1", len(ranges))
	}
	if ranges[0].StartIndex != 5 {
		t.Errorf("StartIndex = %d, want 5", ranges[0].StartIndex)
	}
}

func TestFirstRunText(t *testing.T) {
	elements := []*docs.StructuralElement{
		paragraphElement(0, "\n"),
		paragraphElement(1, "  Existing header  "),
	}

	if got := firstRunText(elements); got != "Existing header" {
		t.Errorf("firstRunText() = %q, want %q", got, "Existing header")
	}
	if got := firstRunText(nil); got != "" {
		t.Errorf("firstRunText(nil) = %q, want empty", got)
	}
}
