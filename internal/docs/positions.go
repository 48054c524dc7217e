package docs

import (
	"strings"

	docs "google.golang.org/api/docs/v1"
)

const previewContext = 20

// TextRange locates one occurrence of a search string in a document body,
// expressed in the document indexes that edit requests operate on.
type TextRange struct {
	Occurrence int    `json:"occurrence"`
	StartIndex int64  `json:"start_index"`
	EndIndex   int64  `json:"end_index"`
	Preview    string `json:"preview"`
}

// textSegment maps a span of the flattened body text back to its position
// in the document. Segments are appended in document order, so their flat
// offsets are strictly increasing.
type textSegment struct {
	flatStart int
	docStart  int64
}

// FindTextRanges locates up to maxOccurrences case-sensitive occurrences of
// searchText in the document body and returns their document index ranges.
// Offsets within a text run are byte-based; non-ASCII content can drift from
// the API's UTF-16 indexes, the same constraint index arguments supplied by
// callers have.
func FindTextRanges(doc *docs.Document, searchText string, maxOccurrences int) []TextRange {
	if searchText == "" || maxOccurrences <= 0 {
		return nil
	}

	var flat strings.Builder
	var segments []textSegment
	collectRuns(bodyElements(doc), &flat, &segments)
	text := flat.String()

	var ranges []TextRange
	from := 0
	for len(ranges) < maxOccurrences {
		rel := strings.Index(text[from:], searchText)
		if rel < 0 {
			break
		}
		start := from + rel
		end := start + len(searchText)
		ranges = append(ranges, TextRange{
			Occurrence: len(ranges) + 1,
			StartIndex: documentIndex(segments, start),
			EndIndex:   documentIndex(segments, end),
			Preview:    previewAround(text, start, end),
		})
		from = end
	}
	return ranges
}

// bodyElements returns the document's structural elements, falling back to
// the first tab for multi-tab documents where the legacy body is absent.
func bodyElements(doc *docs.Document) []*docs.StructuralElement {
	if doc == nil {
		return nil
	}
	if doc.Body != nil {
		return doc.Body.Content
	}
	if len(doc.Tabs) > 0 && doc.Tabs[0].DocumentTab != nil && doc.Tabs[0].DocumentTab.Body != nil {
		return doc.Tabs[0].DocumentTab.Body.Content
	}
	return nil
}

// collectRuns flattens the text runs of the given elements, recording where
// each run starts in the document.
func collectRuns(elements []*docs.StructuralElement, flat *strings.Builder, segments *[]textSegment) {
	for _, element := range elements {
		if element == nil {
			continue
		}
		switch {
		case element.Paragraph != nil:
			for _, elem := range element.Paragraph.Elements {
				if elem.TextRun == nil || elem.TextRun.Content == "" {
					continue
				}
				*segments = append(*segments, textSegment{
					flatStart: flat.Len(),
					docStart:  elem.StartIndex,
				})
				flat.WriteString(elem.TextRun.Content)
			}
		case element.Table != nil:
			for _, row := range element.Table.TableRows {
				for _, cell := range row.TableCells {
					collectRuns(cell.Content, flat, segments)
				}
			}
		}
	}
}

// documentIndex translates a flat text offset into a document index using
// the segment that contains it.
func documentIndex(segments []textSegment, offset int) int64 {
	idx := int64(offset)
	for _, seg := range segments {
		if seg.flatStart > offset {
			break
		}
		idx = seg.docStart + int64(offset-seg.flatStart)
	}
	return idx
}

// previewAround returns the match with surrounding context, newlines
// escaped for single-line output.
func previewAround(text string, start, end int) string {
	lo := start - previewContext
	if lo < 0 {
		lo = 0
	}
	hi := end + previewContext
	if hi > len(text) {
		hi = len(text)
	}
	return strings.ReplaceAll(text[lo:hi], "\n", `\n`)
}
