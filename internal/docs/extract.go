package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// tabHeaderFormat separates the content of each tab in extracted text.
const tabHeaderFormat = "\n--- TAB: %s ---\n"

// ExtractText extracts the plain text of a document, walking the tab
// hierarchy when present and falling back to the legacy body otherwise.
// Each tab's content is introduced by a "--- TAB: name ---" header.
func ExtractText(doc *docs.Document) string {
	if doc == nil {
		return ""
	}

	var text strings.Builder

	if len(doc.Tabs) > 0 {
		for _, tab := range doc.Tabs {
			extractTabText(&text, tab)
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			extractElementText(&text, element)
		}
	}

	return text.String()
}

// extractTabText appends one tab's content and recurses into child tabs.
func extractTabText(text *strings.Builder, tab *docs.Tab) {
	if tab == nil {
		return
	}

	name := "Untitled"
	if tab.TabProperties != nil && tab.TabProperties.Title != "" {
		name = tab.TabProperties.Title
	}
	fmt.Fprintf(text, tabHeaderFormat, name)

	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			extractElementText(text, element)
		}
	}

	for _, child := range tab.ChildTabs {
		extractTabText(text, child)
	}
}

// extractElementText appends the text of one structural element.
func extractElementText(text *strings.Builder, element *docs.StructuralElement) {
	if element == nil {
		return
	}

	switch {
	case element.Paragraph != nil:
		for _, elem := range element.Paragraph.Elements {
			if elem.TextRun != nil {
				text.WriteString(elem.TextRun.Content)
			}
		}
	case element.Table != nil:
		for _, row := range element.Table.TableRows {
			for _, cell := range row.TableCells {
				for _, cellElement := range cell.Content {
					extractElementText(text, cellElement)
				}
				text.WriteString("\t")
			}
			text.WriteString("\n")
		}
	}
}
