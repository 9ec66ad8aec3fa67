package research

import (
	"fmt"
	"strings"

	"github.com/richinex/discoverylens/model"
)

const (
	// ContextItemsPerQuery caps how many items of each query reach the prompt.
	ContextItemsPerQuery = 3
	// ContextContentChars caps the content characters kept per item.
	ContextContentChars = 500
)

// FormatContext renders a bounded excerpt of the research results for
// embedding in a completion prompt. Query blocks are separated by "---".
func FormatContext(results []model.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "\nSEARCH QUERY %d: %q\n\n", i+1, r.Query)

		items := r.Results
		if len(items) > ContextItemsPerQuery {
			items = items[:ContextItemsPerQuery]
		}
		parts := make([]string, 0, len(items))
		for j, item := range items {
			parts = append(parts, fmt.Sprintf("\nResult %d:\nTitle: %s\nSource: %s\nContent: %s...\n",
				j+1, item.Title, item.URL, truncate(item.Content, ContextContentChars)))
		}
		b.WriteString(strings.Join(parts, "\n"))
		b.WriteString("\n")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n")
}

// truncate keeps at most n characters of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
