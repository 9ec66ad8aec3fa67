package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinex/discoverylens/model"
)

func TestFormatContextTruncatesContent(t *testing.T) {
	long := strings.Repeat("a", 10000)
	out := FormatContext([]model.SearchResult{{
		Query:   "q",
		Results: []model.ResultItem{{Title: "t", URL: "u", Content: long}},
	}})

	assert.Contains(t, out, strings.Repeat("a", ContextContentChars)+"...")
	assert.NotContains(t, out, strings.Repeat("a", ContextContentChars+1))
}

func TestFormatContextCapsItemsPerQuery(t *testing.T) {
	items := make([]model.ResultItem, 5)
	for i := range items {
		items[i] = model.ResultItem{Title: "title-" + string(rune('A'+i)), URL: "u", Content: "c"}
	}
	out := FormatContext([]model.SearchResult{{Query: "q", Results: items}})

	assert.Contains(t, out, "title-A")
	assert.Contains(t, out, "title-C")
	assert.NotContains(t, out, "title-D")
	assert.NotContains(t, out, "title-E")
	assert.Equal(t, 3, strings.Count(out, "Title: "))
}

func TestFormatContextLayout(t *testing.T) {
	out := FormatContext([]model.SearchResult{
		{Query: "first query", Results: []model.ResultItem{{Title: "T1", URL: "https://one", Content: "body one"}}},
		{Query: "second query", Results: nil},
	})

	assert.Contains(t, out, `SEARCH QUERY 1: "first query"`)
	assert.Contains(t, out, `SEARCH QUERY 2: "second query"`)
	assert.Contains(t, out, "Result 1:\nTitle: T1\nSource: https://one\nContent: body one...")
	assert.Equal(t, 1, strings.Count(out, "\n---\n"))
	assert.Less(t, strings.Index(out, "first query"), strings.Index(out, "second query"))
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", 600)
	got := truncate(s, ContextContentChars)
	assert.Equal(t, ContextContentChars, len([]rune(got)))
	assert.True(t, strings.HasPrefix(s, got))
}
