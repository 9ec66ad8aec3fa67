// Package analysis derives research queries from a discovery and runs the
// completion passes that turn research into structured findings.
package analysis

import (
	"fmt"

	"github.com/richinex/discoverylens/model"
)

// QueryCount is the number of research queries derived from a discovery.
const QueryCount = 5

// GenerateQueries builds the fixed research query set for a discovery:
// market size/trends, user pain points, competitor solutions, industry
// benchmarks, and case studies/ROI, in that order.
func GenerateQueries(d model.DiscoveryRequest) []model.ResearchQuery {
	texts := [QueryCount]string{
		fmt.Sprintf("%s market size trends statistics 2024", d.ProblemDescription),
		fmt.Sprintf("%s %s user research pain points", d.AffectedUsers, d.ProblemDescription),
		fmt.Sprintf("%s competitor solutions best practices", d.ProblemDescription),
		fmt.Sprintf("%s industry benchmarks KPIs metrics", d.ProblemDescription),
		fmt.Sprintf("%s case studies success stories ROI", d.ProblemDescription),
	}

	queries := make([]model.ResearchQuery, len(texts))
	for i, text := range texts {
		queries[i] = model.ResearchQuery{Position: i, Text: text}
	}
	return queries
}

// QueryTexts returns the query strings in position order.
func QueryTexts(queries []model.ResearchQuery) []string {
	texts := make([]string, len(queries))
	for i, q := range queries {
		texts[i] = q.Text
	}
	return texts
}
