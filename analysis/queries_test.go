package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinex/discoverylens/model"
)

func TestGenerateQueries(t *testing.T) {
	d := model.DiscoveryRequest{
		ProblemDescription: "Users abandon checkout at 60%",
		AffectedUsers:      "Mobile shoppers",
	}

	queries := GenerateQueries(d)
	require.Len(t, queries, QueryCount)

	want := []string{
		"Users abandon checkout at 60% market size trends statistics 2024",
		"Mobile shoppers Users abandon checkout at 60% user research pain points",
		"Users abandon checkout at 60% competitor solutions best practices",
		"Users abandon checkout at 60% industry benchmarks KPIs metrics",
		"Users abandon checkout at 60% case studies success stories ROI",
	}
	assert.Equal(t, want, QueryTexts(queries))
	for i, q := range queries {
		assert.Equal(t, i, q.Position)
	}
}

func TestGenerateQueriesDeterministic(t *testing.T) {
	d := model.DiscoveryRequest{ProblemDescription: "Slow onboarding flow", AffectedUsers: "New admins"}
	assert.Equal(t, GenerateQueries(d), GenerateQueries(d))
}
