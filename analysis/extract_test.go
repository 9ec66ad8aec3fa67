package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinex/discoverylens/llm"
	"github.com/richinex/discoverylens/model"
)

var testDiscovery = model.DiscoveryRequest{
	ProblemDescription: "Users abandon checkout at 60%",
	AffectedUsers:      "Mobile shoppers",
	Evidence:           "Funnel analytics for Q3",
	BusinessImpact:     "Lost revenue every month",
	SuccessCriteria:    "Abandonment below 40%",
}

const analysisJSON = `{
  "rootCauses": ["Too many form fields", "Surprise shipping costs"],
  "userPainPoints": ["Typing on mobile"],
  "competitorInsights": ["One-page checkout"],
  "keyFindings": ["Industry average abandonment is 70%"],
  "recommendedFocus": "Simplify the mobile form",
  "confidenceScore": 78.6
}`

func TestExtractAnalysis(t *testing.T) {
	provider := &scriptedProvider{content: analysisJSON}
	e := newTestExtractor(provider, nil, nil)

	result, err := e.ExtractAnalysis(context.Background(), testDiscovery, "SEARCH QUERY 1: \"x\"")
	require.NoError(t, err)

	assert.Equal(t, []string{"Too many form fields", "Surprise shipping costs"}, result.RootCauses)
	assert.Equal(t, "Simplify the mobile form", result.RecommendedFocus)
	assert.Equal(t, 79, result.ConfidenceScore)

	require.Len(t, provider.messages, 1)
	msgs := provider.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[1].Content, testDiscovery.ProblemDescription)
	assert.Contains(t, msgs[1].Content, testDiscovery.SuccessCriteria)
	assert.Contains(t, msgs[1].Content, `SEARCH QUERY 1: "x"`)
}

func TestExtractAnalysisSalvagesMissingFields(t *testing.T) {
	e := newTestExtractor(&scriptedProvider{content: `{"confidenceScore": 40}`}, nil, nil)

	result, err := e.ExtractAnalysis(context.Background(), testDiscovery, "")
	require.NoError(t, err)
	assert.Equal(t, []string{}, result.RootCauses)
	assert.Equal(t, []string{}, result.KeyFindings)
	assert.Equal(t, "", result.RecommendedFocus)
	assert.Equal(t, 40, result.ConfidenceScore)
}

func TestExtractAnalysisToleratesFencedJSON(t *testing.T) {
	content := "Here is the analysis:\n```json\n" + analysisJSON + "\n```"
	e := newTestExtractor(&scriptedProvider{content: content}, nil, nil)

	result, err := e.ExtractAnalysis(context.Background(), testDiscovery, "")
	require.NoError(t, err)
	assert.Len(t, result.RootCauses, 2)
}

func TestExtractAnalysisKeepsBackticksInValues(t *testing.T) {
	content := `{"rootCauses": ["a"], "recommendedFocus": "Ship a snippet like ` + "```js pay()```" + ` in docs", "confidenceScore": 70}`
	e := newTestExtractor(&scriptedProvider{content: content}, nil, nil)

	result, err := e.ExtractAnalysis(context.Background(), testDiscovery, "")
	require.NoError(t, err)
	assert.Equal(t, "Ship a snippet like ```js pay()``` in docs", result.RecommendedFocus)
	assert.Equal(t, []string{"a"}, result.RootCauses)
	assert.Equal(t, 70, result.ConfidenceScore)
}

func TestExtractAnalysisFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
		shape   bool
	}{
		{name: "empty content", content: "   "},
		{name: "not json", content: "I cannot help with that"},
		{name: "wrong type", content: `{"rootCauses": "just one", "confidenceScore": 50}`},
		{name: "missing confidence", content: `{"rootCauses": []}`, shape: true},
		{name: "confidence too high", content: `{"confidenceScore": 140}`, shape: true},
		{name: "confidence negative", content: `{"confidenceScore": -1}`, shape: true},
		{name: "provider error", err: errors.New("upstream 503")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(&scriptedProvider{content: tt.content, err: tt.err}, nil, nil)

			_, err := e.ExtractAnalysis(context.Background(), testDiscovery, "")
			require.Error(t, err)

			var extractionErr *ExtractionError
			require.True(t, errors.As(err, &extractionErr))
			assert.Equal(t, PassAnalysis, extractionErr.Pass)
			assert.True(t, strings.HasPrefix(err.Error(), "failed to analyze discovery with AI"))
			if tt.shape {
				assert.ErrorIs(t, err, ErrShape)
			}
		})
	}
}

func TestExtractAnalysisEmptyContentWrapsSentinel(t *testing.T) {
	e := newTestExtractor(&scriptedProvider{content: ""}, nil, nil)
	_, err := e.ExtractAnalysis(context.Background(), testDiscovery, "")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestExtractMarketValidation(t *testing.T) {
	provider := &scriptedProvider{content: `{
	  "marketSize": "$10B",
	  "growthTrend": "12% CAGR",
	  "competitorSolutions": ["Shop Pay"],
	  "userDemand": "High",
	  "validationSources": ["Baymard Institute"]
	}`}
	e := newTestExtractor(nil, provider, nil)

	mv, err := e.ExtractMarketValidation(context.Background(), "research")
	require.NoError(t, err)
	assert.Equal(t, "$10B", mv.MarketSize)
	assert.Equal(t, []string{"Shop Pay"}, mv.CompetitorSolutions)
	assert.Equal(t, []string{}, mv.IndustryBenchmarks)

	require.Len(t, provider.messages, 1)
	assert.Contains(t, provider.messages[0][1].Content, "research")
	assert.NotContains(t, provider.messages[0][1].Content, testDiscovery.ProblemDescription)
}

func TestExtractMarketValidationFailure(t *testing.T) {
	e := newTestExtractor(nil, &scriptedProvider{content: `{"marketSize": 10}`}, nil)

	_, err := e.ExtractMarketValidation(context.Background(), "research")
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, PassMarketValidation, extractionErr.Pass)
	assert.Contains(t, err.Error(), "failed to extract market validation")
}

func TestGenerateHMW(t *testing.T) {
	provider := &scriptedProvider{content: `{"statements": [
	  {"statement": "How might we shorten checkout?", "rationale": "r", "targetOutcome": "t",
	   "potentialSolutions": ["a", "b"], "priority": "HIGH", "feasibility": 7.4, "impact": 12},
	  {"statement": "How might we surface costs early?", "priority": "urgent", "feasibility": 0},
	  {"statement": "  "}
	]}`}
	e := newTestExtractor(nil, nil, provider)

	analysis := model.ProblemAnalysis{RootCauses: []string{"Too many fields"}, RecommendedFocus: "Forms"}
	statements, err := e.GenerateHMW(context.Background(), testDiscovery, analysis)
	require.NoError(t, err)
	require.Len(t, statements, 2)

	first := statements[0]
	assert.Equal(t, "How might we shorten checkout?", first.Statement)
	assert.Equal(t, model.PriorityHigh, first.Priority)
	assert.Equal(t, 7, first.Feasibility)
	assert.Equal(t, 10, first.Impact)
	assert.False(t, first.Selected)
	assert.True(t, strings.HasPrefix(first.ID, "hmw-"))
	assert.True(t, strings.HasSuffix(first.ID, "-0"))

	second := statements[1]
	assert.Equal(t, model.PriorityMedium, second.Priority)
	assert.Equal(t, 1, second.Feasibility)
	assert.Equal(t, 5, second.Impact)
	assert.Equal(t, []string{}, second.PotentialSolutions)
	assert.True(t, strings.HasSuffix(second.ID, "-1"))
	assert.NotEqual(t, first.ID, second.ID)

	assert.Contains(t, provider.messages[0][1].Content, `["Too many fields"]`)
}

func TestGenerateHMWBareArray(t *testing.T) {
	e := newTestExtractor(nil, nil, &scriptedProvider{content: `[{"statement": "How might we help?", "priority": "low"}]`})

	statements, err := e.GenerateHMW(context.Background(), testDiscovery, model.ProblemAnalysis{})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, model.PriorityLow, statements[0].Priority)
}

func TestGenerateHMWNoStatements(t *testing.T) {
	e := newTestExtractor(nil, nil, &scriptedProvider{content: `{"statements": []}`})

	_, err := e.GenerateHMW(context.Background(), testDiscovery, model.ProblemAnalysis{})
	assert.ErrorIs(t, err, ErrShape)
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, PassHMW, extractionErr.Pass)
}

func TestGenerateHMWWithoutClient(t *testing.T) {
	e := newTestExtractor(&scriptedProvider{}, &scriptedProvider{}, nil)
	_, err := e.GenerateHMW(context.Background(), testDiscovery, model.ProblemAnalysis{})
	require.Error(t, err)
}
