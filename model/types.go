// Package model provides domain types shared across packages.
package model

import "time"

// DiscoveryRequest is the user-submitted description of a suspected problem.
// The pipeline assumes every field is non-empty; the HTTP layer enforces it.
type DiscoveryRequest struct {
	ProblemDescription string `json:"problemDescription"`
	AffectedUsers      string `json:"affectedUsers"`
	Evidence           string `json:"evidence"`
	BusinessImpact     string `json:"businessImpact"`
	SuccessCriteria    string `json:"successCriteria"`
}

// ResearchQuery is a derived search string and its position in the query set.
type ResearchQuery struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// ResultItem is one normalized web search hit.
type ResultItem struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResult is the provider response to a single query.
// Results keep the provider's relevance order.
type SearchResult struct {
	Query   string       `json:"query"`
	Results []ResultItem `json:"results"`
}

// ResearchContext holds every SearchResult of one run, in query submission order.
// It lives for exactly one pipeline run.
type ResearchContext []SearchResult

// AIAnalysisResult is the output of the analysis extraction pass.
type AIAnalysisResult struct {
	RootCauses         []string `json:"rootCauses"`
	UserPainPoints     []string `json:"userPainPoints"`
	CompetitorInsights []string `json:"competitorInsights"`
	KeyFindings        []string `json:"keyFindings"`
	RecommendedFocus   string   `json:"recommendedFocus"`
	ConfidenceScore    int      `json:"confidenceScore"`
}

// MarketValidation is the output of the market-validation extraction pass.
type MarketValidation struct {
	MarketSize          string   `json:"marketSize"`
	GrowthTrend         string   `json:"growthTrend"`
	CompetitorSolutions []string `json:"competitorSolutions"`
	IndustryBenchmarks  []string `json:"industryBenchmarks"`
	UserDemand          string   `json:"userDemand"`
	ValidationSources   []string `json:"validationSources"`
}

// ProblemAnalysis is the terminal artifact of a successful pipeline run.
// Consumers treat it as immutable.
type ProblemAnalysis struct {
	ID                 string           `json:"id"`
	DiscoveryID        string           `json:"discoveryId"`
	RootCauses         []string         `json:"rootCauses"`
	UserPainPoints     []string         `json:"userPainPoints"`
	MarketValidation   MarketValidation `json:"marketValidation"`
	CompetitorInsights []string         `json:"competitorInsights"`
	KeyFindings        []string         `json:"keyFindings"`
	RecommendedFocus   string           `json:"recommendedFocus"`
	ConfidenceScore    int              `json:"confidenceScore"`
	AnalyzedAt         time.Time        `json:"analyzedAt"`
}

// HMWPriority ranks a "How Might We" statement.
type HMWPriority string

const (
	PriorityHigh   HMWPriority = "high"
	PriorityMedium HMWPriority = "medium"
	PriorityLow    HMWPriority = "low"
)

// HMWStatement reframes a validated problem as an opportunity question.
type HMWStatement struct {
	ID                 string      `json:"id"`
	Statement          string      `json:"statement"`
	Rationale          string      `json:"rationale"`
	TargetOutcome      string      `json:"targetOutcome"`
	PotentialSolutions []string    `json:"potentialSolutions"`
	Priority           HMWPriority `json:"priority"`
	Feasibility        int         `json:"feasibility"`
	Impact             int         `json:"impact"`
	Selected           bool        `json:"selected"`
}
