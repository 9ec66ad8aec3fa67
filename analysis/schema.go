package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	jsonutil "github.com/richinex/discoverylens/internal/json"
	"github.com/richinex/discoverylens/model"
)

// Shape policy for completion payloads:
//   - values of the wrong JSON type are fatal
//   - missing lists become empty lists, missing narratives become ""
//   - confidenceScore is required, must lie in [0,100], and is rounded

type rawAnalysis struct {
	RootCauses         []string `json:"rootCauses"`
	UserPainPoints     []string `json:"userPainPoints"`
	CompetitorInsights []string `json:"competitorInsights"`
	KeyFindings        []string `json:"keyFindings"`
	RecommendedFocus   string   `json:"recommendedFocus"`
	ConfidenceScore    *float64 `json:"confidenceScore"`
}

type rawHMW struct {
	Statement          string   `json:"statement"`
	Rationale          string   `json:"rationale"`
	TargetOutcome      string   `json:"targetOutcome"`
	PotentialSolutions []string `json:"potentialSolutions"`
	Priority           string   `json:"priority"`
	Feasibility        *float64 `json:"feasibility"`
	Impact             *float64 `json:"impact"`
}

func decodeAnalysis(content string) (model.AIAnalysisResult, error) {
	raw, err := jsonutil.ExtractJSONFromResponse[rawAnalysis](content)
	if err != nil {
		return model.AIAnalysisResult{}, err
	}

	if raw.ConfidenceScore == nil {
		return model.AIAnalysisResult{}, fmt.Errorf("%w: confidenceScore is missing", ErrShape)
	}
	score := *raw.ConfidenceScore
	if math.IsNaN(score) || score < 0 || score > 100 {
		return model.AIAnalysisResult{}, fmt.Errorf("%w: confidenceScore %v outside 0-100", ErrShape, score)
	}

	return model.AIAnalysisResult{
		RootCauses:         orEmpty(raw.RootCauses),
		UserPainPoints:     orEmpty(raw.UserPainPoints),
		CompetitorInsights: orEmpty(raw.CompetitorInsights),
		KeyFindings:        orEmpty(raw.KeyFindings),
		RecommendedFocus:   raw.RecommendedFocus,
		ConfidenceScore:    int(math.Round(score)),
	}, nil
}

func decodeMarketValidation(content string) (model.MarketValidation, error) {
	mv, err := jsonutil.ExtractJSONFromResponse[model.MarketValidation](content)
	if err != nil {
		return model.MarketValidation{}, err
	}
	mv.CompetitorSolutions = orEmpty(mv.CompetitorSolutions)
	mv.IndustryBenchmarks = orEmpty(mv.IndustryBenchmarks)
	mv.ValidationSources = orEmpty(mv.ValidationSources)
	return mv, nil
}

// decodeHMW accepts {"statements": [...]} or a bare array. Statements
// without text are dropped; at least one must remain.
func decodeHMW(content string) ([]rawHMW, error) {
	payload, err := jsonutil.ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var items []rawHMW
	if strings.HasPrefix(strings.TrimSpace(payload), "[") {
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
	} else {
		var wrapped struct {
			Statements []rawHMW `json:"statements"`
		}
		if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		items = wrapped.Statements
	}

	kept := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Statement) != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no HMW statements", ErrShape)
	}
	return kept, nil
}

// normalizePriority maps anything other than high/medium/low to medium.
func normalizePriority(p string) model.HMWPriority {
	switch model.HMWPriority(strings.ToLower(strings.TrimSpace(p))) {
	case model.PriorityHigh:
		return model.PriorityHigh
	case model.PriorityLow:
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

// score10 rounds a 1-10 score and clamps it into range. Absent scores are 5.
func score10(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return 5
	}
	return int(math.Max(1, math.Min(10, math.Round(*v))))
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
