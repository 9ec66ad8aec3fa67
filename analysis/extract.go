package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/richinex/discoverylens/llm"
	"github.com/richinex/discoverylens/model"
)

// Extractor runs the structured completion passes. Each pass has its own
// client so temperature and token limits can differ per pass.
type Extractor struct {
	analysis *llm.Client
	market   *llm.Client
	hmw      *llm.Client
	logger   *zap.Logger
}

// NewExtractor creates an extractor. hmw may be nil when HMW generation is
// not needed.
func NewExtractor(analysis, market, hmw *llm.Client, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		analysis: analysis,
		market:   market,
		hmw:      hmw,
		logger:   logger,
	}
}

// ExtractAnalysis derives root causes, pain points, competitor insights, key
// findings and a confidence score from the discovery and research context.
func (e *Extractor) ExtractAnalysis(ctx context.Context, d model.DiscoveryRequest, researchContext string) (model.AIAnalysisResult, error) {
	content, err := e.complete(ctx, e.analysis, PassAnalysis, analysisSystemPrompt, analysisPrompt(d, researchContext))
	if err != nil {
		return model.AIAnalysisResult{}, err
	}

	result, err := decodeAnalysis(content)
	if err != nil {
		return model.AIAnalysisResult{}, &ExtractionError{Pass: PassAnalysis, Err: err}
	}
	return result, nil
}

// ExtractMarketValidation pulls market metrics out of the research context.
func (e *Extractor) ExtractMarketValidation(ctx context.Context, researchContext string) (model.MarketValidation, error) {
	content, err := e.complete(ctx, e.market, PassMarketValidation, marketSystemPrompt, marketPrompt(researchContext))
	if err != nil {
		return model.MarketValidation{}, err
	}

	result, err := decodeMarketValidation(content)
	if err != nil {
		return model.MarketValidation{}, &ExtractionError{Pass: PassMarketValidation, Err: err}
	}
	return result, nil
}

// GenerateHMW reframes an analyzed problem as "How Might We" statements.
func (e *Extractor) GenerateHMW(ctx context.Context, d model.DiscoveryRequest, a model.ProblemAnalysis) ([]model.HMWStatement, error) {
	if e.hmw == nil {
		return nil, &ExtractionError{Pass: PassHMW, Err: fmt.Errorf("no completion client configured")}
	}

	content, err := e.complete(ctx, e.hmw, PassHMW, hmwSystemPrompt, hmwPrompt(d, a))
	if err != nil {
		return nil, err
	}

	items, err := decodeHMW(content)
	if err != nil {
		return nil, &ExtractionError{Pass: PassHMW, Err: err}
	}

	batch := uuid.NewString()
	statements := make([]model.HMWStatement, len(items))
	for i, item := range items {
		statements[i] = model.HMWStatement{
			ID:                 fmt.Sprintf("hmw-%s-%d", batch, i),
			Statement:          item.Statement,
			Rationale:          item.Rationale,
			TargetOutcome:      item.TargetOutcome,
			PotentialSolutions: orEmpty(item.PotentialSolutions),
			Priority:           normalizePriority(item.Priority),
			Feasibility:        score10(item.Feasibility),
			Impact:             score10(item.Impact),
		}
	}
	return statements, nil
}

func (e *Extractor) complete(ctx context.Context, client *llm.Client, pass Pass, system, user string) (string, error) {
	messages := []llm.ChatMessage{
		llm.SystemMessage(system),
		llm.UserMessage(user),
	}

	content, usage, err := client.ChatJSON(ctx, messages)
	if err != nil {
		return "", &ExtractionError{Pass: pass, Err: err}
	}
	if usage != nil {
		e.logger.Debug("completion finished",
			zap.String("pass", string(pass)),
			zap.String("model", client.Provider().Model()),
			zap.Uint32("prompt_tokens", usage.PromptTokens),
			zap.Uint32("completion_tokens", usage.CompletionTokens),
		)
	}
	return content, nil
}
