// Component wiring from settings.
//
// Information Hiding:
// - Per-pass completion tuning hidden
// - Provider construction hidden

package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/richinex/discoverylens/analysis"
	"github.com/richinex/discoverylens/config"
	"github.com/richinex/discoverylens/llm"
	"github.com/richinex/discoverylens/orchestration"
	"github.com/richinex/discoverylens/research"
)

// passTuning holds the sampling settings of one completion pass.
type passTuning struct {
	maxTokens   uint32
	temperature float32
}

var (
	analysisTuning = passTuning{maxTokens: 2000, temperature: 0.7}
	marketTuning   = passTuning{maxTokens: 1500, temperature: 0.5}
	hmwTuning      = passTuning{maxTokens: 3072, temperature: 0.8}
)

func newCompletionClient(settings config.Settings, tuning passTuning) (*llm.Client, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	provider, err := providerType.
		Model(settings.LLM.Model).
		MaxTokens(tuning.maxTokens).
		Temperature(tuning.temperature).
		APIKey(settings.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}
	return llm.NewClient(provider, settings.LLM.Timeout), nil
}

// newExtractor builds the extractor with one client per pass.
func newExtractor(settings config.Settings, logger *zap.Logger) (*analysis.Extractor, error) {
	analysisClient, err := newCompletionClient(settings, analysisTuning)
	if err != nil {
		return nil, err
	}
	marketClient, err := newCompletionClient(settings, marketTuning)
	if err != nil {
		return nil, err
	}
	hmwClient, err := newCompletionClient(settings, hmwTuning)
	if err != nil {
		return nil, err
	}
	return analysis.NewExtractor(analysisClient, marketClient, hmwClient, logger), nil
}

// newOrchestrator builds the pipeline on the Tavily search client.
func newOrchestrator(settings config.Settings, extractor *analysis.Extractor, logger *zap.Logger, options ...orchestration.Option) *orchestration.Orchestrator {
	searcher := research.NewTavilyClient(settings.Search.APIKey, settings.Search.Timeout)
	opts := orchestration.Options{
		MaxResults:      settings.Search.MaxResults,
		Timeout:         settings.Analysis.Timeout,
		MinSuccessRatio: settings.Analysis.MinSuccessRatio,
	}
	options = append([]orchestration.Option{orchestration.WithLogger(logger)}, options...)
	return orchestration.New(searcher, extractor, opts, options...)
}
