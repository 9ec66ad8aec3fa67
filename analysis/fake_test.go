package analysis

import (
	"context"
	"sync"

	"github.com/richinex/discoverylens/llm"
)

// scriptedProvider answers every request with a fixed reply and records prompts.
type scriptedProvider struct {
	mu       sync.Mutex
	content  string
	err      error
	messages [][]llm.ChatMessage
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }

func (p *scriptedProvider) ChatWithFormat(_ context.Context, messages []llm.ChatMessage, _ *llm.ResponseFormat) (llm.LLMResponse, error) {
	p.mu.Lock()
	p.messages = append(p.messages, messages)
	p.mu.Unlock()
	if p.err != nil {
		return llm.LLMResponse{}, p.err
	}
	return llm.LLMResponse{
		Content: p.content,
		Usage:   &llm.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func newTestExtractor(analysis, market, hmw *scriptedProvider) *Extractor {
	wrap := func(p *scriptedProvider) *llm.Client {
		if p == nil {
			return nil
		}
		return llm.NewClient(p, 0)
	}
	return NewExtractor(wrap(analysis), wrap(market), wrap(hmw), nil)
}
