// Provider tests against local test servers: request shape, JSON mode and
// error messages that must not leak API keys.
package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIRequestsJSONObjectFormat(t *testing.T) {
	var captured map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`)
	}))
	defer ts.Close()

	provider, err := ProviderOpenAI.Model("gpt-4o").MaxTokens(2000).Temperature(0.5).BaseURL(ts.URL).APIKey("sk-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := provider.ChatWithFormat(context.Background(), []ChatMessage{
		SystemMessage("you are a test"),
		UserMessage("hello"),
	}, NewJSONObjectFormat())
	if err != nil {
		t.Fatalf("ChatWithFormat: %v", err)
	}
	if resp.Content != `{"ok":true}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Errorf("expected total tokens 15, got %+v", resp.Usage)
	}

	format, _ := captured["response_format"].(map[string]interface{})
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", captured["response_format"])
	}
	messages, _ := captured["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if captured["model"] != "gpt-4o" {
		t.Errorf("model = %v", captured["model"])
	}
}

func TestOpenAINoChoicesYieldsEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[],"usage":{}}`)
	}))
	defer ts.Close()

	provider := NewOpenAIProvider("sk-test", "gpt-4o", 100, 0.7, ts.URL)
	resp, err := provider.ChatWithFormat(context.Background(), []ChatMessage{UserMessage("x")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "" {
		t.Errorf("expected empty content, got %q", resp.Content)
	}
}

// TestOpenAIErrorNoAPIKeyLeak verifies OpenAI errors don't contain API keys
func TestOpenAIErrorNoAPIKeyLeak(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer ts.Close()

	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, "gpt-4o", 100, 0.7, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.ChatWithFormat(ctx, []ChatMessage{UserMessage("test")}, nil)
	if err == nil {
		t.Fatal("expected error for rejected key")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("OpenAI error message leaked API key: %v", errStr)
	}
	if strings.Contains(errStr, "Authorization:") {
		t.Errorf("OpenAI error exposed Authorization header: %v", errStr)
	}
}

func TestAnthropicJSONInstructionInSystemPrompt(t *testing.T) {
	var captured map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514","content":[{"type":"text","text":"{\"ok\":true}"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":4}}`)
	}))
	defer ts.Close()

	provider := NewAnthropicProvider("sk-ant-test", ModelAnthropicClaudeSonnet4, 100, 0.5, ts.URL)
	resp, err := provider.ChatWithFormat(context.Background(), []ChatMessage{
		SystemMessage("You are an analyst."),
		UserMessage("hello"),
	}, NewJSONObjectFormat())
	if err != nil {
		t.Fatalf("ChatWithFormat: %v", err)
	}
	if resp.Content != `{"ok":true}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 14 {
		t.Errorf("expected total tokens 14, got %+v", resp.Usage)
	}

	system, _ := captured["system"].([]interface{})
	if len(system) != 1 {
		t.Fatalf("expected one system block, got %v", captured["system"])
	}
	block, _ := system[0].(map[string]interface{})
	text, _ := block["text"].(string)
	if !strings.HasPrefix(text, "You are an analyst.") || !strings.Contains(text, jsonOnlyInstruction) {
		t.Errorf("system prompt = %q", text)
	}
}

// TestAnthropicErrorNoAPIKeyLeak verifies Anthropic errors don't contain API keys
func TestAnthropicErrorNoAPIKeyLeak(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer ts.Close()

	testKey := "sk-ant-REDACTED"
	provider := NewAnthropicProvider(testKey, ModelAnthropicClaudeSonnet4, 100, 0.7, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.ChatWithFormat(ctx, []ChatMessage{UserMessage("test")}, nil)
	if err == nil {
		t.Fatal("expected error for rejected key")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("Anthropic error message leaked API key: %v", errStr)
	}
	if strings.Contains(errStr, "x-api-key:") || strings.Contains(errStr, "X-API-Key:") {
		t.Errorf("Anthropic error exposed API key header: %v", errStr)
	}
}

func TestDeepSeekUsesOverrideBaseURL(t *testing.T) {
	hit := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{}"}}]}`)
	}))
	defer ts.Close()

	provider := NewDeepSeekProvider("sk-test", ModelDeepSeekChat, 100, 0.7, ts.URL)
	if _, err := provider.ChatWithFormat(context.Background(), []ChatMessage{UserMessage("x")}, NewJSONObjectFormat()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("expected request to reach the override base URL")
	}
}

// TestGeminiInitErrorPreserved verifies Gemini returns initialization errors
func TestGeminiInitErrorPreserved(t *testing.T) {
	provider := NewGeminiProvider("", ModelGeminiFlash25, 100, 0.7)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.ChatWithFormat(ctx, []ChatMessage{UserMessage("test")}, NewJSONObjectFormat())
	if err == nil {
		t.Fatal("Expected initialization error to be returned, got nil")
	}
	if !strings.Contains(err.Error(), "failed to initialize") {
		t.Errorf("Expected initialization error, got: %v", err)
	}
}
