// Package config provides application settings loaded through viper.
//
// Settings are created via New() which handles:
// - Environment variable and config file lookup (viper AutomaticEnv)
// - Value parsing with validation
// - Default value application
// - Provider-specific configuration lookup
//
// Validate() enforces the keys required to serve requests.

package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/richinex/discoverylens/llm"
)

// Settings holds all application configuration.
type Settings struct {
	Server   ServerConfig
	LLM      LLMConfig
	Search   SearchConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Port            int
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LLMConfig holds completion provider configuration.
type LLMConfig struct {
	Provider  string
	Model     string
	APIKeyEnv string
	APIKey    string
	Timeout   time.Duration
}

// SearchConfig holds web search provider configuration.
type SearchConfig struct {
	APIKey     string
	MaxResults int
	Timeout    time.Duration
}

// AnalysisConfig bounds a pipeline run.
type AnalysisConfig struct {
	Timeout         time.Duration
	MinSuccessRatio float64
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// Supported providers. Model and key variables are <NAME>_MODEL and <NAME>_API_KEY.
var providers = map[string]llm.ProviderType{
	"openai":    llm.ProviderOpenAI,
	"anthropic": llm.ProviderAnthropic,
	"deepseek":  llm.ProviderDeepSeek,
	"gemini":    llm.ProviderGemini,
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

const searchAPIKey = "TAVILY_API_KEY"

// New creates settings from v. Values come from the environment or a config
// file; unset keys take their defaults. Returns an error if the provider is
// unknown or a value does not parse.
func New(v *viper.Viper) (Settings, error) {
	provider := normalizeProvider(getString(v, "LLM_PROVIDER", "openai"))
	providerType, err := getProviderType(provider)
	if err != nil {
		return Settings{}, err
	}

	port, err := getInt(v, "PORT", 3001)
	if err != nil {
		return Settings{}, err
	}
	rateLimitMax, err := getInt(v, "RATE_LIMIT_MAX", 10)
	if err != nil {
		return Settings{}, err
	}
	rateLimitWindow, err := getDuration(v, "RATE_LIMIT_WINDOW", 15*time.Minute)
	if err != nil {
		return Settings{}, err
	}
	maxResults, err := getInt(v, "SEARCH_MAX_RESULTS", 5)
	if err != nil {
		return Settings{}, err
	}
	searchTimeout, err := getDuration(v, "SEARCH_TIMEOUT", 20*time.Second)
	if err != nil {
		return Settings{}, err
	}
	completionTimeout, err := getDuration(v, "COMPLETION_TIMEOUT", 45*time.Second)
	if err != nil {
		return Settings{}, err
	}
	analysisTimeout, err := getDuration(v, "ANALYSIS_TIMEOUT", 60*time.Second)
	if err != nil {
		return Settings{}, err
	}
	ratio, err := getFloat64(v, "RESEARCH_MIN_SUCCESS_RATIO", 1.0)
	if err != nil {
		return Settings{}, err
	}
	if ratio <= 0 || ratio > 1 {
		return Settings{}, fmt.Errorf("invalid value for RESEARCH_MIN_SUCCESS_RATIO: %v: must be in (0,1]", ratio)
	}

	return Settings{
		Server: ServerConfig{
			Port:            port,
			AllowedOrigins:  splitList(getString(v, "ALLOWED_ORIGINS", "*")),
			RateLimitMax:    rateLimitMax,
			RateLimitWindow: rateLimitWindow,
		},
		LLM: LLMConfig{
			Provider:  provider,
			Model:     getString(v, strings.ToUpper(providerType.String())+"_MODEL", providerType.DefaultModel()),
			APIKeyEnv: providerType.EnvVar(),
			APIKey:    getString(v, providerType.EnvVar(), ""),
			Timeout:   completionTimeout,
		},
		Search: SearchConfig{
			APIKey:     getString(v, searchAPIKey, ""),
			MaxResults: maxResults,
			Timeout:    searchTimeout,
		},
		Analysis: AnalysisConfig{
			Timeout:         analysisTimeout,
			MinSuccessRatio: ratio,
		},
		Log: LogConfig{
			Level:  getString(v, "LOG_LEVEL", "info"),
			Format: getString(v, "LOG_FORMAT", "json"),
		},
	}, nil
}

// Validate reports every missing key needed to call the external providers.
func (s Settings) Validate() error {
	var errs []error
	if s.Search.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s environment variable not set", searchAPIKey))
	}
	if s.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s environment variable not set", s.LLM.APIKeyEnv))
	}
	return errors.Join(errs...)
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderType returns the completion provider for a canonical name.
func getProviderType(provider string) (llm.ProviderType, error) {
	providerType, ok := providers[provider]
	if !ok {
		return 0, fmt.Errorf("unknown provider: %q", provider)
	}
	return providerType, nil
}

// SupportedProviders returns the sorted list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Lookup helpers with proper error handling

func getString(v *viper.Viper, key, defaultVal string) string {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func getInt(v *viper.Viper, key string, defaultVal int) (int, error) {
	val := getString(v, key, "")
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q: must be positive", key, val)
	}
	return i, nil
}

func getFloat64(v *viper.Viper, key string, defaultVal float64) (float64, error) {
	val := getString(v, key, "")
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getDuration(v *viper.Viper, key string, defaultVal time.Duration) (time.Duration, error) {
	val := getString(v, key, "")
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid value for %s: %q: must be positive", key, val)
	}
	return d, nil
}
