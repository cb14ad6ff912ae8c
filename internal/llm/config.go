// Package llm provides the language-model clients used for company suggestions.
package llm

import (
	"time"

	"github.com/jonathan/hireflow/internal/config"
)

// Provider represents an inference provider.
type Provider string

// Provider constants define supported inference providers.
const (
	// ProviderHuggingFace is the Hugging Face router (OpenAI-compatible chat completions)
	ProviderHuggingFace Provider = config.ProviderHuggingFace
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = config.ProviderGemini
)

// Config holds the request parameters for one provider.
type Config struct {
	Provider    Provider
	BaseURL     string
	Model       string
	Token       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (Hugging Face router, no token).
func DefaultConfig() *Config {
	return DefaultHuggingFaceConfig()
}

// DefaultHuggingFaceConfig returns the Hugging Face router configuration.
func DefaultHuggingFaceConfig() *Config {
	return &Config{
		Provider:    ProviderHuggingFace,
		BaseURL:     "https://router.huggingface.co/v1",
		Model:       "mistralai/Magistral-Small-2506",
		MaxTokens:   200,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// DefaultGeminiConfig returns the Gemini configuration.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash-lite",
		MaxTokens:   200,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// FromInference converts the application inference settings into a client Config.
// Zero values fall back to the provider defaults.
func FromInference(c config.InferenceConfig) *Config {
	cfg := DefaultHuggingFaceConfig()
	if Provider(c.Provider) == ProviderGemini {
		cfg = DefaultGeminiConfig()
	}
	cfg.Token = c.Token
	if c.BaseURL != "" && cfg.Provider == ProviderHuggingFace {
		cfg.BaseURL = c.BaseURL
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	if c.Temperature > 0 {
		cfg.Temperature = float32(c.Temperature)
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	return cfg
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	out.Model = model
	return &out
}
