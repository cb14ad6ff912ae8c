package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// ErrMissingToken is returned when a client is requested without an API token.
var ErrMissingToken = errors.New("inference token is required")

// Client is an abstraction over inference providers
type Client interface {
	// Complete sends a single-turn prompt and returns the generated text
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// ProviderError wraps a failed provider call.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewClient creates a new inference client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Token == "" {
		return nil, ErrMissingToken
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderHuggingFace:
		return NewHuggingFaceClient(config)
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", config.Provider)
	}
}

// HuggingFaceClient implements Client against the Hugging Face router's
// OpenAI-compatible chat completions endpoint.
type HuggingFaceClient struct {
	client *openai.Client
	config *Config
}

// NewHuggingFaceClient creates a new Hugging Face router client
func NewHuggingFaceClient(config *Config) (*HuggingFaceClient, error) {
	if config.Token == "" {
		return nil, ErrMissingToken
	}

	oc := openai.DefaultConfig(config.Token)
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &HuggingFaceClient{
		client: openai.NewClientWithConfig(oc),
		config: config,
	}, nil
}

// Complete sends prompt as a single user message.
func (c *HuggingFaceClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		perr := &ProviderError{Provider: ProviderHuggingFace, Message: "chat completion failed", Cause: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.HTTPStatusCode
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			perr.StatusCode = reqErr.HTTPStatusCode
		}
		return "", perr
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "no choices in response"}
	}

	text := CleanCompletion(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{Provider: ProviderHuggingFace, Message: "empty completion"}
	}
	return text, nil
}

// Model returns the configured model identifier
func (c *HuggingFaceClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *HuggingFaceClient) Close() error {
	return nil
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.Token == "" {
		return nil, ErrMissingToken
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete generates text for prompt
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	model.SetMaxOutputTokens(int32(c.config.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: "generate content failed", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &ProviderError{Provider: ProviderGemini, Message: "unusable response", Cause: err}
	}
	return CleanCompletion(text), nil
}

// Model returns the configured model identifier
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
