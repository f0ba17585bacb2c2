package llm

import (
	"context"
	"errors"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Sentinel errors providers wrap so callers can classify failures
var (
	// ErrMalformedResponse means the service answered but the payload lacked the expected shape
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyResponse means the service answered with no usable text
	ErrEmptyResponse = errors.New("empty response")
)

// Provider defines the interface for text-generation services
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends an ordered sequence of messages and returns the reply text
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Message is a single-role chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// Messages in order; at minimum one user message with the assembled prompt
	Messages []Message

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature overrides the configured sampling temperature when > 0
	Temperature float32
}

// GenerateResponse contains the generated text
type GenerateResponse struct {
	// Text is the trimmed reply content
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// UserPrompt builds a single-turn request with one user message
func UserPrompt(prompt string) GenerateRequest {
	return GenerateRequest{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "ollama",
		Model:       "llama3",
		Timeout:     120,
		MaxTokens:   1000,
		Temperature: 0.3,
	}
}

func (c Config) maxTokens(req GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

func (c Config) temperature(req GenerateRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return c.Temperature
}

// splitSystem separates system messages (joined) from the conversation turns
func splitSystem(messages []Message) (string, []Message) {
	var system string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
