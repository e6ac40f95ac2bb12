package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/forensia/internal/model"
)

// Provider defines the interface for text generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a single prompt and returns the raw model text.
	// An empty Text is not an error; callers decide how to treat it.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains one prompt and its sampling parameters
type GenerateRequest struct {
	Prompt string

	// Model overrides the configured model when non-empty
	Model string

	Temperature float32

	// TopK restricts sampling to the K most likely tokens (0 = backend default).
	// Backends without top-k support ignore it.
	TopK int
}

// GenerateResponse contains the backend output
type GenerateResponse struct {
	Text  string
	Model string
}

// Config holds provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted backends
	APIKey string

	// BaseURL for custom endpoints (tests, gateways, Ollama)
	BaseURL string

	// Timeout for API requests in seconds, 0 = none
	Timeout int

	Temperature float32
	TopK        int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultModel is the generation model used when none is configured
const DefaultModel = "gemini-3-flash-preview"

// DefaultConfig returns the deterministic-leaning defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       DefaultModel,
		Temperature: 0.1,
		TopK:        1,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		Temperature: c.Temperature,
		TopK:        c.TopK,
		HTTPProxy:   c.HTTPProxy,
		HTTPSProxy:  c.HTTPSProxy,
	}
}

// BuildPrompt renders the justification prompt for one feature set.
// The rules are instructions to the model; nothing checks the reply against them.
func BuildPrompt(f model.Features, c model.Classification) string {
	var b strings.Builder

	b.WriteString("You are an audio forensics explanation assistant.\n")
	b.WriteString("Your role is strictly limited to converting numerical audio feature values into short, factual explanations.\n\n")

	b.WriteString("Audio analysis summary:\n")
	fmt.Fprintf(&b, "Language: %s\n\n", f.Language)

	b.WriteString("Extracted features:\n")
	fmt.Fprintf(&b, "- Pause entropy: %.3f\n", f.PauseEntropy)
	fmt.Fprintf(&b, "- Pitch jitter: %.3f%%\n", f.PitchJitter)
	fmt.Fprintf(&b, "- Amplitude shimmer: %.3f%%\n", f.Shimmer)
	fmt.Fprintf(&b, "- Silence noise variance: %.4f\n", f.SilenceNoiseVariance)
	fmt.Fprintf(&b, "- Prosody drift score: %.2f\n\n", f.ProsodyDrift)

	fmt.Fprintf(&b, "Final classification: %s\n\n", c)

	b.WriteString("RULES:\n")
	b.WriteString("- You do NOT analyze audio.\n")
	b.WriteString("- You do NOT decide classifications.\n")
	b.WriteString("- You do NOT invent features.\n")
	b.WriteString("- You do NOT speculate.\n")
	b.WriteString("- Generate a concise explanation (max 20 words) justifying the given classification using ONLY the provided features.\n")
	b.WriteString("- Use neutral, technical language.\n")
	b.WriteString("- Avoid mentioning AI models, neural networks, or proprietary systems.\n")

	return b.String()
}
