package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/forensia/internal/cache"
	"github.com/ppiankov/forensia/internal/model"
)

const (
	// FailureMessage is the only text users ever see for a failed generation
	FailureMessage = "Failed to communicate with the forensics engine."

	// FallbackText replaces an empty reply from the backend
	FallbackText = "Unable to generate justification."
)

// ServiceError reports any failure to obtain a justification.
// Error() is always FailureMessage; the cause is kept for logs and errors.Is.
type ServiceError struct {
	Cause error
}

func (e *ServiceError) Error() string {
	return FailureMessage
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Justifier turns a feature set and a classification into a short
// justification sentence using one generation backend.
type Justifier struct {
	provider Provider
	initErr  error
	config   Config
	logger   *zap.Logger

	cache    cache.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

// Option configures a Justifier
type Option func(*Justifier)

// WithLogger sets the logger used for failure diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(j *Justifier) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// WithCache reuses replies for identical prompts and collapses concurrent
// identical requests into one backend call
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(j *Justifier) {
		j.cache = c
		j.cacheTTL = ttl
	}
}

// NewJustifier wraps an existing provider
func NewJustifier(provider Provider, config Config, opts ...Option) *Justifier {
	j := &Justifier{
		provider: provider,
		config:   config,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NewJustifierFromConfig builds the provider named in config. A provider that
// cannot be built (for example a missing API key) does not fail construction:
// every Generate call then fails with ServiceError.
func NewJustifierFromConfig(config Config, opts ...Option) *Justifier {
	provider, err := NewProvider(config)
	if err != nil {
		provider = nil
	}
	j := NewJustifier(provider, config, opts...)
	if err != nil {
		j.initErr = err
		j.logger.Warn("generation backend unavailable", zap.String("provider", config.Provider), zap.Error(err))
	}
	return j
}

// ProviderName returns the backend name, or "" if none could be built
func (j *Justifier) ProviderName() string {
	if j.provider == nil {
		return ""
	}
	return j.provider.Name()
}

// Generate makes a single attempt to justify the classification.
// No retries are made and no timeout is added beyond the configured one.
func (j *Justifier) Generate(ctx context.Context, f model.Features, c model.Classification) (string, error) {
	prompt := BuildPrompt(f, c)

	if j.cache == nil {
		return j.call(ctx, prompt)
	}

	key := cache.CacheKey(j.ProviderName(), j.config.Model, prompt)
	if data, ok := j.cache.Get(key); ok {
		j.logger.Debug("justification cache hit", zap.String("key", key))
		return string(data), nil
	}

	v, err, shared := j.group.Do(key, func() (interface{}, error) {
		text, err := j.call(ctx, prompt)
		if err != nil {
			return "", err
		}
		if text != FallbackText {
			_ = j.cache.Set(key, []byte(text), j.cacheTTL)
		}
		return text, nil
	})
	if shared {
		j.logger.Debug("justification shared with concurrent request", zap.String("key", key))
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (j *Justifier) call(ctx context.Context, prompt string) (string, error) {
	if j.initErr != nil {
		j.logger.Error("justification failed", zap.Error(j.initErr))
		return "", &ServiceError{Cause: j.initErr}
	}
	if j.provider == nil {
		err := errors.New("no generation backend configured")
		j.logger.Error("justification failed", zap.Error(err))
		return "", &ServiceError{Cause: err}
	}

	resp, err := j.provider.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		Model:       j.config.Model,
		Temperature: j.config.Temperature,
		TopK:        j.config.TopK,
	})
	if err != nil {
		j.logger.Error("justification failed",
			zap.String("provider", j.provider.Name()),
			zap.Error(err))
		return "", &ServiceError{Cause: err}
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		return FallbackText, nil
	}
	return text, nil
}
