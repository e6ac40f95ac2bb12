package cli

import (
	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/cache"
	"github.com/ppiankov/forensia/internal/llm"
	"github.com/ppiankov/forensia/internal/model"
)

// buildJustifier wires the generation backend named in cfg, with the
// reply cache when enabled
func buildJustifier(cfg *model.Config, logger *zap.Logger) *llm.Justifier {
	opts := []llm.Option{llm.WithLogger(logger)}
	if cfg.Cache.Enabled {
		opts = append(opts, llm.WithCache(cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL/2), cfg.Cache.TTL))
	}

	j := llm.NewJustifierFromConfig(llm.ConfigFromModel(cfg.LLM), opts...)
	logger.Debug("justifier ready",
		zap.String("provider", j.ProviderName()),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("cache", cfg.Cache.Enabled))
	return j
}
