package llm

import (
	"context"
	"fmt"

	"github.com/mfeller/coverbrief/internal/config"
)

// New builds the Generator selected by cfg.Backend and wraps it in the
// LRU response cache when one is configured.
func New(ctx context.Context, cfg config.GenerationConfig) (Generator, error) {
	var (
		gen Generator
		err error
	)

	switch cfg.Backend {
	case "ollama":
		gen = NewOllama(cfg.OllamaURL, cfg.Model, cfg.Temperature, cfg.MaxTokens)
	case "anthropic":
		gen = NewAnthropic("", cfg.Model, cfg.Temperature, cfg.MaxTokens)
	case "gemini":
		gen, err = NewGemini(ctx, "", cfg.Model, cfg.Temperature, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		return NewCached(gen, cfg.CacheSize)
	}
	return gen, nil
}
