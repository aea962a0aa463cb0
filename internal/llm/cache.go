package llm

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mfeller/coverbrief/internal/logging"
)

// Cached wraps a Generator with an in-memory LRU prompt/response cache.
// Useful when the same query is replayed (demos, web form refreshes);
// note that caching pins the sampled answer for repeated prompts.
type Cached struct {
	inner  Generator
	cache  *lru.Cache[string, string]
	logger *logging.Logger
}

// NewCached creates a caching decorator around inner holding up to size
// responses.
func NewCached(inner Generator, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}

	return &Cached{
		inner:  inner,
		cache:  cache,
		logger: logging.GetLogger("llm.cache"),
	}, nil
}

// Generate implements Generator. Only successful responses are cached.
func (c *Cached) Generate(ctx context.Context, prompt string) (string, error) {
	if resp, ok := c.cache.Get(prompt); ok {
		c.logger.Debug("cache hit (%d bytes)", len(resp))
		return resp, nil
	}

	resp, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.cache.Add(prompt, resp)
	return resp, nil
}

// Name implements Generator.
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Model implements Generator.
func (c *Cached) Model() string {
	return c.inner.Model()
}
