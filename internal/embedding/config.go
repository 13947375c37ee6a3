package embedding

import (
	"fmt"
	"time"

	"github.com/vibecheck/vibecheck/internal/adapter"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// Config describes an OpenAI-backed Batcher.
type Config struct {
	APIKey      string // empty = OPENAI_API_KEY
	BaseURL     string
	Model       string
	BatchSize   int
	MaxInFlight int
	Timeout     time.Duration
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Options returns the batcher options described by c, with defaults applied.
func (c Config) Options() []Option {
	c.defaults()
	return []Option{WithBatchSize(c.BatchSize), WithMaxInFlight(c.MaxInFlight), WithTimeout(c.Timeout)}
}

// NewFromConfig builds an OpenAI embedder and wraps it in a Batcher. It fails
// immediately with adapter.ErrMissingCredential when no API key is available.
func NewFromConfig(cfg Config, opts ...Option) (*Batcher, error) {
	cfg.defaults()

	backend, err := adapter.NewOpenAI(cfg.APIKey, cfg.BaseURL, "")
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}

	return NewBatcher(backend, cfg.Model, append(cfg.Options(), opts...)...)
}
