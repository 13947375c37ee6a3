// Package adapter provides a unified interface over remote language-model
// providers for chat completion and text embeddings.
package adapter

import (
	"context"
	"fmt"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

// Provider name constants.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// ModelInfo describes the capabilities of a backend.
type ModelInfo struct {
	Provider           string
	ChatModel          string
	SupportsEmbeddings bool
}

// Chatter turns an ordered list of role messages into a model reply.
type Chatter interface {
	Chat(ctx context.Context, messages []prompt.Message) (string, error)
}

// Backend is the common interface every provider adapter implements.
type Backend interface {
	Embedder
	Chatter

	// Info returns metadata about the adapter.
	Info() ModelInfo
}

// Options selects and configures a provider.
type Options struct {
	Provider  string
	APIKey    string // empty = read from the provider's env var
	BaseURL   string // optional override for OpenAI-compatible servers or Ollama
	ChatModel string
	MaxTokens int
}

// New constructs the Backend for the named provider.
func New(opts Options) (Backend, error) {
	switch opts.Provider {
	case ProviderOpenAI, "":
		return NewOpenAI(opts.APIKey, opts.BaseURL, opts.ChatModel)
	case ProviderClaude:
		return NewClaude(opts.APIKey, opts.ChatModel, opts.MaxTokens)
	case ProviderOllama:
		return NewOllama(opts.BaseURL, opts.ChatModel), nil
	case ProviderGemini:
		return NewGemini(opts.APIKey, opts.BaseURL, opts.ChatModel)
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q; valid providers: openai, claude, ollama, gemini", opts.Provider)
	}
}
