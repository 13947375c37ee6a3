// Package config manages the global (~/.config/vibecheck/config.toml)
// configuration for vibecheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/embedding"
	"github.com/vibecheck/vibecheck/internal/logging"
)

// Config holds all user-level settings.
type Config struct {
	Provider  string          `toml:"provider"`
	ChatModel string          `toml:"chat_model"`
	MaxTokens int             `toml:"max_tokens"`
	Keys      KeysConfig      `toml:"keys"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Ollama    OllamaConfig    `toml:"ollama"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

type KeysConfig struct {
	OpenAI    string `toml:"openai"`
	Anthropic string `toml:"anthropic"`
	Gemini    string `toml:"gemini"`
}

// EmbeddingConfig controls the embedding batcher.
type EmbeddingConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	BatchSize      int    `toml:"batch_size"`
	MaxInFlight    int    `toml:"max_in_flight"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	BaseURL        string `toml:"base_url"`
}

type OllamaConfig struct {
	Host       string `toml:"host"`
	EmbedModel string `toml:"embed_model"`
	ChatModel  string `toml:"chat_model"`
}

// ServerConfig controls the HTTP transport.
type ServerConfig struct {
	Address          string `toml:"address"`
	SystemPromptFile string `toml:"system_prompt_file"`
}

type LogConfig struct {
	Level   string `toml:"level"`
	Service string `toml:"service"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Provider:  adapter.ProviderOpenAI,
		ChatModel: adapter.DefaultOpenAIChatModel,
		MaxTokens: 4096,
		Embedding: EmbeddingConfig{
			Provider:       adapter.ProviderOpenAI,
			Model:          embedding.DefaultModel,
			BatchSize:      embedding.DefaultBatchSize,
			MaxInFlight:    0,
			TimeoutSeconds: 60,
		},
		Ollama: OllamaConfig{
			Host:       adapter.DefaultOllamaHost,
			EmbedModel: "nomic-embed-text",
			ChatModel:  adapter.DefaultOllamaChatModel,
		},
		Server: ServerConfig{
			Address: ":8080",
		},
		Log: LogConfig{
			Level:   logging.Info,
			Service: "vibecheck",
		},
	}
}

// Path returns the path to the global config file. VIBECHECK_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("VIBECHECK_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vibecheck", "config.toml"), nil
}

// Load loads the global config, applying defaults for missing values and
// environment overrides on top.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil // Defaults if we can't determine home dir.
	}
	return LoadFile(path)
}

// LoadFile loads the config at path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config: stat %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets environment variables override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Keys.Gemini = v
	}
	if v := os.Getenv("VIBECHECK_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("VIBECHECK_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("VIBECHECK_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Embedding.BatchSize = n
		}
	}
	if v := os.Getenv("VIBECHECK_ADDR"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("VIBECHECK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes cfg to the global config path.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// APIKey returns the configured key for provider.
func (c Config) APIKey(provider string) string {
	switch provider {
	case adapter.ProviderOpenAI, "":
		return c.Keys.OpenAI
	case adapter.ProviderClaude:
		return c.Keys.Anthropic
	case adapter.ProviderGemini:
		return c.Keys.Gemini
	default:
		return ""
	}
}

// ChatOptions returns the adapter options for the chat backend.
func (c Config) ChatOptions() adapter.Options {
	opts := adapter.Options{
		Provider:  c.Provider,
		APIKey:    c.APIKey(c.Provider),
		ChatModel: c.ChatModel,
		MaxTokens: c.MaxTokens,
	}
	switch c.Provider {
	case adapter.ProviderOllama:
		opts.BaseURL = c.Ollama.Host
		opts.ChatModel = c.Ollama.ChatModel
	case adapter.ProviderClaude, adapter.ProviderGemini:
		// The stock chat_model names an OpenAI model; let the adapter pick.
		if opts.ChatModel == adapter.DefaultOpenAIChatModel {
			opts.ChatModel = ""
		}
	}
	return opts
}

// EmbeddingOptions returns the adapter options for the embedding backend.
func (c Config) EmbeddingOptions() adapter.Options {
	opts := adapter.Options{
		Provider: c.Embedding.Provider,
		APIKey:   c.APIKey(c.Embedding.Provider),
		BaseURL:  c.Embedding.BaseURL,
	}
	if c.Embedding.Provider == adapter.ProviderOllama {
		opts.BaseURL = c.Ollama.Host
	}
	return opts
}

// EmbeddingModel returns the model name sent with embedding requests.
func (c Config) EmbeddingModel() string {
	switch c.Embedding.Provider {
	case adapter.ProviderOllama:
		return c.Ollama.EmbedModel
	case adapter.ProviderGemini:
		if c.Embedding.Model == embedding.DefaultModel {
			return adapter.DefaultGeminiEmbedModel
		}
	}
	return c.Embedding.Model
}

// EmbeddingConfig maps the file settings onto an OpenAI embedding.Config.
func (c Config) EmbeddingConfig() embedding.Config {
	return embedding.Config{
		APIKey:      c.Keys.OpenAI,
		BaseURL:     c.Embedding.BaseURL,
		Model:       c.Embedding.Model,
		BatchSize:   c.Embedding.BatchSize,
		MaxInFlight: c.Embedding.MaxInFlight,
		Timeout:     time.Duration(c.Embedding.TimeoutSeconds) * time.Second,
	}
}

// LoggingConfig maps the file settings onto a logging.Config.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, ServiceName: c.Log.Service}
}
