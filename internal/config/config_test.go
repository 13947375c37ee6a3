package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecheck/vibecheck/internal/adapter"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "VIBECHECK_PROVIDER", "VIBECHECK_EMBEDDING_MODEL",
		"VIBECHECK_BATCH_SIZE", "VIBECHECK_ADDR", "VIBECHECK_LOG_LEVEL", "VIBECHECK_CONFIG",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1024, cfg.Embedding.BatchSize)
	assert.Equal(t, 0, cfg.Embedding.MaxInFlight)
	assert.Equal(t, 60, cfg.Embedding.TimeoutSeconds)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider = "claude"

[keys]
anthropic = "ak-file"

[embedding]
batch_size = 16
max_in_flight = 4

[server]
system_prompt_file = "/etc/vibecheck/system.txt"
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Provider)
	assert.Equal(t, "ak-file", cfg.APIKey(adapter.ProviderClaude))
	assert.Equal(t, 16, cfg.Embedding.BatchSize)
	assert.Equal(t, 4, cfg.Embedding.MaxInFlight)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model, "unset keys keep defaults")
	assert.Equal(t, "/etc/vibecheck/system.txt", cfg.Server.SystemPromptFile)
}

func TestLoadFile_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = ["), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("VIBECHECK_BATCH_SIZE", "8")
	t.Setenv("VIBECHECK_ADDR", "127.0.0.1:9000")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Keys.OpenAI)
	assert.Equal(t, 8, cfg.Embedding.BatchSize)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)

	t.Setenv("VIBECHECK_BATCH_SIZE", "-3")
	cfg, err = LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Embedding.BatchSize)
}

func TestSaveAndLoadViaConfigEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("VIBECHECK_CONFIG", path)

	cfg := Default()
	cfg.ChatModel = "gpt-test"
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-test", got.ChatModel)
}

func TestChatOptions_Ollama(t *testing.T) {
	cfg := Default()
	cfg.Provider = adapter.ProviderOllama
	opts := cfg.ChatOptions()
	assert.Equal(t, cfg.Ollama.Host, opts.BaseURL)
	assert.Equal(t, cfg.Ollama.ChatModel, opts.ChatModel)
}

func TestEmbeddingMapping(t *testing.T) {
	cfg := Default()
	cfg.Keys.OpenAI = "sk"
	ec := cfg.EmbeddingConfig()
	assert.Equal(t, "sk", ec.APIKey)
	assert.Equal(t, 1024, ec.BatchSize)
	assert.Equal(t, 60*time.Second, ec.Timeout)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel())

	cfg.Embedding.Provider = adapter.ProviderOllama
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel())
	assert.Equal(t, cfg.Ollama.Host, cfg.EmbeddingOptions().BaseURL)
}

func TestChatOptions_ClaudeIgnoresOpenAIDefault(t *testing.T) {
	cfg := Default()
	cfg.Provider = adapter.ProviderClaude
	cfg.Keys.Anthropic = "ak"
	opts := cfg.ChatOptions()
	assert.Empty(t, opts.ChatModel)
	assert.Equal(t, "ak", opts.APIKey)
}

func TestGeminiMapping(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-env")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)

	cfg.Embedding.Provider = adapter.ProviderGemini
	assert.Equal(t, "g-env", cfg.EmbeddingOptions().APIKey)
	assert.Equal(t, adapter.DefaultGeminiEmbedModel, cfg.EmbeddingModel())
}
