package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/assistant"
	"github.com/vibecheck/vibecheck/internal/config"
	"github.com/vibecheck/vibecheck/internal/prompt"
	"github.com/vibecheck/vibecheck/internal/server"
)

type echoBackend struct{}

func (echoBackend) EmbedBatch(context.Context, string, []string) ([][]float32, error) {
	return nil, adapter.ErrUnsupported
}

func (echoBackend) EmbedOne(context.Context, string, string) ([]float32, error) {
	return nil, adapter.ErrUnsupported
}

func (echoBackend) Chat(_ context.Context, messages []prompt.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func (echoBackend) Info() adapter.ModelInfo { return adapter.ModelInfo{Provider: "echo"} }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Keys.OpenAI = "sk-test"
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Log.Level = "error"
	return cfg
}

func TestModule_ServesRequests(t *testing.T) {
	var srv *server.Server
	app := fxtest.New(t,
		Module(testConfig(t)),
		fx.Decorate(func(adapter.Backend) adapter.Backend { return echoBackend{} }),
		fx.Populate(&srv),
	)
	app.RequireStart()
	defer app.RequireStop()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wellness", strings.NewReader(`{"question":"hello"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"echo: hello"}`, rec.Body.String())
}

func TestModule_LoadsSystemPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("Be brief.\n"), 0o644))

	cfg := testConfig(t)
	cfg.Server.SystemPromptFile = path

	var a *assistant.Assistant
	app := fxtest.New(t,
		Module(cfg),
		fx.Decorate(func(adapter.Backend) adapter.Backend { return echoBackend{} }),
		fx.Populate(&a),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, "Be brief.", a.SystemPrompt())
}

func TestModule_MissingSystemPromptFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.SystemPromptFile = filepath.Join(t.TempDir(), "missing.txt")

	app := fx.New(
		Module(cfg),
		fx.Decorate(func(adapter.Backend) adapter.Backend { return echoBackend{} }),
		fx.NopLogger,
	)
	require.NoError(t, app.Err())
	assert.Error(t, app.Start(context.Background()))
}

func TestNewBackend_MissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.Default()
	_, err := NewBackend(cfg, nil)
	assert.ErrorIs(t, err, adapter.ErrMissingCredential)
}

func TestNewBatcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.BatchSize = 32

	b, err := NewBatcher(cfg, NewMetrics(cfg))
	require.NoError(t, err)
	assert.Equal(t, 32, b.BatchSize())
	assert.Equal(t, "text-embedding-3-small", b.Model())

	cfg.Embedding.Provider = adapter.ProviderClaude
	cfg.Keys.Anthropic = "ak"
	_, err = NewBatcher(cfg, nil)
	assert.ErrorIs(t, err, adapter.ErrUnsupported)
}
