package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/embedding"
	"github.com/vibecheck/vibecheck/internal/prompt"
)

type stubBackend struct {
	chatErr error
}

func (s *stubBackend) EmbedBatch(_ context.Context, _ string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func (s *stubBackend) EmbedOne(_ context.Context, _ string, _ string) ([]float32, error) {
	return []float32{1}, nil
}

func (s *stubBackend) Chat(_ context.Context, _ []prompt.Message) (string, error) {
	return "ok", s.chatErr
}

func (s *stubBackend) Info() adapter.ModelInfo {
	return adapter.ModelInfo{Provider: "stub"}
}

func TestInstrument_CountsCalls(t *testing.T) {
	m := New(Config{})
	b := Instrument(&stubBackend{chatErr: errors.New("boom")}, m)

	_, err := b.EmbedBatch(context.Background(), "m", []string{"a", "b"})
	require.NoError(t, err)
	_, err = b.EmbedOne(context.Background(), "m", "a")
	require.NoError(t, err)
	_, err = b.Chat(context.Background(), nil)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("stub", "embed", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("stub", "chat", "error")))
	assert.Equal(t, "stub", b.Info().Provider)
}

func TestInstrument_NilMetrics(t *testing.T) {
	s := &stubBackend{}
	assert.Same(t, adapter.Backend(s), Instrument(s, nil))
}

func TestChunkHook(t *testing.T) {
	m := New(Config{})
	b, err := embedding.NewBatcher(&stubBackend{}, "m",
		embedding.WithBatchSize(2), embedding.WithChunkHook(m.ChunkHook()))
	require.NoError(t, err)

	_, err = b.EmbedConcurrent(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EmbeddingChunks))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New(Config{ServiceName: "test"})
	m.ObserveHTTP(http.MethodPost, "/api/wellness", http.StatusOK, 0.1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vibecheck_http_requests_total{method="POST",path="/api/wellness",service="test",status="200"} 1`)
}
