package metrics

import (
	"context"
	"time"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/prompt"
)

type instrumented struct {
	next adapter.Backend
	m    *Metrics
}

// Instrument wraps b so every call is counted and timed.
func Instrument(b adapter.Backend, m *Metrics) adapter.Backend {
	if m == nil {
		return b
	}
	return &instrumented{next: b, m: m}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	provider := i.next.Info().Provider
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.m.BackendRequests.WithLabelValues(provider, op, status).Inc()
	i.m.BackendDuration.WithLabelValues(provider, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := i.next.EmbedBatch(ctx, model, texts)
	i.observe("embed", start, err)
	return vecs, err
}

func (i *instrumented) EmbedOne(ctx context.Context, model string, text string) ([]float32, error) {
	start := time.Now()
	vec, err := i.next.EmbedOne(ctx, model, text)
	i.observe("embed", start, err)
	return vec, err
}

func (i *instrumented) Chat(ctx context.Context, messages []prompt.Message) (string, error) {
	start := time.Now()
	reply, err := i.next.Chat(ctx, messages)
	i.observe("chat", start, err)
	return reply, err
}

func (i *instrumented) Info() adapter.ModelInfo { return i.next.Info() }
