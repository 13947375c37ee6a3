// Package embedding splits large text sets into bounded batches, embeds them
// concurrently through an adapter.Embedder and reassembles the vectors in
// input order.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vibecheck/vibecheck/internal/adapter"
)

// DefaultBatchSize is the maximum number of texts sent in one backend call.
const DefaultBatchSize = 1024

var (
	// ErrInvalidBatchSize is returned when a batch size is not positive.
	ErrInvalidBatchSize = errors.New("embedding: batch size must be positive")

	// ErrMisaligned is returned when a backend call yields a different number
	// of vectors than it was given texts.
	ErrMisaligned = errors.New("embedding: result count does not match input count")
)

// ChunkResult reports the completion of one chunk to a ChunkHook.
type ChunkResult struct {
	Index     int // chunk position in the job
	Size      int // number of texts in the chunk
	Completed int // chunks finished so far, including this one
	Total     int // chunks in the job
}

// ChunkHook is called once per successfully embedded chunk. Calls for one
// job are serialized.
type ChunkHook func(ChunkResult)

// Option configures a Batcher.
type Option func(*Batcher) error

// WithBatchSize bounds the number of texts per backend call.
func WithBatchSize(n int) Option {
	return func(b *Batcher) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, n)
		}
		b.batchSize = n
		return nil
	}
}

// WithMaxInFlight limits how many chunk calls run at once. Zero or negative
// means no limit.
func WithMaxInFlight(n int) Option {
	return func(b *Batcher) error {
		b.maxInFlight = n
		return nil
	}
}

// WithTimeout bounds each backend call. Zero means no per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(b *Batcher) error {
		b.timeout = d
		return nil
	}
}

// WithChunkHook registers a progress callback.
func WithChunkHook(h ChunkHook) Option {
	return func(b *Batcher) error {
		b.hook = h
		return nil
	}
}

// Batcher turns lists of texts into embedding vectors. It holds only
// configuration and is safe for concurrent use.
type Batcher struct {
	backend     adapter.Embedder
	model       string
	batchSize   int
	maxInFlight int
	timeout     time.Duration
	hook        ChunkHook
}

// NewBatcher creates a Batcher over backend. The model name is passed to the
// backend as-is.
func NewBatcher(backend adapter.Embedder, model string, opts ...Option) (*Batcher, error) {
	if backend == nil {
		return nil, errors.New("embedding: nil backend")
	}
	b := &Batcher{
		backend:   backend,
		model:     model,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Model returns the embedding model name.
func (b *Batcher) Model() string { return b.model }

// BatchSize returns the per-call text limit.
func (b *Batcher) BatchSize() int { return b.batchSize }

// Partition splits texts into contiguous chunks of at most size elements,
// preserving order. It returns ceil(len(texts)/size) chunks.
func Partition(texts []string, size int) [][]string {
	if size <= 0 || len(texts) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(texts)+size-1)/size)
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		chunks = append(chunks, texts[start:end:end])
	}
	return chunks
}

// EmbedConcurrent embeds texts by dispatching every chunk concurrently and
// joining on all of them. The result is index-aligned with texts regardless
// of the order in which chunk calls complete. If any chunk fails, or ctx is
// cancelled, the remaining calls are cancelled and no partial result is
// returned.
func (b *Batcher) EmbedConcurrent(ctx context.Context, texts []string) ([][]float32, error) {
	chunks := Partition(texts, b.batchSize)
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	results := make([][][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	if b.maxInFlight > 0 {
		g.SetLimit(b.maxInFlight)
	}

	var (
		mu        sync.Mutex
		completed int
	)

	for i, chunk := range chunks {
		g.Go(func() error {
			vecs, err := b.embedChunk(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embedding: chunk %d/%d: %w", i+1, len(chunks), err)
			}
			results[i] = vecs

			if b.hook != nil {
				mu.Lock()
				completed++
				b.hook(ChunkResult{Index: i, Size: len(chunk), Completed: completed, Total: len(chunks)})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled parent may not surface through any chunk if every call had
	// already returned; honor it anyway.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for _, vecs := range results {
		out = append(out, vecs...)
	}
	return out, nil
}

func (b *Batcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(ctx, b.timeout)
	}
	return ctx, func() {}
}

func (b *Batcher) embedChunk(ctx context.Context, chunk []string) ([][]float32, error) {
	ctx, cancel := b.callContext(ctx)
	defer cancel()

	vecs, err := b.backend.EmbedBatch(ctx, b.model, chunk)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(chunk) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrMisaligned, len(vecs), len(chunk))
	}
	return vecs, nil
}

// EmbedSequential embeds all texts in a single backend call, without
// partitioning or concurrency.
func (b *Batcher) EmbedSequential(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vecs, err := b.embedChunk(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return vecs, nil
}

// EmbedOne embeds a single text with one direct backend call.
func (b *Batcher) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := b.callContext(ctx)
	defer cancel()

	vec, err := b.backend.EmbedOne(ctx, b.model, text)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return vec, nil
}

// EmbedOneSequential is the blocking single-text entry point. Go calls block
// already, so it shares EmbedOne's behavior.
func (b *Batcher) EmbedOneSequential(ctx context.Context, text string) ([]float32, error) {
	return b.EmbedOne(ctx, text)
}
