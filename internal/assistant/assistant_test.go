package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecheck/vibecheck/internal/adapter"
	"github.com/vibecheck/vibecheck/internal/prompt"
)

type recordingChat struct {
	mu    sync.Mutex
	got   [][]prompt.Message
	reply string
	err   error
}

func (r *recordingChat) Chat(_ context.Context, msgs []prompt.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, msgs)
	return r.reply, r.err
}

func TestQuery_ComposesSystemAndUser(t *testing.T) {
	chat := &recordingChat{reply: "Try box breathing."}
	a := New(chat)

	got, err := a.Query(context.Background(), "  I feel stressed  ")
	require.NoError(t, err)
	assert.Equal(t, "Try box breathing.", got)

	require.Len(t, chat.got, 1)
	msgs := chat.got[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, prompt.Message{Role: prompt.RoleSystem, Content: DefaultSystemPrompt}, msgs[0])
	assert.Equal(t, prompt.Message{Role: prompt.RoleUser, Content: "I feel stressed"}, msgs[1])
}

func TestQuery_QuestionIsNotExpanded(t *testing.T) {
	chat := &recordingChat{}
	a := New(chat)

	_, err := a.Query(context.Background(), "what does {question} mean?")
	require.NoError(t, err)
	assert.Equal(t, "what does {question} mean?", chat.got[0][1].Content)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	chat := &recordingChat{}
	_, err := New(chat).Query(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, chat.got)
}

func TestQuery_BackendErrorPropagates(t *testing.T) {
	be := &adapter.BackendError{Provider: "openai", Op: "chat", Err: errors.New("rate limited")}
	_, err := New(&recordingChat{err: be}).Query(context.Background(), "hello")
	assert.Same(t, be, err)
}

func TestWithSystemPrompt(t *testing.T) {
	a := New(&recordingChat{}, WithSystemPrompt("Be brief."))
	msgs, err := a.Messages("hi")
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", msgs[0].Content)

	a.SetSystemPrompt("Be verbose.")
	assert.Equal(t, "Be verbose.", a.SystemPrompt())
}

func TestLoadSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Be calm.\n"), 0o644))

	a := New(&recordingChat{})
	require.NoError(t, a.LoadSystemPrompt(path))
	assert.Equal(t, "Be calm.", a.SystemPrompt())

	require.NoError(t, os.WriteFile(path, []byte("   "), 0o644))
	assert.Error(t, a.LoadSystemPrompt(path))
	assert.Equal(t, "Be calm.", a.SystemPrompt())

	assert.Error(t, a.LoadSystemPrompt(filepath.Join(dir, "missing.txt")))
}

func TestWatchSystemPrompt_Reloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	a := New(&recordingChat{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.WatchSystemPrompt(ctx, path, nil) }()

	require.Eventually(t, func() bool { return a.SystemPrompt() == "first" }, 2*time.Second, 10*time.Millisecond)

	// The watch is registered after the initial load, so keep rewriting until
	// a write lands after it.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("second"), 0o644)
		return a.SystemPrompt() == "second"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchSystemPrompt_MissingFile(t *testing.T) {
	a := New(&recordingChat{})
	err := a.WatchSystemPrompt(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), nil)
	assert.Error(t, err)
}
