package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// LoadSystemPrompt reads path and installs its contents as the system prompt.
func (a *Assistant) LoadSystemPrompt(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("assistant: read system prompt: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("assistant: system prompt file %s is empty", path)
	}
	a.SetSystemPrompt(text)
	return nil
}

// WatchSystemPrompt loads the system prompt from path and reloads it whenever
// the file is written or replaced. It blocks until ctx is done. Reload
// failures are passed to onErr and the previous prompt stays in effect.
func (a *Assistant) WatchSystemPrompt(ctx context.Context, path string, onErr func(error)) error {
	if onErr == nil {
		onErr = func(error) {}
	}
	path = filepath.Clean(path)
	if err := a.LoadSystemPrompt(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("assistant: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often save by renaming a temp file over
	// the original, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("assistant: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := a.LoadSystemPrompt(path); err != nil {
					onErr(err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onErr(fmt.Errorf("assistant: watcher: %w", err))
		}
	}
}
