package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nodix/pipeconf/pkg/logger"
)

var watchLog = logger.New("cli:watch")

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

// watchFiles calls onChange with the original argument of each file that is
// written, created or renamed into place, until ctx is done. The parent
// directories are watched so that files replaced atomically are still seen.
func watchFiles(ctx context.Context, files []string, onChange func(file string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		watched[abs] = file
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		watchLog.Printf("Watching directory %s", dir)
	}

	pending := make(map[string]bool)
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			watchLog.Print("Stopping watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			file, tracked := watched[filepath.Clean(event.Name)]
			if !tracked || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			watchLog.Printf("Event %s", event)
			pending[file] = true
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		case <-debounce:
			debounce = nil
			for _, file := range files {
				if pending[file] {
					delete(pending, file)
					onChange(file)
				}
			}
		}
	}
}
