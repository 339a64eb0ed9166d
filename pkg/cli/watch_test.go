//go:build !integration

package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := writeConfig(t, dir, "watched.yml", validConfig)
	other := writeConfig(t, dir, "other.yml", validConfig)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, func(file string) { changes <- file })
	}()

	// The watcher starts asynchronously, so keep writing until it reports.
	// Writes are spaced wider than the debounce window so one can settle.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(4 * watchDebounce)
	defer ticker.Stop()
	var got string
wait:
	for {
		select {
		case got = <-changes:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(other, []byte(invalidConfig), 0o644))
			require.NoError(t, os.WriteFile(watched, []byte(invalidConfig), 0o644))
		case <-deadline:
			t.Fatal("no change reported within 5s")
		}
	}
	assert.Equal(t, watched, got, "changes should be reported with the original argument")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	close(changes)
	for file := range changes {
		assert.Equal(t, watched, file, "unwatched files should not be reported")
	}
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	err := watchFiles(context.Background(), []string{"/does/not/exist/bitbucket-pipelines.yml"}, func(string) {})
	assert.Error(t, err)
}
