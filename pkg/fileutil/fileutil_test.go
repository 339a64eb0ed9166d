//go:build !integration

package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pipelines.yml")
	require.NoError(t, os.WriteFile(file, []byte("pipelines: {}\n"), 0o644))

	assert.True(t, FileExists(file), "regular file should exist")
	assert.False(t, FileExists(dir), "directory is not a file")
	assert.False(t, FileExists(filepath.Join(dir, "missing.yml")), "missing file should not exist")
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pipelines.yml")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	assert.True(t, DirExists(dir), "temp dir should exist")
	assert.False(t, DirExists(file), "file is not a directory")
	assert.False(t, DirExists(filepath.Join(dir, "nope")), "missing dir should not exist")
}

func TestResolvePipelineFile(t *testing.T) {
	dir := t.TempDir()
	defaultFile := filepath.Join(dir, constants.DefaultPipelineFile)
	require.NoError(t, os.WriteFile(defaultFile, []byte("pipelines: {}\n"), 0o644))
	other := filepath.Join(dir, "other.yml")
	require.NoError(t, os.WriteFile(other, []byte("pipelines: {}\n"), 0o644))

	t.Run("directory resolves to default file", func(t *testing.T) {
		path, err := ResolvePipelineFile(dir)
		require.NoError(t, err)
		assert.Equal(t, defaultFile, path)
	})

	t.Run("explicit file is kept", func(t *testing.T) {
		path, err := ResolvePipelineFile(other)
		require.NoError(t, err)
		assert.Equal(t, other, path)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := ResolvePipelineFile(filepath.Join(dir, "missing.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline file not found")
	})

	t.Run("directory without default file is an error", func(t *testing.T) {
		_, err := ResolvePipelineFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), constants.DefaultPipelineFile)
	})
}
