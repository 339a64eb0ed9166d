//go:build !integration

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validConfig = `image: node:20
pipelines:
  default:
    - step:
        name: Build
        caches:
          - node
        script:
          - npm ci
`

const invalidConfig = `image: node:20
pipelines:
  default:
    - step:
        name: Build
        max-time: 0
        script:
          - npm ci
  branches:
    "release/*":
      - step:
          name: Release
`

// writeConfig writes content to name inside dir and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
