//go:build !integration

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	orig := GetVersion()
	t.Cleanup(func() { version = orig })

	SetVersionInfo("1.2.3")
	SetVersionInfo("")
	assert.Equal(t, "1.2.3", GetVersion(), "an empty version should be ignored")

	cmd := NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pipeconf version 1.2.3\n", buf.String())
}
