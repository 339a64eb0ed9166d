//go:build !integration

package constants

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericConstants(t *testing.T) {
	assert.Equal(t, 120, DefaultMaxTime)
	assert.LessOrEqual(t, MinMaxTime, DefaultMaxTime)
	assert.GreaterOrEqual(t, MaxMaxTime, DefaultMaxTime)

	assert.Equal(t, 1024, DefaultServiceMemory)
	assert.LessOrEqual(t, MinServiceMemory, DefaultServiceMemory)
	assert.GreaterOrEqual(t, MaxServiceMemory, DefaultServiceMemory)

	assert.Equal(t, 50, DefaultCloneDepth)
}

func TestBuiltinCaches(t *testing.T) {
	for _, name := range []string{"node", "yarn", "gradle", "maven", "pip", "composer", "sbt", "go", "npm", "dotnetcore", "docker"} {
		assert.True(t, slices.Contains(BuiltinCaches, name), "expected built-in cache %q", name)
	}
	assert.True(t, slices.IsSorted(BuiltinCaches), "BuiltinCaches should stay sorted")
}

func TestPriorityFields(t *testing.T) {
	assert.Equal(t, "name", PriorityStepFields[0])
	assert.Equal(t, "pipelines", PriorityDocumentFields[len(PriorityDocumentFields)-1])
	assert.Equal(t, "default", PriorityPipelineFields[0])
}

func TestCLIName(t *testing.T) {
	var prefix CommandPrefix = "pipeconf"
	assert.Equal(t, prefix, CLIName)
}
