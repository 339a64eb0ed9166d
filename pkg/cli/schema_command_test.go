//go:build !integration

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nodix/pipeconf/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunSchema(&buf))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	assert.Equal(t, pipeline.SchemaID, schema["$id"])
	assert.Contains(t, schema, "$defs")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
}
