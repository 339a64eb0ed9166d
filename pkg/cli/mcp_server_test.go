//go:build !integration

package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nodix/pipeconf/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePipelineTool(t *testing.T) {
	ctx := context.Background()

	t.Run("valid content", func(t *testing.T) {
		_, out, err := validatePipelineTool(ctx, nil, validatePipelineArgs{Content: validConfig})
		require.NoError(t, err)
		assert.True(t, out.Valid)
		assert.NotNil(t, out.Diagnostics)
		assert.Empty(t, out.Diagnostics)

		var tree any
		require.NoError(t, yaml.Unmarshal([]byte(out.Normalized), &tree))
		_, err = pipeline.Normalize(tree)
		assert.NoError(t, err, "normalized output should validate")
	})

	t.Run("invalid content", func(t *testing.T) {
		_, out, err := validatePipelineTool(ctx, nil, validatePipelineArgs{Content: invalidConfig})
		require.NoError(t, err, "an invalid document is a result, not a tool error")
		assert.False(t, out.Valid)
		assert.Empty(t, out.Normalized)
		require.Len(t, out.Diagnostics, 2)
		assert.Equal(t, toolDiagnostic{
			Kind:    "range-violation",
			Path:    "pipelines.default[0].step.max-time",
			Message: "must be between 1 and 720, got 0",
			Line:    6,
			Column:  9,
		}, out.Diagnostics[0])
	})

	t.Run("fail fast", func(t *testing.T) {
		_, out, err := validatePipelineTool(ctx, nil, validatePipelineArgs{Content: invalidConfig, FailFast: true})
		require.NoError(t, err)
		assert.Len(t, out.Diagnostics, 1)
	})

	t.Run("deployments enable reference checks", func(t *testing.T) {
		content := "pipelines:\n  default:\n    - step:\n        name: Deploy\n        deployment: qa\n        script: [make]\n"
		_, out, err := validatePipelineTool(ctx, nil, validatePipelineArgs{Content: content, Deployments: []string{"test"}})
		require.NoError(t, err)
		require.Len(t, out.Diagnostics, 1)
		assert.Equal(t, "unresolved-reference", out.Diagnostics[0].Kind)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, out, err := validatePipelineTool(ctx, nil, validatePipelineArgs{Content: "pipelines: [\n"})
		require.NoError(t, err)
		assert.False(t, out.Valid)
		assert.NotEmpty(t, out.Error)
		assert.NotContains(t, out.Error, "\x1b[")
	})
}

func TestMCPServer_InMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := createMCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"validate_pipeline", "pipeline_schema"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "validate_pipeline",
		Arguments: map[string]any{"content": invalidConfig},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out validatePipelineResult
	require.NoError(t, json.Unmarshal(data, &out))
	assert.False(t, out.Valid)
	assert.Len(t, out.Diagnostics, 2)

	schemaRes, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "pipeline_schema", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.Len(t, schemaRes.Content, 1)
	text, ok := schemaRes.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, pipeline.SchemaID)
}
