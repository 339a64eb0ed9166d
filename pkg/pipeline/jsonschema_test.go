//go:build !integration

package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONSchema(t *testing.T) {
	data, err := MarshalJSONSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, SchemaID, schema["$id"])
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", schema["$schema"])

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok, "schema should carry $defs")
	for _, name := range []string{"step", "image", "clone", "artifacts", "pipeline", "block", "custom-block", "service", "cache"} {
		assert.Contains(t, defs, name)
	}

	step := defs["step"].(map[string]any)
	assert.ElementsMatch(t, []any{"name", "script"}, step["required"])
	maxTime := step["properties"].(map[string]any)["max-time"].(map[string]any)
	assert.InDelta(t, 1, maxTime["minimum"], 0)
	assert.InDelta(t, 720, maxTime["maximum"], 0)
}

func TestCheckSchema_AcceptsValidDocuments(t *testing.T) {
	inputs := map[string]any{
		"nil":      nil,
		"empty":    map[string]any{},
		"fixture":  parseYAML(t, yamlFixture),
		"wire":     mustNormalize(t, parseYAML(t, yamlFixture)).ToMap(),
		"defaults": mustNormalize(t, nil).ToMap(),
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			diags, err := CheckSchema(raw)
			require.NoError(t, err)
			assert.Empty(t, diags, "valid document should pass the schema")
		})
	}
}

func TestCheckSchema_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		wantKind Kind
		wantPath string
	}{
		{
			name:     "max-time out of range",
			raw:      stepDoc(buildStep(map[string]any{"max-time": 721})),
			wantKind: RangeViolation,
			wantPath: "pipelines.default[0].step.max-time",
		},
		{
			name:     "unknown step field",
			raw:      stepDoc(buildStep(map[string]any{"timeout": 5})),
			wantKind: UnknownField,
			wantPath: "pipelines.default[0].step.timeout",
		},
		{
			name:     "bad size",
			raw:      stepDoc(buildStep(map[string]any{"size": "3x"})),
			wantKind: EnumViolation,
			wantPath: "pipelines.default[0].step.size",
		},
		{
			name:     "bad service memory",
			raw:      map[string]any{"definitions": map[string]any{"services": map[string]any{"db": map[string]any{"image": "x", "memory": 1}}}},
			wantKind: RangeViolation,
			wantPath: "definitions.services.db.memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err, "Normalize should reject the document too")

			diags, err := CheckSchema(tt.raw)
			require.NoError(t, err)
			require.NotEmpty(t, diags, "schema should reject the document")

			var found []string
			for _, d := range diags {
				found = append(found, d.Kind.String()+" "+d.Path.String())
			}
			assert.Contains(t, found, tt.wantKind.String()+" "+tt.wantPath)
		})
	}
}

func TestPointerPath(t *testing.T) {
	assert.Equal(t, "pipelines.default[0].step", pointerPath([]string{"pipelines", "default", "0", "step"}).String())
	assert.Equal(t, `pipelines.branches["release/*"]`, pointerPath([]string{"pipelines", "branches", "release/*"}).String())
	assert.Equal(t, "(root)", pointerPath(nil).String())
}

func mustNormalize(t *testing.T, raw any) *Document {
	t.Helper()
	doc, err := Normalize(raw)
	require.NoError(t, err)
	return doc
}
