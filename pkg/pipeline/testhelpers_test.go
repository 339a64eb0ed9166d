//go:build !integration

package pipeline

import (
	"errors"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

// parseYAML decodes src the way the CLI does, with ordered maps.
func parseYAML(t *testing.T, src string) any {
	t.Helper()
	var tree any
	require.NoError(t, yaml.UnmarshalWithOptions([]byte(src), &tree, yaml.UseOrderedMap()), "test YAML should parse")
	return tree
}

// diagnosticsOf asserts err is a *ValidationError and returns its diagnostics.
func diagnosticsOf(t *testing.T, err error) []Diagnostic {
	t.Helper()
	require.Error(t, err, "expected validation to fail")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %T", err)
	require.NotEmpty(t, ve.Diagnostics, "validation error should carry diagnostics")
	return ve.Diagnostics
}

// singleDiagnostic asserts exactly one diagnostic and returns it.
func singleDiagnostic(t *testing.T, raw any) Diagnostic {
	t.Helper()
	doc, err := Normalize(raw)
	require.Nil(t, doc, "an invalid document must not be returned")
	diags := diagnosticsOf(t, err)
	require.Len(t, diags, 1, "expected a single diagnostic, got %v", diags)
	return diags[0]
}

// stepDoc wraps a step body in a default pipeline.
func stepDoc(step map[string]any) map[string]any {
	return map[string]any{
		"pipelines": map[string]any{
			"default": []any{map[string]any{"step": step}},
		},
	}
}

func buildStep(extra map[string]any) map[string]any {
	step := map[string]any{"name": "Build", "script": []any{"make"}}
	for k, v := range extra {
		step[k] = v
	}
	return step
}
