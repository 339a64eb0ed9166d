//go:build !integration

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeOneStep normalizes a single-step document and returns the step.
func decodeOneStep(t *testing.T, step map[string]any) *Step {
	t.Helper()
	doc, err := Normalize(stepDoc(step))
	require.NoError(t, err, "step should be valid")
	steps := doc.Pipelines.Default.Steps()
	require.Len(t, steps, 1)
	return steps[0]
}

func TestStep_MissingScript(t *testing.T) {
	d := singleDiagnostic(t, stepDoc(map[string]any{"name": "Build"}))
	assert.Equal(t, MissingRequiredField, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.script", d.Path.String())
	assert.Equal(t, "script", d.Path[len(d.Path)-1])
	assert.Equal(t, `required field "script" is missing`, d.Message)
}

func TestStep_EmptyScript(t *testing.T) {
	d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"script": []any{}})))
	assert.Equal(t, RangeViolation, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.script", d.Path.String())

	step := decodeOneStep(t, buildStep(map[string]any{"after-script": []any{}}))
	assert.NotNil(t, step.AfterScript, "an explicit empty after-script should be kept")
	assert.Empty(t, step.AfterScript)
}

func TestStep_MaxTime(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantKind Kind
		wantMsg  string
		want     int
	}{
		{name: "absent defaults to 120", value: nil, want: 120},
		{name: "lower bound", value: 1, want: 1},
		{name: "upper bound", value: 720, want: 720},
		{name: "integral float from JSON", value: float64(90), want: 90},
		{name: "unsigned from YAML", value: uint64(45), want: 45},
		{name: "above upper bound", value: 721, wantKind: RangeViolation, wantMsg: "must be between 1 and 720, got 721"},
		{name: "zero", value: 0, wantKind: RangeViolation, wantMsg: "must be between 1 and 720, got 0"},
		{name: "fraction", value: 3.5, wantKind: TypeMismatch, wantMsg: "expected integer, got fractional number 3.5"},
		{name: "numeric string", value: "120", wantKind: TypeMismatch, wantMsg: `expected integer, got string "120"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := buildStep(nil)
			if tt.value != nil {
				step["max-time"] = tt.value
			}
			if tt.wantKind == 0 {
				assert.Equal(t, tt.want, decodeOneStep(t, step).MaxTime)
				return
			}
			d := singleDiagnostic(t, stepDoc(step))
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, "pipelines.default[0].step.max-time", d.Path.String())
			assert.Equal(t, tt.wantMsg, d.Message)
		})
	}
}

func TestStep_CloneDepth(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		step := decodeOneStep(t, buildStep(map[string]any{"clone": map[string]any{"depth": "full"}}))
		require.NotNil(t, step.Clone)
		assert.Equal(t, CloneDepth{Full: true}, step.Clone.Depth)
		assert.Equal(t, "full", step.Clone.Depth.String())
		assert.True(t, step.Clone.Enabled, "enabled should default to true")
		assert.False(t, step.Clone.LFS)
		assert.False(t, step.Clone.SkipSSLVerify)
	})

	t.Run("absent depth defaults to 50", func(t *testing.T) {
		step := decodeOneStep(t, buildStep(map[string]any{"clone": map[string]any{"lfs": true}}))
		assert.Equal(t, CloneDepth{Commits: 50}, step.Clone.Depth)
		assert.Equal(t, "50", step.Clone.Depth.String())
		assert.True(t, step.Clone.LFS)
	})

	rejected := []struct {
		name     string
		depth    any
		wantKind Kind
	}{
		{name: "zero", depth: 0, wantKind: RangeViolation},
		{name: "negative", depth: -1, wantKind: RangeViolation},
		{name: "unknown keyword", depth: "shallow", wantKind: EnumViolation},
		{name: "boolean", depth: true, wantKind: TypeMismatch},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"clone": map[string]any{"depth": tt.depth}})))
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, "pipelines.default[0].step.clone.depth", d.Path.String())
		})
	}

	d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"clone": map[string]any{"depth": true}})))
	assert.Equal(t, "expected number or string, got boolean true", d.Message)
}

func TestStep_Artifacts(t *testing.T) {
	t.Run("list form", func(t *testing.T) {
		step := decodeOneStep(t, buildStep(map[string]any{"artifacts": []any{"a.txt", "b.txt"}}))
		require.NotNil(t, step.Artifacts)
		assert.True(t, step.Artifacts.IsList())
		assert.Equal(t, []string{"a.txt", "b.txt"}, step.Artifacts.Paths)
		assert.Nil(t, step.Artifacts.Download, "list form has no download flag")
	})

	t.Run("object form", func(t *testing.T) {
		step := decodeOneStep(t, buildStep(map[string]any{"artifacts": map[string]any{"paths": []any{"a.txt"}}}))
		require.NotNil(t, step.Artifacts)
		assert.False(t, step.Artifacts.IsList())
		assert.Equal(t, []string{"a.txt"}, step.Artifacts.Paths)
		require.NotNil(t, step.Artifacts.Download)
		assert.True(t, *step.Artifacts.Download, "download should default to true")
	})

	t.Run("object form without paths", func(t *testing.T) {
		step := decodeOneStep(t, buildStep(map[string]any{"artifacts": map[string]any{"download": false}}))
		assert.Nil(t, step.Artifacts.Paths)
		assert.False(t, *step.Artifacts.Download)
	})

	t.Run("list with a non-string entry", func(t *testing.T) {
		d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"artifacts": []any{"a.txt", 7}})))
		assert.Equal(t, TypeMismatch, d.Kind)
		assert.Equal(t, "pipelines.default[0].step.artifacts[1]", d.Path.String())
	})

	t.Run("unknown key in object form", func(t *testing.T) {
		d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"artifacts": map[string]any{"upload": true}})))
		assert.Equal(t, UnknownField, d.Kind)
		assert.Equal(t, "pipelines.default[0].step.artifacts.upload", d.Path.String())
	})

	t.Run("scalar", func(t *testing.T) {
		d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"artifacts": "dist/**"})))
		assert.Equal(t, TypeMismatch, d.Kind)
		assert.Contains(t, d.Message, "expected array or object")
	})
}

func TestStep_Script(t *testing.T) {
	step := decodeOneStep(t, buildStep(map[string]any{"script": []any{
		"npm ci",
		map[string]any{"pipe": "atlassian/aws-s3-deploy:1.1.0", "variables": map[string]any{"S3_BUCKET": "site"}},
	}}))
	require.Len(t, step.Script, 2)
	assert.False(t, step.Script[0].IsPipe())
	assert.Equal(t, "npm ci", step.Script[0].Command)
	require.True(t, step.Script[1].IsPipe())
	assert.Equal(t, &Pipe{Name: "atlassian/aws-s3-deploy:1.1.0", Variables: map[string]any{"S3_BUCKET": "site"}}, step.Script[1].Pipe)

	tests := []struct {
		name     string
		entry    any
		wantKind Kind
		wantPath string
	}{
		{name: "empty pipe name", entry: map[string]any{"pipe": ""}, wantKind: RangeViolation, wantPath: "pipelines.default[0].step.script[0].pipe"},
		{name: "pipe missing", entry: map[string]any{"variables": map[string]any{}}, wantKind: MissingRequiredField, wantPath: "pipelines.default[0].step.script[0].pipe"},
		{name: "unknown pipe key", entry: map[string]any{"pipe": "a/b:1", "name": "x"}, wantKind: UnknownField, wantPath: "pipelines.default[0].step.script[0].name"},
		{name: "number", entry: 42, wantKind: TypeMismatch, wantPath: "pipelines.default[0].step.script[0]"},
		{name: "variables not a map", entry: map[string]any{"pipe": "a/b:1", "variables": []any{"X"}}, wantKind: TypeMismatch, wantPath: "pipelines.default[0].step.script[0].variables"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"script": []any{tt.entry}})))
			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.wantPath, d.Path.String())
		})
	}
}

func TestStep_Image(t *testing.T) {
	step := decodeOneStep(t, buildStep(map[string]any{"image": "golang:1.25"}))
	assert.Equal(t, &Image{Name: "golang:1.25"}, step.Image)

	step = decodeOneStep(t, buildStep(map[string]any{"image": map[string]any{
		"name":        "123456789.dkr.ecr.us-east-1.amazonaws.com/app",
		"aws":         map[string]any{"oidc-role": "arn:aws:iam::123456789:role/ci"},
		"run-as-user": "1000",
	}}))
	assert.True(t, step.Image.Detailed)
	assert.Equal(t, map[string]any{"oidc-role": "arn:aws:iam::123456789:role/ci"}, step.Image.AWS)
	assert.Equal(t, "1000", step.Image.RunAsUser)
	assert.Nil(t, step.Image.Username)

	for _, user := range []any{0, 1000, -1} {
		step = decodeOneStep(t, buildStep(map[string]any{"image": map[string]any{"name": "x", "run-as-user": user}}))
		assert.Equal(t, user, step.Image.RunAsUser, "any integer user id should be accepted")
	}

	d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"image": map[string]any{"name": "x", "run-as-user": 1.5}})))
	assert.Equal(t, TypeMismatch, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.image.run-as-user", d.Path.String())

	d = singleDiagnostic(t, stepDoc(buildStep(map[string]any{"image": map[string]any{"username": "bot"}})))
	assert.Equal(t, MissingRequiredField, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.image.name", d.Path.String())
}

func TestStep_Enums(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		wantMsg string
	}{
		{
			name:    "size",
			field:   "size",
			value:   "32x",
			wantMsg: `invalid value "32x", expected one of "1x", "2x", "4x", "8x", "16x"`,
		},
		{
			name:    "size with wrong case",
			field:   "size",
			value:   "2X",
			wantMsg: `invalid value "2X", expected one of "1x", "2x", "4x", "8x", "16x" (values are case-sensitive, did you mean "2x"?)`,
		},
		{
			name:    "trigger",
			field:   "trigger",
			value:   "Manual",
			wantMsg: `invalid value "Manual", expected one of "automatic", "manual" (values are case-sensitive, did you mean "manual"?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{tt.field: tt.value})))
			assert.Equal(t, EnumViolation, d.Kind)
			assert.Equal(t, "pipelines.default[0].step."+tt.field, d.Path.String())
			assert.Equal(t, tt.wantMsg, d.Message)
		})
	}

	d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"on-fail": map[string]any{"strategy": "retry"}})))
	assert.Equal(t, EnumViolation, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.on-fail.strategy", d.Path.String())

	d = singleDiagnostic(t, stepDoc(buildStep(map[string]any{"on-fail": map[string]any{}})))
	assert.Equal(t, MissingRequiredField, d.Kind)
}

func TestStep_RuntimeAndCondition(t *testing.T) {
	step := decodeOneStep(t, buildStep(map[string]any{
		"runtime":   map[string]any{"cloud": map[string]any{"atlassian-ip-ranges": true}},
		"condition": map[string]any{"changesets": map[string]any{"includePaths": []any{"src/**", "go.mod"}}},
	}))
	assert.Equal(t, &Runtime{Cloud: CloudRuntime{AtlassianIPRanges: true, Arch: "x86"}}, step.Runtime)
	assert.Equal(t, []string{"src/**", "go.mod"}, step.Condition.Changesets.IncludePaths)

	d := singleDiagnostic(t, stepDoc(buildStep(map[string]any{"runtime": map[string]any{}})))
	assert.Equal(t, MissingRequiredField, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.runtime.cloud", d.Path.String())

	d = singleDiagnostic(t, stepDoc(buildStep(map[string]any{"runtime": map[string]any{"cloud": map[string]any{"arch": "riscv"}}})))
	assert.Equal(t, EnumViolation, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.runtime.cloud.arch", d.Path.String())

	d = singleDiagnostic(t, stepDoc(buildStep(map[string]any{"condition": map[string]any{"changesets": map[string]any{}}})))
	assert.Equal(t, MissingRequiredField, d.Kind)
	assert.Equal(t, "pipelines.default[0].step.condition.changesets.includePaths", d.Path.String())
}

func TestStep_UnknownFields(t *testing.T) {
	doc, err := Normalize(stepDoc(buildStep(map[string]any{"timeout": 10, "env": map[string]any{}})))
	assert.Nil(t, doc)
	diags := diagnosticsOf(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, UnknownField, diags[0].Kind)
	assert.Equal(t, "pipelines.default[0].step.env", diags[0].Path.String())
	assert.Equal(t, `unknown field "env"`, diags[0].Message)
	assert.Equal(t, "pipelines.default[0].step.timeout", diags[1].Path.String())
}

func TestStep_OptionalFields(t *testing.T) {
	step := decodeOneStep(t, buildStep(map[string]any{
		"oidc":       false,
		"fail-fast":  true,
		"deployment": "staging",
		"services":   []any{"docker"},
		"runs-on":    []any{"self.hosted"},
		"caches":     []any{"node"},
		"on-fail":    map[string]any{"strategy": "fail"},
	}))
	require.NotNil(t, step.OIDC)
	assert.False(t, *step.OIDC)
	require.NotNil(t, step.FailFast)
	assert.True(t, *step.FailFast)
	assert.Equal(t, "staging", *step.Deployment)
	assert.Equal(t, []string{"docker"}, step.Services)
	assert.Equal(t, []string{"self.hosted"}, step.RunsOn)
	assert.Equal(t, []string{"node"}, step.Caches)
	assert.Equal(t, &OnFail{Strategy: "fail"}, step.OnFail)
}
