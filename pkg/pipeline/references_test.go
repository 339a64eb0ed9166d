//go:build !integration

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencesFixture = `
definitions:
  caches:
    bundler: vendor/bundle
  services:
    postgres:
      image: postgres:16
pipelines:
  default:
    - step:
        name: Build
        caches: [node, bundler, gems]
        services: [docker, postgres, redis]
        deployment: test
        script: [make]
  branches:
    main:
      - parallel:
          steps:
            - step:
                name: Deploy
                deployment: prod
                script: [make deploy]
`

func TestReferences_OffByDefault(t *testing.T) {
	_, err := Normalize(parseYAML(t, referencesFixture))
	assert.NoError(t, err, "references are not checked unless asked for")
}

func TestReferences_CachesAndServices(t *testing.T) {
	_, err := NormalizeWithOptions(parseYAML(t, referencesFixture), ValidateOptions{CheckReferences: true})
	diags := diagnosticsOf(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, UnresolvedReference, diags[0].Kind)
	assert.Equal(t, "pipelines.default[0].step.caches[2]", diags[0].Path.String())
	assert.Contains(t, diags[0].Message, `unknown cache "gems"`)

	assert.Equal(t, UnresolvedReference, diags[1].Kind)
	assert.Equal(t, "pipelines.default[0].step.services[2]", diags[1].Path.String())
	assert.Contains(t, diags[1].Message, `unknown service "redis"`)
}

func TestReferences_Deployments(t *testing.T) {
	opts := ValidateOptions{CheckReferences: true, Deployments: []string{"test", "staging", "production"}}
	_, err := NormalizeWithOptions(parseYAML(t, referencesFixture), opts)
	diags := diagnosticsOf(t, err)
	require.Len(t, diags, 3)

	last := diags[2]
	assert.Equal(t, UnresolvedReference, last.Kind)
	assert.Equal(t, "pipelines.branches.main[0].parallel.steps[0].step.deployment", last.Path.String())
	assert.Contains(t, last.Message, `unknown deployment "prod"`)
}

func TestReferences_DefinitionSteps(t *testing.T) {
	raw := map[string]any{"definitions": map[string]any{
		"steps": map[string]any{
			"build": map[string]any{"name": "Build", "script": []any{"make"}, "caches": []any{"nope"}},
		},
	}}
	_, err := NormalizeWithOptions(raw, ValidateOptions{CheckReferences: true})
	diags := diagnosticsOf(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "definitions.steps.build.caches[0]", diags[0].Path.String())
}

func TestReferences_BuiltinsResolve(t *testing.T) {
	raw := stepDoc(buildStep(map[string]any{
		"caches":   []any{"node", "pip", "docker", "gradle", "maven", "composer"},
		"services": []any{"docker"},
	}))
	_, err := NormalizeWithOptions(raw, ValidateOptions{CheckReferences: true})
	assert.NoError(t, err)
}

func TestReferences_FailFastStopsEarly(t *testing.T) {
	_, err := NormalizeWithOptions(parseYAML(t, referencesFixture), ValidateOptions{CheckReferences: true, FailFast: true})
	diags := diagnosticsOf(t, err)
	assert.Len(t, diags, 1)
}
