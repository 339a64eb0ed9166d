package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/nodix/pipeconf/pkg/constants"
)

// SchemaID is the $id of the generated JSON Schema.
const SchemaID = "https://pipeconf.dev/schema/bitbucket-pipelines.json"

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema describes the document shape Normalize accepts. It covers the
// structure only: block wrappers with zero or several recognized keys, and
// references, are still only caught by Normalize.
func JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Schema:      draft202012,
		ID:          SchemaID,
		Title:       "Bitbucket Pipelines configuration",
		Description: "Pipeline configuration accepted by " + string(constants.CLIName),
		Types:       []string{"object", "null"},
		Properties: map[string]*jsonschema.Schema{
			"options":     nullable(optionsSchema()),
			"definitions": nullable(definitionsSchema()),
			"pipelines":   nullable(pipelinesSchema()),
		},
		Defs: map[string]*jsonschema.Schema{
			"script-entry": scriptEntrySchema(),
			"script":       {Type: "array", Items: ref("script-entry")},
			"image":        imageSchema(),
			"clone":        cloneSchema(),
			"artifacts":    artifactsSchema(),
			"condition":    conditionSchema(),
			"runtime":      runtimeSchema(),
			"step":         stepSchema(),
			"step-block":   wrapper("step", ref("step")),
			"step-blocks":  {Type: "array", Items: ref("step-block")},
			"block":        blockSchema(false),
			"custom-block": blockSchema(true),
			"pipeline":     pipelineSchema(),
			"service":      serviceSchema(),
			"cache":        cacheSchema(),
		},
	}
}

// MarshalJSONSchema renders JSONSchema as indented JSON.
func MarshalJSONSchema() ([]byte, error) {
	data, err := json.MarshalIndent(JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return data, nil
}

func ref(name string) *jsonschema.Schema {
	return &jsonschema.Schema{Ref: "#/$defs/" + name}
}

func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{{Type: "null"}, s}}
}

// strict closes an object to the declared properties.
func strict(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func open(props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props}
}

func mapOf(values *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", AdditionalProperties: values}
}

func wrapper(key string, inner *jsonschema.Schema) *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{key: inner}, key)
}

func str() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }

func boolean() *jsonschema.Schema { return &jsonschema.Schema{Type: "boolean"} }

func stringArray() *jsonschema.Schema { return &jsonschema.Schema{Type: "array", Items: str()} }

func record() *jsonschema.Schema { return &jsonschema.Schema{Type: "object"} }

func enum(values []string) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

func integer(lo, hi int) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "integer"}
	if lo != noMin {
		s.Minimum = ptr(float64(lo))
	}
	if hi != noMax {
		s.Maximum = ptr(float64(hi))
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func scriptEntrySchema() *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
		str(),
		strict(map[string]*jsonschema.Schema{
			"pipe":      {Type: "string", MinLength: ptr(1)},
			"variables": record(),
		}, "pipe"),
	}}
}

func imageSchema() *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
		str(),
		strict(map[string]*jsonschema.Schema{
			"name":        str(),
			"username":    str(),
			"password":    str(),
			"aws":         {},
			"run-as-user": {AnyOf: []*jsonschema.Schema{str(), integer(noMin, noMax)}},
		}, "name"),
	}}
}

func cloneSchema() *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{
		"depth": {AnyOf: []*jsonschema.Schema{
			integer(1, noMax),
			enum([]string{constants.CloneDepthFull}),
		}},
		"enabled":         boolean(),
		"lfs":             boolean(),
		"skip-ssl-verify": boolean(),
	})
}

func artifactsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
		stringArray(),
		strict(map[string]*jsonschema.Schema{
			"download": boolean(),
			"paths":    stringArray(),
		}),
	}}
}

func conditionSchema() *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{
		"changesets": strict(map[string]*jsonschema.Schema{
			"includePaths": stringArray(),
		}, "includePaths"),
	}, "changesets")
}

func runtimeSchema() *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{
		"cloud": strict(map[string]*jsonschema.Schema{
			"atlassian-ip-ranges": boolean(),
			"arch":                enum(constants.Arches),
		}),
	}, "cloud")
}

func stepSchema() *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{
		"name":       str(),
		"max-time":   integer(constants.MinMaxTime, constants.MaxMaxTime),
		"size":       enum(constants.StepSizes),
		"oidc":       boolean(),
		"trigger":    enum(constants.Triggers),
		"fail-fast":  boolean(),
		"on-fail":    strict(map[string]*jsonschema.Schema{"strategy": enum(constants.OnFailStrategies)}, "strategy"),
		"services":   stringArray(),
		"runs-on":    stringArray(),
		"caches":     stringArray(),
		"deployment": str(),
		"script": {
			Type:     "array",
			Items:    ref("script-entry"),
			MinItems: ptr(1),
		},
		"after-script": ref("script"),
		"image":        ref("image"),
		"runtime":      ref("runtime"),
		"artifacts":    ref("artifacts"),
		"condition":    ref("condition"),
		"clone":        ref("clone"),
	}, "name", "script")
}

func blockSchema(allowVariables bool) *jsonschema.Schema {
	alts := []*jsonschema.Schema{
		ref("step-block"),
		wrapper("stage", ref("step-blocks")),
		wrapper("parallel", strict(map[string]*jsonschema.Schema{
			"steps":     ref("step-blocks"),
			"fail-fast": boolean(),
		}, "steps")),
	}
	if allowVariables {
		decl := strict(map[string]*jsonschema.Schema{
			"name":           str(),
			"default":        str(),
			"allowed-values": stringArray(),
		}, "name")
		alts = append(alts, wrapper("variables", &jsonschema.Schema{Type: "array", Items: decl}))
	}
	return &jsonschema.Schema{AnyOf: alts}
}

func pipelineSchema() *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
		{Type: "array", Items: ref("block")},
		wrapper("import", str()),
	}}
}

func serviceSchema() *jsonschema.Schema {
	return strict(map[string]*jsonschema.Schema{
		"image":     ref("image"),
		"memory":    integer(constants.MinServiceMemory, constants.MaxServiceMemory),
		"type":      enum(constants.ServiceTypes),
		"variables": record(),
	}, "image")
}

func cacheSchema() *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
		str(),
		strict(map[string]*jsonschema.Schema{
			"key":  strict(map[string]*jsonschema.Schema{"files": stringArray()}, "files"),
			"path": str(),
		}, "path"),
	}}
}

func optionsSchema() *jsonschema.Schema {
	return open(map[string]*jsonschema.Schema{
		"max-time": integer(constants.MinMaxTime, constants.MaxMaxTime),
		"docker":   boolean(),
		"size":     enum(constants.StepSizes),
		"runtime":  ref("runtime"),
	})
}

func definitionsSchema() *jsonschema.Schema {
	return open(map[string]*jsonschema.Schema{
		"services": mapOf(ref("service")),
		"caches":   mapOf(ref("cache")),
		"scripts":  mapOf(ref("script-entry")),
		"steps":    mapOf(ref("step")),
	})
}

func pipelinesSchema() *jsonschema.Schema {
	return open(map[string]*jsonschema.Schema{
		"default":       ref("pipeline"),
		"branches":      mapOf(ref("pipeline")),
		"pull-requests": mapOf(ref("pipeline")),
		"tags":          mapOf(ref("pipeline")),
		"custom":        mapOf(&jsonschema.Schema{Type: "array", Items: ref("custom-block")}),
	})
}
