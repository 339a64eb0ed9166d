// This file provides YAML output for normalized documents with deterministic
// key order.
//
// Go maps iterate in random order, so the wire tree produced by ToMap is
// converted to yaml.MapSlice before marshaling. Known keys come first in the
// conventional Bitbucket order (name, image, ... script for steps; default,
// branches, ... custom for pipelines), everything else follows alphabetically.

package pipeline

import (
	"slices"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
)

var yamlLog = logger.New("pipeline:yaml")

// MarshalOptions are the encoder settings for emitted YAML: two-space
// indentation, indented sequences and literal blocks for multiline scripts.
var MarshalOptions = []yaml.EncodeOption{
	yaml.Indent(2),
	yaml.IndentSequence(true),
	yaml.UseLiteralStyleIfMultiline(true),
}

// MarshalDocument renders a normalized document as YAML.
func MarshalDocument(doc *Document) ([]byte, error) {
	yamlLog.Print("Marshaling normalized document")
	return yaml.MarshalWithOptions(doc.ordered(), MarshalOptions...)
}

// MarshalYAML lets yaml.Marshal encode a Document in wire form.
func (d *Document) MarshalYAML() (any, error) {
	return d.ordered(), nil
}

func (d *Document) ordered() yaml.MapSlice {
	return OrderMapFields(orderChildren(d.ToMap()), constants.PriorityDocumentFields)
}

// OrderMapFields converts a map to a yaml.MapSlice: priority fields first in
// the given order, then the remaining keys alphabetically.
func OrderMapFields(data map[string]any, priorityFields []string) yaml.MapSlice {
	var ordered yaml.MapSlice
	for _, field := range priorityFields {
		if value, exists := data[field]; exists {
			ordered = append(ordered, yaml.MapItem{Key: field, Value: value})
		}
	}

	var remaining []string
	for key := range data {
		if !slices.Contains(priorityFields, key) {
			remaining = append(remaining, key)
		}
	}
	sort.Strings(remaining)
	for _, key := range remaining {
		ordered = append(ordered, yaml.MapItem{Key: key, Value: data[key]})
	}
	return ordered
}

// orderChildren orders every nested map of data.
func orderChildren(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, val := range data {
		out[k] = orderValue(val, k)
	}
	return out
}

func orderValue(value any, key string) any {
	switch val := value.(type) {
	case map[string]any:
		children := orderChildren(val)
		return OrderMapFields(children, priorityFor(key, val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = orderValue(item, key)
		}
		return out
	}
	return value
}

func priorityFor(key string, m map[string]any) []string {
	if key == "pipelines" {
		return constants.PriorityPipelineFields
	}
	if _, ok := m["script"]; ok {
		return constants.PriorityStepFields
	}
	return nil
}
