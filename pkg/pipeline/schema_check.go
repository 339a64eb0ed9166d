package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/nodix/pipeconf/pkg/logger"
	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaCheckLog = logger.New("pipeline:schema_check")

var (
	compiledSchema     *jsonschemav6.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
	schemaPrinter      = message.NewPrinter(language.English)
)

func getCompiledSchema() (*jsonschemav6.Schema, error) {
	compiledSchemaOnce.Do(func() {
		schemaCheckLog.Print("Compiling document JSON schema")
		data, err := MarshalJSONSchema()
		if err != nil {
			compiledSchemaErr = err
			return
		}
		doc, err := jsonschemav6.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compiledSchemaErr = fmt.Errorf("failed to parse JSON schema: %w", err)
			return
		}
		compiler := jsonschemav6.NewCompiler()
		if err := compiler.AddResource(SchemaID, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile(SchemaID)
		if compiledSchemaErr != nil {
			compiledSchemaErr = fmt.Errorf("failed to compile JSON schema: %w", compiledSchemaErr)
		}
	})
	return compiledSchema, compiledSchemaErr
}

// CheckSchema validates raw against the generated JSON Schema and returns
// one diagnostic per failing keyword. It is a structural check: documents
// it accepts can still be rejected by Normalize.
func CheckSchema(raw any) ([]Diagnostic, error) {
	schema, err := getCompiledSchema()
	if err != nil {
		return nil, err
	}
	instance, err := jsonInstance(raw)
	if err != nil {
		return nil, err
	}
	err = schema.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschemav6.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	var out []Diagnostic
	collectSchemaErrors(ve, &out)
	schemaCheckLog.Printf("Schema check found %d violations", len(out))
	return out, nil
}

// jsonInstance converts a decoded YAML tree into the JSON value model the
// schema validator expects.
func jsonInstance(raw any) (any, error) {
	data, err := json.Marshal(plainValue(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to JSON: %w", err)
	}
	return jsonschemav6.UnmarshalJSON(bytes.NewReader(data))
}

// plainValue replaces ordered and non-string-keyed maps with map[string]any.
func plainValue(value any) any {
	switch val := value.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(val))
		for _, item := range val {
			out[fmt.Sprint(item.Key)] = plainValue(item.Value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = plainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	}
	return value
}

func collectSchemaErrors(ve *jsonschemav6.ValidationError, out *[]Diagnostic) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectSchemaErrors(cause, out)
		}
		return
	}
	path := pointerPath(ve.InstanceLocation)
	if extra, ok := ve.ErrorKind.(*kind.AdditionalProperties); ok {
		for _, prop := range extra.Properties {
			*out = append(*out, Diagnostic{
				Kind:    UnknownField,
				Path:    path.Key(prop),
				Message: fmt.Sprintf("unknown field %q", prop),
			})
		}
		return
	}
	*out = append(*out, Diagnostic{
		Kind:    schemaKind(ve.ErrorKind.KeywordPath()),
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(schemaPrinter),
	})
}

func schemaKind(keywordPath []string) Kind {
	if len(keywordPath) == 0 {
		return UnrecognizedShape
	}
	switch keywordPath[0] {
	case "type":
		return TypeMismatch
	case "enum", "const":
		return EnumViolation
	case "minimum", "maximum", "minItems", "minLength":
		return RangeViolation
	case "required":
		return MissingRequiredField
	case "additionalProperties", "not", "false":
		return UnknownField
	}
	return UnrecognizedShape
}

// pointerPath turns JSON pointer tokens into a Path. Tokens that parse as
// non-negative integers become list indexes.
func pointerPath(tokens []string) Path {
	p := Path{}
	for _, tok := range tokens {
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 && !strings.HasPrefix(tok, "+") {
			p = p.Index(i)
			continue
		}
		p = p.Key(tok)
	}
	return p
}
