package cli

import (
	"errors"
	"fmt"

	"github.com/nodix/pipeconf/pkg/logger"
	"github.com/nodix/pipeconf/pkg/parser"
	"github.com/nodix/pipeconf/pkg/pipeline"
)

var validationLog = logger.New("cli:validation")

// ValidationOptions controls how a configuration file is checked.
type ValidationOptions struct {
	FailFast        bool
	CheckReferences bool
	Deployments     []string
	// JSONSchema runs the structural JSON Schema check first. Documents that
	// fail it are not normalized.
	JSONSchema bool
}

func (o ValidationOptions) pipelineOptions() pipeline.ValidateOptions {
	return pipeline.ValidateOptions{
		FailFast:        o.FailFast,
		CheckReferences: o.CheckReferences,
		Deployments:     o.Deployments,
	}
}

// FileResult is the outcome of validating one file.
type FileResult struct {
	File        string                `json:"file"`
	Valid       bool                  `json:"valid"`
	Diagnostics []pipeline.Diagnostic `json:"diagnostics"`
	// Error is set when the file could not be read or is not valid YAML.
	Error string `json:"error,omitempty"`

	document *pipeline.Document
	source   *parser.Source
	err      error
}

// ValidateFile loads and validates the file at path.
func ValidateFile(path string, opts ValidationOptions) FileResult {
	src, err := parser.LoadFile(path)
	if err != nil {
		return failedResult(path, err)
	}
	return validateSource(src, opts)
}

// ValidateContent validates in-memory YAML. name is used in messages only.
func ValidateContent(name string, content []byte, opts ValidationOptions) FileResult {
	src, err := parser.ParseBytes(name, content)
	if err != nil {
		return failedResult(name, err)
	}
	return validateSource(src, opts)
}

func failedResult(path string, err error) FileResult {
	validationLog.Printf("Cannot validate %s: %v", path, err)
	return FileResult{File: path, Diagnostics: []pipeline.Diagnostic{}, Error: err.Error(), err: err}
}

func validateSource(src *parser.Source, opts ValidationOptions) FileResult {
	result := FileResult{File: src.Path, Diagnostics: []pipeline.Diagnostic{}, source: src}

	if opts.JSONSchema {
		diags, err := pipeline.CheckSchema(src.Tree)
		if err != nil {
			result.Error = err.Error()
			result.err = err
			return result
		}
		if len(diags) > 0 {
			if opts.FailFast {
				diags = diags[:1]
			}
			result.Diagnostics = src.Annotate(diags)
			validationLog.Printf("%s failed the schema check with %d diagnostics", src.Path, len(diags))
			return result
		}
	}

	doc, err := pipeline.NormalizeWithOptions(src.Tree, opts.pipelineOptions())
	if err != nil {
		var verr *pipeline.ValidationError
		if !errors.As(err, &verr) {
			result.Error = err.Error()
			result.err = err
			return result
		}
		result.Diagnostics = src.Annotate(verr.Diagnostics)
		validationLog.Printf("%s is invalid: %d diagnostics", src.Path, len(verr.Diagnostics))
		return result
	}

	result.Valid = true
	result.document = doc
	validationLog.Printf("%s is valid", src.Path)
	return result
}

// Document returns the normalized document of a valid result.
func (r FileResult) Document() *pipeline.Document {
	return r.document
}

// Err returns an error describing why the result is not valid, or nil.
func (r FileResult) Err() error {
	switch {
	case r.Valid:
		return nil
	case r.err != nil:
		return r.err
	default:
		return &pipeline.ValidationError{Diagnostics: r.Diagnostics}
	}
}

// ErrValidationFailed is returned by commands when at least one file is invalid.
var ErrValidationFailed = errors.New("validation failed")

func summarize(results []FileResult) (invalid, problems int) {
	for _, r := range results {
		if r.Valid {
			continue
		}
		invalid++
		problems += max(len(r.Diagnostics), 1)
	}
	return invalid, problems
}

func validationFailure(invalid int) error {
	if invalid == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d invalid file(s)", ErrValidationFailed, invalid)
}
