// Package parser loads pipeline configuration files.
//
// A Source keeps both views of a file: the generic value tree handed to
// pipeline.Normalize (maps decoded as yaml.MapSlice so key order survives)
// and the YAML AST used to map diagnostic paths back to line and column.
package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	yamlparser "github.com/goccy/go-yaml/parser"
	"github.com/nodix/pipeconf/pkg/logger"
)

var log = logger.New("parser:source")

// Source is a parsed configuration file.
type Source struct {
	// Path is the file the content came from; it may be empty.
	Path    string
	Content []byte
	// Tree is the decoded document, nil for an empty file.
	Tree any

	file *ast.File
}

// SyntaxError reports content that is not valid YAML.
type SyntaxError struct {
	Path string
	err  error
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return "invalid YAML: " + e.err.Error()
	}
	return fmt.Sprintf("invalid YAML in %s: %v", e.Path, e.err)
}

func (e *SyntaxError) Unwrap() error {
	return e.err
}

// Format renders the error with a source excerpt pointing at the offending
// token. colored adds ANSI colors.
func (e *SyntaxError) Format(colored bool) string {
	return yaml.FormatError(e.err, colored, true)
}

// ParseBytes parses content. path is used in messages only.
func ParseBytes(path string, content []byte) (*Source, error) {
	log.Printf("Parsing %d bytes from %q", len(content), path)
	file, err := yamlparser.ParseBytes(content, 0)
	if err != nil {
		return nil, &SyntaxError{Path: path, err: err}
	}
	var tree any
	if err := yaml.UnmarshalWithOptions(content, &tree, yaml.UseOrderedMap()); err != nil {
		return nil, &SyntaxError{Path: path, err: err}
	}
	return &Source{Path: path, Content: content, Tree: tree, file: file}, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseBytes(path, content)
}

// IsSyntaxError reports whether err is, or wraps, a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
