package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// TypeMismatch: a value is present but of the wrong kind.
	TypeMismatch Kind = iota + 1
	// RangeViolation: a number or list length is outside its bounds.
	RangeViolation
	// EnumViolation: a value is not one of the permitted literals.
	EnumViolation
	// UnrecognizedShape: input matches none of the alternatives of a union.
	UnrecognizedShape
	// UnknownField: a strict object received a key outside its schema.
	UnknownField
	// MissingRequiredField: a required key is absent.
	MissingRequiredField
	// UnresolvedReference: a name does not resolve against definitions.
	// Only reported when reference checks are enabled.
	UnresolvedReference
)

var kindNames = map[Kind]string{
	TypeMismatch:         "type-mismatch",
	RangeViolation:       "range-violation",
	EnumViolation:        "enum-violation",
	UnrecognizedShape:    "unrecognized-shape",
	UnknownField:         "unknown-field",
	MissingRequiredField: "missing-required-field",
	UnresolvedReference:  "unresolved-reference",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", text)
}

// Path locates a value from the document root. Elements are map keys
// (string) or list indexes (int).
type Path []any

// Key returns a new path extended with a map key.
func (p Path) Key(key string) Path {
	return append(p[:len(p):len(p)], key)
}

// Index returns a new path extended with a list index.
func (p Path) Index(i int) Path {
	return append(p[:len(p):len(p)], i)
}

// String renders the path as pipelines.branches["release/*"][0].step.
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	var sb strings.Builder
	for i, elem := range p {
		switch e := elem.(type) {
		case int:
			fmt.Fprintf(&sb, "[%d]", e)
		case string:
			if isPlainKey(e) {
				if i > 0 {
					sb.WriteByte('.')
				}
				sb.WriteString(e)
			} else {
				sb.WriteString("[" + strconv.Quote(e) + "]")
			}
		default:
			fmt.Fprintf(&sb, "[%v]", e)
		}
	}
	return sb.String()
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Diagnostic is one validation violation.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Path    Path   `json:"path"`
	Message string `json:"message"`
	// Line and Column are 1-based source positions, zero when unknown.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// Error renders "<path>: <message>".
func (d Diagnostic) Error() string {
	return d.Path.String() + ": " + d.Message
}

// ValidationError is returned by Normalize when the document is invalid.
// It carries every diagnostic found, in schema order.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d pipeline configuration errors:", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		sb.WriteString("\n  • ")
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// Unwrap exposes each diagnostic to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}
