// This file provides diagnostic aggregation for document validation.
//
// Validators report every violation they find to an ErrorCollector instead of
// returning at the first one, so a user sees all problems of a document in a
// single run. In fail-fast mode the collector keeps the first diagnostic and
// ignores the rest; validators check Halted to stop walking the tree early.

package pipeline

import "github.com/nodix/pipeconf/pkg/logger"

var errorAggregationLog = logger.New("pipeline:error_aggregation")

// ErrorCollector accumulates diagnostics in report order.
type ErrorCollector struct {
	diagnostics []Diagnostic
	failFast    bool
}

// NewErrorCollector creates a collector. With failFast set it stops
// accepting diagnostics after the first one.
func NewErrorCollector(failFast bool) *ErrorCollector {
	return &ErrorCollector{
		diagnostics: make([]Diagnostic, 0),
		failFast:    failFast,
	}
}

// Add records d. It returns true once the collector has halted.
func (c *ErrorCollector) Add(d Diagnostic) bool {
	if c.Halted() {
		return true
	}
	errorAggregationLog.Printf("Adding diagnostic: %s", d.Error())
	c.diagnostics = append(c.diagnostics, d)
	return c.Halted()
}

// Halted reports whether fail-fast mode has seen a diagnostic.
func (c *ErrorCollector) Halted() bool {
	return c.failFast && len(c.diagnostics) > 0
}

// HasErrors reports whether any diagnostic was collected.
func (c *ErrorCollector) HasErrors() bool {
	return len(c.diagnostics) > 0
}

// Count returns the number of collected diagnostics.
func (c *ErrorCollector) Count() int {
	return len(c.diagnostics)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *ErrorCollector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Err returns nil when nothing was collected, otherwise a *ValidationError.
func (c *ErrorCollector) Err() error {
	if len(c.diagnostics) == 0 {
		return nil
	}
	errorAggregationLog.Printf("Aggregating %d diagnostics", len(c.diagnostics))
	return &ValidationError{Diagnostics: c.Diagnostics()}
}
