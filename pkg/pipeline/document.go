// This file provides the entry points of the package: Normalize validates a
// decoded pipeline configuration tree and returns it as a typed Document with
// every default filled in.
//
// Validation walks the sections in a fixed order (options, definitions,
// pipelines) and, when asked, resolves step references afterwards. All
// violations are collected so that a single call reports every problem of the
// document; FailFast stops at the first one.

package pipeline

import "github.com/nodix/pipeconf/pkg/logger"

var documentLog = logger.New("pipeline:document")

// ValidateOptions tunes a validation pass.
type ValidateOptions struct {
	// FailFast stops at the first diagnostic.
	FailFast bool
	// CheckReferences resolves step caches, services and deployments.
	CheckReferences bool
	// Deployments are the known deployment environments. Deployment names
	// are only checked when the list is non-empty.
	Deployments []string
}

// Document is a normalized pipeline configuration. Root keys the format
// does not declare (image, clone, ...) are kept verbatim in Extra.
type Document struct {
	Options     Options
	Definitions Definitions
	Pipelines   Pipelines
	Extra       map[string]any
}

// Normalize validates raw with default options.
func Normalize(raw any) (*Document, error) {
	return NormalizeWithOptions(raw, ValidateOptions{})
}

// NormalizeWithOptions validates raw and returns the normalized document, or
// a *ValidationError holding every diagnostic found. It never returns both.
//
// raw is the generic tree a YAML or JSON decoder produces. A nil root is an
// empty document.
func NormalizeWithOptions(raw any, opts ValidateOptions) (*Document, error) {
	documentLog.Printf("Normalizing document: fail_fast=%t, check_references=%t", opts.FailFast, opts.CheckReferences)
	v := newValidator(opts)
	doc := decodeDocument(v, raw)
	if opts.CheckReferences && !v.halted() {
		checkReferences(v, doc)
	}
	if err := v.errs.Err(); err != nil {
		documentLog.Printf("Document is invalid: %d diagnostics", v.errs.Count())
		return nil, err
	}
	documentLog.Print("Document is valid")
	return doc, nil
}

func decodeDocument(v *validator, raw any) *Document {
	var root Path
	doc := &Document{
		Options:     defaultOptions(),
		Definitions: Definitions{Caches: map[string]*Cache{}},
		Pipelines:   defaultPipelines(),
	}
	if raw == nil {
		return doc
	}
	r, ok := v.fields(raw, root)
	if !ok {
		return doc
	}
	options, _ := r.lookup("options")
	doc.Options = decodeOptions(v, options, r.at("options"))
	if !v.halted() {
		definitions, _ := r.lookup("definitions")
		doc.Definitions = decodeDefinitions(v, definitions, r.at("definitions"))
	}
	if !v.halted() {
		pipelines, _ := r.lookup("pipelines")
		doc.Pipelines = decodePipelines(v, pipelines, r.at("pipelines"))
	}
	doc.Extra = r.extras()
	return doc
}

// ToMap returns the wire form of the document: the tree Normalize would turn
// back into an identical Document.
func (d *Document) ToMap() map[string]any {
	m := make(map[string]any, len(d.Extra)+3)
	for k, val := range d.Extra {
		m[k] = cloneValue(val)
	}
	m["options"] = d.Options.toWire()
	m["definitions"] = d.Definitions.toWire()
	m["pipelines"] = d.Pipelines.toWire()
	return m
}

// Steps returns every step reachable from the pipelines section: default,
// then branches, pull requests, tags and custom pipelines, each map in key
// order.
func (d *Document) Steps() []*Step {
	var out []*Step
	if d.Pipelines.Default != nil {
		out = append(out, d.Pipelines.Default.Steps()...)
	}
	for _, m := range []map[string]*Pipeline{d.Pipelines.Branches, d.Pipelines.PullRequests, d.Pipelines.Tags} {
		for _, k := range sortedKeys(m) {
			out = append(out, m[k].Steps()...)
		}
	}
	for _, k := range sortedKeys(d.Pipelines.Custom) {
		for _, b := range d.Pipelines.Custom[k] {
			out = append(out, b.Steps()...)
		}
	}
	return out
}
