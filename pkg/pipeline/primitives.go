// This file provides the primitive validators every schema node is built from.
//
// Input is the generic tree a YAML or JSON decoder produces: maps
// (map[string]any, map[any]any or yaml.MapSlice), lists ([]any), strings,
// booleans, numbers of any Go numeric type, and nil. Validators never coerce
// between kinds: "1" is not an integer and 1 is not a string.

package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/nodix/pipeconf/pkg/sliceutil"
	"github.com/nodix/pipeconf/pkg/stringutil"
)

// Basic kinds used in messages and union probes.
const (
	kindNull    = "null"
	kindString  = "string"
	kindBoolean = "boolean"
	kindNumber  = "number"
	kindArray   = "array"
	kindObject  = "object"
)

// noMin and noMax disable the bounds of an integer check.
const (
	noMin = math.MinInt
	noMax = math.MaxInt
)

// validator carries the collector and options through one validation pass.
type validator struct {
	errs *ErrorCollector
	opts ValidateOptions
	// steps records where each decoded step sits, for reference checks.
	steps []stepSite
}

type stepSite struct {
	path Path
	step *Step
}

func newValidator(opts ValidateOptions) *validator {
	return &validator{errs: NewErrorCollector(opts.FailFast), opts: opts}
}

func (v *validator) report(kind Kind, p Path, format string, args ...any) {
	v.errs.Add(Diagnostic{Kind: kind, Path: p, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) halted() bool {
	return v.errs.Halted()
}

// mark and clean let a decoder tell whether it reported anything.
func (v *validator) mark() int {
	return v.errs.Count()
}

func (v *validator) clean(mark int) bool {
	return v.errs.Count() == mark
}

// fork returns a validator with an empty collector, used to try a union
// alternative without committing its diagnostics.
func (v *validator) fork() *validator {
	return &validator{errs: NewErrorCollector(v.opts.FailFast), opts: v.opts}
}

// adopt takes over the diagnostics and step sites of a forked validator.
func (v *validator) adopt(child *validator) {
	for _, d := range child.errs.diagnostics {
		v.errs.Add(d)
	}
	v.steps = append(v.steps, child.steps...)
}

// kindOf names the basic kind of a value.
func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return kindNull
	case string:
		return kindString
	case bool:
		return kindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return kindNumber
	case []any, []string, []map[string]any:
		return kindArray
	case map[string]any, map[any]any, yaml.MapSlice:
		return kindObject
	default:
		return fmt.Sprintf("%T", value)
	}
}

// describe renders a value for a message: its kind plus a short echo.
func describe(value any) string {
	switch val := value.(type) {
	case nil:
		return kindNull
	case string:
		return fmt.Sprintf("string %q", stringutil.Truncate(val, 40))
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return fmt.Sprintf("%s %v", kindOf(value), val)
	default:
		return kindOf(value)
	}
}

// object is a decoded map with a stable key order.
type object struct {
	keys   []string
	values map[string]any
}

// asObject accepts every map representation a decoder may produce. Keys of
// ordered maps keep their input order; keys of Go maps are sorted.
func asObject(value any) (*object, bool) {
	switch m := value.(type) {
	case map[string]any:
		obj := &object{keys: make([]string, 0, len(m)), values: make(map[string]any, len(m))}
		for k, val := range m {
			obj.keys = append(obj.keys, k)
			obj.values[k] = val
		}
		sort.Strings(obj.keys)
		return obj, true
	case map[any]any:
		obj := &object{keys: make([]string, 0, len(m)), values: make(map[string]any, len(m))}
		for k, val := range m {
			key := fmt.Sprint(k)
			obj.keys = append(obj.keys, key)
			obj.values[key] = val
		}
		sort.Strings(obj.keys)
		return obj, true
	case yaml.MapSlice:
		obj := &object{keys: make([]string, 0, len(m)), values: make(map[string]any, len(m))}
		for _, item := range m {
			key := fmt.Sprint(item.Key)
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = item.Value
		}
		return obj, true
	}
	return nil, false
}

// asList accepts decoded lists and the typed slices Go callers tend to build.
func asList(value any) ([]any, bool) {
	switch l := value.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// asInteger reports the integral value of a number. isNumber is true for any
// numeric input, isInt only when the value has no fractional part.
func asInteger(value any) (n int64, isInt, isNumber bool) {
	switch x := value.(type) {
	case int:
		return int64(x), true, true
	case int8:
		return int64(x), true, true
	case int16:
		return int64(x), true, true
	case int32:
		return int64(x), true, true
	case int64:
		return x, true, true
	case uint:
		return clampUint(uint64(x)), true, true
	case uint8:
		return int64(x), true, true
	case uint16:
		return int64(x), true, true
	case uint32:
		return int64(x), true, true
	case uint64:
		return clampUint(x), true, true
	case float32:
		return floatInt(float64(x))
	case float64:
		return floatInt(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true, true
		}
		if f, err := x.Float64(); err == nil {
			return floatInt(f)
		}
	}
	return 0, false, false
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func floatInt(f float64) (int64, bool, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false, true
	}
	return int64(f), true, true
}

func (v *validator) str(value any, p Path) (string, bool) {
	s, ok := value.(string)
	if !ok {
		v.report(TypeMismatch, p, "expected string, got %s", describe(value))
	}
	return s, ok
}

func (v *validator) boolean(value any, p Path) (bool, bool) {
	b, ok := value.(bool)
	if !ok {
		v.report(TypeMismatch, p, "expected boolean, got %s", describe(value))
	}
	return b, ok
}

// integer checks an integral number within the inclusive range [lo, hi].
func (v *validator) integer(value any, p Path, lo, hi int) (int, bool) {
	n, isInt, isNumber := asInteger(value)
	if !isInt {
		if isNumber {
			v.report(TypeMismatch, p, "expected integer, got fractional number %v", value)
		} else {
			v.report(TypeMismatch, p, "expected integer, got %s", describe(value))
		}
		return 0, false
	}
	if n < int64(lo) {
		if hi == noMax {
			v.report(RangeViolation, p, "must be greater than or equal to %d, got %d", lo, n)
		} else {
			v.report(RangeViolation, p, "must be between %d and %d, got %d", lo, hi, n)
		}
		return 0, false
	}
	if hi != noMax && n > int64(hi) {
		v.report(RangeViolation, p, "must be between %d and %d, got %d", lo, hi, n)
		return 0, false
	}
	return int(n), true
}

// enum checks case-sensitive membership in allowed.
func (v *validator) enum(value any, p Path, allowed []string) (string, bool) {
	s, ok := v.str(value, p)
	if !ok {
		return "", false
	}
	if sliceutil.Contains(allowed, s) {
		return s, true
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	msg := fmt.Sprintf("invalid value %q, expected one of %s", s, strings.Join(quoted, ", "))
	if match, ok := sliceutil.FindFold(allowed, s); ok {
		msg += fmt.Sprintf(" (values are case-sensitive, did you mean %q?)", match)
	}
	v.report(EnumViolation, p, "%s", msg)
	return "", false
}

func (v *validator) list(value any, p Path) ([]any, bool) {
	l, ok := asList(value)
	if !ok {
		v.report(TypeMismatch, p, "expected array, got %s", describe(value))
	}
	return l, ok
}

// stringList returns a non-nil slice for any valid list, so that an explicit
// empty list survives normalization.
func (v *validator) stringList(value any, p Path) ([]string, bool) {
	items, ok := v.list(value, p)
	if !ok {
		return nil, false
	}
	mark := v.mark()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if s, ok := v.str(item, p.Index(i)); ok {
			out = append(out, s)
		}
	}
	return out, v.clean(mark)
}

// record accepts a free-form map. Values are copied but not validated.
func (v *validator) record(value any, p Path) (map[string]any, bool) {
	obj, ok := asObject(value)
	if !ok {
		v.report(TypeMismatch, p, "expected object, got %s", describe(value))
		return nil, false
	}
	out := make(map[string]any, len(obj.keys))
	for _, k := range obj.keys {
		out[k] = cloneValue(obj.values[k])
	}
	return out, true
}

// cloneValue deep-copies container values so a normalized document never
// aliases the caller's input.
func cloneValue(value any) any {
	switch val := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(val))
		for i, item := range val {
			out[i] = yaml.MapItem{Key: item.Key, Value: cloneValue(item.Value)}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	}
	return value
}

// alternative is one arm of a shape union: a kind probe and a decoder.
type alternative[T any] struct {
	kind   string
	decode func(v *validator, value any, p Path) (T, bool)
}

// decodeUnion tries the alternatives whose kind matches the input, in
// declaration order. The first clean decode wins. When every matching
// alternative fails, the diagnostics of the first one are surfaced; when no
// alternative matches the input kind, a single TypeMismatch lists the
// accepted kinds.
func decodeUnion[T any](v *validator, value any, p Path, alts ...alternative[T]) (T, bool) {
	var zero T
	var first *validator
	kind := kindOf(value)
	for _, alt := range alts {
		if alt.kind != kind {
			continue
		}
		trial := v.fork()
		out, ok := alt.decode(trial, value, p)
		if ok && !trial.errs.HasErrors() {
			v.adopt(trial)
			return out, true
		}
		if first == nil {
			first = trial
		}
	}
	if first != nil {
		v.adopt(first)
		return zero, false
	}
	kinds := make([]string, 0, len(alts))
	for _, alt := range alts {
		if !slices.Contains(kinds, alt.kind) {
			kinds = append(kinds, alt.kind)
		}
	}
	v.report(TypeMismatch, p, "expected %s, got %s", strings.Join(kinds, " or "), describe(value))
	return zero, false
}
