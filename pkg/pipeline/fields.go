package pipeline

// fieldReader walks the keys of one object node. Lookups mark keys as known;
// closeStrict reports the leftovers and extras collects them for open nodes.
type fieldReader struct {
	v    *validator
	obj  *object
	path Path
	used map[string]bool
}

// fields opens value as an object node, reporting a TypeMismatch otherwise.
func (v *validator) fields(value any, p Path) (*fieldReader, bool) {
	obj, ok := asObject(value)
	if !ok {
		v.report(TypeMismatch, p, "expected object, got %s", describe(value))
		return nil, false
	}
	return &fieldReader{v: v, obj: obj, path: p, used: make(map[string]bool)}, true
}

func (r *fieldReader) has(key string) bool {
	_, ok := r.obj.values[key]
	return ok
}

func (r *fieldReader) lookup(key string) (any, bool) {
	r.used[key] = true
	val, ok := r.obj.values[key]
	return val, ok
}

func (r *fieldReader) at(key string) Path {
	return r.path.Key(key)
}

// require looks up a key and reports MissingRequiredField when absent.
func (r *fieldReader) require(key string) (any, bool) {
	val, ok := r.lookup(key)
	if !ok {
		r.v.report(MissingRequiredField, r.at(key), "required field %q is missing", key)
	}
	return val, ok
}

// closeStrict reports every key not looked up, in input order.
func (r *fieldReader) closeStrict() {
	for _, k := range r.obj.keys {
		if !r.used[k] {
			r.v.report(UnknownField, r.at(k), "unknown field %q", k)
		}
	}
}

// extras returns copies of the keys not looked up, or nil when there are none.
func (r *fieldReader) extras() map[string]any {
	var out map[string]any
	for _, k := range r.obj.keys {
		if r.used[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = cloneValue(r.obj.values[k])
	}
	return out
}

func (r *fieldReader) requiredString(key string) string {
	val, ok := r.require(key)
	if !ok {
		return ""
	}
	s, _ := r.v.str(val, r.at(key))
	return s
}

func (r *fieldReader) optionalString(key string) *string {
	val, ok := r.lookup(key)
	if !ok {
		return nil
	}
	s, ok := r.v.str(val, r.at(key))
	if !ok {
		return nil
	}
	return &s
}

func (r *fieldReader) optionalBool(key string) *bool {
	val, ok := r.lookup(key)
	if !ok {
		return nil
	}
	b, ok := r.v.boolean(val, r.at(key))
	if !ok {
		return nil
	}
	return &b
}

func (r *fieldReader) boolOr(key string, def bool) bool {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, _ := r.v.boolean(val, r.at(key))
	return b
}

func (r *fieldReader) intOr(key string, lo, hi, def int) int {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, _ := r.v.integer(val, r.at(key), lo, hi)
	return n
}

// optionalEnum returns "" when the key is absent.
func (r *fieldReader) optionalEnum(key string, allowed []string) string {
	val, ok := r.lookup(key)
	if !ok {
		return ""
	}
	s, _ := r.v.enum(val, r.at(key), allowed)
	return s
}

func (r *fieldReader) enumOr(key string, allowed []string, def string) string {
	val, ok := r.lookup(key)
	if !ok {
		return def
	}
	s, _ := r.v.enum(val, r.at(key), allowed)
	return s
}

func (r *fieldReader) optionalStrings(key string) []string {
	val, ok := r.lookup(key)
	if !ok {
		return nil
	}
	out, _ := r.v.stringList(val, r.at(key))
	return out
}

func (r *fieldReader) requiredStrings(key string) []string {
	val, ok := r.require(key)
	if !ok {
		return nil
	}
	out, _ := r.v.stringList(val, r.at(key))
	return out
}

func (r *fieldReader) optionalRecord(key string) map[string]any {
	val, ok := r.lookup(key)
	if !ok {
		return nil
	}
	out, _ := r.v.record(val, r.at(key))
	return out
}
