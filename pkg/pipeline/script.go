package pipeline

// ScriptEntry is one line of a step script: a shell command or a pipe.
type ScriptEntry struct {
	Command string
	Pipe    *Pipe
}

// Pipe runs a packaged integration in place of a command.
type Pipe struct {
	// Name is the pipe identifier, e.g. atlassian/aws-s3-deploy:1.1.0.
	Name      string
	Variables map[string]any
}

// IsPipe reports whether the entry runs a pipe.
func (s ScriptEntry) IsPipe() bool {
	return s.Pipe != nil
}

func decodeScriptEntry(v *validator, value any, p Path) (ScriptEntry, bool) {
	return decodeUnion(v, value, p,
		alternative[ScriptEntry]{kind: kindString, decode: func(v *validator, value any, p Path) (ScriptEntry, bool) {
			s, ok := v.str(value, p)
			return ScriptEntry{Command: s}, ok
		}},
		alternative[ScriptEntry]{kind: kindObject, decode: decodePipeEntry},
	)
}

func decodePipeEntry(v *validator, value any, p Path) (ScriptEntry, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return ScriptEntry{}, false
	}
	mark := v.mark()
	pipe := &Pipe{}
	pipe.Name = r.requiredString("pipe")
	if r.has("pipe") && pipe.Name == "" && v.clean(mark) {
		v.report(RangeViolation, r.at("pipe"), "must not be empty")
	}
	pipe.Variables = r.optionalRecord("variables")
	r.closeStrict()
	return ScriptEntry{Pipe: pipe}, v.clean(mark)
}

// decodeScript validates a list of script entries. Required scripts must
// hold at least one entry.
func decodeScript(v *validator, value any, p Path, required bool) []ScriptEntry {
	items, ok := v.list(value, p)
	if !ok {
		return nil
	}
	if required && len(items) == 0 {
		v.report(RangeViolation, p, "must contain at least 1 entry")
		return nil
	}
	out := make([]ScriptEntry, 0, len(items))
	for i, item := range items {
		if v.halted() {
			break
		}
		entry, _ := decodeScriptEntry(v, item, p.Index(i))
		out = append(out, entry)
	}
	return out
}

func (s ScriptEntry) toWire() any {
	if s.Pipe == nil {
		return s.Command
	}
	m := map[string]any{"pipe": s.Pipe.Name}
	if s.Pipe.Variables != nil {
		m["variables"] = cloneValue(s.Pipe.Variables)
	}
	return m
}

func scriptToWire(entries []ScriptEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.toWire()
	}
	return out
}
