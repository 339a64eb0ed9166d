package pipeline

// Artifacts lists files a step hands to later steps. The list form carries
// only paths; the object form also controls downloading, and Download is nil
// exactly when the list form was used.
type Artifacts struct {
	Paths    []string
	Download *bool
}

// IsList reports whether the short list form was used.
func (a *Artifacts) IsList() bool {
	return a.Download == nil
}

func decodeArtifacts(v *validator, value any, p Path) *Artifacts {
	a, ok := decodeUnion(v, value, p,
		alternative[Artifacts]{kind: kindArray, decode: func(v *validator, value any, p Path) (Artifacts, bool) {
			paths, ok := v.stringList(value, p)
			return Artifacts{Paths: paths}, ok
		}},
		alternative[Artifacts]{kind: kindObject, decode: decodeArtifactsObject},
	)
	if !ok {
		return nil
	}
	return &a
}

func decodeArtifactsObject(v *validator, value any, p Path) (Artifacts, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return Artifacts{}, false
	}
	mark := v.mark()
	download := r.boolOr("download", true)
	a := Artifacts{Download: &download}
	a.Paths = r.optionalStrings("paths")
	r.closeStrict()
	return a, v.clean(mark)
}

func (a *Artifacts) toWire() any {
	if a.IsList() {
		return stringsToWire(a.Paths)
	}
	m := map[string]any{"download": *a.Download}
	if a.Paths != nil {
		m["paths"] = stringsToWire(a.Paths)
	}
	return m
}

func stringsToWire(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
