package pipeline

import "github.com/nodix/pipeconf/pkg/constants"

// Options are the global settings applied to every step. Keys the format
// does not declare are kept in Extra.
type Options struct {
	MaxTime int
	Docker  bool
	Size    string
	Runtime *Runtime
	Extra   map[string]any
}

func defaultOptions() Options {
	return Options{MaxTime: constants.DefaultMaxTime}
}

func decodeOptions(v *validator, value any, p Path) Options {
	o := defaultOptions()
	if value == nil {
		return o
	}
	r, ok := v.fields(value, p)
	if !ok {
		return o
	}
	o.MaxTime = r.intOr("max-time", constants.MinMaxTime, constants.MaxMaxTime, constants.DefaultMaxTime)
	o.Docker = r.boolOr("docker", false)
	o.Size = r.optionalEnum("size", constants.StepSizes)
	if raw, ok := r.lookup("runtime"); ok {
		o.Runtime = decodeRuntime(v, raw, r.at("runtime"))
	}
	o.Extra = r.extras()
	return o
}

func (o *Options) toWire() map[string]any {
	m := make(map[string]any, len(o.Extra)+4)
	for k, val := range o.Extra {
		m[k] = cloneValue(val)
	}
	m["max-time"] = o.MaxTime
	m["docker"] = o.Docker
	if o.Size != "" {
		m["size"] = o.Size
	}
	if o.Runtime != nil {
		m["runtime"] = o.Runtime.toWire()
	}
	return m
}
