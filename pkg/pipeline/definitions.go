package pipeline

import (
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
)

var definitionsLog = logger.New("pipeline:definitions")

// Definitions holds the reusable templates steps refer to by name. Keys the
// format does not declare are kept in Extra.
type Definitions struct {
	Services map[string]*Service
	Caches   map[string]*Cache
	Scripts  map[string]ScriptEntry
	Steps    map[string]*Step
	Extra    map[string]any
}

// Service is a sidecar container available to steps.
type Service struct {
	Image     *Image
	Memory    int
	Type      string
	Variables map[string]any
}

// Cache is a named cache directory. The short form is just the path; Key is
// nil unless the object form declares one.
type Cache struct {
	Path string
	Key  *CacheKey
	// Detailed records that the object form was used.
	Detailed bool
}

// CacheKey invalidates a cache when any of the matched files change.
type CacheKey struct {
	Files []string
}

// decodeEntries validates every entry of a map-valued node in the node's key
// order and returns the successfully decoded ones.
func decodeEntries[T any](v *validator, value any, p Path, decode func(*validator, any, Path) (T, bool)) map[string]T {
	obj, ok := asObject(value)
	if !ok {
		v.report(TypeMismatch, p, "expected object, got %s", describe(value))
		return nil
	}
	out := make(map[string]T, len(obj.keys))
	for _, k := range obj.keys {
		if v.halted() {
			break
		}
		if item, ok := decode(v, obj.values[k], p.Key(k)); ok {
			out[k] = item
		}
	}
	return out
}

func decodeDefinitions(v *validator, value any, p Path) Definitions {
	d := Definitions{Caches: map[string]*Cache{}}
	if value == nil {
		return d
	}
	r, ok := v.fields(value, p)
	if !ok {
		return d
	}
	if raw, ok := r.lookup("services"); ok {
		d.Services = decodeEntries(v, raw, r.at("services"), decodeService)
	}
	if raw, ok := r.lookup("caches"); ok {
		if caches := decodeEntries(v, raw, r.at("caches"), decodeCache); caches != nil {
			d.Caches = caches
		}
	}
	if raw, ok := r.lookup("scripts"); ok {
		d.Scripts = decodeEntries(v, raw, r.at("scripts"), decodeScriptEntry)
	}
	if raw, ok := r.lookup("steps"); ok {
		d.Steps = decodeEntries(v, raw, r.at("steps"), func(v *validator, value any, p Path) (*Step, bool) {
			s := decodeStep(v, value, p)
			return s, s != nil
		})
	}
	d.Extra = r.extras()
	definitionsLog.Printf("Decoded definitions: %d services, %d caches, %d extra keys", len(d.Services), len(d.Caches), len(d.Extra))
	return d
}

func decodeService(v *validator, value any, p Path) (*Service, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return nil, false
	}
	mark := v.mark()
	s := &Service{}
	if raw, ok := r.require("image"); ok {
		s.Image, _ = decodeImage(v, raw, r.at("image"))
	}
	s.Memory = r.intOr("memory", constants.MinServiceMemory, constants.MaxServiceMemory, constants.DefaultServiceMemory)
	s.Type = r.optionalEnum("type", constants.ServiceTypes)
	s.Variables = r.optionalRecord("variables")
	r.closeStrict()
	return s, v.clean(mark)
}

func decodeCache(v *validator, value any, p Path) (*Cache, bool) {
	c, ok := decodeUnion(v, value, p,
		alternative[Cache]{kind: kindString, decode: func(v *validator, value any, p Path) (Cache, bool) {
			s, ok := v.str(value, p)
			return Cache{Path: s}, ok
		}},
		alternative[Cache]{kind: kindObject, decode: decodeCacheObject},
	)
	if !ok {
		return nil, false
	}
	return &c, true
}

func decodeCacheObject(v *validator, value any, p Path) (Cache, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return Cache{}, false
	}
	mark := v.mark()
	c := Cache{Detailed: true}
	if raw, ok := r.lookup("key"); ok {
		if kr, ok := v.fields(raw, r.at("key")); ok {
			c.Key = &CacheKey{Files: kr.requiredStrings("files")}
			kr.closeStrict()
		}
	}
	c.Path = r.requiredString("path")
	r.closeStrict()
	return c, v.clean(mark)
}

func (s *Service) toWire() map[string]any {
	m := map[string]any{"memory": s.Memory}
	if s.Image != nil {
		m["image"] = s.Image.toWire()
	}
	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Variables != nil {
		m["variables"] = cloneValue(s.Variables)
	}
	return m
}

func (c *Cache) toWire() any {
	if !c.Detailed {
		return c.Path
	}
	m := map[string]any{"path": c.Path}
	if c.Key != nil {
		m["key"] = map[string]any{"files": stringsToWire(c.Key.Files)}
	}
	return m
}

func (d *Definitions) toWire() map[string]any {
	m := make(map[string]any, len(d.Extra)+4)
	for k, val := range d.Extra {
		m[k] = cloneValue(val)
	}
	if d.Services != nil {
		services := make(map[string]any, len(d.Services))
		for name, s := range d.Services {
			services[name] = s.toWire()
		}
		m["services"] = services
	}
	caches := make(map[string]any, len(d.Caches))
	for name, c := range d.Caches {
		caches[name] = c.toWire()
	}
	m["caches"] = caches
	if d.Scripts != nil {
		scripts := make(map[string]any, len(d.Scripts))
		for name, s := range d.Scripts {
			scripts[name] = s.toWire()
		}
		m["scripts"] = scripts
	}
	if d.Steps != nil {
		steps := make(map[string]any, len(d.Steps))
		for name, s := range d.Steps {
			steps[name] = s.toWire()
		}
		m["steps"] = steps
	}
	return m
}
