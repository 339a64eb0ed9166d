package pipeline

import (
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
)

var pipelinesLog = logger.New("pipeline:pipelines")

// Pipelines maps triggers to the pipelines they start. Keys the format does
// not declare are kept in Extra.
type Pipelines struct {
	// Default runs for every push not matched by Branches or Tags.
	Default      *Pipeline
	Branches     map[string]*Pipeline
	PullRequests map[string]*Pipeline
	Tags         map[string]*Pipeline
	// Custom pipelines run on demand and may declare variables.
	Custom map[string][]Block
	Extra  map[string]any
}

// defaultPullRequests builds a fresh copy of the implicit pull-requests entry.
func defaultPullRequests() map[string]*Pipeline {
	return map[string]*Pipeline{
		constants.DefaultPullRequestPattern: {Blocks: []Block{}},
	}
}

func defaultPipelines() Pipelines {
	return Pipelines{
		Branches:     map[string]*Pipeline{},
		PullRequests: defaultPullRequests(),
		Tags:         map[string]*Pipeline{},
		Custom:       map[string][]Block{},
	}
}

func decodePipelines(v *validator, value any, p Path) Pipelines {
	pl := defaultPipelines()
	if value == nil {
		return pl
	}
	r, ok := v.fields(value, p)
	if !ok {
		return pl
	}
	if raw, ok := r.lookup("default"); ok {
		pl.Default, _ = decodePipeline(v, raw, r.at("default"))
	}
	if raw, ok := r.lookup("branches"); ok {
		if m := decodeEntries(v, raw, r.at("branches"), decodePipeline); m != nil {
			pl.Branches = m
		}
	}
	if raw, ok := r.lookup("pull-requests"); ok {
		if m := decodeEntries(v, raw, r.at("pull-requests"), decodePipeline); m != nil {
			pl.PullRequests = m
		}
	}
	if raw, ok := r.lookup("tags"); ok {
		if m := decodeEntries(v, raw, r.at("tags"), decodePipeline); m != nil {
			pl.Tags = m
		}
	}
	if raw, ok := r.lookup("custom"); ok {
		custom := decodeEntries(v, raw, r.at("custom"), func(v *validator, value any, p Path) ([]Block, bool) {
			if _, ok := asList(value); !ok {
				v.report(TypeMismatch, p, "expected array, got %s", describe(value))
				return nil, false
			}
			return decodeBlocks(v, value, p, true), true
		})
		if custom != nil {
			pl.Custom = custom
		}
	}
	pl.Extra = r.extras()
	pipelinesLog.Printf("Decoded pipelines: default=%t branches=%d pull-requests=%d tags=%d custom=%d",
		pl.Default != nil, len(pl.Branches), len(pl.PullRequests), len(pl.Tags), len(pl.Custom))
	return pl
}

func pipelineMapToWire(m map[string]*Pipeline) map[string]any {
	out := make(map[string]any, len(m))
	for k, pl := range m {
		out[k] = pl.toWire()
	}
	return out
}

func (pl *Pipelines) toWire() map[string]any {
	m := make(map[string]any, len(pl.Extra)+5)
	for k, val := range pl.Extra {
		m[k] = cloneValue(val)
	}
	if pl.Default != nil {
		m["default"] = pl.Default.toWire()
	}
	m["branches"] = pipelineMapToWire(pl.Branches)
	m["pull-requests"] = pipelineMapToWire(pl.PullRequests)
	m["tags"] = pipelineMapToWire(pl.Tags)
	custom := make(map[string]any, len(pl.Custom))
	for k, blocks := range pl.Custom {
		custom[k] = blocksToWire(blocks)
	}
	m["custom"] = custom
	return m
}
