package pipeline

import "github.com/nodix/pipeconf/pkg/constants"

// Runtime selects the cloud runner a step (or every step) runs on.
type Runtime struct {
	Cloud CloudRuntime
}

// CloudRuntime configures Bitbucket cloud runners.
type CloudRuntime struct {
	AtlassianIPRanges bool
	Arch              string
}

func decodeRuntime(v *validator, value any, p Path) *Runtime {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	rt := &Runtime{}
	if raw, ok := r.require("cloud"); ok {
		if cr, ok := v.fields(raw, r.at("cloud")); ok {
			rt.Cloud.AtlassianIPRanges = cr.boolOr("atlassian-ip-ranges", false)
			rt.Cloud.Arch = cr.enumOr("arch", constants.Arches, constants.DefaultArch)
			cr.closeStrict()
		}
	}
	r.closeStrict()
	return rt
}

func (rt *Runtime) toWire() map[string]any {
	return map[string]any{
		"cloud": map[string]any{
			"atlassian-ip-ranges": rt.Cloud.AtlassianIPRanges,
			"arch":                rt.Cloud.Arch,
		},
	}
}
