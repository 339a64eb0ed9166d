package pipeline

import (
	"strconv"

	"github.com/nodix/pipeconf/pkg/constants"
)

// Clone controls how the repository is cloned into the build container.
type Clone struct {
	Depth         CloneDepth
	Enabled       bool
	LFS           bool
	SkipSSLVerify bool
}

// CloneDepth is a commit count or a full clone.
type CloneDepth struct {
	Full    bool
	Commits int
}

func (d CloneDepth) String() string {
	if d.Full {
		return constants.CloneDepthFull
	}
	return strconv.Itoa(d.Commits)
}

func defaultClone() Clone {
	return Clone{
		Depth:   CloneDepth{Commits: constants.DefaultCloneDepth},
		Enabled: true,
	}
}

func decodeClone(v *validator, value any, p Path) *Clone {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	c := defaultClone()
	if depth, ok := r.lookup("depth"); ok {
		c.Depth, _ = decodeCloneDepth(v, depth, r.at("depth"))
	}
	c.Enabled = r.boolOr("enabled", true)
	c.LFS = r.boolOr("lfs", false)
	c.SkipSSLVerify = r.boolOr("skip-ssl-verify", false)
	r.closeStrict()
	return &c
}

func decodeCloneDepth(v *validator, value any, p Path) (CloneDepth, bool) {
	return decodeUnion(v, value, p,
		alternative[CloneDepth]{kind: kindNumber, decode: func(v *validator, value any, p Path) (CloneDepth, bool) {
			n, ok := v.integer(value, p, 1, noMax)
			return CloneDepth{Commits: n}, ok
		}},
		alternative[CloneDepth]{kind: kindString, decode: func(v *validator, value any, p Path) (CloneDepth, bool) {
			if _, ok := v.enum(value, p, []string{constants.CloneDepthFull}); !ok {
				return CloneDepth{}, false
			}
			return CloneDepth{Full: true}, true
		}},
	)
}

func (c *Clone) toWire() map[string]any {
	var depth any = c.Depth.Commits
	if c.Depth.Full {
		depth = constants.CloneDepthFull
	}
	return map[string]any{
		"depth":           depth,
		"enabled":         c.Enabled,
		"lfs":             c.LFS,
		"skip-ssl-verify": c.SkipSSLVerify,
	}
}
