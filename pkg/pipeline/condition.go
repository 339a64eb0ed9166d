package pipeline

// Condition gates a step on the files changed by the commit.
type Condition struct {
	Changesets Changesets
}

// Changesets holds the path globs a change must touch.
type Changesets struct {
	IncludePaths []string
}

func decodeCondition(v *validator, value any, p Path) *Condition {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	c := &Condition{}
	if raw, ok := r.require("changesets"); ok {
		if cr, ok := v.fields(raw, r.at("changesets")); ok {
			c.Changesets.IncludePaths = cr.requiredStrings("includePaths")
			cr.closeStrict()
		}
	}
	r.closeStrict()
	return c
}

func (c *Condition) toWire() map[string]any {
	return map[string]any{
		"changesets": map[string]any{
			"includePaths": stringsToWire(c.Changesets.IncludePaths),
		},
	}
}
