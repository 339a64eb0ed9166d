package pipeline

import "github.com/nodix/pipeconf/pkg/constants"

// Stage is the named form of a stage: a group of steps sharing a deployment
// environment, trigger and changeset condition.
//
// Pipeline sequences only accept the bare list form (StageBlock). Stage is
// provided for callers that describe stages with metadata, and is decoded
// on its own through DecodeStage.
type Stage struct {
	Name       *string
	Members    []StepBlock
	Deployment *string
	Trigger    string
	Condition  *Condition
}

// DecodeStage validates a named stage object. It returns the stage or a
// *ValidationError, never both.
func DecodeStage(raw any, opts ValidateOptions) (*Stage, error) {
	v := newValidator(opts)
	s := decodeStage(v, raw, nil)
	if err := v.errs.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeStage(v *validator, value any, p Path) *Stage {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	s := &Stage{}
	s.Name = r.optionalString("name")
	if raw, ok := r.require("steps"); ok {
		s.Members, _ = decodeStepBlocks(v, raw, r.at("steps"))
	}
	s.Deployment = r.optionalString("deployment")
	s.Trigger = r.optionalEnum("trigger", constants.Triggers)
	if raw, ok := r.lookup("condition"); ok {
		s.Condition = decodeCondition(v, raw, r.at("condition"))
	}
	r.closeStrict()
	return s
}

// Steps returns the member steps in order.
func (s *Stage) Steps() []*Step {
	return memberSteps(s.Members)
}

// ToMap returns the wire form of the stage.
func (s *Stage) ToMap() map[string]any {
	m := map[string]any{"steps": stepBlocksToWire(s.Members)}
	if s.Name != nil {
		m["name"] = *s.Name
	}
	if s.Deployment != nil {
		m["deployment"] = *s.Deployment
	}
	if s.Trigger != "" {
		m["trigger"] = s.Trigger
	}
	if s.Condition != nil {
		m["condition"] = s.Condition.toWire()
	}
	return m
}
