package pipeline

import (
	"github.com/nodix/pipeconf/pkg/constants"
	"github.com/nodix/pipeconf/pkg/logger"
)

var stepLog = logger.New("pipeline:step")

// Step is one unit of work: a script run in a container.
//
// Optional scalars are pointers or empty strings so that an absent field
// stays absent on the way back out. Services, Caches and Deployment are soft
// references into definitions; they are only resolved when reference checks
// are enabled.
type Step struct {
	Name        string
	MaxTime     int
	Size        string
	OIDC        *bool
	Trigger     string
	FailFast    *bool
	OnFail      *OnFail
	Services    []string
	RunsOn      []string
	Caches      []string
	Deployment  *string
	Script      []ScriptEntry
	AfterScript []ScriptEntry
	Image       *Image
	Runtime     *Runtime
	Artifacts   *Artifacts
	Condition   *Condition
	Clone       *Clone
}

// OnFail sets what happens to the pipeline when the step fails.
type OnFail struct {
	Strategy string
}

func decodeStep(v *validator, value any, p Path) *Step {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	s := &Step{}
	s.Name = r.requiredString("name")
	s.MaxTime = r.intOr("max-time", constants.MinMaxTime, constants.MaxMaxTime, constants.DefaultMaxTime)
	s.Size = r.optionalEnum("size", constants.StepSizes)
	s.OIDC = r.optionalBool("oidc")
	s.Trigger = r.optionalEnum("trigger", constants.Triggers)
	s.FailFast = r.optionalBool("fail-fast")
	if raw, ok := r.lookup("on-fail"); ok {
		s.OnFail = decodeOnFail(v, raw, r.at("on-fail"))
	}
	s.Services = r.optionalStrings("services")
	s.RunsOn = r.optionalStrings("runs-on")
	s.Caches = r.optionalStrings("caches")
	s.Deployment = r.optionalString("deployment")
	if raw, ok := r.require("script"); ok {
		s.Script = decodeScript(v, raw, r.at("script"), true)
	}
	if raw, ok := r.lookup("after-script"); ok {
		s.AfterScript = decodeScript(v, raw, r.at("after-script"), false)
	}
	if raw, ok := r.lookup("image"); ok {
		s.Image, _ = decodeImage(v, raw, r.at("image"))
	}
	if raw, ok := r.lookup("runtime"); ok {
		s.Runtime = decodeRuntime(v, raw, r.at("runtime"))
	}
	if raw, ok := r.lookup("artifacts"); ok {
		s.Artifacts = decodeArtifacts(v, raw, r.at("artifacts"))
	}
	if raw, ok := r.lookup("condition"); ok {
		s.Condition = decodeCondition(v, raw, r.at("condition"))
	}
	if raw, ok := r.lookup("clone"); ok {
		s.Clone = decodeClone(v, raw, r.at("clone"))
	}
	r.closeStrict()
	v.steps = append(v.steps, stepSite{path: p, step: s})
	stepLog.Printf("Decoded step %q at %s: %d script entries", s.Name, p, len(s.Script))
	return s
}

func decodeOnFail(v *validator, value any, p Path) *OnFail {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	o := &OnFail{}
	if raw, ok := r.require("strategy"); ok {
		o.Strategy, _ = v.enum(raw, r.at("strategy"), constants.OnFailStrategies)
	}
	r.closeStrict()
	return o
}

func (s *Step) toWire() map[string]any {
	m := map[string]any{
		"name":     s.Name,
		"max-time": s.MaxTime,
		"script":   scriptToWire(s.Script),
	}
	if s.Size != "" {
		m["size"] = s.Size
	}
	if s.OIDC != nil {
		m["oidc"] = *s.OIDC
	}
	if s.Trigger != "" {
		m["trigger"] = s.Trigger
	}
	if s.FailFast != nil {
		m["fail-fast"] = *s.FailFast
	}
	if s.OnFail != nil {
		m["on-fail"] = map[string]any{"strategy": s.OnFail.Strategy}
	}
	if s.Services != nil {
		m["services"] = stringsToWire(s.Services)
	}
	if s.RunsOn != nil {
		m["runs-on"] = stringsToWire(s.RunsOn)
	}
	if s.Caches != nil {
		m["caches"] = stringsToWire(s.Caches)
	}
	if s.Deployment != nil {
		m["deployment"] = *s.Deployment
	}
	if s.AfterScript != nil {
		m["after-script"] = scriptToWire(s.AfterScript)
	}
	if s.Image != nil {
		m["image"] = s.Image.toWire()
	}
	if s.Runtime != nil {
		m["runtime"] = s.Runtime.toWire()
	}
	if s.Artifacts != nil {
		m["artifacts"] = s.Artifacts.toWire()
	}
	if s.Condition != nil {
		m["condition"] = s.Condition.toWire()
	}
	if s.Clone != nil {
		m["clone"] = s.Clone.toWire()
	}
	return m
}
