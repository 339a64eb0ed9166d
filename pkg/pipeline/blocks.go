package pipeline

import (
	"fmt"
	"strings"

	"github.com/nodix/pipeconf/pkg/logger"
)

var blocksLog = logger.New("pipeline:blocks")

// Block is one element of a pipeline sequence. The concrete types are
// StepBlock, StageBlock, ParallelBlock and VariablesBlock.
type Block interface {
	// Steps returns every step the block runs, in order.
	Steps() []*Step
	toWire() map[string]any
}

// StepBlock wraps a single step.
type StepBlock struct {
	Step *Step
}

// StageBlock runs its steps in sequence as one stage.
type StageBlock struct {
	Members []StepBlock
}

// ParallelBlock runs its steps concurrently.
type ParallelBlock struct {
	Members  []StepBlock
	FailFast *bool
}

// VariablesBlock declares the variables a custom pipeline prompts for. It is
// only accepted inside custom pipelines.
type VariablesBlock struct {
	Variables []VariableDecl
}

// VariableDecl is one variable of a custom pipeline.
type VariableDecl struct {
	Name          string
	Default       *string
	AllowedValues []string
}

// Pipeline is either a block sequence or an import of a pipeline defined in
// another repository. Exactly one of Blocks and Import is set.
type Pipeline struct {
	Blocks []Block
	Import *string
}

func (b StepBlock) Steps() []*Step { return []*Step{b.Step} }

func (b StageBlock) Steps() []*Step { return memberSteps(b.Members) }

func (b ParallelBlock) Steps() []*Step { return memberSteps(b.Members) }

func (b VariablesBlock) Steps() []*Step { return nil }

func memberSteps(members []StepBlock) []*Step {
	out := make([]*Step, 0, len(members))
	for _, m := range members {
		out = append(out, m.Step)
	}
	return out
}

const (
	blockStep      = "step"
	blockStage     = "stage"
	blockParallel  = "parallel"
	blockVariables = "variables"
)

func blockKeys(allowVariables bool) []string {
	keys := []string{blockStep, blockStage, blockParallel}
	if allowVariables {
		keys = append(keys, blockVariables)
	}
	return keys
}

// decodeBlocks validates a block sequence, keeping input order.
func decodeBlocks(v *validator, value any, p Path, allowVariables bool) []Block {
	items, ok := v.list(value, p)
	if !ok {
		return nil
	}
	out := make([]Block, 0, len(items))
	for i, item := range items {
		if v.halted() {
			break
		}
		if b := decodeBlock(v, item, p.Index(i), allowVariables); b != nil {
			out = append(out, b)
		}
	}
	blocksLog.Printf("Decoded %d of %d blocks at %s", len(out), len(items), p)
	return out
}

// decodeBlock discriminates on the single recognized key of the wrapper
// object. Zero or several recognized keys are an UnrecognizedShape.
func decodeBlock(v *validator, value any, p Path, allowVariables bool) Block {
	r, ok := v.fields(value, p)
	if !ok {
		return nil
	}
	keys := blockKeys(allowVariables)
	var found []string
	for _, k := range keys {
		if r.has(k) {
			found = append(found, k)
		}
	}
	if len(found) != 1 {
		detail := "no recognized key"
		if len(found) > 1 {
			detail = fmt.Sprintf("found %s", strings.Join(found, " and "))
		}
		v.report(UnrecognizedShape, p, "unrecognized pipeline block shape: expected exactly one of %s, %s", strings.Join(keys, ", "), detail)
		return nil
	}

	kind := found[0]
	raw, _ := r.lookup(kind)
	at := r.at(kind)
	var block Block
	switch kind {
	case blockStep:
		if s := decodeStep(v, raw, at); s != nil {
			block = StepBlock{Step: s}
		}
	case blockStage:
		if members, ok := decodeStepBlocks(v, raw, at); ok {
			block = StageBlock{Members: members}
		}
	case blockParallel:
		if pr, ok := v.fields(raw, at); ok {
			pb := ParallelBlock{}
			if steps, ok := pr.require("steps"); ok {
				pb.Members, _ = decodeStepBlocks(v, steps, pr.at("steps"))
			}
			pb.FailFast = pr.optionalBool("fail-fast")
			pr.closeStrict()
			block = pb
		}
	case blockVariables:
		if decls, ok := decodeVariableDecls(v, raw, at); ok {
			block = VariablesBlock{Variables: decls}
		}
	}
	r.closeStrict()
	return block
}

// decodeStepBlocks validates a list whose members must all be step wrappers.
func decodeStepBlocks(v *validator, value any, p Path) ([]StepBlock, bool) {
	items, ok := v.list(value, p)
	if !ok {
		return nil, false
	}
	out := make([]StepBlock, 0, len(items))
	for i, item := range items {
		if v.halted() {
			break
		}
		ip := p.Index(i)
		r, ok := v.fields(item, ip)
		if !ok {
			continue
		}
		if raw, ok := r.require(blockStep); ok {
			if s := decodeStep(v, raw, r.at(blockStep)); s != nil {
				out = append(out, StepBlock{Step: s})
			}
		}
		r.closeStrict()
	}
	return out, true
}

func decodeVariableDecls(v *validator, value any, p Path) ([]VariableDecl, bool) {
	items, ok := v.list(value, p)
	if !ok {
		return nil, false
	}
	out := make([]VariableDecl, 0, len(items))
	for i, item := range items {
		r, ok := v.fields(item, p.Index(i))
		if !ok {
			continue
		}
		d := VariableDecl{}
		d.Name = r.requiredString("name")
		d.Default = r.optionalString("default")
		d.AllowedValues = r.optionalStrings("allowed-values")
		r.closeStrict()
		out = append(out, d)
	}
	return out, true
}

// decodePipeline accepts a block sequence or an import reference.
func decodePipeline(v *validator, value any, p Path) (*Pipeline, bool) {
	pl, ok := decodeUnion(v, value, p,
		alternative[Pipeline]{kind: kindArray, decode: func(v *validator, value any, p Path) (Pipeline, bool) {
			mark := v.mark()
			blocks := decodeBlocks(v, value, p, false)
			return Pipeline{Blocks: blocks}, v.clean(mark)
		}},
		alternative[Pipeline]{kind: kindObject, decode: decodeImport},
	)
	if !ok {
		return nil, false
	}
	return &pl, true
}

func decodeImport(v *validator, value any, p Path) (Pipeline, bool) {
	r, ok := v.fields(value, p)
	if !ok {
		return Pipeline{}, false
	}
	mark := v.mark()
	ref := r.requiredString("import")
	r.closeStrict()
	return Pipeline{Import: &ref}, v.clean(mark)
}

// Steps returns every step of the pipeline in execution order.
func (pl *Pipeline) Steps() []*Step {
	var out []*Step
	for _, b := range pl.Blocks {
		out = append(out, b.Steps()...)
	}
	return out
}

func (b StepBlock) toWire() map[string]any {
	return map[string]any{blockStep: b.Step.toWire()}
}

func (b StageBlock) toWire() map[string]any {
	return map[string]any{blockStage: stepBlocksToWire(b.Members)}
}

func (b ParallelBlock) toWire() map[string]any {
	inner := map[string]any{"steps": stepBlocksToWire(b.Members)}
	if b.FailFast != nil {
		inner["fail-fast"] = *b.FailFast
	}
	return map[string]any{blockParallel: inner}
}

func (b VariablesBlock) toWire() map[string]any {
	decls := make([]any, len(b.Variables))
	for i, d := range b.Variables {
		m := map[string]any{"name": d.Name}
		if d.Default != nil {
			m["default"] = *d.Default
		}
		if d.AllowedValues != nil {
			m["allowed-values"] = stringsToWire(d.AllowedValues)
		}
		decls[i] = m
	}
	return map[string]any{blockVariables: decls}
}

func stepBlocksToWire(members []StepBlock) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m.toWire()
	}
	return out
}

func blocksToWire(blocks []Block) []any {
	out := make([]any, len(blocks))
	for i, b := range blocks {
		out[i] = b.toWire()
	}
	return out
}

func (pl *Pipeline) toWire() any {
	if pl.Import != nil {
		return map[string]any{"import": *pl.Import}
	}
	return blocksToWire(pl.Blocks)
}
