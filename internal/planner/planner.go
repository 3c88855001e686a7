package planner

import (
	"strings"

	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/registry"
	mferrors "github.com/mediaflow/mediaflow/pkg/errors"
)

// Stage is one resolved plugin invocation in a pipeline.
type Stage struct {
	Plugin     plugin.Plugin
	PluginName string
	InputType  string
	OutputType string
	Params     map[string]any
}

// Pipeline is the planner's resolved plan: an ordered sequence of stages
// where every stage's output type feeds the next stage's input type.
type Pipeline []Stage

// String renders a human readable summary of the pipeline.
func (p Pipeline) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, stage := range p {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(stage.PluginName)
		b.WriteString("(")
		b.WriteString(stage.InputType)
		b.WriteString("→")
		b.WriteString(stage.OutputType)
		b.WriteString(")")
	}
	return b.String()
}

// Lookup resolves an OutputSpec into a Pipeline by backward-chaining from the
// desired output type to an available input. rootInput is the intrinsic input
// type of the job's raw file, used when a spec has no upstream sources.
//
// Lookup is a pure read over the registry: no I/O, no plugin execution.
// Repeated calls against an unchanged registry select identical plugins; ties
// between candidates break in registration order, first registered wins.
func Lookup(reg *registry.Registry, spec OutputSpec, rootInput string) (Pipeline, error) {
	var stages Pipeline

	for _, src := range spec.Sources {
		sub, err := Lookup(reg, src, rootInput)
		if err != nil {
			return nil, err
		}
		stages = append(stages, sub...)
	}

	var current string
	switch {
	case len(stages) > 0:
		current = stages[len(stages)-1].OutputType
	case rootInput != "":
		current = rootInput
	default:
		return nil, mferrors.NewNoSourceError(string(spec.Operation.Kind))
	}

	desired := spec.Operation.OutputTag()
	candidates := reg.CandidatesFor(desired)
	if len(candidates) == 0 {
		return nil, mferrors.NewNoPluginForOutputError(desired)
	}

	var selected plugin.Plugin
	for _, candidate := range candidates {
		if candidate.SupportsInput(current) {
			selected = candidate
			break
		}
	}
	if selected == nil {
		return nil, mferrors.NewNoPluginForConversionError(current, desired)
	}

	stages = append(stages, Stage{
		Plugin:     selected,
		PluginName: selected.Name(),
		InputType:  current,
		OutputType: desired,
		Params:     spec.Operation.Params,
	})
	return stages, nil
}
