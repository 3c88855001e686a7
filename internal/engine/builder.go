package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mediaflow/mediaflow/internal/planner"
	"github.com/mediaflow/mediaflow/internal/registry"
)

// BuildGraph plans every requested output and expands the resolved pipelines
// into a task graph for one input file. Each pipeline stage becomes exactly
// one task; a stage depends on the most recent prior stage of its pipeline
// whose output type it consumes. Stages that appear in several requested
// outputs (same plugin, same conversion, same operation parameters) are
// deduplicated so parallel branches feed from one shared intermediate task;
// the same conversion requested with different parameters stays a separate
// task.
//
// Planning failures abort before any task is created.
func BuildGraph(reg *registry.Registry, jobID, inputPath string, specs ...planner.OutputSpec) (*TaskGraph, error) {
	graph := NewTaskGraph(jobID, inputPath)
	rootInput := planner.RootInputTag(inputPath)

	byStage := make(map[string]TaskID)
	seq := 0

	for _, spec := range specs {
		pipe, err := planner.Lookup(reg, spec, rootInput)
		if err != nil {
			return nil, err
		}

		ids := make([]TaskID, len(pipe))
		for i, stage := range pipe {
			key := stage.PluginName + "|" + stage.InputType + "|" + stage.OutputType + "|" + paramsKey(stage.Params)
			if existing, ok := byStage[key]; ok {
				ids[i] = existing
				continue
			}

			var deps []TaskID
			for j := i - 1; j >= 0; j-- {
				if pipe[j].OutputType == stage.InputType {
					deps = append(deps, ids[j])
					break
				}
			}

			seq++
			id := TaskID(fmt.Sprintf("t%d", seq))
			graph.addTask(&Task{
				ID:        id,
				Name:      fmt.Sprintf("%s:%s", stage.PluginName, stage.OutputType),
				Stage:     stage,
				DependsOn: deps,
			})
			byStage[key] = id
			ids[i] = id
		}

		if len(ids) > 0 {
			graph.addTerminal(ids[len(ids)-1])
		}
	}

	return graph, nil
}

// paramsKey renders operation parameters in sorted-key order so equal param
// sets produce equal keys regardless of map iteration order.
func paramsKey(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k, params[k])
	}
	return b.String()
}
