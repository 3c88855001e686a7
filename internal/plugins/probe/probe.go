package probeplugin

import (
	"context"
	"fmt"
	"os"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/planner"
)

// containerTags are the raw file types the probe accepts as pipeline roots.
var containerTags = []string{"mp4", "mov", "mkv", "avi", "webm", "mp3", "wav", "m4a", "flac", "ogg"}

type probePlugin struct {
	maxInputBytes int64
}

// New creates the data-source plugin anchoring pipelines to a raw file.
func New() plugin.Plugin {
	return &probePlugin{maxInputBytes: 8 << 30}
}

var _ plugin.Plugin = (*probePlugin)(nil)

func (p *probePlugin) Name() string { return "probe" }

func (p *probePlugin) Config() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "probe",
		Inputs:  containerTags,
		Outputs: []string{string(planner.KindDataSource)},
		Constraints: plugin.Constraints{
			MaxInputBytes: p.maxInputBytes,
		},
		Performance: plugin.Performance{
			ThroughputMBPerSec: 4096,
			MemoryPerFileMB:    1,
			Streaming:          true,
		},
	}
}

func (p *probePlugin) SupportsInput(tag string) bool {
	return plugin.ContainsTag(p.Config().Inputs, tag)
}

func (p *probePlugin) ProducesOutput(tag string) bool {
	return plugin.ContainsTag(p.Config().Outputs, tag)
}

// Execute stats the raw file and republishes its path for downstream stages.
func (p *probePlugin) Execute(ctx context.Context, _ plugin.ExecContext, req plugin.Request) (*plugin.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.InputPath == "" {
		return nil, plugin.NewInvalidInputError("probe", fmt.Errorf("input path is required"))
	}

	info, err := os.Stat(req.InputPath)
	if err != nil {
		return nil, plugin.NewInvalidInputError("probe", fmt.Errorf("cannot access input file: %w", err))
	}
	if info.IsDir() {
		return nil, plugin.NewInvalidInputError("probe", fmt.Errorf("input %s is a directory", req.InputPath))
	}
	if p.maxInputBytes > 0 && info.Size() > p.maxInputBytes {
		return nil, plugin.NewInvalidInputError("probe", fmt.Errorf("input exceeds %d byte limit", p.maxInputBytes))
	}

	return &plugin.Response{
		OutputType: req.OutputType,
		OutputPath: req.InputPath,
		Payload: model.ProbeInfo{
			Path:      req.InputPath,
			SizeBytes: info.Size(),
			Container: req.InputType,
		},
	}, nil
}
