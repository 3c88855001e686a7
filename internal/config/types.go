package config

import (
	"github.com/mediaflow/mediaflow/internal/planner"
)

// Config is the parsed job configuration file.
type Config struct {
	Version  string          `yaml:"version" validate:"required"`
	Name     string          `yaml:"name" validate:"required,min=1,max=100"`
	Outputs  []OutputRequest `yaml:"outputs" validate:"required,min=1,dive"`
	Settings Settings        `yaml:"settings"`
}

// OutputRequest declares one requested output and the upstream outputs that
// must be produced first. It mirrors planner.OutputSpec in yaml form.
type OutputRequest struct {
	Operation string          `yaml:"operation" validate:"required,operation_kind"`
	Params    map[string]any  `yaml:"params"`
	Sources   []OutputRequest `yaml:"sources" validate:"dive"`
}

// Settings carries execution tuning for the job.
type Settings struct {
	MaxConcurrentFiles int    `yaml:"max_concurrent_files" validate:"omitempty,min=1,max=64"`
	WorkerPoolSize     int    `yaml:"worker_pool_size" validate:"omitempty,min=1,max=64"`
	TaskTimeoutSecs    int    `yaml:"task_timeout_seconds" validate:"omitempty,min=1"`
	LogLevel           string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	OutputDir          string `yaml:"output_dir"`
}

// OutputSpecs converts the yaml output requests into planner specs.
func (c *Config) OutputSpecs() []planner.OutputSpec {
	specs := make([]planner.OutputSpec, 0, len(c.Outputs))
	for _, req := range c.Outputs {
		specs = append(specs, req.toSpec())
	}
	return specs
}

func (r OutputRequest) toSpec() planner.OutputSpec {
	spec := planner.OutputSpec{
		Operation: planner.Operation{Kind: planner.Kind(r.Operation), Params: r.Params},
	}
	for _, src := range r.Sources {
		spec.Sources = append(spec.Sources, src.toSpec())
	}
	return spec
}
