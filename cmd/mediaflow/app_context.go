package main

import (
	"os"

	"github.com/mediaflow/mediaflow/internal/engine"
	"github.com/mediaflow/mediaflow/internal/logger"
	audioplugin "github.com/mediaflow/mediaflow/internal/plugins/audio"
	gitsourceplugin "github.com/mediaflow/mediaflow/internal/plugins/gitsource"
	probeplugin "github.com/mediaflow/mediaflow/internal/plugins/probe"
	transcribeplugin "github.com/mediaflow/mediaflow/internal/plugins/transcribe"
	"github.com/mediaflow/mediaflow/internal/registry"
)

var (
	appRegistry *registry.Registry
	appLogger   *logger.Logger
	appJobs     = engine.NewJobTable()
)

func setAppContext(reg *registry.Registry, log *logger.Logger) {
	appRegistry = reg
	appLogger = log
}

// registerBuiltins wires the built-in plugins. Registration order matters:
// the planner breaks candidate ties in favor of the first registered plugin.
func registerBuiltins(reg *registry.Registry) error {
	modelPath := os.Getenv("MEDIAFLOW_MODEL")
	if modelPath == "" {
		modelPath = "models"
	}

	if err := reg.Register(probeplugin.New()); err != nil {
		return err
	}
	if err := reg.Register(gitsourceplugin.New()); err != nil {
		return err
	}
	if err := reg.Register(audioplugin.New()); err != nil {
		return err
	}
	return reg.Register(transcribeplugin.New(modelPath))
}
