package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mediaflow/mediaflow/internal/config"
	"github.com/mediaflow/mediaflow/internal/engine"
	"github.com/mediaflow/mediaflow/internal/logger"
	"github.com/mediaflow/mediaflow/internal/planner"
	"github.com/mediaflow/mediaflow/internal/tui"
)

type runOptions struct {
	ConfigPath string
	InputPath  string
	Verbose    bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run <input-file>",
		Short: "Plan and execute an extraction job for one input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputPath = args[0]
			opts.Verbose = root.verbose
			return runJob(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to job configuration file")

	return cmd
}

func runJob(opts runOptions) error {
	var specs []planner.OutputSpec
	jobName := "extraction"
	settings := config.Settings{}

	if opts.ConfigPath != "" {
		cfg, err := config.ParseConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		specs = cfg.OutputSpecs()
		jobName = cfg.Name
		settings = cfg.Settings
	} else {
		// Default job: extract the audio track.
		specs = []planner.OutputSpec{{Operation: planner.Operation{Kind: planner.KindAudio}}}
	}

	log, err := logger.New(logger.Options{Level: logLevel(settings, opts.Verbose), HumanReadable: true})
	if err != nil {
		return err
	}

	jobID := uuid.NewString()
	graph, err := engine.BuildGraph(appRegistry, jobID, opts.InputPath, specs...)
	if err != nil {
		return err
	}
	appJobs.Add(graph)

	exec := engine.NewExecutor(log).WithVerbose(opts.Verbose)
	if settings.WorkerPoolSize > 0 {
		exec = exec.WithWorkerPoolSize(settings.WorkerPoolSize)
	}
	if settings.TaskTimeoutSecs > 0 {
		exec = exec.WithTaskTimeout(time.Duration(settings.TaskTimeoutSecs) * time.Second)
	}
	if settings.OutputDir != "" {
		exec = exec.WithWorkDir(settings.OutputDir)
	}

	execErr := exec.Execute(context.Background(), graph)

	// Print partial progress even when the job failed.
	fmt.Fprintln(os.Stdout, tui.RenderTaskReport(jobName, graph.Reports(), graph.Status()))

	return execErr
}

// logLevel picks the job's log level: --verbose wins, then the config
// setting, then info.
func logLevel(settings config.Settings, verbose bool) string {
	if verbose {
		return "debug"
	}
	if settings.LogLevel != "" {
		return settings.LogLevel
	}
	return "info"
}
