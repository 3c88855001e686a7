package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mediaflow/mediaflow/internal/bulk"
	"github.com/mediaflow/mediaflow/internal/config"
	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/planner"
	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/tui"
)

type bulkOptions struct {
	ConfigPath    string
	MaxConcurrent int
	SampleRate    float64
	OutputDir     string
	Watch         bool
	Verbose       bool
}

func newBulkCmd(root *rootFlags) *cobra.Command {
	opts := bulkOptions{}

	cmd := &cobra.Command{
		Use:   "bulk <files...>",
		Short: "Run audio extraction over many files with bounded concurrency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			if opts.ConfigPath != "" {
				cfg, err := config.ParseConfig(opts.ConfigPath)
				if err != nil {
					return err
				}
				applyBulkConfig(&opts, cfg, cmd.Flags().Changed("max-concurrent"))
			}
			return runBulk(opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to job configuration file")
	cmd.Flags().IntVarP(&opts.MaxConcurrent, "max-concurrent", "j", 1, "Maximum files in flight at once")
	cmd.Flags().Float64Var(&opts.SampleRate, "sample-rate", 16000, "Target audio sample rate in Hz")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "Directory for extracted artifacts")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Show live progress while the run executes")

	return cmd
}

// applyBulkConfig merges config-file settings into the flag values; an
// explicitly set flag wins over the file.
func applyBulkConfig(opts *bulkOptions, cfg *config.Config, concurrencyFlagSet bool) {
	if !concurrencyFlagSet && cfg.Settings.MaxConcurrentFiles > 0 {
		opts.MaxConcurrent = cfg.Settings.MaxConcurrentFiles
	}
	if opts.OutputDir == "" {
		opts.OutputDir = cfg.Settings.OutputDir
	}
}

func runBulk(opts bulkOptions, files []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := func(ctx context.Context, path string, param float64, cfg *bulk.Config) (any, error) {
		p, err := appRegistry.Get("audio-extract")
		if err != nil {
			return nil, err
		}

		execCtx := plugin.ExecContext{Mode: plugin.ModeFastPath, Verbose: opts.Verbose}
		if cfg != nil {
			execCtx.WorkDir = cfg.OutputDir
			execCtx.Verbose = execCtx.Verbose || cfg.Verbose
		}

		resp, err := p.Execute(ctx, execCtx, plugin.Request{
			InputPath:  path,
			InputType:  planner.RootInputTag(path),
			OutputType: string(planner.KindAudio),
			Params:     map[string]any{"sample_rate": param},
		})
		if err != nil {
			return nil, err
		}
		return resp.Payload, nil
	}

	executor := bulk.New(appLogger, runner).WithMaxConcurrentFiles(opts.MaxConcurrent)
	results := executor.ExecuteFastPath(ctx, files, opts.SampleRate, &bulk.Config{OutputDir: opts.OutputDir, Verbose: opts.Verbose})

	interactive := opts.Watch && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		return watchBulk(files, results, cancel)
	}

	failed := 0
	for res := range results {
		icon := "ok"
		detail := ""
		if res.Failed() {
			icon = "err"
			detail = ": " + res.Err
			failed++
		}
		fmt.Fprintf(os.Stdout, "[%s] %s (%s)%s\n", icon, res.InputPath, res.Duration.Truncate(10*time.Millisecond), detail)
	}

	fmt.Fprintf(os.Stdout, "%d files processed, %d failed\n", len(files), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func watchBulk(files []string, results <-chan model.FileResult, cancel context.CancelFunc) error {
	state := tui.NewBulkModel("bulk extraction", len(files), results, cancel)
	program := tea.NewProgram(state)

	final, err := program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(tui.Model); ok && m.Failed() > 0 {
		return fmt.Errorf("%d of %d files failed", m.Failed(), len(files))
	}
	return nil
}
