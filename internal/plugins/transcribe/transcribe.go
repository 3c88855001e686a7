package transcribeplugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/planner"
	"github.com/mediaflow/mediaflow/internal/plugins/execrun"
)

// loadedModel is the resource guarded by the shared handle: the resolved
// model weights path. Native inference runtimes are not thread-safe, so
// invocations against the model are serialized by the handle.
type loadedModel struct {
	path string
}

type transcribePlugin struct {
	whisperPath string
	runner      execrun.Runner
	handle      *plugin.SharedHandle
}

// New creates the whisper.cpp-backed transcription plugin. modelPath may be
// a model file or a directory containing .bin/.gguf weights; resolution and
// any expensive warm-up happen at most once, on first use.
func New(modelPath string) plugin.Plugin {
	return NewWithRunner("whisper.cpp", modelPath, &execrun.ExecRunner{})
}

// NewWithRunner constructs the plugin with an injectable command runner.
func NewWithRunner(whisperPath, modelPath string, runner execrun.Runner) plugin.Plugin {
	return &transcribePlugin{
		whisperPath: whisperPath,
		runner:      runner,
		handle: plugin.NewSharedHandle(func() (any, error) {
			resolved, err := resolveModelPath(modelPath)
			if err != nil {
				return nil, err
			}
			return &loadedModel{path: resolved}, nil
		}),
	}
}

var _ plugin.Plugin = (*transcribePlugin)(nil)

func (p *transcribePlugin) Name() string { return "transcribe" }

func (p *transcribePlugin) Config() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "transcribe",
		Inputs:  []string{string(planner.KindAudio), "wav"},
		Outputs: []string{string(planner.KindTranscription)},
		Constraints: plugin.Constraints{
			MaxInputBytes: 2 << 30,
		},
		Performance: plugin.Performance{
			ThroughputMBPerSec: 4,
			MemoryPerFileMB:    1024,
		},
		Cache: plugin.CachePolicy{Enabled: true, Version: "1"},
	}
}

func (p *transcribePlugin) SupportsInput(tag string) bool {
	return plugin.ContainsTag(p.Config().Inputs, tag)
}

func (p *transcribePlugin) ProducesOutput(tag string) bool {
	return plugin.ContainsTag(p.Config().Outputs, tag)
}

// Execute transcribes the input audio. The model handle is shared across
// concurrent jobs; only the whisper invocation itself is serialized, so
// stages that don't touch the model keep running in parallel.
func (p *transcribePlugin) Execute(ctx context.Context, execCtx plugin.ExecContext, req plugin.Request) (*plugin.Response, error) {
	if req.InputPath == "" {
		return nil, plugin.NewInvalidInputError(p.Name(), fmt.Errorf("audio input path is required"))
	}
	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, plugin.NewInvalidInputError(p.Name(), fmt.Errorf("cannot access audio input: %w", err))
	}

	outDir := execCtx.WorkDir
	if outDir == "" {
		outDir = filepath.Dir(req.InputPath)
	}
	textBase := filepath.Join(outDir, transcriptBaseName(req.InputPath))
	textPath := textBase + ".txt"
	language := stringParam(req.Params, "language")

	err := p.handle.Acquire(func(value any) error {
		m := value.(*loadedModel)
		args := buildWhisperArgs(m.path, req.InputPath, textBase, language)
		if _, runErr := p.runner.Run(ctx, p.whisperPath, args...); runErr != nil {
			return plugin.NewExecutionFailedError(p.Name(), fmt.Errorf("whisper.cpp transcription failed: %w", runErr))
		}
		return nil
	})
	if err != nil {
		if _, ok := plugin.AsPluginError(err); ok {
			return nil, err
		}
		return nil, plugin.NewExecutionFailedError(p.Name(), err)
	}

	content, err := os.ReadFile(textPath)
	if err != nil {
		return nil, plugin.NewExecutionFailedError(p.Name(), fmt.Errorf("whisper.cpp completed but transcript is missing: %w", err))
	}

	return &plugin.Response{
		OutputType: req.OutputType,
		OutputPath: textPath,
		Payload: model.Transcript{
			Path:     textPath,
			Text:     strings.TrimSpace(string(content)),
			Language: language,
		},
	}, nil
}

// resolveModelPath returns the model file path from file or directory input.
func resolveModelPath(rawPath string) (string, error) {
	modelPath := strings.TrimSpace(rawPath)
	if modelPath == "" {
		return "", fmt.Errorf("model path is required")
	}

	info, err := os.Stat(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot access model path: %s", modelPath)
	}
	if !info.IsDir() {
		return modelPath, nil
	}

	entries, err := os.ReadDir(modelPath)
	if err != nil {
		return "", fmt.Errorf("cannot read model directory: %s", modelPath)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".bin" || ext == ".gguf" {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .bin or .gguf model files found in: %s", modelPath)
	}

	sort.Strings(names)
	return filepath.Join(modelPath, names[0]), nil
}

// buildWhisperArgs builds whisper.cpp args for txt transcript export.
func buildWhisperArgs(modelPath, audioPath, textBase, language string) []string {
	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-of", textBase,
		"-otxt",
	}
	if language != "" && !strings.EqualFold(language, "auto") {
		args = append(args, "-l", language)
	}
	return args
}

func transcriptBaseName(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		name = "transcript"
	}
	return name
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
