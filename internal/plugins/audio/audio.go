package audioplugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/planner"
	"github.com/mediaflow/mediaflow/internal/plugins/execrun"
)

const (
	defaultSampleRate = 16000
	defaultChannels   = 1
)

// videoTags are raw containers the extractor accepts directly, in addition
// to the DataSource intermediate emitted by probe plugins.
var videoTags = []string{"mp4", "mov", "mkv", "avi", "webm", "mp3", "m4a", "flac", "ogg"}

type audioPlugin struct {
	ffmpegPath string
	runner     execrun.Runner
}

// New creates the ffmpeg-backed audio extraction plugin.
func New() plugin.Plugin {
	return &audioPlugin{ffmpegPath: "ffmpeg", runner: &execrun.ExecRunner{}}
}

// NewWithRunner constructs the plugin with an injectable command runner.
func NewWithRunner(ffmpegPath string, runner execrun.Runner) plugin.Plugin {
	return &audioPlugin{ffmpegPath: ffmpegPath, runner: runner}
}

var _ plugin.Plugin = (*audioPlugin)(nil)

func (p *audioPlugin) Name() string { return "audio-extract" }

func (p *audioPlugin) Config() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "audio-extract",
		Inputs:  append([]string{string(planner.KindDataSource)}, videoTags...),
		Outputs: []string{string(planner.KindAudio)},
		Performance: plugin.Performance{
			ThroughputMBPerSec: 120,
			MemoryPerFileMB:    64,
			Streaming:          true,
		},
		Cache: plugin.CachePolicy{Enabled: true, Version: "1"},
	}
}

func (p *audioPlugin) SupportsInput(tag string) bool {
	return plugin.ContainsTag(p.Config().Inputs, tag)
}

func (p *audioPlugin) ProducesOutput(tag string) bool {
	return plugin.ContainsTag(p.Config().Outputs, tag)
}

// Execute converts the input's audio track to mono PCM WAV via ffmpeg.
func (p *audioPlugin) Execute(ctx context.Context, execCtx plugin.ExecContext, req plugin.Request) (*plugin.Response, error) {
	if req.InputPath == "" {
		return nil, plugin.NewInvalidInputError(p.Name(), fmt.Errorf("input path is required"))
	}
	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, plugin.NewInvalidInputError(p.Name(), fmt.Errorf("cannot access input media: %w", err))
	}

	sampleRate := intParam(req.Params, "sample_rate", defaultSampleRate)
	channels := intParam(req.Params, "channels", defaultChannels)

	outDir := execCtx.WorkDir
	if outDir == "" {
		dir, err := os.MkdirTemp("", "mediaflow-audio-*")
		if err != nil {
			return nil, plugin.NewExecutionFailedError(p.Name(), fmt.Errorf("failed to create temporary workspace: %w", err))
		}
		outDir = dir
	}

	outPath := filepath.Join(outDir, wavFileName(req.InputPath, sampleRate))
	args := buildFFmpegArgs(req.InputPath, outPath, sampleRate, channels)

	res, runErr := p.runner.Run(ctx, p.ffmpegPath, args...)
	if runErr != nil {
		log := execrun.Log(p.ffmpegPath, args, res)
		return nil, plugin.NewExecutionFailedError(p.Name(), fmt.Errorf("ffmpeg audio conversion failed (exit=%d): %w", log.ExitCode, runErr))
	}

	if _, err := os.Stat(outPath); err != nil {
		return nil, plugin.NewExecutionFailedError(p.Name(), fmt.Errorf("ffmpeg completed but output file is missing: %w", err))
	}

	return &plugin.Response{
		OutputType: req.OutputType,
		OutputPath: outPath,
		Payload: model.AudioArtifact{
			Path:         outPath,
			SampleRateHz: sampleRate,
			Channels:     channels,
		},
	}, nil
}

// buildFFmpegArgs builds conversion args for PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string, sampleRate, channels int) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		outPath,
	}
}

func wavFileName(inputPath string, sampleRate int) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		name = "audio"
	}
	return fmt.Sprintf("%s-%dhz.wav", name, sampleRate)
}

func intParam(params map[string]any, key string, fallback int) int {
	if params == nil {
		return fallback
	}
	switch v := params[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return fallback
}
