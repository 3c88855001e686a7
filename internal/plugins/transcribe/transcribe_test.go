package transcribeplugin

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
	"github.com/mediaflow/mediaflow/internal/plugins/execrun"
)

// fakeWhisper emulates whisper.cpp: it records args and writes the transcript
// next to the requested output base.
type fakeWhisper struct {
	runs int32
	args []string
	text string
	err  error
}

func (f *fakeWhisper) Run(ctx context.Context, name string, args ...string) (execrun.Result, error) {
	atomic.AddInt32(&f.runs, 1)
	f.args = args
	if f.err != nil {
		return execrun.Result{ExitCode: 1}, f.err
	}

	var base string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-of" {
			base = args[i+1]
		}
	}
	if err := os.WriteFile(base+".txt", []byte(f.text), 0o644); err != nil {
		return execrun.Result{}, err
	}
	return execrun.Result{}, nil
}

func writeModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-base.en.bin"), []byte("weights"), 0o644))
	return dir
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting-16000hz.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
	return path
}

func TestTranscribeDescriptor(t *testing.T) {
	t.Parallel()

	p := New("models")
	require.NoError(t, p.Config().Validate())
	assert.Equal(t, "transcribe", p.Name())
	assert.True(t, p.SupportsInput("Audio"))
	assert.True(t, p.SupportsInput("wav"))
	assert.False(t, p.SupportsInput("mp4"))
	assert.True(t, p.ProducesOutput("Transcription"))
}

func TestTranscribeExecute(t *testing.T) {
	t.Parallel()

	modelDir := writeModelDir(t)
	audio := writeAudio(t)
	runner := &fakeWhisper{text: " hello world \n"}
	p := NewWithRunner("whisper.cpp", modelDir, runner)

	resp, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath:  audio,
		OutputType: "Transcription",
		Params:     map[string]any{"language": "en"},
	})
	require.NoError(t, err)

	transcript, ok := resp.Payload.(model.Transcript)
	require.True(t, ok)
	assert.Equal(t, "hello world", transcript.Text)
	assert.Equal(t, "en", transcript.Language)
	assert.Equal(t, resp.OutputPath, transcript.Path)

	assert.Contains(t, runner.args, "-otxt")
	assert.Contains(t, runner.args, filepath.Join(modelDir, "ggml-base.en.bin"))
	assert.Contains(t, runner.args, "-l")
}

func TestTranscribeExecuteAutoLanguageOmitsFlag(t *testing.T) {
	t.Parallel()

	runner := &fakeWhisper{text: "hi"}
	p := NewWithRunner("whisper.cpp", writeModelDir(t), runner)

	_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath:  writeAudio(t),
		OutputType: "Transcription",
		Params:     map[string]any{"language": "auto"},
	})
	require.NoError(t, err)
	assert.NotContains(t, runner.args, "-l")
}

func TestTranscribeModelResolvedOnce(t *testing.T) {
	t.Parallel()

	modelDir := writeModelDir(t)
	runner := &fakeWhisper{text: "hi"}
	p := NewWithRunner("whisper.cpp", modelDir, runner)

	for i := 0; i < 3; i++ {
		_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
			InputPath:  writeAudio(t),
			OutputType: "Transcription",
		})
		require.NoError(t, err)
	}

	// Deleting the weights after the first call must not matter: the handle
	// resolved the model once and keeps it.
	require.NoError(t, os.Remove(filepath.Join(modelDir, "ggml-base.en.bin")))
	_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath:  writeAudio(t),
		OutputType: "Transcription",
	})
	require.NoError(t, err)
}

func TestTranscribeMissingModelIsSticky(t *testing.T) {
	t.Parallel()

	p := NewWithRunner("whisper.cpp", filepath.Join(t.TempDir(), "absent"), &fakeWhisper{})

	for i := 0; i < 2; i++ {
		_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
			InputPath:  writeAudio(t),
			OutputType: "Transcription",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, &plugin.ExecutionFailedError{})
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	t.Parallel()

	p := NewWithRunner("whisper.cpp", writeModelDir(t), &fakeWhisper{})
	_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath: filepath.Join(t.TempDir(), "absent.wav"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &plugin.InvalidInputError{})
}

func TestResolveModelPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z-large.gguf"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-base.bin"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), nil, 0o644))

	resolved, err := resolveModelPath(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a-base.bin"), resolved)

	direct := filepath.Join(dir, "a-base.bin")
	resolved, err = resolveModelPath(direct)
	require.NoError(t, err)
	assert.Equal(t, direct, resolved)

	_, err = resolveModelPath("")
	require.Error(t, err)

	empty := t.TempDir()
	_, err = resolveModelPath(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .bin or .gguf")
}

func TestBuildWhisperArgs(t *testing.T) {
	t.Parallel()

	args := buildWhisperArgs("/m/base.bin", "/a/in.wav", "/a/in", "")
	assert.Equal(t, []string{"-m", "/m/base.bin", "-f", "/a/in.wav", "-of", "/a/in", "-otxt"}, args)

	args = buildWhisperArgs("/m/base.bin", "/a/in.wav", "/a/in", "de")
	assert.Equal(t, "de", args[len(args)-1])
}
