package execrun

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	t.Parallel()

	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err 1>&2")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunnerExitCode(t *testing.T) {
	t.Parallel()

	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	t.Parallel()

	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), "definitely-not-a-binary-xyz")
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunnerCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &ExecRunner{}
	_, err := runner.Run(ctx, "sh", "-c", "sleep 5")
	require.Error(t, err)
}

func TestLog(t *testing.T) {
	t.Parallel()

	log := Log("ffmpeg", []string{"-i", "a.mp4"}, Result{Stdout: "o", Stderr: "e", ExitCode: 1})
	assert.Equal(t, "ffmpeg", log.Command)
	assert.Equal(t, []string{"-i", "a.mp4"}, log.Args)
	assert.Equal(t, 1, log.ExitCode)
	assert.Equal(t, "o", log.Stdout)
	assert.Equal(t, "e", log.Stderr)
}
