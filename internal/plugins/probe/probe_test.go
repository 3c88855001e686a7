package probeplugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
)

func TestProbeDescriptor(t *testing.T) {
	t.Parallel()

	p := New()
	require.NoError(t, p.Config().Validate())
	assert.Equal(t, "probe", p.Name())
	assert.True(t, p.SupportsInput("mp4"))
	assert.True(t, p.SupportsInput("wav"))
	assert.False(t, p.SupportsInput("pdf"))
	assert.True(t, p.ProducesOutput("DataSource"))
}

func TestProbeExecute(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "talk.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really an mp4"), 0o644))

	resp, err := New().Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath:  path,
		InputType:  "mp4",
		OutputType: "DataSource",
	})
	require.NoError(t, err)

	assert.Equal(t, path, resp.OutputPath)
	info, ok := resp.Payload.(model.ProbeInfo)
	require.True(t, ok)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(17), info.SizeBytes)
	assert.Equal(t, "mp4", info.Container)
}

func TestProbeExecuteMissingFile(t *testing.T) {
	t.Parallel()

	_, err := New().Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath: filepath.Join(t.TempDir(), "absent.mp4"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &plugin.InvalidInputError{})
}

func TestProbeExecuteEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := New().Execute(context.Background(), plugin.ExecContext{}, plugin.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, &plugin.InvalidInputError{})
}

func TestProbeExecuteDirectory(t *testing.T) {
	t.Parallel()

	_, err := New().Execute(context.Background(), plugin.ExecContext{}, plugin.Request{
		InputPath: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, &plugin.InvalidInputError{})
}

func TestProbeExecuteSizeLimit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.mp4")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	p := &probePlugin{maxInputBytes: 4}
	_, err := p.Execute(context.Background(), plugin.ExecContext{}, plugin.Request{InputPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
}

func TestProbeExecuteCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Execute(ctx, plugin.ExecContext{}, plugin.Request{InputPath: "x.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
