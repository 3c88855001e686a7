package bulk

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaflow/mediaflow/internal/model"
)

func collect(t *testing.T, results <-chan model.FileResult) []model.FileResult {
	t.Helper()
	var out []model.FileResult
	for res := range results {
		out = append(out, res)
	}
	return out
}

func byPath(results []model.FileResult) map[string]model.FileResult {
	m := make(map[string]model.FileResult, len(results))
	for _, r := range results {
		m[r.InputPath] = r
	}
	return m
}

func TestExecuteFastPathExactlyOneResultPerFile(t *testing.T) {
	t.Parallel()

	files := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"}
	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		return path + ":done", nil
	}

	exec := New(nil, runner).WithMaxConcurrentFiles(3)
	results := collect(t, exec.ExecuteFastPath(context.Background(), files, 16000, nil))

	require.Len(t, results, len(files))
	seen := byPath(results)
	for _, f := range files {
		res, ok := seen[f]
		require.True(t, ok, "missing result for %s", f)
		assert.False(t, res.Failed())
		assert.Equal(t, f+":done", res.Payload)
	}
}

func TestExecuteFastPathFailureIsolation(t *testing.T) {
	t.Parallel()

	files := []string{"f1.mp4", "f2.mp4", "f3.mp4", "f4.mp4", "f5.mp4"}
	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		if path == "f3.mp4" {
			return nil, fmt.Errorf("corrupt container")
		}
		return path, nil
	}

	exec := New(nil, runner).WithMaxConcurrentFiles(2)
	results := collect(t, exec.ExecuteFastPath(context.Background(), files, 16000, nil))

	require.Len(t, results, 5)
	seen := byPath(results)

	require.True(t, seen["f3.mp4"].Failed())
	assert.Contains(t, seen["f3.mp4"].Err, "corrupt container")

	for _, f := range []string{"f1.mp4", "f2.mp4", "f4.mp4", "f5.mp4"} {
		assert.False(t, seen[f].Failed(), "file %s should have succeeded", f)
	}
}

func TestExecuteFastPathConcurrencyBound(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	inflight, maxSeen := 0, 0

	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		mu.Lock()
		inflight++
		if inflight > maxSeen {
			maxSeen = inflight
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inflight--
		mu.Unlock()
		return nil, nil
	}

	files := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	exec := New(nil, runner).WithMaxConcurrentFiles(2)
	results := collect(t, exec.ExecuteFastPath(context.Background(), files, 0, nil))

	require.Len(t, results, len(files))
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxSeen, 2)
	assert.GreaterOrEqual(t, maxSeen, 2)
}

func TestExecuteFastPathWallTimeBound(t *testing.T) {
	t.Parallel()

	const perFile = 40 * time.Millisecond
	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		time.Sleep(perFile)
		return nil, nil
	}

	files := []string{"1", "2", "3", "4", "5"}
	exec := New(nil, runner).WithMaxConcurrentFiles(2)

	start := time.Now()
	results := collect(t, exec.ExecuteFastPath(context.Background(), files, 0, nil))
	elapsed := time.Since(start)

	require.Len(t, results, 5)
	// ceil(5/2) = 3 sequential slots; leave generous slack for scheduling.
	assert.Less(t, elapsed, 3*perFile+100*time.Millisecond)
}

func TestExecuteFastPathStreamsResultsAsTheyFinish(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		if path == "slow.mp4" {
			<-release
		}
		return path, nil
	}

	exec := New(nil, runner).WithMaxConcurrentFiles(2)
	results := exec.ExecuteFastPath(context.Background(), []string{"slow.mp4", "fast.mp4"}, 0, nil)

	// The fast file's result arrives while the slow file is still running.
	select {
	case res := <-results:
		assert.Equal(t, "fast.mp4", res.InputPath)
	case <-time.After(2 * time.Second):
		t.Fatal("no result streamed before all files finished")
	}

	close(release)
	res, ok := <-results
	require.True(t, ok)
	assert.Equal(t, "slow.mp4", res.InputPath)

	_, ok = <-results
	assert.False(t, ok, "channel should be closed after the final result")
}

func TestExecuteFastPathRecoversPanics(t *testing.T) {
	t.Parallel()

	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		if path == "boom.mp4" {
			panic("codec blew up")
		}
		return path, nil
	}

	exec := New(nil, runner).WithMaxConcurrentFiles(2)
	results := collect(t, exec.ExecuteFastPath(context.Background(), []string{"ok.mp4", "boom.mp4"}, 0, nil))

	require.Len(t, results, 2)
	seen := byPath(results)
	require.True(t, seen["boom.mp4"].Failed())
	assert.Contains(t, seen["boom.mp4"].Err, "panic")
	assert.Contains(t, seen["boom.mp4"].Err, "codec blew up")
	assert.False(t, seen["ok.mp4"].Failed())
}

func TestExecuteFastPathCancellationStillYieldsAllResults(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		once.Do(func() { close(started) })
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		select {
		case <-release:
			return path, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	files := []string{"a", "b", "c", "d"}
	exec := New(nil, runner).WithMaxConcurrentFiles(1)
	results := exec.ExecuteFastPath(ctx, files, 0, nil)

	<-started
	cancel()
	close(release)

	collected := collect(t, results)
	require.Len(t, collected, len(files))

	failed := 0
	for _, res := range collected {
		if res.Failed() {
			failed++
		}
	}
	// Everything queued behind the cancellation reports the context error.
	assert.GreaterOrEqual(t, failed, len(files)-1)
}

func TestExecuteFastPathRecordsDurations(t *testing.T) {
	t.Parallel()

	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	}

	exec := New(nil, runner)
	results := collect(t, exec.ExecuteFastPath(context.Background(), []string{"a.mp4"}, 0, nil))

	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Duration, 10*time.Millisecond)
}

func TestExecuteFastPathEmptyFileList(t *testing.T) {
	t.Parallel()

	exec := New(nil, func(context.Context, string, float64, *Config) (any, error) { return nil, nil })
	results := collect(t, exec.ExecuteFastPath(context.Background(), nil, 0, nil))
	assert.Empty(t, results)
}

func TestExecuteFastPathPassesParamAndConfig(t *testing.T) {
	t.Parallel()

	var gotParam float64
	var gotDir string
	runner := func(ctx context.Context, path string, param float64, cfg *Config) (any, error) {
		gotParam = param
		if cfg != nil {
			gotDir = cfg.OutputDir
		}
		return nil, nil
	}

	exec := New(nil, runner)
	collect(t, exec.ExecuteFastPath(context.Background(), []string{"a.mp4"}, 22050, &Config{OutputDir: "/tmp/out"}))

	assert.Equal(t, float64(22050), gotParam)
	assert.Equal(t, "/tmp/out", gotDir)
}
