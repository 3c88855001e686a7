package bulk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mediaflow/mediaflow/internal/logger"
	"github.com/mediaflow/mediaflow/internal/model"
)

// Runner executes the fixed per-file operation of a bulk run. param is the
// run's numeric parameter (sample rate, speed factor, whatever the operation
// reads into it); cfg is optional and shared read-only by every file.
type Runner func(ctx context.Context, path string, param float64, cfg *Config) (any, error)

// Config carries optional settings shared across a bulk run's files.
type Config struct {
	OutputDir string
	Verbose   bool
}

// Executor fans a list of input files out across a bounded worker pool and
// streams per-file results back as they finish. Each file is isolated: its
// error lands in its own result and never disturbs sibling files.
type Executor struct {
	maxConcurrentFiles int
	run                Runner
	logger             *logger.Logger
}

// New creates a bulk executor with a concurrency bound of 1.
func New(log *logger.Logger, run Runner) *Executor {
	return &Executor{maxConcurrentFiles: 1, run: run, logger: log}
}

// WithMaxConcurrentFiles overrides how many files may be in flight at once.
func (e *Executor) WithMaxConcurrentFiles(n int) *Executor {
	if n > 0 {
		e.maxConcurrentFiles = n
	}
	return e
}

// ExecuteFastPath runs the fixed operation once per file. Results are pushed
// onto the returned channel as each file finishes, in no particular order;
// the channel closes only after every file has produced exactly one result
// and every worker has exited. At most maxConcurrentFiles files are in
// flight at any instant.
func (e *Executor) ExecuteFastPath(ctx context.Context, files []string, param float64, cfg *Config) <-chan model.FileResult {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make(chan model.FileResult, len(files))
	sem := make(chan struct{}, e.maxConcurrentFiles)

	var wg sync.WaitGroup
	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- model.FileResult{InputPath: path, Err: ctx.Err().Error()}
				return
			}

			results <- e.runOne(ctx, path, param, cfg)
		}(path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// runOne executes one file, converting panics and errors into that file's
// own result so siblings keep running.
func (e *Executor) runOne(ctx context.Context, path string, param float64, cfg *Config) (result model.FileResult) {
	start := time.Now()
	result = model.FileResult{InputPath: path}

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Payload = nil
			result.Err = fmt.Sprintf("panic: %v", r)
			e.logger.Error(fmt.Errorf("%v", r), fmt.Sprintf("bulk worker panicked on %s", path))
		}
	}()

	payload, err := e.run(ctx, path, param, cfg)
	if err != nil {
		result.Err = err.Error()
		e.logger.Error(err, fmt.Sprintf("bulk file %s failed", path))
		return result
	}

	result.Payload = payload
	return result
}
