package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mediaflow/mediaflow/internal/logger"
	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/plugin"
	mferrors "github.com/mediaflow/mediaflow/pkg/errors"
)

const defaultWorkerPoolSize = 4

// Executor drives one job's task graph to completion.
type Executor struct {
	logger      *logger.Logger
	workers     int
	taskTimeout time.Duration
	verbose     bool
	workDir     string
}

// NewExecutor creates a new executor instance.
func NewExecutor(log *logger.Logger) *Executor {
	return &Executor{logger: log, workers: defaultWorkerPoolSize}
}

// WithWorkerPoolSize bounds how many tasks may run concurrently.
func (e *Executor) WithWorkerPoolSize(n int) *Executor {
	if n > 0 {
		e.workers = n
	}
	return e
}

// WithTaskTimeout applies a per-task deadline to every plugin call.
// Zero disables the deadline.
func (e *Executor) WithTaskTimeout(d time.Duration) *Executor {
	e.taskTimeout = d
	return e
}

// WithVerbose propagates verbosity into plugin execution contexts.
func (e *Executor) WithVerbose(v bool) *Executor {
	e.verbose = v
	return e
}

// WithWorkDir sets the directory plugins materialize artifacts into. Empty
// leaves each plugin to pick its own location.
func (e *Executor) WithWorkDir(dir string) *Executor {
	e.workDir = dir
	return e
}

// Execute runs the graph's tasks respecting dependency order. A task runs
// only once all its dependencies completed; tasks with no unmet dependency
// run concurrently, bounded by the worker pool. A failed task never aborts
// the job: its dependents become unreachable and every other branch keeps
// going. The returned error is non-nil when the job as a whole failed, which
// means a requested terminal task did not complete (or the context was
// canceled); per-task outcomes stay queryable on the graph either way.
func (e *Executor) Execute(ctx context.Context, graph *TaskGraph) error {
	if graph == nil {
		return mferrors.NewExecutionError("", fmt.Errorf("task graph is nil"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Plugin calls may block on native work; each runs on its own goroutine
	// and the pool channel bounds how many are in flight at once.
	pool := make(chan struct{}, e.workers)

	log := e.logger.WithJob(graph.JobID)

	for {
		if ctx.Err() != nil {
			return mferrors.NewExecutionError(graph.JobID, ctx.Err())
		}

		runnable, unreachable, pending := graph.nextRunnable()
		if unreachable > 0 {
			log.Warn(fmt.Sprintf("%d task(s) unreachable after dependency failure", unreachable))
		}
		if len(runnable) == 0 {
			if pending == 0 {
				break
			}
			if unreachable > 0 {
				continue
			}
			return mferrors.NewExecutionError(graph.JobID, fmt.Errorf("%d task(s) pending with no runnable dependency; graph is not a DAG", pending))
		}

		var wg sync.WaitGroup
		for _, task := range runnable {
			wg.Add(1)
			go func(t *Task) {
				defer wg.Done()

				select {
				case pool <- struct{}{}:
					defer func() { <-pool }()
				case <-ctx.Done():
					graph.fail(t.ID, ctx.Err(), 0)
					return
				}

				e.runTask(ctx, log, graph, t)
			}(task)
		}
		wg.Wait()
	}

	return e.jobOutcome(graph)
}

func (e *Executor) runTask(ctx context.Context, log *logger.Logger, graph *TaskGraph, t *Task) {
	graph.setRunning(t.ID)
	log.Debug(fmt.Sprintf("task %s (%s) running", t.ID, t.Name))

	taskCtx := ctx
	if e.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, e.taskTimeout)
		defer cancel()
	}

	req := plugin.Request{
		Params:     t.Stage.Params,
		InputType:  t.Stage.InputType,
		OutputType: t.Stage.OutputType,
		InputPath:  graph.InputPath,
	}
	if dep, ok := e.feedingDependency(graph, t); ok {
		report, _ := graph.Report(dep)
		if report != nil {
			req.Input = report.Result
			if report.ArtifactPath != "" {
				req.InputPath = report.ArtifactPath
			}
		}
	}

	start := time.Now()
	resp, err := t.Stage.Plugin.Execute(taskCtx, plugin.ExecContext{Mode: plugin.ModeGraph, Verbose: e.verbose, WorkDir: e.workDir}, req)
	duration := time.Since(start)

	if err != nil {
		graph.fail(t.ID, mferrors.NewExecutionError(string(t.ID), err), duration)
		log.Error(err, fmt.Sprintf("task %s (%s) failed", t.ID, t.Name))
		return
	}

	message := "completed"
	artifact := ""
	var payload any
	if resp != nil {
		artifact = resp.OutputPath
		payload = resp.Payload
		if artifact != "" {
			message = fmt.Sprintf("completed: %s", artifact)
		}
	}
	graph.complete(t.ID, payload, artifact, message, duration)
	log.Timing(t.Name, duration, fmt.Sprintf("task %s completed", t.ID))
}

// feedingDependency picks the dependency whose output the task consumes.
func (e *Executor) feedingDependency(graph *TaskGraph, t *Task) (TaskID, bool) {
	for _, dep := range t.DependsOn {
		depTask, ok := graph.Task(dep)
		if ok && depTask.Stage.OutputType == t.Stage.InputType {
			return dep, true
		}
	}
	if len(t.DependsOn) > 0 {
		return t.DependsOn[0], true
	}
	return "", false
}

// jobOutcome decides overall job success: every terminal task the caller
// asked for must have completed. Partial completion of unrelated branches
// does not fail the job on its own.
func (e *Executor) jobOutcome(graph *TaskGraph) error {
	var failed []string
	for _, id := range graph.Terminals() {
		if graph.TaskStatus(id) != model.StatusCompleted {
			task, _ := graph.Task(id)
			name := string(id)
			if task != nil {
				name = fmt.Sprintf("%s (%s)", id, task.Name)
			}
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return mferrors.NewExecutionError(graph.JobID, fmt.Errorf("requested output(s) did not complete: %s", strings.Join(failed, ", ")))
	}
	return nil
}
