package engine

import (
	"sync"
	"time"

	"github.com/mediaflow/mediaflow/internal/model"
	"github.com/mediaflow/mediaflow/internal/planner"
)

// TaskID is the stable identifier of a task within one job's graph.
type TaskID string

// Task is one unit of work in a job's graph: a single resolved pipeline
// stage plus the ids of the tasks whose completion gates it. Dependency
// edges are id lists rather than pointers; all tasks live in the graph's
// id-keyed arena.
type Task struct {
	ID        TaskID
	Name      string
	Stage     planner.Stage
	DependsOn []TaskID
}

// TaskGraph is a per-job dependency graph of tasks tracked to completion.
// All mutable state (statuses, reports) is guarded by one mutex so status
// queries are safe at any point, including mid-execution.
type TaskGraph struct {
	JobID     string
	InputPath string

	mu        sync.RWMutex
	tasks     map[TaskID]*Task
	order     []TaskID
	terminals []TaskID
	status    map[TaskID]string
	reports   map[TaskID]*model.TaskReport
}

// NewTaskGraph creates an empty graph for one job.
func NewTaskGraph(jobID, inputPath string) *TaskGraph {
	return &TaskGraph{
		JobID:     jobID,
		InputPath: inputPath,
		tasks:     make(map[TaskID]*Task),
		status:    make(map[TaskID]string),
		reports:   make(map[TaskID]*model.TaskReport),
	}
}

func (g *TaskGraph) addTask(t *Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks[t.ID] = t
	g.order = append(g.order, t.ID)
	g.status[t.ID] = model.StatusPending
}

func (g *TaskGraph) addTerminal(id TaskID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, existing := range g.terminals {
		if existing == id {
			return
		}
	}
	g.terminals = append(g.terminals, id)
}

// Task returns the task with the given id.
func (g *TaskGraph) Task(id TaskID) (*Task, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.tasks[id]
	return t, ok
}

// Tasks returns all tasks in creation order.
func (g *TaskGraph) Tasks() []*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.tasks[id])
	}
	return out
}

// Terminals returns the ids of the tasks realizing the caller's requested
// outputs. Job success is defined by these tasks completing.
func (g *TaskGraph) Terminals() []TaskID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]TaskID(nil), g.terminals...)
}

// TaskStatus returns the current state of one task.
func (g *TaskGraph) TaskStatus(id TaskID) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status[id]
}

// Status summarizes the job's task counts. Unreachable tasks appear in
// neither CompletedTasks nor FailedTasks; they account for the difference
// from TotalTasks.
func (g *TaskGraph) Status() model.JobStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := model.JobStatus{TotalTasks: len(g.order)}
	for _, s := range g.status {
		switch s {
		case model.StatusCompleted:
			st.CompletedTasks++
		case model.StatusFailed:
			st.FailedTasks++
		}
	}
	return st
}

// Report returns the report recorded for one task, if any.
func (g *TaskGraph) Report(id TaskID) (*model.TaskReport, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.reports[id]
	return r, ok
}

// Reports returns per-task reports in creation order, synthesizing entries
// for tasks that never produced one (pending or unreachable).
func (g *TaskGraph) Reports() []model.TaskReport {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.TaskReport, 0, len(g.order))
	for _, id := range g.order {
		if r, ok := g.reports[id]; ok {
			out = append(out, *r)
			continue
		}
		out = append(out, model.TaskReport{
			TaskID: string(id),
			Name:   g.tasks[id].Name,
			Status: g.status[id],
		})
	}
	return out
}

func (g *TaskGraph) setRunning(id TaskID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[id] = model.StatusRunning
}

func (g *TaskGraph) complete(id TaskID, result any, artifactPath, message string, d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[id] = model.StatusCompleted
	g.reports[id] = &model.TaskReport{
		TaskID:       string(id),
		Name:         g.tasks[id].Name,
		Status:       model.StatusCompleted,
		Message:      message,
		Duration:     d,
		Timestamp:    time.Now(),
		Result:       result,
		ArtifactPath: artifactPath,
	}
}

func (g *TaskGraph) fail(id TaskID, err error, d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[id] = model.StatusFailed
	g.reports[id] = &model.TaskReport{
		TaskID:    string(id),
		Name:      g.tasks[id].Name,
		Status:    model.StatusFailed,
		Message:   err.Error(),
		Error:     err,
		Duration:  d,
		Timestamp: time.Now(),
	}
}

func (g *TaskGraph) markUnreachable(id TaskID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[id] = model.StatusUnreachable
	g.reports[id] = &model.TaskReport{
		TaskID:    string(id),
		Name:      g.tasks[id].Name,
		Status:    model.StatusUnreachable,
		Message:   "dependency failed; task never scheduled",
		Timestamp: time.Now(),
	}
}

// nextRunnable partitions pending tasks: tasks whose dependencies all
// completed become runnable; tasks with a failed or unreachable dependency
// are marked unreachable. It returns the runnable tasks, how many tasks were
// newly marked unreachable, and how many remain pending.
func (g *TaskGraph) nextRunnable() (runnable []*Task, unreachable, pending int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range g.order {
		if g.status[id] != model.StatusPending {
			continue
		}

		ready := true
		blocked := false
		for _, dep := range g.tasks[id].DependsOn {
			switch g.status[dep] {
			case model.StatusCompleted:
			case model.StatusFailed, model.StatusUnreachable:
				blocked = true
			default:
				ready = false
			}
		}

		switch {
		case blocked:
			g.status[id] = model.StatusUnreachable
			g.reports[id] = &model.TaskReport{
				TaskID:    string(id),
				Name:      g.tasks[id].Name,
				Status:    model.StatusUnreachable,
				Message:   "dependency failed; task never scheduled",
				Timestamp: time.Now(),
			}
			unreachable++
		case ready:
			runnable = append(runnable, g.tasks[id])
		default:
			pending++
		}
	}
	return runnable, unreachable, pending
}
