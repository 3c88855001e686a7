package engine

import (
	"fmt"
	"sync"

	"github.com/mediaflow/mediaflow/internal/model"
)

// JobTable tracks live and finished jobs by id for operational status
// queries. Graphs stay queryable while their executor is still running.
type JobTable struct {
	mu   sync.RWMutex
	jobs map[string]*TaskGraph
}

// NewJobTable returns an empty job table.
func NewJobTable() *JobTable {
	return &JobTable{jobs: make(map[string]*TaskGraph)}
}

// Add registers a job's graph. A graph re-added under the same id replaces
// the previous entry.
func (t *JobTable) Add(graph *TaskGraph) {
	if graph == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[graph.JobID] = graph
}

// Get returns the graph for a job id.
func (t *JobTable) Get(jobID string) (*TaskGraph, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	graph, ok := t.jobs[jobID]
	return graph, ok
}

// GetJobStatus returns the task counts for a job. Safe to call at any point,
// including while the job is executing.
func (t *JobTable) GetJobStatus(jobID string) (model.JobStatus, error) {
	t.mu.RLock()
	graph, ok := t.jobs[jobID]
	t.mu.RUnlock()

	if !ok {
		return model.JobStatus{}, fmt.Errorf("unknown job %q", jobID)
	}
	return graph.Status(), nil
}
