package model

import (
	"time"
)

const (
	// StatusPending indicates a task has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates a task is actively executing.
	StatusRunning = "running"
	// StatusCompleted marks a successful task execution.
	StatusCompleted = "completed"
	// StatusFailed marks a failure during task execution.
	StatusFailed = "failed"
	// StatusUnreachable indicates a task that was never scheduled because a
	// dependency failed. Unreachable tasks are counted in neither completed
	// nor failed totals.
	StatusUnreachable = "unreachable"
)

// TaskReport captures the outcome of a single task for status queries and
// the per-task summary printed by the CLI.
type TaskReport struct {
	TaskID    string
	Name      string
	Status    string
	Message   string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
	Result    any
	// ArtifactPath points at a file the task materialized, when it did.
	ArtifactPath string
}

// JobStatus summarizes a job's task counts. Unreachable tasks are visible
// only as the gap between TotalTasks and the two terminal counts.
type JobStatus struct {
	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
}

// FileResult is the terminal outcome for one file in a bulk fast-path run.
// Exactly one is produced per submitted file. Err is a message rather than an
// error value so results can be marshaled for reporting.
type FileResult struct {
	InputPath string
	Payload   any
	Err       string
	Duration  time.Duration
}

// Failed reports whether the file's run ended in an error.
func (r FileResult) Failed() bool {
	return r.Err != ""
}
