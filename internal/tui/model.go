package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediaflow/mediaflow/internal/model"
)

// FileDoneMsg reports that one file of a bulk run finished.
type FileDoneMsg struct {
	Result model.FileResult
}

// streamClosedMsg indicates the result stream has drained completely.
type streamClosedMsg struct{}

// Model contains the Bubbletea state for watching a bulk run.
type Model struct {
	title     string
	results   <-chan model.FileResult
	done      []model.FileResult
	total     int
	failed    int
	finished  bool
	cancelled bool
	cancel    context.CancelFunc
}

// NewBulkModel constructs a TUI model consuming the bulk result stream.
// cancel is invoked when the user interrupts the run; the model keeps
// draining the stream afterwards so every file still reports.
func NewBulkModel(title string, total int, results <-chan model.FileResult, cancel context.CancelFunc) Model {
	return Model{
		title:   title,
		results: results,
		total:   total,
		cancel:  cancel,
	}
}

// Init starts waiting on the result stream.
func (m Model) Init() tea.Cmd {
	return waitForResult(m.results)
}

func waitForResult(ch <-chan model.FileResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return FileDoneMsg{Result: res}
	}
}

// Results returns the collected per-file results after the program exits.
func (m Model) Results() []model.FileResult {
	return m.done
}

// Failed returns how many files ended in an error.
func (m Model) Failed() int {
	return m.failed
}

// IsFinished reports whether the stream has drained.
func (m Model) IsFinished() bool {
	return m.finished
}
