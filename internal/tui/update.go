package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileDoneMsg:
		m.done = append(m.done, msg.Result)
		if msg.Result.Failed() {
			m.failed++
		}
		return m, waitForResult(m.results)
	case streamClosedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			// Keep draining: cancelled files still emit their own results.
			return m, nil
		}
	}

	return m, nil
}
