package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mediaflow/mediaflow/internal/tui/components"
)

// View renders the current state of the bulk run.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("mediaflow • %s", m.title))
	sections = append(sections, title)

	progress := components.NewProgress(m.total).View(len(m.done))
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	if len(m.done) > 0 {
		sections = append(sections, sectionStyle.Render("Files"))
		var lines []string
		for _, res := range m.done {
			icon := successStyle.Render("✓")
			detail := ""
			if res.Failed() {
				icon = failureStyle.Render("✗")
				detail = fmt.Sprintf(" — %s", res.Err)
			}
			lines = append(lines, fmt.Sprintf(" %s %s%s (%s)", icon, res.InputPath, detail, res.Duration.Truncate(10*time.Millisecond)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if m.finished || m.cancelled {
		var summary []string
		summary = append(summary, fmt.Sprintf("Files: %d/%d processed, %d failed", len(m.done), m.total, m.failed))
		if m.cancelled {
			summary = append(summary, "Run cancelled")
		}
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(strings.Join(summary, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
