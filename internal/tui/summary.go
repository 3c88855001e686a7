package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mediaflow/mediaflow/internal/model"
)

// StatusIcon returns the glyph representing a task status.
func StatusIcon(status string) string {
	switch status {
	case model.StatusCompleted:
		return successStyle.Render("✓")
	case model.StatusRunning:
		return runningStyle.Render("⏳")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusUnreachable:
		return pendingStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}

// RenderTaskReport renders the per-task states and the job summary printed
// after a single-file run.
func RenderTaskReport(jobName string, reports []model.TaskReport, status model.JobStatus) string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("mediaflow • %s", jobName)))

	var lines []string
	for _, rep := range reports {
		line := fmt.Sprintf(" %s %s [%s]", StatusIcon(rep.Status), rep.Name, rep.Status)
		if strings.TrimSpace(rep.Message) != "" {
			line = fmt.Sprintf("%s — %s", line, rep.Message)
		}
		if rep.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, rep.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	sections = append(sections, sectionStyle.Render("Tasks"), strings.Join(lines, "\n"))

	unreachable := status.TotalTasks - status.CompletedTasks - status.FailedTasks
	summary := fmt.Sprintf("Tasks: %d total, %d completed, %d failed", status.TotalTasks, status.CompletedTasks, status.FailedTasks)
	if unreachable > 0 {
		summary = fmt.Sprintf("%s, %d unreachable", summary, unreachable)
	}
	sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
