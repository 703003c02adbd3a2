// Package report renders a finished run as a styled terminal summary.
package report

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
)

// RenderOptions adjusts the report wording.
type RenderOptions struct {
	// DryRun switches the summary to "would write" phrasing.
	DryRun bool
}

// Render produces the terminal summary for one completed run.
func Render(result *domain.RunResult, opts RenderOptions) string {
	s := newStyles()

	title := "Sync complete"
	if opts.DryRun {
		title = "Dry run complete"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("run %s · %s", result.RunID, formatDuration(result.Duration()))),
		"",
		countLine(s, "Roots", result.Roots, skippedNote(s, result.RootsSkipped)),
		countLine(s, "Candidates", result.Candidates, ""),
		upsertLine(s, result, opts),
	}

	if len(result.Failures) > 0 {
		lines = append(lines, s.section.Render(renderFailures(result.Failures, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func countLine(s styles, label string, n int, note string) string {
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render(fmt.Sprintf("%-11s", label)),
		s.count.Render(fmt.Sprintf("%d", n)),
	)
	if note == "" {
		return line
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, line, " ", note)
}

func skippedNote(s styles, skipped int) string {
	if skipped == 0 {
		return ""
	}
	return s.warning.Render(fmt.Sprintf("(%d skipped)", skipped))
}

func upsertLine(s styles, result *domain.RunResult, opts RenderOptions) string {
	label := "Upserted"
	if opts.DryRun {
		label = "Would write"
	}

	style := s.good
	if result.Upserted < result.Candidates {
		style = s.warning
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render(fmt.Sprintf("%-11s", label)),
		style.Render(fmt.Sprintf("%d/%d", result.Upserted, result.Candidates)),
	)
}

func renderFailures(failures []domain.RunFailure, s styles) string {
	lines := []string{
		s.bad.Render(fmt.Sprintf("Failures (%d)", len(failures))),
	}

	for _, f := range failures {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			"  ",
			s.failID.Render(f.ID),
			" ",
			s.failNote.Render(fmt.Sprintf("[%s] %v", f.Stage, f.Err)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
