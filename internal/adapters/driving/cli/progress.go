package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verdant-labs/canopy-cli/internal/core/domain"
	"github.com/verdant-labs/canopy-cli/internal/core/ports/driving"
)

const statusPollInterval = 200 * time.Millisecond

type syncDoneMsg struct {
	result *domain.RunResult
	err    error
}

type statusTickMsg time.Time

// syncProgressModel shows a spinner with live pass counters while the
// run executes in the background.
type syncProgressModel struct {
	spinner spinner.Model
	run     tea.Cmd
	ctx     context.Context
	runner  driving.SyncRunner
	status  driving.RunStatus
	result  *domain.RunResult
	err     error
	done    bool
}

func newSyncProgressModel(ctx context.Context, runner driving.SyncRunner, run tea.Cmd) syncProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("36"))),
	)

	return syncProgressModel{
		spinner: s,
		run:     run,
		ctx:     ctx,
		runner:  runner,
	}
}

func (m syncProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run, m.pollStatus())
}

func (m syncProgressModel) pollStatus() tea.Cmd {
	return tea.Tick(statusPollInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m syncProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case statusTickMsg:
		if status, err := m.runner.Status(m.ctx); err == nil {
			m.status = *status
		}
		return m, m.pollStatus()
	case syncDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m syncProgressModel) View() string {
	if m.done {
		return ""
	}
	if !m.status.Running {
		return fmt.Sprintf("%s Starting mirror pass...", m.spinner.View())
	}

	return fmt.Sprintf("%s Mirroring  roots %d/%d  candidates %d  upserted %d  failed %d",
		m.spinner.View(), m.status.RootsDone, m.status.Roots,
		m.status.Candidates, m.status.Upserted, m.status.Failed)
}

// syncWithSpinner runs the pass behind a spinner on interactive
// terminals. An interrupt cancels ctx; the runner then returns its
// truncated result, which still reaches the report.
func syncWithSpinner(ctx context.Context, out io.Writer, runner driving.SyncRunner) (*domain.RunResult, error) {
	run := func() tea.Msg {
		result, err := runner.Run(ctx)
		return syncDoneMsg{result: result, err: err}
	}

	p := tea.NewProgram(
		newSyncProgressModel(ctx, runner, run),
		tea.WithInput(nil),
		tea.WithOutput(out),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	progress, ok := finalModel.(syncProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return progress.result, progress.err
}
