package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"svsim/internal/bench"
)

// measuredMsg carries the result of one width of the sweep.
type measuredMsg struct {
	obs bench.Observation
	err error
}

// benchModel is the bench sweep TUI: one Measure per qubit count, run as a
// command so the spinner keeps ticking while gates are applied.
type benchModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	harness *bench.Harness

	minQubits int
	maxQubits int
	next      int // width being measured
	results   []bench.Observation

	progress progress.Model
	spinner  spinner.Model
	width    int
	done     bool
	quit     bool
	err      error
}

func newBenchModel(ctx context.Context, cancel context.CancelFunc, h *bench.Harness, minQubits, maxQubits int) benchModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7"))),
	)
	return benchModel{
		ctx:       ctx,
		cancel:    cancel,
		harness:   h,
		minQubits: minQubits,
		maxQubits: maxQubits,
		next:      minQubits,
		progress:  progress.New(progress.WithDefaultGradient()),
		spinner:   sp,
	}
}

func (m benchModel) measure(n int) tea.Cmd {
	return func() tea.Msg {
		obs, err := m.harness.Measure(m.ctx, n)
		return measuredMsg{obs: obs, err: err}
	}
}

func (m benchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.measure(m.next))
}

func (m benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(min(msg.Width-8, 80), 20)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			m.cancel()
			return m, tea.Quit
		}

	case measuredMsg:
		if m.quit {
			return m, nil
		}
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			m.done = true
			return m, tea.Quit
		}
		m.results = append(m.results, msg.obs)
		m.next++
		if m.next > m.maxQubits {
			m.done = true
			return m, tea.Quit
		}
		return m, m.measure(m.next)

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// fraction is the share of widths already measured.
func (m benchModel) fraction() float64 {
	total := m.maxQubits - m.minQubits + 1
	if total <= 0 {
		return 1
	}
	return float64(len(m.results)) / float64(total)
}

func (m benchModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Statevector benchmark"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  strategy %s  run %s", m.harness.Strategy(), m.harness.RunID())))
	sb.WriteString("\n\n")
	sb.WriteString(m.progress.ViewAs(m.fraction()))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.done:
		sb.WriteString(okStyle.Render(fmt.Sprintf("done: %d widths measured", len(m.results))))
	default:
		fmt.Fprintf(&sb, "%s measuring %d qubits (2^%d amplitudes)", m.spinner.View(), m.next, m.next)
	}
	sb.WriteString("\n\n")

	if len(m.results) > 0 {
		sb.WriteString(renderObservations(m.results))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("q/esc quit"))

	return panelStyle.Render(sb.String())
}
