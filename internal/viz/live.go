package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/limnolab/redoxsim/internal/kinetics"
	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/solver"
)

const historyCapacity = 600

type TickMsg time.Time

// Model integrates the network live. Each tick advances the clock by one
// segment of the horizon and appends to a bounded per-channel history.
type Model struct {
	net      *kinetics.Network
	rk       *solver.RK45
	scenario string

	x0      reactor.State
	x       reactor.State
	t       float64
	dt      float64
	horizon float64
	segment float64

	history  [reactor.NumChannels][]float64
	selected int
	running  bool
	done     bool
	err      error
}

// NewModel prepares a live view. The caller validates the solver options
// and initial state beforehand.
func NewModel(scenario string, net *kinetics.Network, x0 reactor.State, horizon float64, opts solver.Options) Model {
	m := Model{
		net:      net,
		rk:       solver.New(opts),
		scenario: scenario,
		x0:       x0.Clone(),
		x:        x0.Clone(),
		horizon:  horizon,
		segment:  horizon / historyCapacity,
		dt:       opts.InitialStep(horizon),
		running:  true,
		selected: reactor.Oxygen,
	}
	m.record()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if !m.done && m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "tab", "j", "down":
			m.selected = (m.selected + 1) % reactor.NumChannels
		case "k", "up":
			m.selected = (m.selected + reactor.NumChannels - 1) % reactor.NumChannels
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			m.advanceSegment()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advanceSegment integrates up to the next history sample, carrying the
// step controller's preferred dt across segment boundaries.
func (m *Model) advanceSegment() {
	target := m.t + m.segment
	if target > m.horizon {
		target = m.horizon
	}
	for m.t < target {
		h := m.dt
		clamped := false
		if m.t+h >= target {
			h = target - m.t
			clamped = true
		}

		xNew, took, next, err := m.rk.Advance(m.net, m.x, m.t, h)
		if err != nil {
			m.err = err
			m.running = false
			return
		}

		if clamped && took == h {
			m.t = target
			if next > m.dt {
				m.dt = next
			}
		} else {
			m.t += took
			m.dt = next
		}
		m.x = xNew
	}
	m.record()

	if m.t >= m.horizon {
		m.done = true
		m.running = false
	}
}

func (m *Model) record() {
	for c := 0; c < reactor.NumChannels; c++ {
		m.history[c] = append(m.history[c], m.x[c]*reactor.Channels[c].Scale)
		if len(m.history[c]) > historyCapacity {
			m.history[c] = m.history[c][1:]
		}
	}
}

func (m *Model) reset() {
	m.t = 0
	m.x = m.x0.Clone()
	m.dt = m.rk.Options().InitialStep(m.horizon)
	m.rk.Reset()
	for c := range m.history {
		m.history[c] = m.history[c][:0]
	}
	m.err = nil
	m.done = false
	m.running = true
	m.record()
}

func (m Model) View() string {
	var left strings.Builder
	left.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := "RUNNING"
	switch {
	case m.err != nil:
		status = errStyle.Render("FAILED: " + m.err.Error())
	case m.done:
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}
	left.WriteString(status + "  " + PhaseLabel(m.x) + "\n\n")

	frac := 0.0
	if m.horizon > 0 {
		frac = m.t / m.horizon
	}
	left.WriteString(ProgressBar(frac, 40) + fmt.Sprintf("  day %.2f / %.4g\n", m.t, m.horizon))

	ch := reactor.Channels[m.selected]
	if len(m.history[m.selected]) > 1 {
		graph := asciigraph.Plot(m.history[m.selected],
			asciigraph.Height(10),
			asciigraph.Width(56),
			asciigraph.Caption(fmt.Sprintf("%s (%s)", ch.Name, ch.Unit)),
		)
		left.WriteString(graphStyle.Render(graph) + "\n")
	}
	left.WriteString(helpStyle.Render("space:pause  r:reset  tab/j/k:channel  q:quit"))

	stats := m.rk.Stats()
	var right strings.Builder
	right.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.3g d", m.dt)) + "\n")
	right.WriteString(labelStyle.Render("accepted") + valueStyle.Render(fmt.Sprintf("%d", stats.Steps)) + "\n")
	right.WriteString(labelStyle.Render("rejected") + valueStyle.Render(fmt.Sprintf("%d", stats.Rejected)) + "\n\n")
	for c, chn := range reactor.Channels {
		line := fmt.Sprintf("%-16s %s %10.4f", chn.Name, Sparkline(m.history[c], 10), m.x[c]*chn.Scale)
		if c == m.selected {
			right.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			right.WriteString("  " + line + "\n")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), statsStyle.Render(right.String()))
}

// Watch runs the live view until the user quits.
func Watch(scenario string, net *kinetics.Network, x0 reactor.State, horizon float64, opts solver.Options) error {
	p := tea.NewProgram(NewModel(scenario, net, x0, horizon, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
