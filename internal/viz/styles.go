package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	phaseOxic      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	phaseNitrate   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	phaseSulfate   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	phaseMethane   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	sparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
)

// phaseFloor is the concentration below which an electron acceptor no
// longer gates its guild, ten micromolar.
const phaseFloor = 1e-5

// Phase names the dominant terminal electron acceptor of a state.
func Phase(x reactor.State) string {
	switch {
	case len(x) < reactor.NumChannels:
		return "unknown"
	case x[reactor.Oxygen] > phaseFloor:
		return "oxic"
	case x[reactor.Nitrate] > phaseFloor:
		return "denitrifying"
	case x[reactor.Sulfate] > phaseFloor:
		return "sulfidogenic"
	default:
		return "methanogenic"
	}
}

// PhaseLabel renders the phase as a colored badge.
func PhaseLabel(x reactor.State) string {
	switch Phase(x) {
	case "oxic":
		return phaseOxic.Render("OXIC")
	case "denitrifying":
		return phaseNitrate.Render("DENITRIFYING")
	case "sulfidogenic":
		return phaseSulfate.Render("SULFIDOGENIC")
	case "methanogenic":
		return phaseMethane.Render("METHANOGENIC")
	default:
		return "UNKNOWN"
	}
}

// ProgressBar renders integration progress through the horizon.
func ProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return barStyle.Render(bar)
}

// Sparkline renders a mini history of one channel.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparklineChars)-1))
		if idx >= len(sparklineChars) {
			idx = len(sparklineChars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparklineChars[idx])
	}
	return b.String()
}

// Summary renders the final state in display units plus solver counters.
func Summary(res *sim.Result) string {
	final := res.Final()
	if final == nil {
		return "no samples"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("FINAL STATE") + "\n")
	b.WriteString(labelStyle.Render("phase") + PhaseLabel(final) + "\n")
	for i, ch := range reactor.Channels {
		val := fmt.Sprintf("%10.4f %s", final[i]*ch.Scale, ch.Unit)
		b.WriteString(labelStyle.Render(ch.Name) + valueStyle.Render(val) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("samples") + valueStyle.Render(fmt.Sprintf("%d", len(res.Times))) + "\n")
	b.WriteString(labelStyle.Render("accepted steps") + valueStyle.Render(fmt.Sprintf("%d", res.Stats.Steps)) + "\n")
	b.WriteString(labelStyle.Render("rejected steps") + valueStyle.Render(fmt.Sprintf("%d", res.Stats.Rejected)) + "\n")
	b.WriteString(labelStyle.Render("rate evals") + valueStyle.Render(fmt.Sprintf("%d", res.Stats.Evals)) + "\n")
	if n := len(res.Excursions); n > 0 {
		b.WriteString(labelStyle.Render("excursions") + errStyle.Render(fmt.Sprintf("%d", n)) + "\n")
	}
	return b.String()
}
