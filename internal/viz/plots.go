package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
)

// logFloor keeps zeros plottable on the log axis; concentrations below
// it are drawn at the floor.
const logFloor = 1e-12

// PlotChannels renders one asciigraph per requested channel, scaled to
// its display unit.
func PlotChannels(res *sim.Result, channels []int, height, width int) (string, error) {
	return plot(res, channels, height, width, false)
}

// PlotChannelsLog renders the same panels on a log10 axis in mol/L,
// which keeps a cascade spanning nine decades readable in one terminal.
func PlotChannelsLog(res *sim.Result, channels []int, height, width int) (string, error) {
	return plot(res, channels, height, width, true)
}

func plot(res *sim.Result, channels []int, height, width int, logScale bool) (string, error) {
	if res == nil || len(res.States) == 0 {
		return "", fmt.Errorf("viz: empty result")
	}
	if len(channels) == 0 {
		return "", fmt.Errorf("viz: no channels selected")
	}

	var b strings.Builder
	for i, c := range channels {
		if c < 0 || c >= reactor.NumChannels {
			return "", fmt.Errorf("viz: channel %d out of range", c)
		}
		ch := reactor.Channels[c]

		data := res.Channel(c)
		unit := ch.Unit
		if logScale {
			unit = "log10 mol/L"
			for j := range data {
				data[j] = math.Log10(math.Max(data[j], logFloor))
			}
		} else {
			for j := range data {
				data[j] *= ch.Scale
			}
		}

		caption := fmt.Sprintf("%s (%s), day %.4g to %.4g",
			ch.Name, unit, res.Times[0], res.Times[len(res.Times)-1])
		graph := asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		)

		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(graph)
	}
	return b.String(), nil
}
