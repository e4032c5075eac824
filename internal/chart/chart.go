// Package chart exports trajectory plots as PNG or SVG images.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
)

// palette cycles one stroke color per plotted channel.
var palette = []drawing.Color{
	{R: 217, G: 72, B: 47, A: 255},
	{R: 57, G: 106, B: 177, A: 255},
	{R: 62, G: 150, B: 81, A: 255},
	{R: 218, G: 124, B: 48, A: 255},
	{R: 107, G: 76, B: 154, A: 255},
	{R: 146, G: 36, B: 40, A: 255},
	{R: 148, G: 139, B: 61, A: 255},
}

// build assembles the chart for the selected channels in display units.
// Series carry their unit in the legend since chemical and biomass
// channels share one axis.
func build(res *sim.Result, channels []int, title string) (*chart.Chart, error) {
	if res == nil || len(res.States) < 2 {
		return nil, fmt.Errorf("chart: need at least two samples")
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("chart: no channels selected")
	}

	series := make([]chart.Series, 0, len(channels))
	for i, c := range channels {
		if c < 0 || c >= reactor.NumChannels {
			return nil, fmt.Errorf("chart: channel %d out of range", c)
		}
		ch := reactor.Channels[c]

		ys := res.Channel(c)
		for j := range ys {
			ys[j] *= ch.Scale
		}

		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (%s)", ch.Name, ch.Unit),
			XValues: res.Times,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := &chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 576,
		XAxis: chart.XAxis{
			Name: "time (days)",
		},
		YAxis: chart.YAxis{
			Name: "concentration",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// Render draws the selected channels and returns the encoded PNG.
func Render(res *sim.Result, channels []int, title string) ([]byte, error) {
	graph, err := build(res, channels, title)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
