package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/limnolab/redoxsim/internal/sim"
)

// RenderSVG draws the same figure as [Render] as a vector image, for
// publication figures that survive rescaling.
func RenderSVG(res *sim.Result, channels []int, title string) ([]byte, error) {
	graph, err := build(res, channels, title)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders to a file, picking the format from the extension.
func Write(path string, res *sim.Result, channels []int, title string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		data, err = Render(res, channels, title)
	case ".svg":
		data, err = RenderSVG(res, channels, title)
	default:
		return fmt.Errorf("chart: unsupported extension %q (want .png or .svg)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
