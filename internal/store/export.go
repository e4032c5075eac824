package store

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the single-document form of a stored run: its metadata
// with the full trajectory inlined.
type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// Export writes a stored run as one indented JSON document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, states, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       times,
		States:      make([][]float64, len(states)),
	}
	for i, x := range states {
		data.States[i] = x
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportFile writes the JSON document to path, or to stdout when path
// is "-".
func (s *Store) ExportFile(path, runID string) error {
	if path == "-" {
		return s.Export(os.Stdout, runID)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.Export(file, runID)
}
