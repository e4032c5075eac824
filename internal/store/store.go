package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/limnolab/redoxsim/internal/reactor"
	"github.com/limnolab/redoxsim/internal/sim"
	"github.com/limnolab/redoxsim/internal/solver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	CreatedAt  time.Time `json:"created_at"`
	Start      float64   `json:"start"`
	Horizon    float64   `json:"horizon"`
	Samples    int       `json:"samples"`
	AbsTol     float64   `json:"abs_tol"`
	RelTol     float64   `json:"rel_tol"`
	Steps      int       `json:"steps"`
	Rejected   int       `json:"rejected"`
	Evals      int       `json:"evals"`
	Excursions int       `json:"excursions"`
	Channels   []string  `json:"channels"`
}

// Save writes one run directory holding metadata.json and trajectory.csv.
// Concentrations are written with the 'g' format so mol/L magnitudes
// survive a load unchanged.
func (s *Store) Save(scenario string, opts solver.Options, res *sim.Result) (string, error) {
	if res == nil {
		return "", fmt.Errorf("store: nil result")
	}

	runID := fmt.Sprintf("%s_%d", scenario, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		CreatedAt:  time.Now(),
		Samples:    len(res.Times),
		AbsTol:     opts.AbsTol,
		RelTol:     opts.RelTol,
		Steps:      res.Stats.Steps,
		Rejected:   res.Stats.Rejected,
		Evals:      res.Stats.Evals,
		Excursions: len(res.Excursions),
		Channels:   channelNames(),
	}
	if len(res.Times) > 0 {
		meta.Start = res.Times[0]
		meta.Horizon = res.Times[len(res.Times)-1]
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, channelNames()...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range res.States {
		row := make([]string, 0, 1+len(res.States[i]))
		row = append(row, strconv.FormatFloat(res.Times[i], 'g', -1, 64))
		for _, val := range res.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]float64, []reactor.State, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []float64{}, []reactor.State{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]reactor.State, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make(reactor.State, 0, len(record)-1)
		for _, cell := range record[1:] {
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}

		times = append(times, t)
		states = append(states, state)
	}

	return times, states, nil
}

func channelNames() []string {
	names := make([]string, reactor.NumChannels)
	for i, ch := range reactor.Channels {
		names[i] = ch.Name
	}
	return names
}
