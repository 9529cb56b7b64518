package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/gdviz/internal/descent"
)

const (
	metadataFile = "metadata.json"
	updatesFile  = "updates.csv"
)

var updatesHeader = []string{"step", "w0", "j0", "grad", "delta", "w1", "j1"}

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
	ID           string             `json:"id"`
	Function     string             `json:"function"`
	Timestamp    time.Time          `json:"timestamp"`
	LearningRate float64            `json:"learning_rate"`
	Start        float64            `json:"start"`
	Steps        int                `json:"steps"`
	Metrics      map[string]float64 `json:"metrics"`
}

func runSlug(function string) string {
	return strings.ReplaceAll(strings.ToLower(function), " ", "_")
}

// Save writes the run's metadata and updates and returns its ID.
func (s *Store) Save(result *descent.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runSlug(result.Function), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Function:     result.Function,
		Timestamp:    now,
		LearningRate: result.Config.LearningRate,
		Start:        result.Config.Start,
		Steps:        result.Config.Steps,
		Metrics:      result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeUpdates(filepath.Join(runDir, updatesFile), result.Updates); err != nil {
		return "", err
	}

	slog.Debug("run saved", "id", runID, "dir", runDir, "updates", len(result.Updates))
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUpdates(path string, updates []descent.Update) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteUpdatesCSV(csv.NewWriter(f), updates); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteUpdatesCSV writes the header and one row per update, then flushes.
func WriteUpdatesCSV(w *csv.Writer, updates []descent.Update) error {
	if err := w.Write(updatesHeader); err != nil {
		return err
	}
	for _, u := range updates {
		row := []string{strconv.Itoa(u.Index)}
		for _, v := range []float64{u.W0, u.J0, u.Grad, u.Delta, u.W1, u.J1} {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

var errMalformedRow = errors.New("storage: malformed updates row")

func (s *Store) LoadUpdates(runID string) ([]descent.Update, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, updatesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []descent.Update{}, nil
	}

	updates := make([]descent.Update, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(updatesHeader) {
			return nil, fmt.Errorf("%w: line %d has %d fields", errMalformedRow, i+2, len(record))
		}
		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", errMalformedRow, i+2, err)
		}
		vals := make([]float64, 6)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", errMalformedRow, i+2, err)
			}
		}
		updates = append(updates, descent.Update{
			Index: idx,
			W0:    vals[0], J0: vals[1], Grad: vals[2], Delta: vals[3], W1: vals[4], J1: vals[5],
		})
	}
	return updates, nil
}

// LoadResult rebuilds a descent result from a saved run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *descent.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	updates, err := s.LoadUpdates(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &descent.Result{
		Function: meta.Function,
		Config: descent.Config{
			LearningRate: meta.LearningRate,
			Start:        meta.Start,
			Steps:        meta.Steps,
		},
		Updates: updates,
		Metrics: meta.Metrics,
	}, nil
}

type ExportData struct {
	RunMetadata
	Updates []descent.Update `json:"updates"`
}

// ExportJSON writes a run's metadata and updates as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	updates, err := s.LoadUpdates(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Updates: updates})
}
