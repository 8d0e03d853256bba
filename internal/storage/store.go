package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Store keeps one directory per headless run. Only run statistics are
// written; grid contents never are.
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Topology    string             `json:"topology"`
	Speed       float64            `json:"speed"`
	History     int                `json:"history"`
	Generations int                `json:"generations"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Sample is one generation's statistics.
type Sample struct {
	Generation int
	Population int
	Changed    int
}

func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%dx%d_s%d_%d", meta.Topology, meta.Cols, meta.Rows, meta.Seed, meta.Timestamp.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "population.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"generation", "population", "changed"}); err != nil {
		return "", err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Generation),
			strconv.Itoa(sm.Population),
			strconv.Itoa(sm.Changed),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
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
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "population.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) < 3 {
			continue
		}
		var sm Sample
		if sm.Generation, err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}
		if sm.Population, err = strconv.Atoi(record[1]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}
		if sm.Changed, err = strconv.Atoi(record[2]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", runID, i+1, err)
		}
		samples = append(samples, sm)
	}

	return samples, nil
}
