package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/park"
)

// Store keeps snapshots of edited parks, one directory per snapshot holding
// the park file, a vehicle table and metadata.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SnapshotMetadata struct {
	ID        string    `json:"id"`
	Park      string    `json:"park"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Rides     int       `json:"rides"`
	Vehicles  int       `json:"vehicles"`
}

const (
	metadataFile = "metadata.json"
	vehiclesFile = "vehicles.csv"
	parkFile     = "park.yaml"
)

// Save writes a snapshot of p and returns its id. The label, usually the
// script or command that produced the edit, is kept in the metadata.
func (s *Store) Save(p *park.Park, label string) (string, error) {
	ts := s.now()
	id := fmt.Sprintf("%s_%d", slug(p.Name), ts.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	rows := Collect(p, 0)
	meta := SnapshotMetadata{
		ID:        id,
		Park:      p.Name,
		Label:     label,
		Timestamp: ts,
		Rides:     len(p.Rides()),
		Vehicles:  len(rows),
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, vehiclesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := ExportCSV(csvFile, rows); err != nil {
		return "", err
	}

	if err := p.Save(filepath.Join(dir, parkFile)); err != nil {
		return "", err
	}
	return id, nil
}

// List returns the metadata of every snapshot, oldest first.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	snapshots := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snapshots = append(snapshots, *meta)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

func (s *Store) Load(id string) (*SnapshotMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadVehicles(id string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, vehiclesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// LoadPark rebuilds the park saved in a snapshot.
func (s *Store) LoadPark(id string, log logging.Logger) (*park.Park, error) {
	return park.Load(filepath.Join(s.baseDir, id, parkFile), log)
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "park"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}
