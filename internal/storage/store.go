// Package storage persists budgie's dataset as flat JSON files and manages
// checkpoints of the data directory.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/model"
)

// Data file names inside the data directory.
const (
	CategoriesFile = "categories.json"
	EntriesFile    = "entries.json"
	BudgetsFile    = "budgets.json"
	AlertsFile     = "alerts.json"
)

// DataFiles lists every file that makes up a dataset.
var DataFiles = []string{CategoriesFile, EntriesFile, BudgetsFile, AlertsFile}

// Snapshot is the full persisted dataset.
type Snapshot struct {
	Categories []model.CategoryRecord
	Entries    []model.EntryRecord
	Budgets    []model.BudgetRecord
	Alerts     []model.AlertRecord
}

// JSONStore keeps a Snapshot in four JSON array files, one per collection.
// Every Save rewrites all four files.
type JSONStore struct {
	dir string
}

// NewJSONStore returns a store rooted at dir. Nothing is touched on disk
// until Init, Load or Save.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// Dir returns the data directory.
func (s *JSONStore) Dir() string { return s.dir }

// Init creates the data directory and any missing data file as an empty array.
func (s *JSONStore) Init(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, name := range DataFiles {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if err := writeFileAtomic(path, []byte("[]\n")); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		slog.Debug("created data file", "file", name)
	}
	return nil
}

// Load reads all four files. A missing file reads as an empty collection.
func (s *JSONStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if err := readRecords(s.path(CategoriesFile), &snap.Categories); err != nil {
		return nil, err
	}
	if err := readRecords(s.path(EntriesFile), &snap.Entries); err != nil {
		return nil, err
	}
	if err := readRecords(s.path(BudgetsFile), &snap.Budgets); err != nil {
		return nil, err
	}
	if err := readRecords(s.path(AlertsFile), &snap.Alerts); err != nil {
		return nil, err
	}

	if err := validateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptData, err)
	}
	return snap, nil
}

// Save validates snap and rewrites all four files.
func (s *JSONStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := writeRecords(s.path(CategoriesFile), snap.Categories); err != nil {
		return err
	}
	if err := writeRecords(s.path(EntriesFile), snap.Entries); err != nil {
		return err
	}
	if err := writeRecords(s.path(BudgetsFile), snap.Budgets); err != nil {
		return err
	}
	return writeRecords(s.path(AlertsFile), snap.Alerts)
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func readRecords[T any](path string, out *[]T) error {
	// #nosec G304 - path is built from the configured data directory
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		*out = []T{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	records := []T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrCorruptData, filepath.Base(path), err)
	}
	*out = records

	slog.Debug("read data file", "file", filepath.Base(path), "records", len(records))
	return nil
}

func writeRecords[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	slog.Debug("wrote data file", "file", filepath.Base(path), "records", len(records))
	return nil
}

// writeFileAtomic writes to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
