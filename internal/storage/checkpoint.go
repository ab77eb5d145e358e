package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	checkpointsDirName = "checkpoints"
	metadataFile       = "metadata.json"
	maxAutoCheckpoints = 5
)

// CheckpointManager snapshots the data files of a directory.
type CheckpointManager struct {
	dataDir        string
	checkpointsDir string
}

// CheckpointMetadata is stored alongside each checkpoint.
type CheckpointMetadata struct {
	CreatedAt    time.Time      `json:"created_at"`
	RecordCounts map[string]int `json:"record_counts"`
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	Size         int64          `json:"size"`
	IsAuto       bool           `json:"is_auto"`
}

// CheckpointInfo represents information about a checkpoint for listing.
type CheckpointInfo struct {
	CreatedAt   time.Time
	ID          string
	Description string
	Size        int64
	Categories  int
	Entries     int
	Budgets     int
	Alerts      int
	IsAuto      bool
}

// Checkpoint errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
)

// NewCheckpointManager creates a manager storing checkpoints under
// dataDir/checkpoints.
func NewCheckpointManager(dataDir string) (*CheckpointManager, error) {
	checkpointsDir := filepath.Join(dataDir, checkpointsDirName)
	if err := os.MkdirAll(checkpointsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}
	return &CheckpointManager{
		dataDir:        dataDir,
		checkpointsDir: checkpointsDir,
	}, nil
}

// Create copies the current data files into a new checkpoint. An empty tag
// is generated from the current time.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	return cm.create(ctx, tag, description, false)
}

func (cm *CheckpointManager) create(ctx context.Context, tag, description string, auto bool) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", time.Now().Format("2006-01-02-150405"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	dir := filepath.Join(cm.checkpointsDir, tag)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, tag)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	metadata := CheckpointMetadata{
		ID:           tag,
		CreatedAt:    time.Now(),
		Description:  description,
		RecordCounts: make(map[string]int, len(DataFiles)),
		IsAuto:       auto,
	}

	for _, name := range DataFiles {
		src := filepath.Join(cm.dataDir, name)
		count, size, err := countRecords(src)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			cm.discard(dir)
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			cm.discard(dir)
			return nil, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		metadata.RecordCounts[name] = count
		metadata.Size += size
	}

	if err := saveMetadata(filepath.Join(dir, metadataFile), metadata); err != nil {
		cm.discard(dir)
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Info("checkpoint created", "tag", tag, "auto", auto)
	info := metadata.info()
	return &info, nil
}

// List returns all checkpoints, newest first. Checkpoints with unreadable
// metadata are skipped.
func (cm *CheckpointManager) List(ctx context.Context) ([]CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadata, err := loadMetadata(filepath.Join(cm.checkpointsDir, entry.Name(), metadataFile))
		if err != nil {
			slog.Debug("skipping checkpoint with unreadable metadata", "tag", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, metadata.info())
	}

	slices.SortFunc(checkpoints, func(a, b CheckpointInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return checkpoints, nil
}

// Info returns a single checkpoint's information.
func (cm *CheckpointManager) Info(ctx context.Context, tag string) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	metadata, err := loadMetadata(filepath.Join(cm.checkpointsDir, tag, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}
	info := metadata.info()
	return &info, nil
}

// Restore replaces the current data files with the checkpoint's copies. The
// current files are backed up first and put back if the restore fails.
func (cm *CheckpointManager) Restore(ctx context.Context, tag string) error {
	if _, err := cm.Info(ctx, tag); err != nil {
		return err
	}
	dir := filepath.Join(cm.checkpointsDir, tag)

	for _, name := range DataFiles {
		if _, _, err := countRecords(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrCheckpointCorrupted, name, err)
		}
	}

	backupDir, err := os.MkdirTemp(cm.checkpointsDir, ".restore-backup-")
	if err != nil {
		return fmt.Errorf("failed to create restore backup: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(backupDir); err != nil {
			slog.Error("failed to remove restore backup", "error", err)
		}
	}()

	for _, name := range DataFiles {
		src := filepath.Join(cm.dataDir, name)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := copyFile(src, filepath.Join(backupDir, name)); err != nil {
			return fmt.Errorf("failed to back up %s: %w", name, err)
		}
	}

	for _, name := range DataFiles {
		src := filepath.Join(dir, name)
		dst := filepath.Join(cm.dataDir, name)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to clear %s: %w", name, err)
			}
			continue
		}
		if err := copyFile(src, dst); err != nil {
			cm.rollback(backupDir)
			return fmt.Errorf("failed to restore %s: %w", name, err)
		}
	}

	slog.Info("checkpoint restored", "tag", tag)
	return nil
}

// Delete removes a checkpoint.
func (cm *CheckpointManager) Delete(ctx context.Context, tag string) error {
	if _, err := cm.Info(ctx, tag); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(cm.checkpointsDir, tag)); err != nil {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}

// AutoCheckpoint creates an automatic checkpoint named after the operation it
// precedes, keeping only the most recent automatic checkpoints.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, prefix string) (*CheckpointInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", prefix, time.Now().Format("2006-01-02-150405.000000"))
	description := fmt.Sprintf("Automatic checkpoint before %s", prefix)

	info, err := cm.create(ctx, tag, description, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		slog.Warn("failed to clean up old auto-checkpoints", "error", err)
	}
	return info, nil
}

func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	autoCount := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		autoCount++
		if autoCount > maxAutoCheckpoints {
			if err := cm.Delete(ctx, cp.ID); err != nil {
				slog.Debug("failed to delete old auto-checkpoint during cleanup", "error", err, "checkpoint", cp.ID)
			}
		}
	}
	return nil
}

func (cm *CheckpointManager) discard(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Error("failed to remove incomplete checkpoint", "error", err, "path", dir)
	}
}

func (cm *CheckpointManager) rollback(backupDir string) {
	for _, name := range DataFiles {
		src := filepath.Join(backupDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(cm.dataDir, name)); err != nil {
			slog.Error("failed to roll back data file after restore failure", "file", name, "error", err)
		}
	}
}

func (m CheckpointMetadata) info() CheckpointInfo {
	return CheckpointInfo{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		Description: m.Description,
		Size:        m.Size,
		Categories:  m.RecordCounts[CategoriesFile],
		Entries:     m.RecordCounts[EntriesFile],
		Budgets:     m.RecordCounts[BudgetsFile],
		Alerts:      m.RecordCounts[AlertsFile],
		IsAuto:      m.IsAuto,
	}
}

// countRecords decodes a data file as a JSON array and returns its length and
// byte size.
func countRecords(path string) (int, int64, error) {
	// #nosec G304 - path is built from the data or checkpoints directory
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, 0, err
	}
	return len(records), int64(len(data)), nil
}

func copyFile(src, dst string) error {
	// #nosec G304 - src is built from the data or checkpoints directory
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, source); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, dst)
}

func saveMetadata(path string, metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func loadMetadata(path string) (*CheckpointMetadata, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("invalid metadata path")
	}
	// #nosec G304 - path is validated above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var metadata CheckpointMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}
