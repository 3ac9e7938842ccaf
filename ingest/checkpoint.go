package ingest

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Checkpoint records how far a sync run has progressed through the log.
// LastLine is the 1-based number of the last line belonging to a fully
// flushed batch; it only ever moves forward.
type Checkpoint struct {
	LastLine    int        `json:"last_line"`
	Imported    int        `json:"imported"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CheckpointFile persists a Checkpoint as a JSON file.
type CheckpointFile struct {
	path   string
	logger *slog.Logger
}

// NewCheckpointFile creates a checkpoint file handle at the given path.
func NewCheckpointFile(path string) *CheckpointFile {
	return &CheckpointFile{
		path:   path,
		logger: slog.Default(),
	}
}

// Path returns the backing file path.
func (f *CheckpointFile) Path() string {
	return f.path
}

// Load reads the checkpoint from disk. A missing or unreadable file
// degrades to the zero state rather than an error; a sync can always
// start, at worst from the beginning.
func (f *CheckpointFile) Load() *Checkpoint {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("unreadable checkpoint, starting from zero", "path", f.path, "err", err)
		}
		return &Checkpoint{}
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		f.logger.Warn("corrupt checkpoint, starting from zero", "path", f.path, "err", err)
		return &Checkpoint{}
	}
	if cp.LastLine < 0 {
		cp.LastLine = 0
	}
	if cp.Imported < 0 {
		cp.Imported = 0
	}
	return &cp
}

// Save writes the checkpoint atomically: a temp file in the same
// directory is renamed over the target, so a crash mid-write leaves the
// previous checkpoint intact.
func (f *CheckpointFile) Save(cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Reset removes the checkpoint file. Missing file is not an error.
func (f *CheckpointFile) Reset() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
