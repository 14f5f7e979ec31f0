package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// CheckpointFileName is the checkpoint file created under the checkpoint
// directory.
const CheckpointFileName = "batch_state.json"

// ErrUnknownFile is returned when a state transition targets a path the
// tracker was never initialized with.
var ErrUnknownFile = errors.New("file not tracked")

// Status is the processing state of a single file.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// FileStatus is the persisted state of one file. Field names follow the
// checkpoint file contract.
type FileStatus struct {
	FilePath    string     `json:"file_path"`
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"`
	Error       string     `json:"error,omitempty"`
	OutputPath  string     `json:"output_path,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// checkpoint is the on-disk representation. Unknown extra fields in an
// existing checkpoint are ignored on load.
type checkpoint struct {
	FileStatuses map[string]*FileStatus `json:"file_statuses"`
	LastUpdated  time.Time              `json:"last_updated"`
}

// Progress contains aggregate counts over the status table.
type Progress struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	Pending         int     `json:"pending"`
	ProgressPercent float64 `json:"progress_percent"`
}

// Tracker owns the status table. All mutations are serialized by a single
// mutex and persisted by whole-file rewrite.
type Tracker struct {
	checkpointPath string

	mu       sync.Mutex
	statuses map[string]*FileStatus
}

// New creates a Tracker whose checkpoint lives under checkpointDir. The
// directory is created if needed.
func New(checkpointDir string) (*Tracker, error) {
	if err := os.MkdirAll(checkpointDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &Tracker{
		checkpointPath: filepath.Join(checkpointDir, CheckpointFileName),
		statuses:       make(map[string]*FileStatus),
	}, nil
}

// CheckpointPath returns the path of the checkpoint file.
func (t *Tracker) CheckpointPath() string {
	return t.checkpointPath
}

// Initialize sets up tracking for a batch of files. When resuming and a prior
// checkpoint exists, existing statuses are preserved and newly discovered
// paths are added as pending; otherwise every path is reset to pending.
// Initialize is idempotent: calling it again with unchanged inputs and no
// intervening work reproduces the same table.
func (t *Tracker) Initialize(filePaths []string, resume bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	loaded := false
	if resume {
		if err := t.loadLocked(); err == nil {
			loaded = true
		}
	}

	if loaded {
		for _, p := range filePaths {
			if _, ok := t.statuses[p]; !ok {
				t.statuses[p] = &FileStatus{FilePath: p, Status: StatusPending}
			}
		}
	} else {
		t.statuses = make(map[string]*FileStatus, len(filePaths))
		for _, p := range filePaths {
			t.statuses[p] = &FileStatus{FilePath: p, Status: StatusPending}
		}
	}

	return t.saveLocked()
}

// StartFile marks a file as processing and stamps its start time.
func (t *Tracker) StartFile(filePath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.statuses[filePath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, filePath)
	}

	now := time.Now()
	st.Status = StatusProcessing
	st.StartedAt = &now
	return t.saveLocked()
}

// CompleteFile marks a file as completed, recording an optional output path.
func (t *Tracker) CompleteFile(filePath, outputPath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.statuses[filePath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, filePath)
	}

	now := time.Now()
	st.Status = StatusCompleted
	st.Progress = 1.0
	st.Error = ""
	st.OutputPath = outputPath
	st.CompletedAt = &now
	return t.saveLocked()
}

// FailFile marks a file as failed with the given error text.
func (t *Tracker) FailFile(filePath, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.statuses[filePath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, filePath)
	}

	now := time.Now()
	st.Status = StatusFailed
	st.Error = errMsg
	st.CompletedAt = &now
	return t.saveLocked()
}

// PendingFiles returns every retry-eligible path: anything not completed.
// This covers pending and failed entries as well as entries left in
// processing by a crashed run.
func (t *Tracker) PendingFiles() []string {
	return t.filesWhere(func(st *FileStatus) bool { return st.Status != StatusCompleted })
}

// CompletedFiles returns every successfully completed path.
func (t *Tracker) CompletedFiles() []string {
	return t.filesWhere(func(st *FileStatus) bool { return st.Status == StatusCompleted })
}

// FailedFiles returns every failed path.
func (t *Tracker) FailedFiles() []string {
	return t.filesWhere(func(st *FileStatus) bool { return st.Status == StatusFailed })
}

func (t *Tracker) filesWhere(pred func(*FileStatus) bool) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var paths []string
	for p, st := range t.statuses {
		if pred(st) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Get returns a copy of the status for a path, if tracked.
func (t *Tracker) Get(filePath string) (FileStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.statuses[filePath]
	if !ok {
		return FileStatus{}, false
	}
	return *st, true
}

// Progress returns aggregate counts. An empty table yields all zeros.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := len(t.statuses)
	if total == 0 {
		return Progress{}
	}

	var completed, failed int
	for _, st := range t.statuses {
		switch st.Status {
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}

	return Progress{
		Total:           total,
		Completed:       completed,
		Failed:          failed,
		Pending:         total - completed - failed,
		ProgressPercent: math.Round(float64(completed)/float64(total)*10000) / 100,
	}
}

// ClearCheckpoint removes the checkpoint file and resets the status table.
func (t *Tracker) ClearCheckpoint() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	t.statuses = make(map[string]*FileStatus)
	return nil
}

// saveLocked rewrites the entire checkpoint file. Callers must hold t.mu.
// Persistence failures propagate: losing a checkpoint write silently would
// break resumability.
func (t *Tracker) saveLocked() error {
	state := checkpoint{
		FileStatuses: t.statuses,
		LastUpdated:  time.Now(),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := os.WriteFile(t.checkpointPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// loadLocked replaces the status table from the checkpoint file. Callers must
// hold t.mu.
func (t *Tracker) loadLocked() error {
	data, err := os.ReadFile(t.checkpointPath)
	if err != nil {
		return err
	}

	var state checkpoint
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	t.statuses = make(map[string]*FileStatus, len(state.FileStatuses))
	for p, st := range state.FileStatuses {
		if st == nil {
			continue
		}
		if st.FilePath == "" {
			st.FilePath = p
		}
		t.statuses[p] = st
	}
	return nil
}
