package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/docgraph/internal/scanner"
	"github.com/dshills/docgraph/internal/tracker"
)

// Configuration errors are raised before any worker starts.
var (
	ErrProcessFnRequired = errors.New("process function is required")
)

// Summary status values.
const (
	StatusCompleted = "completed"
	StatusNoFiles   = "no_files"
)

// ProcessFn is the caller-supplied per-file callback. A nil Result with a nil
// error is success without an output reference. Errors (and panics) are
// caught and recorded, never propagated.
type ProcessFn func(ctx context.Context, filePath, outputDir string) (*Result, error)

// Result is what a ProcessFn may return on success.
type Result struct {
	// OutputPath references the processed output for the file, if any.
	OutputPath string
	// Data carries arbitrary processing output for downstream consumers.
	Data map[string]any
}

// Config contains configuration for the batch processor.
type Config struct {
	// MaxWorkers bounds the worker pool (default: 4).
	MaxWorkers int `yaml:"max_workers"`
	// Resume skips files already completed in a prior checkpointed run.
	Resume bool `yaml:"resume"`
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() *Config {
	return &Config{MaxWorkers: 4, Resume: true}
}

// Summary is the consolidated result of a batch run.
type Summary struct {
	Status          string            `json:"status"`
	InputDir        string            `json:"input_directory"`
	OutputDir       string            `json:"output_directory"`
	FilesFound      int               `json:"files_found"`
	FilesProcessed  int               `json:"files_processed"`
	FilesFailed     int               `json:"files_failed"`
	FilesPending    int               `json:"files_pending"`
	ProgressPercent float64           `json:"progress_percent"`
	FileSummary     scanner.Summary   `json:"file_summary"`
	Successful      []string          `json:"successful"`
	Failed          []string          `json:"failed"`
	Errors          map[string]string `json:"errors"`
	CompletedFiles  []string          `json:"completed_files"`
	FailedFiles     []string          `json:"failed_files"`
}

// Processor drives ProcessFn over discovered files with a fixed-size worker
// pool, updating the tracker as it goes.
type Processor struct {
	scanner *scanner.Scanner
	tracker *tracker.Tracker
	config  Config
	logger  *slog.Logger
}

// New creates a Processor. A nil config uses DefaultConfig; a nil logger uses
// slog.Default.
func New(sc *scanner.Scanner, tr *tracker.Tracker, config *Config, logger *slog.Logger) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{scanner: sc, tracker: tr, config: cfg, logger: logger}
}

// ProcessDirectory scans inputDir, initializes tracking, and processes every
// pending file through fn. Configuration errors (nil fn, bad directory) are
// returned before any worker starts. Per-file failures are recorded in the
// summary; tracker persistence failures abort the run.
func (p *Processor) ProcessDirectory(ctx context.Context, inputDir, outputDir string, patterns []string, recursive bool, fn ProcessFn) (*Summary, error) {
	if fn == nil {
		return nil, ErrProcessFnRequired
	}

	p.logger.Info("scanning directory", "dir", inputDir)
	files, err := p.scanner.Scan(inputDir, patterns, recursive)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		p.logger.Warn("no files found", "dir", inputDir)
		return &Summary{
			Status:      StatusNoFiles,
			InputDir:    inputDir,
			OutputDir:   outputDir,
			FileSummary: scanner.Summarize(files),
			Errors:      map[string]string{},
		}, nil
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	fileSummary := scanner.Summarize(files)
	p.logger.Info("discovered files", "count", fileSummary.TotalFiles, "size_mb", fileSummary.TotalSizeMB)

	if err := p.tracker.Initialize(paths, p.config.Resume); err != nil {
		return nil, fmt.Errorf("failed to initialize tracker: %w", err)
	}

	pending := paths
	if p.config.Resume {
		pending = p.tracker.PendingFiles()
		p.logger.Info("resume state", "pending", len(pending), "completed", len(p.tracker.CompletedFiles()))
	}

	run := &runResults{errors: make(map[string]string)}

	if len(pending) == 0 {
		p.logger.Info("all files already processed")
		return p.finalize(inputDir, outputDir, fileSummary, run), nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := p.processFiles(ctx, pending, outputDir, fn, run); err != nil {
		return nil, err
	}

	return p.finalize(inputDir, outputDir, fileSummary, run), nil
}

// runResults aggregates per-run outcomes across workers.
type runResults struct {
	mu         sync.Mutex
	successful []string
	failed     []string
	errors     map[string]string
}

func (r *runResults) success(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successful = append(r.successful, path)
}

func (r *runResults) failure(path, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, path)
	r.errors[path] = msg
}

// processFiles runs the worker pool. Workers pull paths from a shared channel
// so each file is processed by at most one worker; completion order is
// arrival order.
func (p *Processor) processFiles(ctx context.Context, pending []string, outputDir string, fn ProcessFn, run *runResults) error {
	jobs := make(chan string, len(pending))
	for _, path := range pending {
		jobs <- path
	}
	close(jobs)

	var done int64
	total := int64(len(pending))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.config.MaxWorkers; i++ {
		g.Go(func() error {
			for path := range jobs {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				if err := p.processOne(gctx, path, outputDir, fn, run); err != nil {
					// Tracker persistence failure: fatal for the run.
					return err
				}

				n := atomic.AddInt64(&done, 1)
				p.logger.Debug("progress", "done", n, "total", total)
			}
			return nil
		})
	}

	return g.Wait()
}

// processOne handles a single unit of work. The returned error is only
// non-nil for checkpoint persistence failures; ProcessFn errors and panics
// are recorded as per-file failures.
func (p *Processor) processOne(ctx context.Context, path, outputDir string, fn ProcessFn, run *runResults) error {
	if err := p.tracker.StartFile(path); err != nil {
		return err
	}

	result, fnErr := invoke(ctx, path, outputDir, fn)

	if fnErr != nil {
		msg := fnErr.Error()
		p.logger.Error("file processing failed", "path", path, "error", msg)
		run.failure(path, msg)
		return p.tracker.FailFile(path, msg)
	}

	outputPath := ""
	if result != nil {
		outputPath = result.OutputPath
	}
	run.success(path)
	return p.tracker.CompleteFile(path, outputPath)
}

// invoke calls fn, converting panics into ordinary errors so a misbehaving
// callback cannot take down the pool.
func invoke(ctx context.Context, path, outputDir string, fn ProcessFn) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, path, outputDir)
}

// finalize merges the scan summary, tracker counts, and per-run lists into
// the final result.
func (p *Processor) finalize(inputDir, outputDir string, fileSummary scanner.Summary, run *runResults) *Summary {
	progress := p.tracker.Progress()

	run.mu.Lock()
	defer run.mu.Unlock()
	sort.Strings(run.successful)
	sort.Strings(run.failed)

	return &Summary{
		Status:          StatusCompleted,
		InputDir:        inputDir,
		OutputDir:       outputDir,
		FilesFound:      fileSummary.TotalFiles,
		FilesProcessed:  progress.Completed,
		FilesFailed:     progress.Failed,
		FilesPending:    progress.Pending,
		ProgressPercent: progress.ProgressPercent,
		FileSummary:     fileSummary,
		Successful:      run.successful,
		Failed:          run.failed,
		Errors:          run.errors,
		CompletedFiles:  p.tracker.CompletedFiles(),
		FailedFiles:     p.tracker.FailedFiles(),
	}
}
