// Package batch coordinates bounded-concurrency processing of discovered
// files.
//
// The processor scans a directory, initializes the progress tracker, and
// drives a caller-supplied ProcessFn across a fixed-size worker pool. One
// file's failure never aborts its siblings: per-file errors (including
// panics) are converted to typed failure records and reported in the final
// summary. Checkpoint persistence failures, by contrast, abort the run.
//
// # Basic Usage
//
//	proc, err := batch.New(sc, tr, &batch.Config{MaxWorkers: 8, Resume: true}, nil)
//
//	summary, err := proc.ProcessDirectory(ctx, "/data/in", "/data/out", nil, true,
//	    func(ctx context.Context, filePath, outputDir string) (*batch.Result, error) {
//	        out, err := extract(filePath, outputDir)
//	        if err != nil {
//	            return nil, err
//	        }
//	        return &batch.Result{OutputPath: out}, nil
//	    })
//
//	fmt.Printf("%d processed, %d failed\n", summary.FilesProcessed, summary.FilesFailed)
//
// Completion order is arrival order; no ordering guarantee exists across
// files. When resuming with nothing pending, the summary is returned
// immediately and ProcessFn is never invoked.
package batch
