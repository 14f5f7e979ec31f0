// Package tracker maintains the persistent per-file state machine that makes
// batch runs resumable.
//
// Each known file path owns exactly one FileStatus. Statuses move through
// pending -> processing -> completed|failed within a run; pending, failed, and
// stale processing entries are all retry-eligible after a restart. Every
// mutation rewrites the whole checkpoint file so readers always see a
// self-consistent snapshot.
//
// # Basic Usage
//
//	tr, err := tracker.New("output/checkpoints")
//	tr.Initialize(paths, true) // resume from checkpoint if present
//
//	for _, p := range tr.PendingFiles() {
//	    tr.StartFile(p)
//	    // ... process ...
//	    tr.CompleteFile(p, outputPath)
//	}
//
//	progress := tr.Progress()
//	fmt.Printf("%.2f%% complete\n", progress.ProgressPercent)
//
// Checkpoint write failures propagate to the caller: silently losing a
// checkpoint write would break the resume contract.
package tracker
