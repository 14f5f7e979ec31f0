// Package pipeline wires the batch engine to relationship detection and
// graph assembly.
//
// A run scans and processes files through the caller's ProcessFn, asks the
// external metadata collaborator for per-file metadata, records it in the
// catalog, detects relationships across the collected metadata, and writes
// the relationship graph snapshot.
//
// # Basic Usage
//
//	p, err := pipeline.New(config.Default(), nil)
//	defer p.Close()
//
//	result, err := p.Run(ctx, "/data/in", "/data/out", processFn, metadataFn)
//	fmt.Printf("run %s: %d nodes, %d edges\n", result.RunID, result.NodeCount, result.EdgeCount)
//
// The metadata collaborator is best-effort: a per-file metadata failure is
// logged and that file is left out of the graph, never failing the run.
package pipeline
