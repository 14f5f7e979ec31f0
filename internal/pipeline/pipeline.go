package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/docgraph/internal/batch"
	"github.com/dshills/docgraph/internal/catalog"
	"github.com/dshills/docgraph/internal/config"
	"github.com/dshills/docgraph/internal/detector"
	"github.com/dshills/docgraph/internal/embedder"
	"github.com/dshills/docgraph/internal/graph"
	"github.com/dshills/docgraph/internal/scanner"
	"github.com/dshills/docgraph/internal/tracker"
	"github.com/dshills/docgraph/pkg/types"
)

// MetadataFn is the external metadata collaborator: given a source file path
// and the batch result for it, supply the file's metadata. Errors are
// per-file and never fail the run.
type MetadataFn func(ctx context.Context, filePath string) (*types.FileMetadata, error)

// RunResult is the consolidated outcome of one pipeline run.
type RunResult struct {
	RunID               string               `json:"run_id"`
	Batch               *batch.Summary       `json:"batch"`
	Relationships       []types.Relationship `json:"relationships"`
	RelationshipSummary detector.Summary     `json:"relationship_summary"`
	GraphPath           string               `json:"graph_path,omitempty"`
	NodeCount           int                  `json:"node_count"`
	EdgeCount           int                  `json:"edge_count"`
}

// Pipeline orchestrates scan -> batch -> metadata -> detection -> graph.
type Pipeline struct {
	cfg       *config.Config
	processor *batch.Processor
	tracker   *tracker.Tracker
	detector  *detector.Detector
	catalog   catalog.Catalog
	embedder  embedder.Embedder
	logger    *slog.Logger
}

// New builds a Pipeline from configuration. The embedding capability is
// constructed only when the semantic strategy is enabled and a provider is
// configured; a failed embedder construction degrades to running without the
// capability.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := tracker.New(cfg.CheckpointDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker: %w", err)
	}

	cat, err := catalog.NewSQLiteCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	var emb embedder.Embedder
	if cfg.Detector.UseSemantic && cfg.Embedder.Provider != "" {
		emb, err = embedder.New(cfg.Embedder)
		if err != nil {
			logger.Warn("embedding capability unavailable, semantic strategy disabled", "error", err)
			emb = nil
		}
	}

	sc := scanner.New(&cfg.Scanner)

	return &Pipeline{
		cfg:       cfg,
		processor: batch.New(sc, tr, &cfg.Batch, logger),
		tracker:   tr,
		detector:  detector.New(&cfg.Detector, emb, logger),
		catalog:   cat,
		embedder:  emb,
		logger:    logger,
	}, nil
}

// Close releases the catalog and any embedding resources.
func (p *Pipeline) Close() error {
	if p.embedder != nil {
		_ = p.embedder.Close()
	}
	return p.catalog.Close()
}

// Tracker exposes the progress tracker, mainly for status inspection.
func (p *Pipeline) Tracker() *tracker.Tracker {
	return p.tracker
}

// Run processes inputDir through fn, gathers metadata for every completed
// file via metadataFn, detects relationships, and writes the graph snapshot
// under outputDir. A nil metadataFn skips detection and graph assembly.
func (p *Pipeline) Run(ctx context.Context, inputDir, outputDir string, fn batch.ProcessFn, metadataFn MetadataFn) (*RunResult, error) {
	runID := uuid.NewString()
	p.logger.Info("pipeline run starting", "run_id", runID, "input", inputDir)

	summary, err := p.processor.ProcessDirectory(ctx, inputDir, outputDir, nil, true, fn)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:               runID,
		Batch:               summary,
		RelationshipSummary: detector.Summarize(nil),
	}

	if summary.Status == batch.StatusNoFiles || metadataFn == nil {
		return result, nil
	}

	metadataList := p.collectMetadata(ctx, summary.CompletedFiles, metadataFn)
	if len(metadataList) < 2 {
		p.logger.Info("not enough metadata for relationship detection", "files", len(metadataList))
		return result, nil
	}

	relationships := p.detector.DetectRelationships(metadataList)
	result.Relationships = relationships
	result.RelationshipSummary = detector.Summarize(relationships)

	refs, err := p.catalog.ProcessedRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed refs: %w", err)
	}

	g := graph.New()
	g.BuildFrom(metadataList, relationships, refs)

	graphPath := filepath.Join(outputDir, p.cfg.GraphFileName)
	if err := g.Save(graphPath); err != nil {
		return nil, err
	}

	result.GraphPath = graphPath
	result.NodeCount = g.NodeCount()
	result.EdgeCount = g.EdgeCount()

	p.logger.Info("pipeline run complete", "run_id", runID,
		"nodes", result.NodeCount, "edges", result.EdgeCount, "graph", graphPath)
	return result, nil
}

// collectMetadata asks the collaborator for metadata on every completed file
// and records it in the catalog. Per-file failures are logged and skipped.
func (p *Pipeline) collectMetadata(ctx context.Context, completed []string, metadataFn MetadataFn) []*types.FileMetadata {
	var metadataList []*types.FileMetadata

	for _, path := range completed {
		meta, err := metadataFn(ctx, path)
		if err != nil || meta == nil || meta.FileID == "" {
			p.logger.Warn("metadata extraction skipped", "path", path, "error", err)
			continue
		}

		if err := p.catalog.UpsertMetadata(ctx, meta); err != nil {
			p.logger.Warn("failed to catalog metadata", "path", path, "error", err)
		}

		if st, ok := p.tracker.Get(path); ok && st.OutputPath != "" {
			if err := p.catalog.SetProcessedRef(ctx, meta.FileID, st.OutputPath); err != nil {
				p.logger.Warn("failed to record processed ref", "path", path, "error", err)
			}
		}

		metadataList = append(metadataList, meta)
	}

	return metadataList
}
