package catalog

import (
	"context"
	"errors"

	"github.com/dshills/docgraph/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Catalog defines the interface for persisting file metadata between runs.
type Catalog interface {
	// UpsertMetadata inserts or replaces the metadata for a file ID.
	UpsertMetadata(ctx context.Context, meta *types.FileMetadata) error

	// GetMetadata returns the metadata for a file ID, or ErrNotFound.
	GetMetadata(ctx context.Context, fileID string) (*types.FileMetadata, error)

	// ListMetadata returns all stored metadata ordered by file path.
	ListMetadata(ctx context.Context) ([]*types.FileMetadata, error)

	// SetProcessedRef records the processed-output reference for a file ID.
	SetProcessedRef(ctx context.Context, fileID, outputPath string) error

	// ProcessedRefs returns the file ID to output reference map.
	ProcessedRefs(ctx context.Context) (map[string]string, error)

	// Close releases the underlying store.
	Close() error
}
