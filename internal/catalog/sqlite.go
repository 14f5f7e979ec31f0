package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/docgraph/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS file_metadata (
    file_id TEXT PRIMARY KEY,
    file_type TEXT NOT NULL DEFAULT '',
    file_name TEXT NOT NULL DEFAULT '',
    file_path TEXT NOT NULL DEFAULT '',
    entities TEXT NOT NULL DEFAULT '[]',
    key_terms TEXT NOT NULL DEFAULT '[]',
    author TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS processed_refs (
    file_id TEXT PRIMARY KEY,
    output_path TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteCatalog implements Catalog using SQLite.
type SQLiteCatalog struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteCatalog opens (creating if necessary) a catalog database at dbPath.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// UpsertMetadata inserts or replaces the metadata row for meta.FileID.
func (c *SQLiteCatalog) UpsertMetadata(ctx context.Context, meta *types.FileMetadata) error {
	entities, err := json.Marshal(emptyIfNil(meta.Entities))
	if err != nil {
		return fmt.Errorf("failed to encode entities: %w", err)
	}
	keyTerms, err := json.Marshal(emptyIfNil(meta.KeyTerms))
	if err != nil {
		return fmt.Errorf("failed to encode key terms: %w", err)
	}

	query := `
		INSERT INTO file_metadata (file_id, file_type, file_name, file_path, entities, key_terms, author, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			file_type = excluded.file_type,
			file_name = excluded.file_name,
			file_path = excluded.file_path,
			entities = excluded.entities,
			key_terms = excluded.key_terms,
			author = excluded.author,
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`
	_, err = c.db.ExecContext(ctx, query,
		meta.FileID, meta.FileType, meta.FileName, meta.FilePath,
		string(entities), string(keyTerms), meta.Author, meta.Title, meta.CreatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the metadata for fileID, or ErrNotFound.
func (c *SQLiteCatalog) GetMetadata(ctx context.Context, fileID string) (*types.FileMetadata, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT file_id, file_type, file_name, file_path, entities, key_terms, author, title, created_at
		FROM file_metadata WHERE file_id = ?
	`, fileID)

	meta, err := scanMetadata(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	return meta, nil
}

// ListMetadata returns all stored metadata ordered by file path.
func (c *SQLiteCatalog) ListMetadata(ctx context.Context) ([]*types.FileMetadata, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT file_id, file_type, file_name, file_path, entities, key_terms, author, title, created_at
		FROM file_metadata ORDER BY file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []*types.FileMetadata
	for rows.Next() {
		meta, err := scanMetadata(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		all = append(all, meta)
	}
	return all, rows.Err()
}

// SetProcessedRef records the processed-output reference for a file ID.
func (c *SQLiteCatalog) SetProcessedRef(ctx context.Context, fileID, outputPath string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO processed_refs (file_id, output_path, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			output_path = excluded.output_path,
			updated_at = excluded.updated_at
	`, fileID, outputPath, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set processed ref: %w", err)
	}
	return nil
}

// ProcessedRefs returns the file ID to output reference map.
func (c *SQLiteCatalog) ProcessedRefs(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT file_id, output_path FROM processed_refs`)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	refs := make(map[string]string)
	for rows.Next() {
		var fileID, outputPath string
		if err := rows.Scan(&fileID, &outputPath); err != nil {
			return nil, fmt.Errorf("failed to scan processed ref: %w", err)
		}
		refs[fileID] = outputPath
	}
	return refs, rows.Err()
}

// scanMetadata decodes one metadata row via the given scan function.
func scanMetadata(scan func(dest ...any) error) (*types.FileMetadata, error) {
	var meta types.FileMetadata
	var entities, keyTerms string

	err := scan(&meta.FileID, &meta.FileType, &meta.FileName, &meta.FilePath,
		&entities, &keyTerms, &meta.Author, &meta.Title, &meta.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(entities), &meta.Entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}
	if err := json.Unmarshal([]byte(keyTerms), &meta.KeyTerms); err != nil {
		return nil, fmt.Errorf("failed to decode key terms: %w", err)
	}
	return &meta, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
