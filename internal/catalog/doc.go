// Package catalog persists collaborator-supplied file metadata and
// processed-output references in SQLite.
//
// The catalog lets relationship detection and graph assembly be re-run
// without repeating extraction: metadata extracted once per batch is upserted
// here by stable file ID and listed back for later runs.
//
// Two SQLite drivers are supported via build tags: the default pure-Go build
// uses modernc.org/sqlite, while the cgo_sqlite tag selects
// github.com/mattn/go-sqlite3.
package catalog
