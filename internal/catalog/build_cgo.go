//go:build cgo_sqlite

package catalog

// This file is compiled with the cgo_sqlite tag and uses the C SQLite
// bindings, which are faster under concurrent read load.
//
// Build command:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
