//go:build !cgo_sqlite

package catalog

// This file is compiled by default and uses a pure Go SQLite implementation:
// no C compiler required, cross-platform builds.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
