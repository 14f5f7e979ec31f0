// Package graph assembles the relationship graph and serializes snapshots.
//
// The graph is rebuilt fresh each run from metadata records and detected
// relationships, then written as a single JSON snapshot (whole-file
// overwrite, not merge). Nodes wrap file metadata plus a reference to the
// file's processed output; edges wrap relationships. Lookup helpers are
// linear scans, which is fine at the expected scale of hundreds of nodes.
package graph
