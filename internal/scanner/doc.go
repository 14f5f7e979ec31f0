// Package scanner discovers candidate files under a directory tree.
//
// The scanner enumerates files matching a set of case-insensitive glob
// patterns, classifies each by extension, and records basic stat information.
// Results are sorted by path so discovery is deterministic across runs.
//
// # Basic Usage
//
//	s := scanner.New(nil)
//	files, err := s.Scan("/data/enterprise", nil, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := scanner.Summarize(files)
//	fmt.Printf("Found %d files (%.2f MB)\n", summary.TotalFiles, summary.TotalSizeMB)
//
// Files that fail to stat (e.g. permission errors) are skipped silently;
// discovery never aborts on an unreadable file. Matched files whose extension
// has no known type mapping are retained with type "unknown".
package scanner
