package scanner

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/docgraph/pkg/types"
)

// DefaultPatterns covers the file formats the platform's extraction
// collaborators understand.
var DefaultPatterns = []string{
	"*.xlsx", "*.xls", "*.xlsm", // Excel
	"*.csv", "*.tsv", // CSV
	"*.json",         // JSON
	"*.pptx", "*.ppt", // PowerPoint
	"*.docx", "*.doc", // Word
}

// Config contains configuration for the scanner.
type Config struct {
	// Patterns overrides DefaultPatterns when non-empty.
	Patterns []string `yaml:"patterns"`
}

// Scanner discovers files matching glob patterns.
type Scanner struct {
	patterns []string
}

// New creates a new Scanner. A nil config uses DefaultPatterns.
func New(config *Config) *Scanner {
	patterns := DefaultPatterns
	if config != nil && len(config.Patterns) > 0 {
		patterns = config.Patterns
	}
	return &Scanner{patterns: patterns}
}

// Scan walks directory and returns records for every file whose name matches
// one of the patterns (case-insensitive). A nil or empty patterns argument
// falls back to the scanner's configured set. Results are sorted by path.
//
// The directory must exist and be a directory; anything else is a
// configuration error. Individual files that cannot be stat'd are skipped.
func (s *Scanner) Scan(directory string, patterns []string, recursive bool) ([]types.FileRecord, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s: %w", directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", directory)
	}

	if len(patterns) == 0 {
		patterns = s.patterns
	}

	var files []types.FileRecord

	walkErr := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !recursive && path != directory {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(d.Name(), patterns) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			// Stat failure (permissions, races): skip the file.
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		files = append(files, types.FileRecord{
			Path:       path,
			Name:       d.Name(),
			Extension:  ext,
			SizeBytes:  fi.Size(),
			CreatedAt:  fi.ModTime(),
			ModifiedAt: fi.ModTime(),
			FileType:   types.FileTypeForExtension(ext),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// matchesAny reports whether name matches any pattern, comparing
// case-insensitively.
func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if ok, err := filepath.Match(strings.ToLower(p), lower); err == nil && ok {
			return true
		}
	}
	return false
}

// Summary contains aggregate statistics about a scan.
type Summary struct {
	TotalFiles     int            `json:"total_files"`
	TotalSizeBytes int64          `json:"total_size"`
	TotalSizeMB    float64        `json:"total_size_mb"`
	TotalSizeGB    float64        `json:"total_size_gb"`
	ByType         map[string]int `json:"by_type"`
	ByExtension    map[string]int `json:"by_extension"`
}

// Summarize is a pure aggregation over scanned files. It has no side effects
// and never errors; an empty input yields a zeroed summary.
func Summarize(files []types.FileRecord) Summary {
	summary := Summary{
		ByType:      make(map[string]int),
		ByExtension: make(map[string]int),
	}

	for _, f := range files {
		summary.TotalFiles++
		summary.TotalSizeBytes += f.SizeBytes
		summary.ByType[f.FileType]++
		summary.ByExtension[f.Extension]++
	}

	summary.TotalSizeMB = round2(float64(summary.TotalSizeBytes) / (1024 * 1024))
	summary.TotalSizeGB = round2(float64(summary.TotalSizeBytes) / (1024 * 1024 * 1024))
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
