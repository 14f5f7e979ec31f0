package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

func TestScan_MatchesDefaultPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "budget.xlsx")
	writeFile(t, tmpDir, "notes.docx")
	writeFile(t, tmpDir, "readme.txt") // not a supported pattern

	s := New(nil)
	files, err := s.Scan(tmpDir, nil, true)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "budget.xlsx", files[0].Name)
	assert.Equal(t, "excel", files[0].FileType)
	assert.Equal(t, ".xlsx", files[0].Extension)
	assert.Equal(t, "notes.docx", files[1].Name)
	assert.Equal(t, "word", files[1].FileType)
}

func TestScan_CaseInsensitivePatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "REPORT.XLSX")

	s := New(nil)
	files, err := s.Scan(tmpDir, []string{"*.xlsx"}, true)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "excel", files[0].FileType)
}

func TestScan_SortedByPath(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "b.csv")
	writeFile(t, tmpDir, "a.csv")
	writeFile(t, tmpDir, "sub/c.csv")

	s := New(nil)
	files, err := s.Scan(tmpDir, nil, true)
	require.NoError(t, err)
	require.Len(t, files, 3)

	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1].Path, files[i].Path)
	}
}

func TestScan_NonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "top.csv")
	writeFile(t, tmpDir, "sub/nested.csv")

	s := New(nil)
	files, err := s.Scan(tmpDir, nil, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "top.csv", files[0].Name)
}

func TestScan_UnknownExtensionRetained(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "archive.zip")

	s := New(nil)
	files, err := s.Scan(tmpDir, []string{"*.zip"}, true)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "unknown", files[0].FileType)
}

func TestScan_MissingDirectory(t *testing.T) {
	s := New(nil)
	_, err := s.Scan(filepath.Join(t.TempDir(), "nope"), nil, true)
	assert.Error(t, err)
}

func TestScan_NotADirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "plain.csv")

	s := New(nil)
	_, err := s.Scan(path, nil, true)
	assert.Error(t, err)
}

func TestScan_EmptyDirectory(t *testing.T) {
	s := New(nil)
	files, err := s.Scan(t.TempDir(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSummarize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.xlsx")
	writeFile(t, tmpDir, "b.xlsx")
	writeFile(t, tmpDir, "c.docx")

	s := New(nil)
	files, err := s.Scan(tmpDir, nil, true)
	require.NoError(t, err)

	summary := Summarize(files)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.ByType["excel"])
	assert.Equal(t, 1, summary.ByType["word"])
	assert.Equal(t, 2, summary.ByExtension[".xlsx"])
	assert.Equal(t, int64(21), summary.TotalSizeBytes) // 3 x "content"
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalFiles)
	assert.Equal(t, int64(0), summary.TotalSizeBytes)
	assert.Empty(t, summary.ByType)
	assert.Empty(t, summary.ByExtension)
}
