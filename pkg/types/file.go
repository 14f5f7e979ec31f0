package types

import (
	"strings"
	"time"
)

// FileTypeUnknown is assigned to files whose extension has no known mapping.
const FileTypeUnknown = "unknown"

// extensionTypes maps lowercase file extensions to logical file types.
var extensionTypes = map[string]string{
	".xlsx": "excel",
	".xls":  "excel",
	".xlsm": "excel",
	".csv":  "csv",
	".tsv":  "csv",
	".json": "json",
	".pptx": "powerpoint",
	".ppt":  "powerpoint",
	".docx": "word",
	".doc":  "word",
}

// FileTypeForExtension returns the logical file type for an extension such as
// ".xlsx". Unrecognized extensions map to FileTypeUnknown.
func FileTypeForExtension(ext string) string {
	if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return FileTypeUnknown
}

// FileRecord describes a single discovered file. Records are immutable once
// produced by discovery.
type FileRecord struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	FileType   string    `json:"file_type"`
}

// FileMetadata is the per-file metadata supplied by the external extraction
// collaborator. All fields except FileID may be absent; absent fields are zero
// values, never errors. CreatedAt is the ISO-8601 string exactly as supplied.
type FileMetadata struct {
	FileID    string   `json:"file_id"`
	FileType  string   `json:"file_type"`
	FileName  string   `json:"file_name"`
	FilePath  string   `json:"file_path"`
	Entities  []string `json:"entities,omitempty"`
	KeyTerms  []string `json:"key_terms,omitempty"`
	Author    string   `json:"author,omitempty"`
	Title     string   `json:"title,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}
