// Package types provides shared type definitions for the docgraph engine.
//
// This package defines domain types used across multiple components of docgraph,
// including discovered file records, collaborator-supplied file metadata, and the
// relationships produced by detection.
//
// # Core Types
//
// FileRecord describes a file found during directory discovery:
//
//	record := types.FileRecord{
//	    Path:      "/data/reports/budget_2024.xlsx",
//	    Name:      "budget_2024.xlsx",
//	    Extension: ".xlsx",
//	    FileType:  "excel",
//	}
//
// FileMetadata is produced by an external extraction collaborator and is
// read-only to this engine. Absent fields are zero values, never errors:
//
//	meta := types.FileMetadata{
//	    FileID:   "a1b2c3",
//	    FileType: "excel",
//	    FileName: "budget_2024.xlsx",
//	    Entities: []string{"Acme Corp"},
//	}
//
// Relationship captures a directed, scored connection between two files:
//
//	rel := types.Relationship{
//	    SourceID:   meta1.FileID,
//	    TargetID:   meta2.FileID,
//	    Type:       types.RelInforms,
//	    Confidence: 0.85,
//	}
//
// # Validation
//
// Relationship implements a validation method to ensure data integrity:
//
//	if err := rel.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Confidence scores are always in the [0, 1] range.
package types
