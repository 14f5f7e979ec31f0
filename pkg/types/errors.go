package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidRelationshipType = errors.New("invalid relationship type")
	ErrInvalidConfidence       = errors.New("confidence must be between 0 and 1")
	ErrMissingFileID           = errors.New("source and target file IDs are required")
)
