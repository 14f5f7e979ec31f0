package types

// RelationshipType classifies how one file relates to another.
type RelationshipType string

const (
	RelInforms    RelationshipType = "INFORMS"
	RelSummarizes RelationshipType = "SUMMARIZES"
	RelDocuments  RelationshipType = "DOCUMENTS"
	RelReferences RelationshipType = "REFERENCES"
	RelRelatedTo  RelationshipType = "RELATED_TO"
)

// relationshipDescriptions is the fixed type-to-text table used for edge
// descriptions.
var relationshipDescriptions = map[RelationshipType]string{
	RelInforms:    "File A provides data/information used in File B",
	RelSummarizes: "File A summarizes or presents data from File B",
	RelDocuments:  "File A documents or explains File B",
	RelReferences: "File A references data from File B",
	RelRelatedTo:  "Files share common context or topic",
}

// Valid reports whether the relationship type is one of the known values.
func (rt RelationshipType) Valid() bool {
	_, ok := relationshipDescriptions[rt]
	return ok
}

// Description returns the fixed human-readable description for the type, or
// the empty string for unknown types.
func (rt RelationshipType) Description() string {
	return relationshipDescriptions[rt]
}

// Evidence records the structured facts one strategy used to justify its
// hypothesis about a file pair.
type Evidence struct {
	Strategy string         `json:"strategy"`
	Facts    map[string]any `json:"evidence"`
}

// Relationship is a directed, scored connection between two files. One
// relationship is created per evaluated unordered pair per detection run; it
// carries the evidence of every strategy that fired, not only the winner's.
type Relationship struct {
	SourceID    string           `json:"source_file_id"`
	SourceName  string           `json:"source_file_name"`
	TargetID    string           `json:"target_file_id"`
	TargetName  string           `json:"target_file_name"`
	Type        RelationshipType `json:"relationship_type"`
	Description string           `json:"relationship_description"`
	Confidence  float64          `json:"confidence"`
	Evidence    []Evidence       `json:"evidence"`
}

// Validate checks the relationship invariants.
func (r *Relationship) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidRelationshipType
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return ErrInvalidConfidence
	}
	if r.SourceID == "" || r.TargetID == "" {
		return ErrMissingFileID
	}
	return nil
}
