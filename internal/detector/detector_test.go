package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docgraph/pkg/types"
)

// stubEmbedder returns a fixed vector per text, or a fixed error.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) Dimension() int   { return 3 }
func (s *stubEmbedder) Provider() string { return "stub" }
func (s *stubEmbedder) Close() error     { return nil }

func boolPtr(b bool) *bool { return &b }

func TestDetectRelationships_VersionedWorkbooks(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "budget_2024.xlsx", FileType: "excel"},
		{FileID: "f2", FileName: "budget_2024_v2.xlsx", FileType: "excel"},
	}

	d := New(nil, nil, nil)
	rels := d.DetectRelationships(metadataList)
	require.Len(t, rels, 1)

	rel := rels[0]
	assert.Equal(t, "f1", rel.SourceID)
	assert.Equal(t, "f2", rel.TargetID)
	assert.Equal(t, types.RelRelatedTo, rel.Type)
	assert.Equal(t, 0.9, rel.Confidence)
	assert.Equal(t, types.RelRelatedTo.Description(), rel.Description)
	require.Len(t, rel.Evidence, 1)
	assert.Equal(t, StrategyFilename, rel.Evidence[0].Strategy)
}

func TestDetectRelationships_SingleEdgePerPair(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "report.xlsx", Entities: []string{"Acme", "Corp"}},
		{FileID: "f2", FileName: "report_v2.xlsx", Entities: []string{"Acme", "Corp"}},
		{FileID: "f3", FileName: "report_final.xlsx", Entities: []string{"Acme", "Corp"}},
	}

	d := New(nil, nil, nil)
	rels := d.DetectRelationships(metadataList)
	// Three unordered pairs, one relationship each at most.
	assert.LessOrEqual(t, len(rels), 3)

	seen := make(map[[2]string]bool)
	for _, rel := range rels {
		key := [2]string{rel.SourceID, rel.TargetID}
		assert.False(t, seen[key], "duplicate edge for pair %v", key)
		seen[key] = true
		assert.Less(t, rel.SourceID, rel.TargetID, "source must be the earlier element")
	}
}

func TestDetectRelationships_AllFiringEvidenceRetained(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "budget_2024.xlsx", Entities: []string{"Acme", "Corp"}},
		{FileID: "f2", FileName: "budget_2024_v2.xlsx", Entities: []string{"Acme", "Corp"}},
	}

	d := New(nil, nil, nil)
	rels := d.DetectRelationships(metadataList)
	require.Len(t, rels, 1)

	// Filename (0.9) and content (0.7) both fired; the filename hypothesis
	// wins the type, but both evidence entries survive.
	require.Len(t, rels[0].Evidence, 2)
	assert.Equal(t, StrategyFilename, rels[0].Evidence[0].Strategy)
	assert.Equal(t, StrategyContent, rels[0].Evidence[1].Strategy)
	assert.Equal(t, 0.9, rels[0].Confidence)
}

func TestDetectRelationships_TieKeepsEarlierStrategy(t *testing.T) {
	// Content fires at exactly 0.7 (two shared entities, INFORMS for
	// excel -> powerpoint) and metadata also scores exactly 0.7 (author +
	// title + temporal, RELATED_TO). With a strict-greater comparison the
	// later strategy never displaces the earlier one on a tie.
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "alpha.xlsx", FileType: "excel",
			Author: "A", Title: "Plan", CreatedAt: "2026-03-01", FilePath: "/x/alpha.xlsx",
			Entities: []string{"Acme", "Corp"}},
		{FileID: "f2", FileName: "zzzz.pptx", FileType: "powerpoint",
			Author: "A", Title: "Plan", CreatedAt: "2026-03-02", FilePath: "/y/zzzz.pptx",
			Entities: []string{"Acme", "Corp"}},
	}

	cfg := &Config{MinConfidence: 0.7, UseFilename: boolPtr(false)}
	d := New(cfg, nil, nil)

	rels := d.DetectRelationships(metadataList)
	require.Len(t, rels, 1)
	assert.Equal(t, types.RelInforms, rels[0].Type)
	assert.Equal(t, 0.7, rels[0].Confidence)
	require.Len(t, rels[0].Evidence, 2)
	assert.Equal(t, StrategyContent, rels[0].Evidence[0].Strategy)
	assert.Equal(t, StrategyMetadata, rels[0].Evidence[1].Strategy)
}

func TestDetectRelationships_HigherConfidenceLaterStrategyWins(t *testing.T) {
	// Content fires at 0.7; semantic via stub vectors reports similarity 1.0
	// and takes the type. Evidence from both strategies survives.
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "alpha.csv", FileType: "excel",
			Title: "Revenue", Entities: []string{"Acme", "Corp"}},
		{FileID: "f2", FileName: "zzzz.json", FileType: "powerpoint",
			Title: "Revenue", Entities: []string{"Acme", "Corp"}},
	}

	cfg := &Config{
		MinConfidence: 0.7,
		UseFilename:   boolPtr(false),
		UseMetadata:   boolPtr(false),
		UseSemantic:   true,
	}
	d := New(cfg, &stubEmbedder{}, nil)

	rels := d.DetectRelationships(metadataList)
	require.Len(t, rels, 1)
	assert.Equal(t, types.RelRelatedTo, rels[0].Type)
	assert.Equal(t, 1.0, rels[0].Confidence)
	require.Len(t, rels[0].Evidence, 2)
}

func TestDetectRelationships_BelowFloorFiltered(t *testing.T) {
	// Metadata-only pair scoring 0.6 (author + title, different directories,
	// no dates) stays below the 0.7 floor.
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "aaa.docx", Author: "A", Title: "Plan", FilePath: "/x/aaa.docx"},
		{FileID: "f2", FileName: "zzz.docx", Author: "A", Title: "Plan", FilePath: "/y/zzz.docx"},
	}

	d := New(nil, nil, nil)
	assert.Empty(t, d.DetectRelationships(metadataList))
}

func TestDetectRelationships_ConfidenceWithinBounds(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "budget_2024.xlsx", Author: "A", Title: "Budget",
			Entities: []string{"a", "b", "c", "d", "e"}, KeyTerms: []string{"q1", "q2", "q3"}},
		{FileID: "f2", FileName: "budget_2024_v2.xlsx", Author: "A", Title: "Budget",
			Entities: []string{"a", "b", "c", "d", "e"}, KeyTerms: []string{"q1", "q2", "q3"}},
		{FileID: "f3", FileName: "budget_summary.pptx", Author: "A", Title: "Budget",
			Entities: []string{"a", "b", "c"}},
	}

	d := New(nil, nil, nil)
	for _, rel := range d.DetectRelationships(metadataList) {
		assert.GreaterOrEqual(t, rel.Confidence, d.MinConfidence())
		assert.LessOrEqual(t, rel.Confidence, 1.0)
		assert.NoError(t, rel.Validate())
	}
}

func TestDetectRelationships_SemanticCapabilityAbsent(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "aaa.csv", Title: "Revenue", KeyTerms: []string{"revenue"}},
		{FileID: "f2", FileName: "zzz.csv", Title: "Revenue", KeyTerms: []string{"revenue"}},
	}

	cfg := &Config{
		UseFilename: boolPtr(false),
		UseContent:  boolPtr(false),
		UseMetadata: boolPtr(false),
		UseSemantic: true,
	}

	// Semantic enabled but no embedder wired: the strategy stays silent and
	// the run completes without error.
	d := New(cfg, nil, nil)
	assert.Empty(t, d.DetectRelationships(metadataList))
}

func TestDetectRelationships_SemanticEmbedderErrorsDegrade(t *testing.T) {
	metadataList := []*types.FileMetadata{
		{FileID: "f1", FileName: "aaa.csv", Title: "Revenue"},
		{FileID: "f2", FileName: "zzz.csv", Title: "Revenue"},
	}

	cfg := &Config{
		UseFilename: boolPtr(false),
		UseContent:  boolPtr(false),
		UseMetadata: boolPtr(false),
		UseSemantic: true,
	}
	emb := &stubEmbedder{err: errors.New("provider unavailable")}

	d := New(cfg, emb, nil)
	assert.Empty(t, d.DetectRelationships(metadataList))
}

func TestSemanticStrategy_BelowSimilarityThreshold(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"Revenue":  {1, 0, 0},
		"Expenses": {0, 1, 0},
	}}

	s := NewSemanticStrategy(emb)
	hyp := s.Detect(
		&types.FileMetadata{Title: "Revenue"},
		&types.FileMetadata{Title: "Expenses"},
	)
	assert.Nil(t, hyp)
}

func TestSemanticStrategy_NoMetadataText(t *testing.T) {
	s := NewSemanticStrategy(&stubEmbedder{})
	assert.Nil(t, s.Detect(&types.FileMetadata{}, &types.FileMetadata{Title: "X"}))
}

func TestDetectRelationships_FewerThanTwoFiles(t *testing.T) {
	d := New(nil, nil, nil)
	assert.Empty(t, d.DetectRelationships(nil))
	assert.Empty(t, d.DetectRelationships([]*types.FileMetadata{{FileID: "f1", FileName: "a.csv"}}))
}

func TestSummarize(t *testing.T) {
	rels := []types.Relationship{
		{Type: types.RelRelatedTo, Confidence: 0.9},
		{Type: types.RelInforms, Confidence: 0.7},
		{Type: types.RelRelatedTo, Confidence: 0.8},
	}

	summary := Summarize(rels)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.ByType[types.RelRelatedTo])
	assert.Equal(t, 1, summary.ByType[types.RelInforms])
	assert.Equal(t, 0.8, summary.AvgConfidence)
	assert.Equal(t, 0.7, summary.MinConfidence)
	assert.Equal(t, 0.9, summary.MaxConfidence)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.ByType)
	assert.Equal(t, 0.0, summary.AvgConfidence)
}
