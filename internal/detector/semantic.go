package detector

import (
	"context"
	"strings"
	"time"

	"github.com/dshills/docgraph/internal/embedder"
	"github.com/dshills/docgraph/pkg/types"
)

// semanticTimeout bounds a single pairwise embedding call so a slow provider
// cannot stall detection.
const semanticTimeout = 30 * time.Second

// SemanticStrategy relates files whose metadata text embeds to nearby
// vectors. The embedding capability is optional: with a nil embedder the
// strategy always has no opinion, and any embedder failure degrades to no
// opinion as well.
type SemanticStrategy struct {
	embedder embedder.Embedder

	// MinSimilarity gates firing (default 0.7).
	MinSimilarity float64
}

// NewSemanticStrategy wraps an embedding capability. A nil embedder is a
// normal state, not an error.
func NewSemanticStrategy(emb embedder.Embedder) *SemanticStrategy {
	return &SemanticStrategy{embedder: emb, MinSimilarity: 0.7}
}

func (s *SemanticStrategy) Name() string { return StrategySemantic }

func (s *SemanticStrategy) Detect(a, b *types.FileMetadata) *Hypothesis {
	if s == nil || s.embedder == nil {
		return nil
	}

	text1 := metadataText(a)
	text2 := metadataText(b)
	if text1 == "" || text2 == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), semanticTimeout)
	defer cancel()

	vec1, err := s.embedder.Embed(ctx, text1)
	if err != nil {
		return nil
	}
	vec2, err := s.embedder.Embed(ctx, text2)
	if err != nil {
		return nil
	}

	min := s.MinSimilarity
	if min <= 0 {
		min = 0.7
	}

	similarity := embedder.CosineSimilarity(vec1, vec2)
	if similarity < min {
		return nil
	}

	return &Hypothesis{
		Type:       types.RelRelatedTo,
		Confidence: similarity,
		Evidence: map[string]any{
			"semantic_similarity": similarity,
		},
	}
}

// metadataText builds the text representation embedded for a file: title
// plus up to ten key terms and ten entities.
func metadataText(m *types.FileMetadata) string {
	var parts []string
	if m.Title != "" {
		parts = append(parts, m.Title)
	}
	parts = append(parts, firstN(m.KeyTerms, 10)...)
	parts = append(parts, firstN(m.Entities, 10)...)
	return strings.Join(parts, " ")
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
