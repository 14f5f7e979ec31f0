package detector

import (
	"log/slog"
	"math"

	"github.com/dshills/docgraph/internal/embedder"
	"github.com/dshills/docgraph/pkg/types"
)

// Config contains configuration for the detector. Strategy order is fixed:
// filename, content, metadata, semantic; enable flags select which run.
type Config struct {
	MinConfidence float64 `yaml:"min_confidence"`
	UseFilename   *bool   `yaml:"use_filename_strategy"`
	UseContent    *bool   `yaml:"use_content_strategy"`
	UseMetadata   *bool   `yaml:"use_metadata_strategy"`
	UseSemantic   bool    `yaml:"use_semantic_strategy"`
}

// DefaultConfig enables the filename, content, and metadata strategies with
// a 0.7 confidence floor. The semantic strategy is opt-in.
func DefaultConfig() *Config {
	return &Config{MinConfidence: 0.7}
}

// Detector evaluates every unordered file pair against an ordered strategy
// list and fuses the evidence.
type Detector struct {
	strategies    []Strategy
	minConfidence float64
	logger        *slog.Logger
}

// New creates a Detector. A nil config uses DefaultConfig. The embedder is
// consulted only when the semantic strategy is enabled; nil means the
// capability is absent and the strategy stays silent.
func New(config *Config, emb embedder.Embedder, logger *slog.Logger) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	minConfidence := config.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.7
	}

	var strategies []Strategy
	if enabled(config.UseFilename) {
		strategies = append(strategies, FilenameStrategy{})
	}
	if enabled(config.UseContent) {
		strategies = append(strategies, ContentStrategy{})
	}
	if enabled(config.UseMetadata) {
		strategies = append(strategies, MetadataStrategy{})
	}
	if config.UseSemantic {
		strategies = append(strategies, NewSemanticStrategy(emb))
	}

	return &Detector{
		strategies:    strategies,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// enabled treats an unset flag as true.
func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// MinConfidence returns the configured confidence floor.
func (d *Detector) MinConfidence() float64 {
	return d.minConfidence
}

// DetectRelationships evaluates every unordered pair of metadata records
// exactly once and returns the relationships whose winning confidence meets
// the configured minimum. Relationships are directional: source is the
// earlier element of the pair.
func (d *Detector) DetectRelationships(metadataList []*types.FileMetadata) []types.Relationship {
	totalPairs := len(metadataList) * (len(metadataList) - 1) / 2
	d.logger.Info("detecting relationships", "files", len(metadataList), "pairs", totalPairs)

	var relationships []types.Relationship
	for i := range metadataList {
		for j := i + 1; j < len(metadataList); j++ {
			if rel := d.detectPair(metadataList[i], metadataList[j]); rel != nil {
				relationships = append(relationships, *rel)
			}
		}
	}

	d.logger.Info("relationships found", "count", len(relationships), "min_confidence", d.minConfidence)
	return relationships
}

// detectPair runs every strategy over one pair, retaining all evidence from
// strategies that fired. The winning type comes from the strictly highest
// confidence; ties keep the earlier strategy in configured order.
func (d *Detector) detectPair(a, b *types.FileMetadata) *types.Relationship {
	var evidence []types.Evidence
	var bestType types.RelationshipType
	bestConfidence := 0.0

	for _, strategy := range d.strategies {
		hyp := strategy.Detect(a, b)
		if hyp == nil {
			continue
		}

		evidence = append(evidence, types.Evidence{
			Strategy: strategy.Name(),
			Facts:    hyp.Evidence,
		})

		if hyp.Confidence > bestConfidence {
			bestConfidence = hyp.Confidence
			bestType = hyp.Type
		}
	}

	if bestType == "" || bestConfidence < d.minConfidence {
		return nil
	}

	return &types.Relationship{
		SourceID:    a.FileID,
		SourceName:  a.FileName,
		TargetID:    b.FileID,
		TargetName:  b.FileName,
		Type:        bestType,
		Description: bestType.Description(),
		Confidence:  bestConfidence,
		Evidence:    evidence,
	}
}

// Summary contains aggregate statistics about detected relationships.
type Summary struct {
	Total         int                            `json:"total_relationships"`
	ByType        map[types.RelationshipType]int `json:"by_type"`
	AvgConfidence float64                        `json:"average_confidence"`
	MinConfidence float64                        `json:"min_confidence"`
	MaxConfidence float64                        `json:"max_confidence"`
}

// Summarize computes count-by-type and confidence statistics, rounded to 3
// decimals. Empty input yields a zeroed summary.
func Summarize(relationships []types.Relationship) Summary {
	summary := Summary{ByType: make(map[types.RelationshipType]int)}
	if len(relationships) == 0 {
		return summary
	}

	var total float64
	min, max := relationships[0].Confidence, relationships[0].Confidence
	for _, rel := range relationships {
		summary.ByType[rel.Type]++
		total += rel.Confidence
		if rel.Confidence < min {
			min = rel.Confidence
		}
		if rel.Confidence > max {
			max = rel.Confidence
		}
	}

	summary.Total = len(relationships)
	summary.AvgConfidence = round3(total / float64(len(relationships)))
	summary.MinConfidence = round3(min)
	summary.MaxConfidence = round3(max)
	return summary
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
