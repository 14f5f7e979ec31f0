package detector

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dshills/docgraph/pkg/types"
)

// Strategy is a pure, side-effect-free pairwise evaluator. Detect returns nil
// when the strategy has no opinion about the pair; it must never fail.
type Strategy interface {
	Name() string
	Detect(a, b *types.FileMetadata) *Hypothesis
}

// Hypothesis is one strategy's opinion about a file pair.
type Hypothesis struct {
	Type       types.RelationshipType
	Confidence float64
	Evidence   map[string]any
}

// Strategy names, also used as evidence labels.
const (
	StrategyFilename = "filename"
	StrategyContent  = "content"
	StrategyMetadata = "metadata"
	StrategySemantic = "semantic"
)

// stemSuffixPatterns strips date, version, and revision markers plus
// parenthetical content from filename stems before comparison.
var stemSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`_\d{4}-\d{2}-\d{2}`), // dates
	regexp.MustCompile(`(?i)_v\d+`),          // versions
	regexp.MustCompile(`(?i)_final`),
	regexp.MustCompile(`(?i)_draft`),
	regexp.MustCompile(`(?i)_rev\d+`),
	regexp.MustCompile(`\(.*?\)`), // parenthetical content
}

// FilenameStrategy relates files whose normalized name stems are similar.
type FilenameStrategy struct{}

func (FilenameStrategy) Name() string { return StrategyFilename }

func (FilenameStrategy) Detect(a, b *types.FileMetadata) *Hypothesis {
	stem1 := fileStem(a.FileName)
	stem2 := fileStem(b.FileName)

	base1 := normalizeStem(stem1)
	base2 := normalizeStem(stem2)

	similarity := similarityRatio(base1, base2)
	if similarity <= 0.6 {
		return nil
	}

	return &Hypothesis{
		Type:       filenameRelationType(stem1, stem2),
		Confidence: math.Min(similarity, 0.9),
		Evidence: map[string]any{
			"filename_similarity": similarity,
			"base_name_match":     base1 == base2,
			"file1_name":          a.FileName,
			"file2_name":          b.FileName,
		},
	}
}

func fileStem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

func normalizeStem(stem string) string {
	base := stem
	for _, p := range stemSuffixPatterns {
		base = p.ReplaceAllString(base, "")
	}
	return strings.Trim(base, "_-. ")
}

var (
	presentationWords = []string{"presentation", "deck", "ppt", "slides"}
	dataWords         = []string{"data", "model", "analysis", "report"}
	sourceWords       = []string{"model", "analysis", "data"}
	targetWords       = []string{"presentation", "deck", "report"}
)

// filenameRelationType applies keyword heuristics to the raw (lowercased)
// name stems: a presentation-like name paired with a data-like name reads as
// SUMMARIZES, the reverse direction as INFORMS.
func filenameRelationType(stem1, stem2 string) types.RelationshipType {
	if containsAny(stem1, presentationWords) && containsAny(stem2, dataWords) {
		return types.RelSummarizes
	}
	if containsAny(stem1, sourceWords) && containsAny(stem2, targetWords) {
		return types.RelInforms
	}
	return types.RelRelatedTo
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ContentStrategy relates files that share extracted entities or key terms.
type ContentStrategy struct {
	// MinSharedEntities and MinSharedTerms gate firing (defaults 2 and 3).
	MinSharedEntities int
	MinSharedTerms    int
}

func (ContentStrategy) Name() string { return StrategyContent }

func (c ContentStrategy) Detect(a, b *types.FileMetadata) *Hypothesis {
	minEntities := c.MinSharedEntities
	if minEntities <= 0 {
		minEntities = 2
	}
	minTerms := c.MinSharedTerms
	if minTerms <= 0 {
		minTerms = 3
	}

	sharedEntities := intersect(a.Entities, b.Entities)
	sharedTerms := intersect(a.KeyTerms, b.KeyTerms)

	if len(sharedEntities) < minEntities && len(sharedTerms) < minTerms {
		return nil
	}

	entityScore := math.Min(float64(len(sharedEntities))/10, 1)
	termScore := math.Min(float64(len(sharedTerms))/15, 1)
	confidence := clamp(entityScore*0.6+termScore*0.4, 0.7, 0.95)

	return &Hypothesis{
		Type:       contentRelationType(a.FileType, b.FileType, len(sharedEntities)),
		Confidence: confidence,
		Evidence: map[string]any{
			"shared_entities":     sharedEntities,
			"shared_terms":        sharedTerms,
			"shared_entity_count": len(sharedEntities),
			"shared_term_count":   len(sharedTerms),
		},
	}
}

// contentTypePairs is the fixed (file_type1, file_type2) lookup table.
var contentTypePairs = map[[2]string]types.RelationshipType{
	{"excel", "powerpoint"}: types.RelInforms,
	{"word", "excel"}:       types.RelInforms,
	{"powerpoint", "word"}:  types.RelDocuments,
	{"excel", "word"}:       types.RelDocuments,
	{"powerpoint", "excel"}: types.RelSummarizes,
}

func contentRelationType(type1, type2 string, sharedEntities int) types.RelationshipType {
	if rt, ok := contentTypePairs[[2]string{type1, type2}]; ok {
		return rt
	}
	if sharedEntities >= 5 {
		return types.RelInforms
	}
	return types.RelRelatedTo
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	var shared []string
	seen := make(map[string]struct{})
	for _, s := range b {
		if _, ok := set[s]; ok {
			if _, dup := seen[s]; !dup {
				seen[s] = struct{}{}
				shared = append(shared, s)
			}
		}
	}
	return shared
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// MetadataStrategy scores circumstantial metadata signals additively: same
// author +0.2, title similarity above 0.7 +0.3, creation within 7 days +0.2,
// same parent directory +0.1. It fires at a cumulative 0.4.
type MetadataStrategy struct{}

func (MetadataStrategy) Name() string { return StrategyMetadata }

func (MetadataStrategy) Detect(a, b *types.FileMetadata) *Hypothesis {
	evidence := make(map[string]any)
	score := 0.0

	if a.Author != "" && b.Author != "" && strings.EqualFold(a.Author, b.Author) {
		evidence["same_author"] = a.Author
		score += 0.2
	}

	if a.Title != "" && b.Title != "" {
		similarity := similarityRatio(strings.ToLower(a.Title), strings.ToLower(b.Title))
		if similarity > 0.7 {
			evidence["title_similarity"] = similarity
			score += 0.3
		}
	}

	if t1, ok1 := parseCreatedAt(a.CreatedAt); ok1 {
		if t2, ok2 := parseCreatedAt(b.CreatedAt); ok2 {
			days := int(math.Abs(t1.Sub(t2).Hours()) / 24)
			if days <= 7 {
				evidence["temporal_proximity_days"] = days
				score += 0.2
			}
		}
	}

	if a.FilePath != "" && b.FilePath != "" && filepath.Dir(a.FilePath) == filepath.Dir(b.FilePath) {
		evidence["same_directory"] = true
		score += 0.1
	}

	if score < 0.4 {
		return nil
	}

	return &Hypothesis{
		Type:       types.RelRelatedTo,
		Confidence: math.Min(score, 0.85),
		Evidence:   evidence,
	}
}

// createdAtLayouts are tried in order when parsing collaborator-supplied
// ISO-8601 timestamps. Unparseable values contribute no temporal evidence.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreatedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	value = strings.Replace(value, "Z", "+00:00", 1)
	if t, err := time.Parse("2006-01-02T15:04:05-07:00", value); err == nil {
		return t, true
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
