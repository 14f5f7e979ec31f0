// Package detector discovers pairwise relationships between file metadata
// records.
//
// Detection runs a configured, ordered list of strategies over every
// unordered pair of files — O(n^2), a deliberate choice for batch sizes in
// the tens to low hundreds. Each strategy independently reports either no
// opinion or a typed hypothesis with a confidence score and supporting
// evidence. The detector keeps all evidence from every strategy that fired
// but takes the single highest-confidence strategy's relationship type; ties
// go to the first strategy in configured order.
//
// # Basic Usage
//
//	det := detector.New(nil, nil, nil) // defaults, no semantic capability
//	rels := det.DetectRelationships(metadataList)
//	summary := detector.Summarize(rels)
//
// A relationship is emitted only when the winning confidence meets the
// configured minimum (default 0.7). Strategies are deterministic,
// side-effect-free, and never fail: internal errors degrade to no opinion.
package detector
