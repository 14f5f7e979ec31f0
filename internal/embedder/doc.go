// Package embedder provides the optional embedding capability used by the
// semantic relationship strategy.
//
// The capability is explicitly optional: detection runs fine without it, and
// absence is a normal, testable state rather than an error path. Two
// providers exist:
//
//   - "openai": real embeddings via the OpenAI API (text-embedding-3-small)
//   - "local": deterministic hash-derived vectors, useful offline and in tests
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{Provider: embedder.ProviderLocal})
//	vec, err := emb.Embed(ctx, "quarterly budget analysis")
//	sim := embedder.CosineSimilarity(vec, other)
//
// Embeddings are cached in-process by content hash with LRU eviction.
package embedder
