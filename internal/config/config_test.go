package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Batch.MaxWorkers)
	assert.True(t, cfg.Batch.Resume)
	assert.Equal(t, 0.7, cfg.Detector.MinConfidence)
	assert.False(t, cfg.Detector.UseSemantic)
	assert.Equal(t, "output/checkpoints", cfg.CheckpointDir)
	assert.Equal(t, "output/catalog.db", cfg.CatalogPath)
	assert.Equal(t, "relationship_graph.json", cfg.GraphFileName)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
batch:
  max_workers: 8
  resume: false
relationships:
  min_confidence: 0.8
  use_semantic_strategy: true
embedder:
  provider: local
checkpoint_dir: /var/run/docgraph
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Batch.MaxWorkers)
	assert.False(t, cfg.Batch.Resume)
	assert.Equal(t, 0.8, cfg.Detector.MinConfidence)
	assert.True(t, cfg.Detector.UseSemantic)
	assert.Equal(t, "local", cfg.Embedder.Provider)
	assert.Equal(t, "/var/run/docgraph", cfg.CheckpointDir)

	// Untouched keys keep their defaults.
	assert.Equal(t, "output/catalog.db", cfg.CatalogPath)
	assert.Equal(t, "relationship_graph.json", cfg.GraphFileName)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_StrategyFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
relationships:
  use_filename_strategy: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Detector.UseFilename)
	assert.False(t, *cfg.Detector.UseFilename)
	// Unset flags stay nil, which the detector treats as enabled.
	assert.Nil(t, cfg.Detector.UseContent)
	assert.Nil(t, cfg.Detector.UseMetadata)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch: [not: a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ZeroWorkersFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
batch:
  max_workers: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Batch.MaxWorkers)
}
