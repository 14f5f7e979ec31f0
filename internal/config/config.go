// Package config defines the configuration surface for the docgraph engine.
//
// Configuration is a plain struct tree owned by whatever outer layer drives
// the engine; Load reads a YAML file over the defaults for callers that want
// file-based configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/docgraph/internal/batch"
	"github.com/dshills/docgraph/internal/detector"
	"github.com/dshills/docgraph/internal/embedder"
	"github.com/dshills/docgraph/internal/scanner"
)

// Config is the full engine configuration.
type Config struct {
	Scanner  scanner.Config  `yaml:"scanner"`
	Batch    batch.Config    `yaml:"batch"`
	Detector detector.Config `yaml:"relationships"`
	Embedder embedder.Config `yaml:"embedder"`

	// CheckpointDir holds the batch checkpoint file (default
	// "output/checkpoints").
	CheckpointDir string `yaml:"checkpoint_dir"`
	// CatalogPath is the SQLite metadata catalog location (default
	// "output/catalog.db").
	CatalogPath string `yaml:"catalog_path"`
	// GraphFileName is the relationship graph snapshot written under the
	// output directory (default "relationship_graph.json").
	GraphFileName string `yaml:"graph_file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Batch:         *batch.DefaultConfig(),
		Detector:      *detector.DefaultConfig(),
		CheckpointDir: "output/checkpoints",
		CatalogPath:   "output/catalog.db",
		GraphFileName: "relationship_graph.json",
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields an explicit config file left empty.
func (c *Config) applyDefaults() {
	if c.Batch.MaxWorkers <= 0 {
		c.Batch.MaxWorkers = batch.DefaultConfig().MaxWorkers
	}
	if c.Detector.MinConfidence <= 0 {
		c.Detector.MinConfidence = detector.DefaultConfig().MinConfidence
	}
	if c.CheckpointDir == "" {
		c.CheckpointDir = "output/checkpoints"
	}
	if c.CatalogPath == "" {
		c.CatalogPath = "output/catalog.db"
	}
	if c.GraphFileName == "" {
		c.GraphFileName = "relationship_graph.json"
	}
}
