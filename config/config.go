// Package config provides configuration loading and management for semframe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/semframe/ontology"
	"github.com/c360studio/semframe/owl"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semframe configuration
type Config struct {
	Ontology  OntologyConfig  `yaml:"ontology"`
	Documents DocumentsConfig `yaml:"documents"`
	NATS      NATSConfig      `yaml:"nats"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// OntologyConfig sets the defaults for documents that do not name their own
// ontology or naming policy
type OntologyConfig struct {
	// IRI is the ontology IRI used by documents without an ontology key
	IRI string `yaml:"iri"`
	// Namespace registers the built ontology as that namespace's default
	Namespace string `yaml:"namespace"`
	// IRIPolicy is fragment, slash or uuid (default: fragment)
	IRIPolicy string `yaml:"iri_policy"`
}

// DocumentsConfig locates frame documents
type DocumentsConfig struct {
	// Root resolves relative globs (auto-detected from git if empty)
	Root string `yaml:"root"`
	// Globs are the document patterns, with ** support
	Globs []string `yaml:"globs"`
	// Debounce delays recompilation after a change when watching
	Debounce time.Duration `yaml:"debounce"`
}

// NATSConfig configures the snapshot journal
type NATSConfig struct {
	// URL is the NATS server URL (empty = no journal)
	URL string `yaml:"url"`
	// Bucket is the KV bucket holding ontology snapshots
	Bucket string `yaml:"bucket"`
	// Timeout bounds journal operations
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures axiom counters
type MetricsConfig struct {
	// Enabled registers Prometheus counters for axiom changes
	Enabled bool `yaml:"enabled"`
	// Addr is where watch mode serves /metrics (default: :9090)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ontology: OntologyConfig{
			IRIPolicy: string(ontology.PolicyFragment),
		},
		Documents: DocumentsConfig{
			Root:     "", // Auto-detect
			Globs:    []string{"ontology/**/*.yaml"},
			Debounce: 250 * time.Millisecond,
		},
		NATS: NATSConfig{
			Bucket:  "SEMFRAME_ONTOLOGIES",
			Timeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Ontology.IRI != "" {
		if err := owl.ValidateIRI(c.Ontology.IRI); err != nil {
			return fmt.Errorf("ontology.iri: %w", err)
		}
	}
	if _, err := ontology.ParseIRIPolicy(c.Ontology.IRIPolicy); err != nil {
		return fmt.Errorf("ontology.iri_policy: %w", err)
	}
	if len(c.Documents.Globs) == 0 {
		return fmt.Errorf("documents.globs is required")
	}
	if c.Documents.Debounce < 0 {
		return fmt.Errorf("documents.debounce must not be negative")
	}
	if c.NATS.URL != "" && c.NATS.Bucket == "" {
		return fmt.Errorf("nats.bucket is required when nats.url is set")
	}
	return nil
}

// Policy returns the parsed naming policy. Call Validate first.
func (c *Config) Policy() ontology.IRIPolicy {
	p, _ := ontology.ParseIRIPolicy(c.Ontology.IRIPolicy)
	return p
}

// DocumentPatterns returns the globs with relative patterns joined to Root.
func (c *Config) DocumentPatterns() []string {
	out := make([]string, len(c.Documents.Globs))
	for i, g := range c.Documents.Globs {
		if c.Documents.Root != "" && !filepath.IsAbs(g) {
			g = filepath.Join(c.Documents.Root, g)
		}
		out[i] = g
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ontology
	if other.Ontology.IRI != "" {
		c.Ontology.IRI = other.Ontology.IRI
	}
	if other.Ontology.Namespace != "" {
		c.Ontology.Namespace = other.Ontology.Namespace
	}
	if other.Ontology.IRIPolicy != "" {
		c.Ontology.IRIPolicy = other.Ontology.IRIPolicy
	}

	// Documents
	if other.Documents.Root != "" {
		c.Documents.Root = other.Documents.Root
	}
	if len(other.Documents.Globs) > 0 {
		c.Documents.Globs = other.Documents.Globs
	}
	if other.Documents.Debounce != 0 {
		c.Documents.Debounce = other.Documents.Debounce
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Bucket != "" {
		c.NATS.Bucket = other.NATS.Bucket
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	// Metrics
	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
