package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/semframe/ontology"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Ontology.IRIPolicy != "fragment" {
		t.Errorf("expected default policy fragment, got %s", cfg.Ontology.IRIPolicy)
	}
	if len(cfg.Documents.Globs) != 1 || cfg.Documents.Globs[0] != "ontology/**/*.yaml" {
		t.Errorf("unexpected default globs %v", cfg.Documents.Globs)
	}
	if cfg.NATS.Bucket != "SEMFRAME_ONTOLOGIES" {
		t.Errorf("expected default bucket SEMFRAME_ONTOLOGIES, got %s", cfg.NATS.Bucket)
	}
	if cfg.NATS.URL != "" {
		t.Error("expected journal disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "relative ontology iri",
			modify:  func(c *Config) { c.Ontology.IRI = "pizza" },
			wantErr: true,
		},
		{
			name:    "unknown policy",
			modify:  func(c *Config) { c.Ontology.IRIPolicy = "hash" },
			wantErr: true,
		},
		{
			name:    "empty policy selects fragment",
			modify:  func(c *Config) { c.Ontology.IRIPolicy = "" },
			wantErr: false,
		},
		{
			name:    "no globs",
			modify:  func(c *Config) { c.Documents.Globs = nil },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Documents.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name: "nats without bucket",
			modify: func(c *Config) {
				c.NATS.URL = "nats://localhost:4222"
				c.NATS.Bucket = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
ontology:
  iri: "http://example.org/pizza"
  namespace: pizza
  iri_policy: uuid
documents:
  root: "/test/path"
  globs:
    - "pizza/*.yaml"
    - "/abs/*.yaml"
  debounce: 1s
nats:
  url: "nats://test:4222"
metrics:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Ontology.IRI != "http://example.org/pizza" {
		t.Errorf("expected iri http://example.org/pizza, got %s", cfg.Ontology.IRI)
	}
	if cfg.Policy() != ontology.PolicyUUID {
		t.Errorf("expected policy uuid, got %s", cfg.Policy())
	}
	if cfg.Documents.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Documents.Debounce)
	}
	if cfg.NATS.Bucket != "SEMFRAME_ONTOLOGIES" {
		t.Errorf("expected bucket to keep its default, got %s", cfg.NATS.Bucket)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
	if cfg.Metrics.Addr != ":9090" {
		t.Errorf("expected metrics addr to keep its default, got %s", cfg.Metrics.Addr)
	}

	patterns := cfg.DocumentPatterns()
	if patterns[0] != filepath.Join("/test/path", "pizza/*.yaml") {
		t.Errorf("expected relative glob joined to root, got %s", patterns[0])
	}
	if patterns[1] != "/abs/*.yaml" {
		t.Errorf("expected absolute glob unchanged, got %s", patterns[1])
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Ontology: OntologyConfig{
			IRI: "http://example.org/override",
		},
		Documents: DocumentsConfig{
			Globs: []string{"override/*.yaml"},
		},
	}

	base.Merge(override)

	if base.Ontology.IRI != "http://example.org/override" {
		t.Errorf("expected iri override, got %s", base.Ontology.IRI)
	}
	// Policy should remain from base since override didn't set it
	if base.Ontology.IRIPolicy != "fragment" {
		t.Errorf("expected policy to remain default, got %s", base.Ontology.IRIPolicy)
	}
	if len(base.Documents.Globs) != 1 || base.Documents.Globs[0] != "override/*.yaml" {
		t.Errorf("expected globs override, got %v", base.Documents.Globs)
	}
	if base.Documents.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce to remain default, got %v", base.Documents.Debounce)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Ontology.Namespace = "saved"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Ontology.Namespace != "saved" {
		t.Errorf("expected namespace saved, got %s", loaded.Ontology.Namespace)
	}
}

func TestLoaderLoadFrom(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	projectDir := t.TempDir()
	projectPath := filepath.Join(projectDir, ProjectConfigFile)
	content := "ontology:\n  iri: http://example.org/project\n"
	if err := os.WriteFile(projectPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	cfg, err := NewLoader(nil).LoadFrom(projectPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Ontology.IRI != "http://example.org/project" {
		t.Errorf("expected project iri, got %s", cfg.Ontology.IRI)
	}
	if cfg.Documents.Root != projectDir {
		t.Errorf("expected document root %s, got %s", projectDir, cfg.Documents.Root)
	}

	if _, err := NewLoader(nil).LoadFrom(filepath.Join(projectDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing project config")
	}
}

func TestLoaderLoadLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	userDir := filepath.Join(home, UserConfigDir)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("failed to create user config dir: %v", err)
	}
	userContent := "ontology:\n  iri: http://example.org/user\n  namespace: user\n"
	if err := os.WriteFile(filepath.Join(userDir, UserConfigFile), []byte(userContent), 0644); err != nil {
		t.Fatalf("failed to write user config: %v", err)
	}

	projectDir := t.TempDir()
	projectContent := "ontology:\n  iri: http://example.org/project\n"
	if err := os.WriteFile(filepath.Join(projectDir, ProjectConfigFile), []byte(projectContent), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}
	nested := filepath.Join(projectDir, "frames", "animals")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	t.Chdir(nested)

	cfg, err := NewLoader(nil).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ontology.IRI != "http://example.org/project" {
		t.Errorf("expected project iri to win, got %s", cfg.Ontology.IRI)
	}
	if cfg.Ontology.Namespace != "user" {
		t.Errorf("expected user namespace to survive, got %s", cfg.Ontology.Namespace)
	}
	if cfg.Documents.Root != projectDir {
		t.Errorf("expected document root %s, got %s", projectDir, cfg.Documents.Root)
	}
}
