package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()

	validConfig := `
provider: gemini
gemini_key: test-key
model: gemini-2.0-flash
store:
  backend: redis
  redis_addr: redis:6379
server:
  port: 9000
`

	validFile := filepath.Join(tmpDir, "valid.yaml")
	if err := os.WriteFile(validFile, []byte(validConfig), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg, err := LoadConfig(validFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %s", cfg.Provider)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("expected backend 'redis', got %s", cfg.Store.Backend)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Unset fields pick up defaults.
	if cfg.Server.ObservabilityPort != 9090 {
		t.Errorf("expected default observability port, got %d", cfg.Server.ObservabilityPort)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("expected default temperature, got %f", cfg.Temperature)
	}
}

func TestLoadConfig_NonexistentFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()

	invalidYAML := `
provider: openai
invalid yaml here: [[[
`

	invalidFile := filepath.Join(tmpDir, "invalid.yaml")
	if err := os.WriteFile(invalidFile, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := LoadConfig(invalidFile); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfig_FileSizeLimit(t *testing.T) {
	tmpDir := t.TempDir()

	largeFile := filepath.Join(tmpDir, "large.yaml")
	data := strings.Repeat("x: value\n", 200000) // ~1.8MB
	if err := os.WriteFile(largeFile, []byte(data), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, err := LoadConfig(largeFile)
	if err == nil {
		t.Error("expected error for large file")
	}
	if err != nil && !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected 'too large' error, got: %v", err)
	}
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(file, []byte("provider: openai\n"), 0600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg, err := LoadConfig(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAIKey != "env-key" {
		t.Errorf("expected key from environment, got %q", cfg.OpenAIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"openai with key", func(c *Config) { c.OpenAIKey = "k" }, false},
		{"openai missing key", func(c *Config) { c.OpenAIKey = "" }, true},
		{"gemini with key", func(c *Config) { c.Provider = "gemini"; c.GeminiKey = "k" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }, true},
		{"unknown backend", func(c *Config) { c.OpenAIKey = "k"; c.Store.Backend = "dynamo" }, true},
		{"negative rate", func(c *Config) { c.OpenAIKey = "k"; c.RateLimit.RequestsPerSecond = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.OpenAIKey = ""
			cfg.GeminiKey = ""
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
