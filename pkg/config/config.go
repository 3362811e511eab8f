package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// maxConfigSize caps config files at 1MB to avoid loading runaway files.
const maxConfigSize = 1 << 20

// Config represents the application configuration
type Config struct {
	// API Keys
	OpenAIKey string `yaml:"openai_key"`
	GeminiKey string `yaml:"gemini_key"`

	// Provider Configuration
	Provider     string  `yaml:"provider"` // openai, gemini
	Model        string  `yaml:"model"`
	WhisperModel string  `yaml:"whisper_model"`
	Temperature  float64 `yaml:"temperature"`

	// Rate limiting toward the completion provider
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Store Configuration
	Store StoreConfig `yaml:"store"`

	// Server Configuration
	Server ServerConfig `yaml:"server"`
}

// RateLimitConfig bounds outbound completion calls.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StoreConfig selects and configures the interview store backend.
type StoreConfig struct {
	Backend     string `yaml:"backend"` // memory, redis
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	RedisDB     int    `yaml:"redis_db"`
}

// ServerConfig holds listener configuration.
type ServerConfig struct {
	Port              int `yaml:"port"`
	ObservabilityPort int `yaml:"observability_port"`
	ShutdownTimeout   int `yaml:"shutdown_timeout_seconds"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config suitable for local runs with no config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 2
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 4
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ObservabilityPort == 0 {
		c.Server.ObservabilityPort = 9090
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	// Load API keys from environment if not in config
	if c.OpenAIKey == "" {
		c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.GeminiKey == "" {
		c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("openai_key is required for the openai provider")
		}
	case "gemini":
		if c.GeminiKey == "" {
			return fmt.Errorf("gemini_key is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}

	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}

	return nil
}
