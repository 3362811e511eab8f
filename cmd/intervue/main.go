package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/intervue-dev/intervue/internal/httpapi"
	"github.com/intervue-dev/intervue/internal/interview"
	"github.com/intervue-dev/intervue/internal/llm/provider"
	"github.com/intervue-dev/intervue/internal/observability"
	"github.com/intervue-dev/intervue/internal/orchestration"
	"github.com/intervue-dev/intervue/internal/resume"
	"github.com/intervue-dev/intervue/internal/session"
	"github.com/intervue-dev/intervue/internal/transcribe"
	"github.com/intervue-dev/intervue/pkg/config"
	obsmetrics "github.com/intervue-dev/intervue/pkg/observability"
)

var (
	// Version information (set via ldflags)
	Version = "dev"

	// Command line flags
	configFile = flag.String("config", getEnv("CONFIG_FILE", ""), "Configuration file (YAML)")
	httpPort   = flag.Int("http-port", 0, "HTTP server port (overrides config)")
)

func main() {
	flag.Parse()

	log.Printf("Starting Intervue backend v%s", Version)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *httpPort != 0 {
		cfg.Server.Port = *httpPort
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	log.Printf("Provider: %s, Store: %s, HTTP Port: %d", cfg.Provider, cfg.Store.Backend, cfg.Server.Port)

	// Initialize observability
	obsmetrics.InitMetrics()
	if err := observability.InitFromEnv(); err != nil {
		log.Fatalf("Tracing init error: %v", err)
	}

	healthChecker := obsmetrics.NewHealthChecker()
	healthChecker.RegisterCheck(obsmetrics.PingCheck())

	repo, err := buildStore(cfg, healthChecker)
	if err != nil {
		log.Fatalf("Store error: %v", err)
	}
	defer repo.Close()

	orch, err := buildOrchestrator(cfg, repo)
	if err != nil {
		log.Fatalf("Wiring error: %v", err)
	}

	apiServer := httpapi.NewServer(cfg.Server.Port, httpapi.NewHandler(orch))
	obsServer := obsmetrics.NewServer(cfg.Server.ObservabilityPort, healthChecker)

	errChan := make(chan error, 2)
	go func() {
		log.Printf("Starting HTTP server on :%d", cfg.Server.Port)
		if err := apiServer.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		log.Printf("Starting observability server on :%d", cfg.Server.ObservabilityPort)
		if err := obsServer.Start(); err != nil {
			errChan <- fmt.Errorf("observability server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Printf("Error: %v", err)
	case <-quit:
		log.Println("Shutting down...")
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := obsServer.Shutdown(ctx); err != nil {
		log.Printf("Observability server shutdown error: %v", err)
	}
	if err := observability.Shutdown(ctx); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}

	log.Println("Stopped")
}

func loadConfig() (*config.Config, error) {
	if *configFile == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(*configFile)
}

// buildStore selects the interview store backend and registers its health
// check.
func buildStore(cfg *config.Config, hc *obsmetrics.HealthChecker) (interview.Repository, error) {
	switch cfg.Store.Backend {
	case "redis":
		store, err := interview.NewRedisStore(interview.RedisConfig{
			Addr:   cfg.Store.RedisAddr,
			DB:     cfg.Store.RedisDB,
			Prefix: cfg.Store.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		hc.RegisterCheck(&obsmetrics.HealthCheck{
			Name:      "redis",
			CheckFunc: store.Ping,
			Critical:  true,
		})
		return store, nil
	default:
		return interview.NewMemoryStore(), nil
	}
}

func buildOrchestrator(cfg *config.Config, repo interview.Repository) (*orchestration.Orchestrator, error) {
	registry := provider.NewRegistry()
	completer, err := registry.Get(cfg.Provider, map[string]any{
		"api_key":     providerKey(cfg),
		"model":       cfg.Model,
		"temperature": cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create completer: %w", err)
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		completer = provider.NewRateLimited(completer, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	transcriber := transcribe.NewWhisper(openai.NewClient(cfg.OpenAIKey), cfg.WhisperModel)

	loader := resume.NewHTTPLoader(nil)

	return orchestration.New(repo, session.NewCache(), completer, transcriber, loader), nil
}

func providerKey(cfg *config.Config) string {
	if cfg.Provider == "gemini" {
		return cfg.GeminiKey
	}
	return cfg.OpenAIKey
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
