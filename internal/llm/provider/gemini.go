package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel  = "gemini-2.0-flash"
	geminiClientTimeout = 30 * time.Second
)

// GeminiProvider implements Completer using the Google Gen AI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func newGeminiFromConfig(config map[string]any) (Completer, error) {
	apiKey := ""
	if key, ok := config["api_key"].(string); ok {
		apiKey = key
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	model := geminiDefaultModel
	if m, ok := config["model"].(string); ok && m != "" {
		model = m
	}

	return NewGeminiProvider(apiKey, model)
}

// NewGeminiProvider creates a new Gemini provider using API-key auth.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = geminiDefaultModel
	}

	// Bound client creation so a misconfigured environment cannot hang startup.
	ctx, cancel := context.WithTimeout(context.Background(), geminiClientTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete sends the prompt to the model and returns the generated text.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", NewProviderError("gemini", ErrorCodeServerError, err.Error(), err)
	}

	text := resp.Text()
	if text == "" {
		return "", NewProviderError("gemini", ErrorCodeUnknown, "empty response", nil)
	}

	return text, nil
}
