package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "gpt-4o"

// OpenAIClient is the subset of the go-openai client used here, extracted for
// testability.
type OpenAIClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements Completer using the OpenAI chat completion API.
type OpenAIProvider struct {
	client      OpenAIClient
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIFromConfig(config map[string]any) (Completer, error) {
	apiKey := ""
	if key, ok := config["api_key"].(string); ok {
		apiKey = key
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	model := openaiDefaultModel
	if m, ok := config["model"].(string); ok && m != "" {
		model = m
	}

	return NewOpenAIProvider(openai.NewClient(apiKey), model), nil
}

// NewOpenAIProvider creates a new OpenAI provider. Pass a mock client in
// tests.
func NewOpenAIProvider(client OpenAIClient, model string) *OpenAIProvider {
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAIProvider{
		client:      client,
		model:       model,
		temperature: 0.7,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends the prompt to the model and returns the generated text.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewProviderError("openai", ErrorCodeUnknown, "no choices in response", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ErrorCodeUnknown
		switch apiErr.HTTPStatusCode {
		case 400:
			code = ErrorCodeInvalidRequest
		case 401:
			code = ErrorCodeAuthentication
		case 404:
			code = ErrorCodeModelNotFound
		case 429:
			code = ErrorCodeRateLimit
		default:
			if apiErr.HTTPStatusCode >= 500 {
				code = ErrorCodeServerError
			}
		}
		return &ProviderError{
			Provider:      "openai",
			Code:          code,
			Message:       apiErr.Message,
			StatusCode:    apiErr.HTTPStatusCode,
			IsRetryable:   isRetryableError(code),
			OriginalError: err,
		}
	}
	return NewProviderError("openai", ErrorCodeTimeout, err.Error(), err)
}
