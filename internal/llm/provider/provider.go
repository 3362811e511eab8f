// Package provider wraps the text-completion boundary behind a small
// capability interface so orchestration code never talks to a vendor SDK
// directly. Each call takes a context; timeout and cancellation policy belong
// to the caller, retry policy (if any) to decorators.
package provider

import (
	"context"
)

// Completer turns a prompt string into a completion string. Implementations
// must be safe for concurrent use.
type Completer interface {
	// Complete sends the prompt to the model and returns the generated text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (e.g., "openai", "gemini").
	Name() string
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	Provider      string `json:"provider"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	StatusCode    int    `json:"status_code,omitempty"`
	IsRetryable   bool   `json:"is_retryable"`
	OriginalError error  `json:"-"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return e.Provider + " error: " + e.Message
}

// Unwrap returns the original error.
func (e *ProviderError) Unwrap() error {
	return e.OriginalError
}

// Common error codes.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeAuthentication = "authentication_error"
	ErrorCodeRateLimit      = "rate_limit_exceeded"
	ErrorCodeServerError    = "server_error"
	ErrorCodeTimeout        = "timeout"
	ErrorCodeModelNotFound  = "model_not_found"
	ErrorCodeUnknown        = "unknown_error"
)

// NewProviderError creates a new provider error.
func NewProviderError(provider, code, message string, original error) *ProviderError {
	return &ProviderError{
		Provider:      provider,
		Code:          code,
		Message:       message,
		OriginalError: original,
		IsRetryable:   isRetryableError(code),
	}
}

// isRetryableError determines if an error code is retryable.
func isRetryableError(code string) bool {
	switch code {
	case ErrorCodeRateLimit, ErrorCodeServerError, ErrorCodeTimeout:
		return true
	default:
		return false
	}
}
