package provider

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited decorates a Completer with a token-bucket rate limit. Each call
// waits for a token before hitting the upstream, respecting the caller's
// context deadline.
type RateLimited struct {
	inner   Completer
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limit of requestsPerSecond and the given
// burst size.
func NewRateLimited(inner Completer, requestsPerSecond float64, burst int) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name.
func (r *RateLimited) Name() string {
	return r.inner.Name()
}

// Complete waits for a rate-limit token, then delegates to the wrapped
// provider.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("completion rate limit: %w", err)
	}
	return r.inner.Complete(ctx, prompt)
}
