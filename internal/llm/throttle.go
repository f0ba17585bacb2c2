package llm

import (
	"context"
	"fmt"
)

// Waiter blocks until a call keyed by name may proceed
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// ThrottledProvider delays each call until the limiter admits it.
// Calls are never reordered or dropped; a cancelled wait surfaces as a transport failure.
type ThrottledProvider struct {
	Provider
	limiter Waiter
}

// WithLimiter wraps p so every Generate waits on limiter first.
// A nil limiter returns p unchanged.
func WithLimiter(p Provider, limiter Waiter) Provider {
	if limiter == nil || p == nil {
		return p
	}
	return &ThrottledProvider{Provider: p, limiter: limiter}
}

// Generate waits for clearance, then delegates
func (t *ThrottledProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := t.limiter.Wait(ctx, t.Name()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.Provider.Generate(ctx, req)
}
