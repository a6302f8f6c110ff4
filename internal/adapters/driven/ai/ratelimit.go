package ai

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure RateLimitedLLM implements the interface.
var _ driven.LLMService = (*RateLimitedLLM)(nil)

// RateLimitedLLM throttles Generate and Chat calls to a fixed rate.
// Classification fans out one call per document, so providers with tight
// request quotas need this in front of them.
type RateLimitedLLM struct {
	next    driven.LLMService
	limiter *rate.Limiter
}

// NewRateLimitedLLM wraps next with a limiter allowing rps requests per second.
func NewRateLimitedLLM(next driven.LLMService, rps float64) *RateLimitedLLM {
	burst := int(math.Max(1, math.Ceil(rps)))
	return &RateLimitedLLM{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Generate waits for a token then delegates.
func (r *RateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Generate(ctx, prompt, opts)
}

// Chat waits for a token then delegates.
func (r *RateLimitedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Chat(ctx, messages, opts)
}

// ModelName returns the wrapped service's model.
func (r *RateLimitedLLM) ModelName() string {
	return r.next.ModelName()
}

// Ping is not throttled.
func (r *RateLimitedLLM) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped service.
func (r *RateLimitedLLM) Close() error {
	return r.next.Close()
}
