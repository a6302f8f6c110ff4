package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// sampleText is embedded once to check the vector size a provider returns.
const sampleText = "tomato basil salad"

// ConfigValidator checks provider settings before they are saved.
// Unconfigured settings are valid: the local backend runs without them.
type ConfigValidator struct {
	timeout      time.Duration
	newLLM       func(*domain.LLMSettings) (driven.LLMService, error)
	newEmbedding func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)
}

// NewConfigValidator returns a validator that dials the real providers.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		timeout:      pingTimeout,
		newLLM:       CreateLLMService,
		newEmbedding: CreateEmbeddingService,
	}
}

// ValidateLLM pings the completion provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := v.newLLM(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: %s is not configured", domain.ErrInvalidInput, settings.Provider)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", settings.Provider, err)
	}
	return nil
}

// ValidateEmbedding pings the embedding provider and embeds a sample text.
// Stored vectors are compared by cosine similarity, so a provider returning
// a different size than it reports is rejected.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := v.newEmbedding(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: %s cannot embed", domain.ErrInvalidInput, settings.Provider)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", settings.Provider, err)
	}

	want := svc.Dimensions()
	if want <= 0 {
		return nil
	}
	vec, err := svc.Embed(ctx, sampleText)
	if err != nil {
		return fmt.Errorf("%s: test embedding: %w", settings.Provider, err)
	}
	if len(vec) != want {
		return fmt.Errorf("%w: %s returned %d dimensions, expected %d",
			domain.ErrInvalidInput, svc.ModelName(), len(vec), want)
	}
	return nil
}
