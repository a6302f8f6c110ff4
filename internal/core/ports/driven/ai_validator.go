package driven

import "github.com/custodia-labs/cortex-chef/internal/core/domain"

// AIConfigValidator checks local-backend provider settings by contacting the
// provider. Unconfigured settings are valid.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
