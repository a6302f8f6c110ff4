package driving

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// EvalService scores answers for groundedness and relevance.
type EvalService interface {
	// Evaluate asks the question and has a judge model score the answer
	// against the question and the retrieved chunks.
	Evaluate(ctx context.Context, req domain.AskRequest) (*domain.Evaluation, error)
}
