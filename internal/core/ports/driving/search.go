package driving

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// ChatService answers questions over the ingested recipes.
type ChatService interface {
	// Search returns the chunks most similar to the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Ask retrieves context for the question and returns the completion.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error)
}
