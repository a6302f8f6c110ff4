package driven

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// SearchEngine provides similarity search over chunk rows.
// On the warehouse this is the managed search service; locally it is
// cosine similarity over embeddings or plain term matching.
type SearchEngine interface {
	// Search returns at most opts.Limit chunks ordered by relevance,
	// restricted to opts.Category when set.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
