package driving

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// DocumentService exposes the ingested documents for display.
type DocumentService interface {
	// List returns a summary per ingested document.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Chunks returns the chunk rows of one document.
	Chunks(ctx context.Context, relativePath string) ([]domain.ChunkRow, error)

	// Link returns a time-limited URL to the source file.
	Link(ctx context.Context, relativePath string) (string, error)
}
