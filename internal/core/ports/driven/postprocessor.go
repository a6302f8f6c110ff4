package driven

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// PostProcessor is one step of the local split function. The first step of
// a pipeline receives nil chunks and creates them; later steps rewrite them.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns a parsed document into the chunk texts stored
// as chunk rows.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
