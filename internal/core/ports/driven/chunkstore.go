package driven

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// ChunkStore owns the chunk table and the transient category table.
// Ingestion and classification run inside the store because on the managed
// warehouse both are single SQL statements over its own functions.
type ChunkStore interface {
	// ResetSchema drops and recreates both tables, discarding prior data.
	ResetSchema(ctx context.Context) error

	// IngestStage parses and chunks every staged file and inserts one row per
	// chunk with a null category. The insert is atomic: a failure on any file
	// commits nothing. With opts.Reload prior rows are removed in the same
	// transaction.
	IngestStage(ctx context.Context, opts domain.IngestOptions) (domain.IngestReport, error)

	// ComputeCategories replaces the category table with one completion per
	// distinct document and returns the raw rows. Labels are not validated.
	ComputeCategories(ctx context.Context, req ClassifyRequest) ([]domain.CategoryRow, error)

	// ApplyCategories backfills the category of every chunk row of each
	// document in one transaction and returns the number of rows updated.
	ApplyCategories(ctx context.Context, assignments []domain.CategoryAssignment) (int64, error)

	// ListChunks returns the chunk rows of one document.
	// Returns domain.ErrNotFound if the document has no rows.
	ListChunks(ctx context.Context, relativePath string) ([]domain.ChunkRow, error)

	// ListDocuments returns a summary per distinct document, ordered by path.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// Close releases resources.
	Close() error
}

// ClassifyRequest configures one classification pass.
type ClassifyRequest struct {
	// Model is the completion model.
	Model string

	// Prompt is the classification template. Its single %s placeholder
	// receives the document's relative path.
	Prompt string
}
