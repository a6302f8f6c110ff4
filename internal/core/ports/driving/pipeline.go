package driving

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// SchemaService creates the persisted tables.
type SchemaService interface {
	// Initialize drops and recreates the chunk and category tables.
	Initialize(ctx context.Context) error
}

// IngestService moves files into the upload area and into the chunk table.
type IngestService interface {
	// Upload stages local files. Directories are walked and filtered by
	// the configured include patterns. The callback, when non-nil, is
	// invoked after each file is staged.
	Upload(ctx context.Context, paths []string, progress func(domain.StagedFile)) ([]domain.StagedFile, error)

	// Staged lists the files in the upload area.
	Staged(ctx context.Context) ([]domain.StagedFile, error)

	// Ingest parses and chunks every staged file into the chunk table.
	Ingest(ctx context.Context, opts domain.IngestOptions) (domain.IngestReport, error)
}

// ClassifierService assigns a category to every ingested document.
type ClassifierService interface {
	// Classify labels each document and backfills its chunk rows.
	// If any label is invalid nothing is written and the returned error
	// wraps domain.ErrUnknownCategory.
	Classify(ctx context.Context) (*domain.ClassifyReport, error)
}
