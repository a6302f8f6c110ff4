package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// Stage is the upload area holding source documents.
type Stage interface {
	// Put uploads a local file, overwriting any file with the same name.
	Put(ctx context.Context, localPath string) (domain.StagedFile, error)

	// List returns the staged files ordered by relative path.
	List(ctx context.Context) ([]domain.StagedFile, error)

	// Refresh synchronises the stage listing with its contents.
	Refresh(ctx context.Context) error

	// ScopedURL returns a link to a staged file valid for ttl.
	ScopedURL(ctx context.Context, relativePath string, ttl time.Duration) (string, error)
}
