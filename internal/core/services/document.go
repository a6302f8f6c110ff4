package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// LinkTTL is how long document links stay valid.
const LinkTTL = 360 * time.Second

// DocumentService exposes ingested documents.
type DocumentService struct {
	store driven.ChunkStore
	stage driven.Stage
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.ChunkStore, stage driven.Stage) *DocumentService {
	return &DocumentService{
		store: store,
		stage: stage,
	}
}

// List returns a summary per ingested document.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Chunks returns the chunk rows of one document.
func (s *DocumentService) Chunks(ctx context.Context, relativePath string) ([]domain.ChunkRow, error) {
	relativePath = strings.TrimSpace(relativePath)
	if relativePath == "" {
		return nil, fmt.Errorf("%w: document path required", domain.ErrInvalidInput)
	}
	rows, err := s.store.ListChunks(ctx, relativePath)
	if err != nil {
		return nil, fmt.Errorf("list chunks of %s: %w", relativePath, err)
	}
	return rows, nil
}

// Link returns a time-limited URL to the source file.
func (s *DocumentService) Link(ctx context.Context, relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	if relativePath == "" {
		return "", fmt.Errorf("%w: document path required", domain.ErrInvalidInput)
	}
	url, err := s.stage.ScopedURL(ctx, relativePath, LinkTTL)
	if err != nil {
		return "", fmt.Errorf("link %s: %w", relativePath, err)
	}
	return url, nil
}
