package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure SchemaService implements the interface.
var _ driving.SchemaService = (*SchemaService)(nil)

// SchemaService creates the chunk and category tables.
type SchemaService struct {
	store driven.ChunkStore
}

// NewSchemaService creates a new schema service.
func NewSchemaService(store driven.ChunkStore) *SchemaService {
	return &SchemaService{store: store}
}

// Initialize drops and recreates both tables. Prior data is discarded.
func (s *SchemaService) Initialize(ctx context.Context) error {
	logger.Section("Schema")
	if err := s.store.ResetSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	logger.Info("Schema recreated")
	return nil
}
