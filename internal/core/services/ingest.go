package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService stages local files and turns staged files into chunk rows.
type IngestService struct {
	stage  driven.Stage
	store  driven.ChunkStore
	finder driven.FileFinder
}

// NewIngestService creates a new ingest service.
func NewIngestService(stage driven.Stage, store driven.ChunkStore, finder driven.FileFinder) *IngestService {
	return &IngestService{
		stage:  stage,
		store:  store,
		finder: finder,
	}
}

// Upload stages every file selected from paths.
func (s *IngestService) Upload(
	ctx context.Context, paths []string, progress func(domain.StagedFile),
) ([]domain.StagedFile, error) {
	logger.Section("Upload")

	files, err := s.finder.Find(paths)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files match the include patterns", domain.ErrInvalidInput)
	}
	if err := checkDuplicateNames(files); err != nil {
		return nil, err
	}
	logger.Debug("Uploading %d files", len(files))

	staged := make([]domain.StagedFile, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return staged, err
		}
		sf, err := s.stage.Put(ctx, f)
		if err != nil {
			return staged, fmt.Errorf("upload %s: %w", f, err)
		}
		logger.Debug("Staged %s (%d bytes)", sf.RelativePath, sf.Size)
		staged = append(staged, sf)
		if progress != nil {
			progress(sf)
		}
	}

	if err := s.stage.Refresh(ctx); err != nil {
		return staged, fmt.Errorf("refresh stage: %w", err)
	}
	return staged, nil
}

// checkDuplicateNames rejects uploads where two files share a base name.
// Both backends stage files flat, so the second would replace the first.
func checkDuplicateNames(files []string) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s and %s would both be staged as %s",
				domain.ErrInvalidInput, prev, f, name)
		}
		seen[name] = f
	}
	return nil
}

// Staged lists the files in the upload area.
func (s *IngestService) Staged(ctx context.Context) ([]domain.StagedFile, error) {
	files, err := s.stage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stage: %w", err)
	}
	return files, nil
}

// Ingest parses and chunks every staged file into the chunk table.
// An empty stage returns domain.ErrNoStagedFiles and touches nothing.
func (s *IngestService) Ingest(ctx context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	logger.Section("Ingest")

	if err := s.stage.Refresh(ctx); err != nil {
		return domain.IngestReport{}, fmt.Errorf("refresh stage: %w", err)
	}
	files, err := s.stage.List(ctx)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("list stage: %w", err)
	}
	if len(files) == 0 {
		return domain.IngestReport{}, domain.ErrNoStagedFiles
	}
	logger.Debug("Ingesting %d staged files (reload=%t)", len(files), opts.Reload)

	report, err := s.store.IngestStage(ctx, opts)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("ingest: %w", err)
	}
	if report.Files == 0 {
		report.Files = len(files)
	}
	logger.Info("Inserted %d chunks from %d files", report.Chunks, report.Files)
	return report, nil
}
