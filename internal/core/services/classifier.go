package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure ClassifierService implements the interface.
var _ driving.ClassifierService = (*ClassifierService)(nil)

// ClassifierService labels every document with one of the recipe categories.
type ClassifierService struct {
	store   driven.ChunkStore
	prompts driven.PromptStore
	model   string
}

// NewClassifierService creates a new classifier service.
// An empty model falls back to domain.DefaultCompletionModel.
func NewClassifierService(store driven.ChunkStore, prompts driven.PromptStore, model string) *ClassifierService {
	if model == "" {
		model = domain.DefaultCompletionModel
	}
	return &ClassifierService{
		store:   store,
		prompts: prompts,
		model:   model,
	}
}

// Classify computes a label per document, validates all of them and only
// then backfills the chunk rows. A single invalid label aborts the run.
func (s *ClassifierService) Classify(ctx context.Context) (*domain.ClassifyReport, error) {
	logger.Section("Classify")

	prompt, err := s.prompts.Load(driven.PromptClassify)
	if err != nil {
		return nil, fmt.Errorf("load classify prompt: %w", err)
	}
	if strings.Count(prompt, "%s") != 1 {
		return nil, fmt.Errorf("%w: classify prompt needs exactly one %%s placeholder", domain.ErrInvalidInput)
	}

	rows, err := s.store.ComputeCategories(ctx, driven.ClassifyRequest{Model: s.model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("compute categories: %w", err)
	}

	report := &domain.ClassifyReport{Documents: len(rows)}
	if len(rows) == 0 {
		logger.Info("No documents to classify")
		return report, nil
	}

	for _, row := range rows {
		category, err := domain.ParseCategory(row.Label)
		if err != nil {
			logger.Warn("Rejected label %q for %s", row.Label, row.RelativePath)
			report.Rejected = append(report.Rejected, row)
			continue
		}
		logger.Debug("%s -> %s", row.RelativePath, category)
		report.Assignments = append(report.Assignments, domain.CategoryAssignment{
			RelativePath: row.RelativePath,
			Category:     category,
		})
	}

	if len(report.Rejected) > 0 {
		return report, fmt.Errorf("classify: %d of %d documents: %w",
			len(report.Rejected), len(rows), domain.ErrUnknownCategory)
	}

	updated, err := s.store.ApplyCategories(ctx, report.Assignments)
	if err != nil {
		return report, fmt.Errorf("apply categories: %w", err)
	}
	report.RowsUpdated = updated
	logger.Info("Classified %d documents, %d chunk rows updated", len(rows), updated)
	return report, nil
}
