package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// ComputeCategories runs one completion per distinct document on a worker
// pool and replaces the category table with the trimmed labels.
func (s *Store) ComputeCategories(ctx context.Context, req driven.ClassifyRequest) ([]domain.CategoryRow, error) {
	paths, err := s.distinctPaths(ctx)
	if err != nil {
		return nil, err
	}

	var rows []domain.CategoryRow
	if len(paths) > 0 {
		if s.llm == nil {
			return nil, domain.ErrLLMUnavailable
		}
		rows, err = s.complete(ctx, paths, req)
		if err != nil {
			return nil, err
		}
	}

	if err := s.replaceCategories(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// complete fans the classification prompts out over an ants pool.
func (s *Store) complete(ctx context.Context, paths []string, req driven.ClassifyRequest) ([]domain.CategoryRow, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	rows := make([]domain.CategoryRow, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			label, err := s.llm.Generate(ctx, strings.Replace(req.Prompt, "%s", path, 1), driven.GenerateOptions{
				Model: req.Model,
			})
			if err != nil {
				errs[i] = fmt.Errorf("classifying %s: %w", path, err)
				return
			}
			rows[i] = domain.CategoryRow{RelativePath: path, Label: strings.TrimSpace(label)}
			logger.Debug("classify: %s -> %q", path, rows[i].Label)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submitting %s: %w", path, err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rows, nil
}

// replaceCategories overwrites the category table in one transaction.
func (s *Store) replaceCategories(ctx context.Context, rows []domain.CategoryRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM docs_categories`); err != nil {
		return queryErr("clearing categories", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO docs_categories (relative_path, category) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.RelativePath, row.Label); err != nil {
			return fmt.Errorf("saving category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
