package snowflake

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

const classifyStatement = `
INSERT OVERWRITE INTO docs_categories
SELECT
    relative_path,
    TRIM(SNOWFLAKE.CORTEX.COMPLETE(?, ? || relative_path || ?), ' \n\r\t') AS category
FROM (SELECT DISTINCT relative_path FROM docs_chunks_table)`

// splitPrompt splits a classification prompt around its single %s so the
// relative path can be concatenated in SQL.
func splitPrompt(prompt string) (prefix, suffix string, err error) {
	if strings.Count(prompt, "%s") != 1 {
		return "", "", fmt.Errorf("%w: prompt needs exactly one %%s placeholder", domain.ErrInvalidInput)
	}
	prefix, suffix, _ = strings.Cut(prompt, "%s")
	return prefix, suffix, nil
}

// ComputeCategories replaces docs_categories with one completion per distinct
// document and returns the rows. An empty chunk table yields an empty result.
func (s *Store) ComputeCategories(ctx context.Context, req driven.ClassifyRequest) ([]domain.CategoryRow, error) {
	prefix, suffix, err := splitPrompt(req.Prompt)
	if err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = s.cfg.Model
	}

	if _, err := s.db.ExecContext(ctx, classifyStatement, model, prefix, suffix); err != nil {
		return nil, fmt.Errorf("computing categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT relative_path, category FROM docs_categories ORDER BY relative_path`)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryRow
	for rows.Next() {
		var row domain.CategoryRow
		if err := rows.Scan(&row.RelativePath, &row.Label); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		row.Label = strings.TrimSpace(row.Label)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return out, nil
}

// ApplyCategories backfills the category of every chunk row of each document
// in one transaction.
func (s *Store) ApplyCategories(ctx context.Context, assignments []domain.CategoryAssignment) (int64, error) {
	for _, a := range assignments {
		if !a.Category.IsValid() {
			return 0, fmt.Errorf("%w: %q for %s", domain.ErrUnknownCategory, a.Category, a.RelativePath)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var total int64
	for _, a := range assignments {
		res, err := tx.ExecContext(ctx,
			`UPDATE docs_chunks_table SET category = ? WHERE relative_path = ?`,
			string(a.Category), a.RelativePath)
		if err != nil {
			return 0, fmt.Errorf("updating %s: %w", a.RelativePath, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading row count: %w", err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return total, nil
}
