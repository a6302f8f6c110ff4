package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// ListChunks returns the chunk rows of one document.
func (s *Store) ListChunks(ctx context.Context, relativePath string) ([]domain.ChunkRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT relative_path, size, file_url, scoped_file_url, chunk, category
		FROM docs_chunks_table
		WHERE relative_path = ?
	`, relativePath)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.ChunkRow
	for rows.Next() {
		var row domain.ChunkRow
		var category sql.NullString
		if err := rows.Scan(&row.RelativePath, &row.Size, &row.FileURL,
			&row.ScopedFileURL, &row.Chunk, &category); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if category.Valid {
			c := domain.Category(category.String)
			row.Category = &c
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, relativePath)
	}
	return out, nil
}

// ListDocuments summarises the chunk table per document.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT relative_path, MAX(size), COUNT(*), COUNT(category),
		       MIN(category), MAX(category)
		FROM docs_chunks_table
		GROUP BY relative_path
		ORDER BY relative_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []domain.DocumentSummary
	for rows.Next() {
		var (
			doc      domain.DocumentSummary
			labelled int
			lo, hi   sql.NullString
		)
		if err := rows.Scan(&doc.RelativePath, &doc.Size, &doc.Chunks,
			&labelled, &lo, &hi); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Category, doc.Consistent = summarise(doc.Chunks, labelled, lo, hi)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return out, nil
}

// summarise reports a document's category and whether every chunk row agrees
// on it. Unlabelled documents are consistent.
func summarise(chunks, labelled int, lo, hi sql.NullString) (domain.Category, bool) {
	if labelled == 0 {
		return "", true
	}
	return domain.Category(lo.String), labelled == chunks && lo.String == hi.String
}
