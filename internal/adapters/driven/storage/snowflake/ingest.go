package snowflake

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// ingestStatement parses every staged file, splits the text and inserts one
// row per chunk with a NULL category.
func (s *Store) ingestStatement() string {
	return fmt.Sprintf(`
INSERT INTO docs_chunks_table (relative_path, size, file_url, scoped_file_url, chunk)
SELECT
    relative_path,
    size,
    file_url,
    BUILD_SCOPED_FILE_URL(%[1]s, relative_path) AS scoped_file_url,
    func.value::VARCHAR AS chunk
FROM DIRECTORY(%[1]s),
    LATERAL FLATTEN(
        SNOWFLAKE.CORTEX.SPLIT_TEXT_RECURSIVE_CHARACTER(
            TO_VARCHAR(SNOWFLAKE.CORTEX.PARSE_DOCUMENT(%[1]s, relative_path, {'mode': '%[2]s'}):content),
            'markdown',
            %[3]d,
            %[4]d
        )
    ) func`, s.stageRef(), s.cfg.ParseMode, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
}

// IngestStage runs the ingestion statement. With opts.Reload the chunk table
// is emptied first in the same transaction. Any parse failure aborts the
// statement, so nothing from a failed run is committed.
func (s *Store) IngestStage(ctx context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	var files int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM DIRECTORY(%s)`, s.stageRef())).Scan(&files)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("counting staged files: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if opts.Reload {
		logger.Info("snowflake: clearing docs_chunks_table")
		if _, err := tx.ExecContext(ctx, `DELETE FROM docs_chunks_table`); err != nil {
			return domain.IngestReport{}, fmt.Errorf("clearing chunks: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, s.ingestStatement())
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("parsing and splitting staged files: %w", err)
	}
	chunks, err := res.RowsAffected()
	if err != nil {
		return domain.IngestReport{}, fmt.Errorf("reading row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.IngestReport{}, fmt.Errorf("committing transaction: %w", err)
	}
	return domain.IngestReport{Files: files, Chunks: chunks, Reloaded: opts.Reload}, nil
}
