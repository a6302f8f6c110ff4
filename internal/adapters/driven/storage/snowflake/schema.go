package snowflake

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cortex-chef/internal/logger"
)

const createChunkTable = `
CREATE OR REPLACE TABLE docs_chunks_table (
    relative_path VARCHAR(16777216),
    size NUMBER(38,0),
    file_url VARCHAR(16777216),
    scoped_file_url VARCHAR(16777216),
    chunk VARCHAR(16777216),
    category VARCHAR(16777216)
)`

const createCategoryTable = `
CREATE OR REPLACE TRANSIENT TABLE docs_categories (
    relative_path VARCHAR(16777216),
    category VARCHAR(16777216)
)`

// schemaStatements returns the DDL run by ResetSchema, in order.
func (s *Store) schemaStatements() []string {
	stmts := []string{
		fmt.Sprintf(`CREATE STAGE IF NOT EXISTS %s
    DIRECTORY = (ENABLE = TRUE)
    ENCRYPTION = (TYPE = 'SNOWFLAKE_SSE')`, s.cfg.Stage),
		createChunkTable,
		createCategoryTable,
	}
	if s.cfg.SearchService != "" {
		stmts = append(stmts, fmt.Sprintf(`CREATE OR REPLACE CORTEX SEARCH SERVICE %s
    ON chunk
    ATTRIBUTES category
    WAREHOUSE = %s
    TARGET_LAG = %s
    AS (
        SELECT chunk, relative_path, file_url, category
        FROM docs_chunks_table
    )`, s.cfg.SearchService, s.cfg.Credentials.Warehouse, sqlLiteral(s.cfg.TargetLag)))
	}
	return stmts
}

// ResetSchema recreates both tables, discarding their contents, and ensures
// the stage and search service exist. The first failing statement aborts.
func (s *Store) ResetSchema(ctx context.Context) error {
	logger.Info("snowflake: resetting schema in %s.%s",
		s.cfg.Credentials.Database, s.cfg.Credentials.Schema)
	return s.exec(ctx, "resetting schema", s.schemaStatements()...)
}
