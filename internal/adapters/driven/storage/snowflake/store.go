package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure Store implements the backend interfaces.
var (
	_ driven.ChunkStore   = (*Store)(nil)
	_ driven.Stage        = (*Store)(nil)
	_ driven.SearchEngine = (*Store)(nil)
)

// ApplicationName is reported to Snowflake with every session.
const ApplicationName = "cortex-chef"

// Config holds the connection and object names used by the warehouse backend.
type Config struct {
	Credentials domain.WarehouseCredentials

	// Stage is the internal stage holding uploaded documents.
	Stage string

	// SearchService is the Cortex Search service name. Empty disables
	// creation at init time and makes Search unavailable.
	SearchService string

	// TargetLag is the search service refresh lag, e.g. "1 minute".
	TargetLag string

	ChunkSize int
	ParseMode domain.ParseMode

	// ChunkOverlap of zero means no overlap. Values outside [0, ChunkSize)
	// fall back to the default.
	ChunkOverlap int

	// Model is the default completion model for the LLM view.
	Model string
}

// withDefaults fills zero values and rejects identifiers that cannot be
// interpolated into SQL.
func (c Config) withDefaults() (Config, error) {
	if c.Stage == "" {
		c.Stage = domain.DefaultStage
	}
	if c.TargetLag == "" {
		c.TargetLag = domain.DefaultTargetLag
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = domain.DefaultChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = domain.DefaultChunkOverlap
	}
	if c.ParseMode == "" {
		c.ParseMode = domain.ParseModeLayout
	}
	if c.Model == "" {
		c.Model = domain.DefaultCompletionModel
	}

	if !domain.IsIdentifier(c.Stage) {
		return c, fmt.Errorf("%w: stage %q", domain.ErrInvalidInput, c.Stage)
	}
	if c.SearchService != "" {
		if !domain.IsIdentifier(c.SearchService) {
			return c, fmt.Errorf("%w: search service %q", domain.ErrInvalidInput, c.SearchService)
		}
		if !domain.IsIdentifier(c.Credentials.Warehouse) {
			return c, fmt.Errorf("%w: warehouse %q", domain.ErrInvalidInput, c.Credentials.Warehouse)
		}
	}
	if !c.ParseMode.IsValid() {
		return c, fmt.Errorf("%w: parse mode %q", domain.ErrInvalidInput, c.ParseMode)
	}
	if strings.ContainsAny(c.TargetLag, "'\\") {
		return c, fmt.Errorf("%w: target lag %q", domain.ErrInvalidInput, c.TargetLag)
	}
	return c, nil
}

// Store is the Snowflake-backed backend.
type Store struct {
	db  *sql.DB
	cfg Config
}

// DSN builds a gosnowflake connection string from credentials.
func DSN(creds domain.WarehouseCredentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:     creds.Account,
		User:        creds.User,
		Password:    creds.Password,
		Warehouse:   creds.Warehouse,
		Database:    creds.Database,
		Schema:      creds.Schema,
		Role:        creds.Role,
		Application: ApplicationName,
	})
	if err != nil {
		return "", fmt.Errorf("building dsn: %w", err)
	}
	return dsn, nil
}

// NewStore opens and verifies the warehouse connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	dsn, err := DSN(cfg.Credentials)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	logger.Debug("snowflake: connected to %s.%s as %s",
		cfg.Credentials.Database, cfg.Credentials.Schema, cfg.Credentials.User)

	return &Store{db: db, cfg: cfg}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// stageRef is the stage reference used in SQL, e.g. @docs.
func (s *Store) stageRef() string {
	return "@" + s.cfg.Stage
}

// serviceName is the fully qualified search service name.
func (s *Store) serviceName() string {
	return qualify(s.cfg.Credentials.Database, s.cfg.Credentials.Schema, s.cfg.SearchService)
}

func qualify(database, schema, name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return database + "." + schema + "." + name
}

// sqlLiteral quotes s as a single-quoted Snowflake string literal.
func sqlLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// exec runs statements in order, stopping at the first failure.
func (s *Store) exec(ctx context.Context, what string, stmts ...string) error {
	for _, stmt := range stmts {
		logger.Debug("snowflake: %s", firstLine(stmt))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i] + " ..."
	}
	return stmt
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}
