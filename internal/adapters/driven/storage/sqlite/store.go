package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/storage/sqlite/schema"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/linksign"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure Store implements the backend interfaces.
var (
	_ driven.ChunkStore   = (*Store)(nil)
	_ driven.Stage        = (*Store)(nil)
	_ driven.SearchEngine = (*Store)(nil)
)

// DefaultWorkers is the default classification concurrency.
const DefaultWorkers = 1

// LinkKeyFileName is the signing key for scoped links, kept in DataDir.
const LinkKeyFileName = "link.key"

// Config holds the local backend's location and vendor-function collaborators.
type Config struct {
	// DataDir holds the database file and the stage directory.
	// Defaults to ~/.cortex-chef/data.
	DataDir string

	// BaseURL prefixes scoped links, e.g. http://localhost:8080.
	// Links resolve under /stage/ on the web server.
	BaseURL string

	// Normalisers is the parse function.
	Normalisers driven.NormaliserRegistry

	// Pipeline is the split function.
	Pipeline driven.PostProcessorPipeline

	// ParseMode is passed to the normalisers (default LAYOUT).
	ParseMode domain.ParseMode

	// LLM is the completion function used by classification.
	LLM driven.LLMService

	// Embedder enables vector search when set.
	Embedder driven.EmbeddingService

	// Workers bounds concurrent classification completions (default 1).
	Workers int
}

// Store is the SQLite-backed local backend.
type Store struct {
	db       *sql.DB
	path     string
	stageDir string
	baseURL  string
	links    *linksign.Signer
	now      func() time.Time

	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	parseMode   domain.ParseMode
	llm         driven.LLMService
	embedder    driven.EmbeddingService
	workers     int
}

// NewStore opens (creating if needed) the database and stage directory.
// The tables themselves are created by ResetSchema.
func NewStore(cfg Config) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".cortex-chef", "data")
	}

	stageDir := filepath.Join(dataDir, "stage")
	if err := os.MkdirAll(stageDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	links, err := linksign.LoadOrCreate(filepath.Join(dataDir, LinkKeyFileName))
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "cortex-chef.db")

	// WAL for concurrent readers; foreign keys on every pooled connection.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	parseMode := cfg.ParseMode
	if parseMode == "" {
		parseMode = domain.ParseModeLayout
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	logger.Debug("sqlite: opened %s", dbPath)

	return &Store{
		db:          db,
		path:        dbPath,
		stageDir:    stageDir,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		links:       links,
		now:         time.Now,
		normalisers: cfg.Normalisers,
		pipeline:    cfg.Pipeline,
		parseMode:   parseMode,
		llm:         cfg.LLM,
		embedder:    cfg.Embedder,
		workers:     workers,
	}, nil
}

// LinkSigner returns the signer the web server verifies scoped links with.
func (s *Store) LinkSigner() *linksign.Signer {
	return s.links
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ResetSchema drops and recreates the tables in one transaction.
func (s *Store) ResetSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := applySchema(ctx, tx, schema.FS); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// applySchema executes every .sql file of fsys in name order.
func applySchema(ctx context.Context, tx *sql.Tx, fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing schema %s: %w", name, err)
		}
		logger.Debug("sqlite: applied %s", name)
	}
	return nil
}

// ApplyCategories backfills every chunk row of each document in one transaction.
func (s *Store) ApplyCategories(ctx context.Context, assignments []domain.CategoryAssignment) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE docs_chunks_table SET category = ? WHERE relative_path = ?
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	var total int64
	for _, a := range assignments {
		if !a.Category.IsValid() {
			return 0, fmt.Errorf("%w: %q for %s", domain.ErrUnknownCategory, a.Category, a.RelativePath)
		}
		res, err := stmt.ExecContext(ctx, string(a.Category), a.RelativePath)
		if err != nil {
			return 0, fmt.Errorf("updating category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting updated rows: %w", err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return total, nil
}

// ListChunks returns the chunk rows of one document in insertion order.
func (s *Store) ListChunks(ctx context.Context, relativePath string) ([]domain.ChunkRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT relative_path, size, file_url, scoped_file_url, chunk, category
		FROM docs_chunks_table WHERE relative_path = ?
		ORDER BY id
	`, relativePath)
	if err != nil {
		return nil, queryErr("querying chunks", err)
	}
	defer rows.Close()

	var out []domain.ChunkRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var row domain.ChunkRow
		var category sql.NullString
		if err := rows.Scan(&row.RelativePath, &row.Size, &row.FileURL,
			&row.ScopedFileURL, &row.Chunk, &category); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		row.Category = toCategory(category)
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
		SELECT relative_path, MAX(size), COUNT(*), COUNT(category), MIN(category), MAX(category)
		FROM docs_chunks_table
		GROUP BY relative_path
		ORDER BY relative_path
	`)
	if err != nil {
		return nil, queryErr("querying documents", err)
	}
	defer rows.Close()

	var out []domain.DocumentSummary
	for rows.Next() {
		var d domain.DocumentSummary
		var labelled int
		var minCat, maxCat sql.NullString
		if err := rows.Scan(&d.RelativePath, &d.Size, &d.Chunks, &labelled, &minCat, &maxCat); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Consistent = labelled == 0 || (labelled == d.Chunks && minCat.String == maxCat.String)
		if minCat.Valid {
			d.Category = domain.Category(minCat.String)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return out, nil
}

// distinctPaths returns the documents present in the chunk table.
func (s *Store) distinctPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT relative_path FROM docs_chunks_table ORDER BY relative_path
	`)
	if err != nil {
		return nil, queryErr("querying documents", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ==================== Helper Functions ====================

func toCategory(v sql.NullString) *domain.Category {
	if !v.Valid {
		return nil
	}
	c := domain.Category(v.String)
	return &c
}

// queryErr wraps err, pointing at init when the tables do not exist yet.
func queryErr(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w: schema not initialised, run 'cortex-chef init'", op, domain.ErrBackendUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
