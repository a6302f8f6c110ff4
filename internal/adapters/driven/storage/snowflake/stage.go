package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// DefaultLinkTTL is used when ScopedURL is called without a lifetime.
const DefaultLinkTTL = 360 * time.Second

// putStatement uploads one local file to the stage root, uncompressed so the
// parser can read it and overwriting an earlier upload of the same name.
func putStatement(stage, localPath string) string {
	uri := "file://" + filepath.ToSlash(localPath)
	return fmt.Sprintf("PUT %s @%s AUTO_COMPRESS=FALSE OVERWRITE=TRUE", sqlLiteral(uri), stage)
}

// Put uploads a local file to the stage.
func (s *Store) Put(ctx context.Context, localPath string) (domain.StagedFile, error) {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("resolving %s: %w", localPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if info.IsDir() {
		return domain.StagedFile{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, localPath)
	}

	if err := s.exec(ctx, "uploading "+filepath.Base(abs), putStatement(s.cfg.Stage, abs)); err != nil {
		return domain.StagedFile{}, err
	}

	return domain.StagedFile{
		RelativePath: filepath.Base(abs),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

// List reads the stage's directory table.
func (s *Store) List(ctx context.Context) ([]domain.StagedFile, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT relative_path, size, last_modified, file_url
		FROM DIRECTORY(%s)
		ORDER BY relative_path
	`, s.stageRef()))
	if err != nil {
		return nil, fmt.Errorf("listing stage: %w", err)
	}
	defer rows.Close()

	var out []domain.StagedFile
	for rows.Next() {
		var f domain.StagedFile
		var modified sql.NullTime
		if err := rows.Scan(&f.RelativePath, &f.Size, &modified, &f.FileURL); err != nil {
			return nil, fmt.Errorf("scanning staged file: %w", err)
		}
		f.LastModified = modified.Time
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stage: %w", err)
	}
	return out, nil
}

// Refresh synchronises the directory table with the stage contents.
func (s *Store) Refresh(ctx context.Context) error {
	return s.exec(ctx, "refreshing stage", fmt.Sprintf("ALTER STAGE %s REFRESH", s.cfg.Stage))
}

// ScopedURL returns a presigned link to a staged file.
func (s *Store) ScopedURL(ctx context.Context, relativePath string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(relativePath) == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	var url string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT GET_PRESIGNED_URL(%[1]s, relative_path, ?)
		FROM DIRECTORY(%[1]s)
		WHERE relative_path = ?
	`, s.stageRef()), int64(ttl/time.Second), relativePath).Scan(&url)
	if err != nil {
		return "", notFound(err, relativePath)
	}
	logger.Debug("snowflake: presigned %s for %s", relativePath, ttl)
	return url, nil
}
