package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

const (
	// DefaultLinkTTL is used when ScopedURL is called without a lifetime.
	DefaultLinkTTL = 360 * time.Second

	// IngestLinkTTL is the lifetime of the scoped_file_url stored with each
	// chunk row.
	IngestLinkTTL = 24 * time.Hour
)

// StageDir returns the directory holding staged files.
func (s *Store) StageDir() string {
	return s.stageDir
}

// Put copies a local file into the stage root, replacing any file with the
// same name. The copy is written to a temporary file and renamed into place.
func (s *Store) Put(ctx context.Context, localPath string) (domain.StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return domain.StagedFile{}, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.stageDir, ".upload-*")
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("creating staged file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return domain.StagedFile{}, fmt.Errorf("copying %s: %w", localPath, err)
	}
	if err := tmp.Close(); err != nil {
		return domain.StagedFile{}, fmt.Errorf("closing staged file: %w", err)
	}

	name := filepath.Base(localPath)
	if err := os.Rename(tmp.Name(), filepath.Join(s.stageDir, name)); err != nil {
		return domain.StagedFile{}, fmt.Errorf("staging %s: %w", name, err)
	}

	logger.Debug("stage: put %s", name)
	return s.stat(name)
}

// List returns the staged files ordered by relative path.
func (s *Store) List(ctx context.Context) ([]domain.StagedFile, error) {
	var files []domain.StagedFile

	err := filepath.WalkDir(s.stageDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.stageDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.stageDir, path)
		if err != nil {
			return err
		}
		f, err := s.stat(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing stage: %w", err)
	}
	return files, nil
}

// Refresh checks the stage directory is present. The listing is read from
// disk on every call so there is nothing to synchronise.
func (s *Store) Refresh(_ context.Context) error {
	info, err := os.Stat(s.stageDir)
	if err != nil {
		return fmt.Errorf("refreshing stage: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("refreshing stage: %s is not a directory", s.stageDir)
	}
	return nil
}

// ScopedURL returns a signed web link to a staged file valid for ttl.
func (s *Store) ScopedURL(_ context.Context, relativePath string, ttl time.Duration) (string, error) {
	f, err := s.stat(relativePath)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return s.signedURL(f.RelativePath, ttl), nil
}

// stat describes one staged file. Paths escaping the stage are rejected.
func (s *Store) stat(relativePath string) (domain.StagedFile, error) {
	local := filepath.FromSlash(relativePath)
	if !filepath.IsLocal(local) {
		return domain.StagedFile{}, fmt.Errorf("%w: path %q", domain.ErrInvalidInput, relativePath)
	}

	full := filepath.Join(s.stageDir, local)
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.StagedFile{}, fmt.Errorf("%w: %s", domain.ErrNotFound, relativePath)
	}
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("stat %s: %w", relativePath, err)
	}
	if info.IsDir() {
		return domain.StagedFile{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, relativePath)
	}

	return domain.StagedFile{
		RelativePath: filepath.ToSlash(local),
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
		FileURL:      (&url.URL{Scheme: "file", Path: filepath.ToSlash(full)}).String(),
	}, nil
}

// signedURL is the web link of a staged file, signed with its expiry.
func (s *Store) signedURL(relativePath string, ttl time.Duration) string {
	parts := strings.Split(relativePath, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	query := s.links.Query(relativePath, s.now().Add(ttl))
	return s.baseURL + "/stage/" + strings.Join(parts, "/") + "?" + query.Encode()
}
