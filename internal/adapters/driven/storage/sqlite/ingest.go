package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// embedBatchSize bounds the texts sent per embedding request.
const embedBatchSize = 64

// pendingChunk is a chunk row waiting to be inserted.
type pendingChunk struct {
	file   domain.StagedFile
	scoped string
	text   string
	vector []float32
}

// IngestStage parses and splits every staged file, then inserts all chunk
// rows in one transaction. Any parse or split failure aborts the run before
// the transaction starts.
func (s *Store) IngestStage(ctx context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	report := domain.IngestReport{Reloaded: opts.Reload}

	if s.normalisers == nil || s.pipeline == nil {
		return report, fmt.Errorf("%w: no parse or split function configured", domain.ErrBackendUnavailable)
	}

	files, err := s.List(ctx)
	if err != nil {
		return report, err
	}

	var pending []pendingChunk
	for _, f := range files {
		chunks, err := s.parseAndSplit(ctx, f)
		if err != nil {
			return report, fmt.Errorf("ingesting %s: %w", f.RelativePath, err)
		}
		if len(chunks) == 0 {
			logger.Warn("ingest: no text extracted from %s", f.RelativePath)
			continue
		}
		scoped := s.signedURL(f.RelativePath, IngestLinkTTL)
		for _, text := range chunks {
			pending = append(pending, pendingChunk{file: f, scoped: scoped, text: text})
		}
		report.Files++
	}

	model := s.embed(ctx, pending)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if opts.Reload {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunk_vectors`); err != nil {
			return report, queryErr("clearing vectors", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM docs_chunks_table`); err != nil {
			return report, queryErr("clearing chunks", err)
		}
	}

	insertChunk, err := tx.PrepareContext(ctx, `
		INSERT INTO docs_chunks_table (relative_path, size, file_url, scoped_file_url, chunk, category)
		VALUES (?, ?, ?, ?, ?, NULL)
	`)
	if err != nil {
		return report, queryErr("preparing statement", err)
	}
	defer insertChunk.Close()

	insertVector, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_vectors (chunk_id, model, vector) VALUES (?, ?, ?)
	`)
	if err != nil {
		return report, queryErr("preparing statement", err)
	}
	defer insertVector.Close()

	for _, p := range pending {
		res, err := insertChunk.ExecContext(ctx, p.file.RelativePath, p.file.Size, p.file.FileURL, p.scoped, p.text)
		if err != nil {
			return report, fmt.Errorf("inserting chunk: %w", err)
		}
		report.Chunks++

		if len(p.vector) == 0 {
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			return report, fmt.Errorf("reading chunk id: %w", err)
		}
		if _, err := insertVector.ExecContext(ctx, id, model, float32SliceToBytes(p.vector)); err != nil {
			return report, fmt.Errorf("inserting vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("committing transaction: %w", err)
	}

	logger.Info("ingest: %d chunks from %d files", report.Chunks, report.Files)
	return report, nil
}

// parseAndSplit runs the parse and split functions over one staged file.
func (s *Store) parseAndSplit(ctx context.Context, f domain.StagedFile) ([]string, error) {
	content, err := os.ReadFile(filepath.Join(s.stageDir, filepath.FromSlash(f.RelativePath)))
	if err != nil {
		return nil, fmt.Errorf("reading staged file: %w", err)
	}

	result, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		RelativePath: f.RelativePath,
		Content:      content,
	}, s.parseMode)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	doc := result.Document
	doc.RelativePath = f.RelativePath
	doc.Size = f.Size

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("splitting: %w", err)
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}
	return texts, nil
}

// embed fills in vectors when an embedding service is configured and
// returns its model name. Embedding is optional: on failure the chunks are
// stored without vectors and search falls back to term matching.
func (s *Store) embed(ctx context.Context, pending []pendingChunk) string {
	if s.embedder == nil || len(pending) == 0 {
		return ""
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := min(start+embedBatchSize, len(pending))
		texts := make([]string, 0, end-start)
		for _, p := range pending[start:end] {
			texts = append(texts, p.text)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil || len(vectors) != len(texts) {
			logger.Warn("ingest: embedding failed, storing chunks without vectors: %v", err)
			for i := range pending {
				pending[i].vector = nil
			}
			return ""
		}
		for i, v := range vectors {
			pending[start+i].vector = v
		}
	}
	return s.embedder.ModelName()
}
