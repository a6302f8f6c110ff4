package web

import (
	"context"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

type mockChatService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastAsk   domain.AskRequest
}

func (m *mockChatService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockChatService) Ask(_ context.Context, req domain.AskRequest) (*domain.Answer, error) {
	m.lastAsk = req
	return m.answer, m.err
}

type mockIngestService struct {
	report    domain.IngestReport
	uploadErr error
	ingestErr error

	uploaded    map[string]string // base name -> content
	ingestCalls int
	lastOpts    domain.IngestOptions
}

func (m *mockIngestService) Upload(_ context.Context, paths []string, _ func(domain.StagedFile)) ([]domain.StagedFile, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploaded = make(map[string]string)
	var staged []domain.StagedFile
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		m.uploaded[filepath.Base(p)] = string(data)
		staged = append(staged, domain.StagedFile{RelativePath: filepath.Base(p), Size: int64(len(data))})
	}
	return staged, nil
}

func (m *mockIngestService) Staged(context.Context) ([]domain.StagedFile, error) {
	return nil, nil
}

func (m *mockIngestService) Ingest(_ context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	m.ingestCalls++
	m.lastOpts = opts
	return m.report, m.ingestErr
}

type mockClassifierService struct {
	report *domain.ClassifyReport
	err    error
	calls  int
}

func (m *mockClassifierService) Classify(context.Context) (*domain.ClassifyReport, error) {
	m.calls++
	return m.report, m.err
}

type mockDocumentService struct {
	documents []domain.DocumentSummary
	chunks    []domain.ChunkRow
	link      string
	err       error
}

func (m *mockDocumentService) List(context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Chunks(context.Context, string) ([]domain.ChunkRow, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Link(context.Context, string) (string, error) {
	return m.link, nil
}
