package mcp

import (
	"context"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	results []domain.SearchResult
	answer  *domain.Answer
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
	lastAsk   domain.AskRequest
}

func (m *mockChatService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockChatService) Ask(_ context.Context, req domain.AskRequest) (*domain.Answer, error) {
	m.lastAsk = req
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentSummary
	chunks    []domain.ChunkRow
	link      string
	err       error
	linkErr   error

	lastPath string
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, path string) ([]domain.ChunkRow, error) {
	m.lastPath = path
	return m.chunks, m.err
}

func (m *mockDocumentService) Link(_ context.Context, _ string) (string, error) {
	return m.link, m.linkErr
}
