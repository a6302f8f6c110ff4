package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	resetErr   error
	resetCalls int

	ingestReport domain.IngestReport
	ingestErr    error
	ingestOpts   []domain.IngestOptions

	categoryRows []domain.CategoryRow
	computeErr   error
	classifyReqs []driven.ClassifyRequest
	applied      []domain.CategoryAssignment
	applyCalls   int
	applyErr     error
	rowsPerDoc   int64
	documents    []domain.DocumentSummary
	chunks       map[string][]domain.ChunkRow
	listErr      error
}

func (m *mockChunkStore) ResetSchema(_ context.Context) error {
	m.resetCalls++
	return m.resetErr
}

func (m *mockChunkStore) IngestStage(_ context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	m.ingestOpts = append(m.ingestOpts, opts)
	if m.ingestErr != nil {
		return domain.IngestReport{}, m.ingestErr
	}
	return m.ingestReport, nil
}

func (m *mockChunkStore) ComputeCategories(
	_ context.Context, req driven.ClassifyRequest,
) ([]domain.CategoryRow, error) {
	m.classifyReqs = append(m.classifyReqs, req)
	if m.computeErr != nil {
		return nil, m.computeErr
	}
	return m.categoryRows, nil
}

func (m *mockChunkStore) ApplyCategories(
	_ context.Context, assignments []domain.CategoryAssignment,
) (int64, error) {
	m.applyCalls++
	if m.applyErr != nil {
		return 0, m.applyErr
	}
	m.applied = append(m.applied, assignments...)
	return int64(len(assignments)) * m.rowsPerDoc, nil
}

func (m *mockChunkStore) ListChunks(_ context.Context, path string) ([]domain.ChunkRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	rows, ok := m.chunks[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rows, nil
}

func (m *mockChunkStore) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.documents, nil
}

func (m *mockChunkStore) Close() error {
	return nil
}

// mockStage implements driven.Stage for testing.
type mockStage struct {
	files      map[string]domain.StagedFile
	putErr     error
	failOn     string
	refreshes  int
	refreshErr error
	urlErr     error
	urls       []string
}

func newMockStage(paths ...string) *mockStage {
	s := &mockStage{files: make(map[string]domain.StagedFile)}
	for _, p := range paths {
		s.files[p] = domain.StagedFile{RelativePath: p, Size: 100}
	}
	return s
}

func (m *mockStage) Put(_ context.Context, localPath string) (domain.StagedFile, error) {
	if m.putErr != nil && (m.failOn == "" || m.failOn == localPath) {
		return domain.StagedFile{}, m.putErr
	}
	name := filepath.Base(localPath)
	sf := domain.StagedFile{RelativePath: name, Size: int64(len(name)), LastModified: time.Now()}
	m.files[name] = sf
	return sf, nil
}

func (m *mockStage) List(_ context.Context) ([]domain.StagedFile, error) {
	out := make([]domain.StagedFile, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RelativePath < out[j].RelativePath })
	return out, nil
}

func (m *mockStage) Refresh(_ context.Context) error {
	m.refreshes++
	return m.refreshErr
}

func (m *mockStage) ScopedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	m.urls = append(m.urls, path)
	return fmt.Sprintf("https://stage.example/%s?ttl=%d", path, int(ttl.Seconds())), nil
}

// mockFinder implements driven.FileFinder for testing.
type mockFinder struct {
	files []string
	err   error
}

func (m *mockFinder) Find(_ []string) ([]string, error) {
	return m.files, m.err
}

func (m *mockFinder) Matches(_ string) bool {
	return true
}

// mockSearchEngine implements driven.SearchEngine for testing.
type mockSearchEngine struct {
	results   []domain.SearchResult
	searchErr error
	queries   []string
	opts      []domain.SearchOptions
}

func (m *mockSearchEngine) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.queries = append(m.queries, query)
	m.opts = append(m.opts, opts)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var out []domain.SearchResult
	for _, r := range m.results {
		if opts.Category != "" && r.Category != opts.Category {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// mockLLMService implements driven.LLMService for testing.
// Responses are returned in order; the last one repeats.
type mockLLMService struct {
	responses []string
	err       error
	prompts   []string
	models    []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.models = append(m.models, opts.Model)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	i := len(m.prompts) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func (m *mockLLMService) Chat(ctx context.Context, msgs []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return m.Generate(ctx, msgs[len(msgs)-1].Content, driven.GenerateOptions{Model: opts.Model})
}

func (m *mockLLMService) ModelName() string            { return "mock" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptClassify:         "Category of %s?",
		driven.PromptChef:             "CATEGORY=%[1]s\nHISTORY=%[2]s\nCONTEXT=%[3]s\nQUESTION=%[4]s",
		driven.PromptHistorySummary:   "HISTORY=%[1]s\nQUESTION=%[2]s",
		driven.PromptGroundedness:     "GROUNDED CONTEXT=%[1]s ANSWER=%[2]s",
		driven.PromptAnswerRelevance:  "ANSWER-RELEVANCE QUESTION=%[1]s ANSWER=%[2]s",
		driven.PromptContextRelevance: "CONTEXT-RELEVANCE QUESTION=%[1]s CHUNK=%[2]s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	llmErr   error
	embedErr error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embedErr }
func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error             { return m.llmErr }
