package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

type mockSchemaService struct {
	err   error
	calls int
}

func (m *mockSchemaService) Initialize(context.Context) error {
	m.calls++
	return m.err
}

type mockIngestService struct {
	report     domain.IngestReport
	uploadErr  error
	ingestErr  error
	uploaded   []string
	lastOpts   domain.IngestOptions
	ingestRuns int
}

func (m *mockIngestService) Upload(
	_ context.Context, paths []string, progress func(domain.StagedFile),
) ([]domain.StagedFile, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	staged := make([]domain.StagedFile, 0, len(paths))
	for _, p := range paths {
		f := domain.StagedFile{RelativePath: filepath.Base(p)}
		m.uploaded = append(m.uploaded, f.RelativePath)
		if progress != nil {
			progress(f)
		}
		staged = append(staged, f)
	}
	return staged, nil
}

func (m *mockIngestService) Staged(context.Context) ([]domain.StagedFile, error) {
	return nil, nil
}

func (m *mockIngestService) Ingest(_ context.Context, opts domain.IngestOptions) (domain.IngestReport, error) {
	m.ingestRuns++
	m.lastOpts = opts
	return m.report, m.ingestErr
}

type mockClassifierService struct {
	report *domain.ClassifyReport
	err    error
}

func (m *mockClassifierService) Classify(context.Context) (*domain.ClassifyReport, error) {
	return m.report, m.err
}

type mockChatService struct {
	results   []domain.SearchResult
	answer    *domain.Answer
	err       error
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

type mockEvalService struct {
	eval    *domain.Evaluation
	err     error
	lastReq domain.AskRequest
}

func (m *mockEvalService) Evaluate(_ context.Context, req domain.AskRequest) (*domain.Evaluation, error) {
	m.lastReq = req
	return m.eval, m.err
}

type mockDocumentService struct {
	documents []domain.DocumentSummary
	chunks    []domain.ChunkRow
	link      string
	err       error
	linkErr   error
}

func (m *mockDocumentService) List(context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Chunks(context.Context, string) ([]domain.ChunkRow, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Link(context.Context, string) (string, error) {
	return m.link, m.linkErr
}

type mockSettingsService struct {
	settings    domain.AppSettings
	path        string
	set         map[string]string
	saved       *domain.AppSettings
	validateErr error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		path:     "/home/chef/.cortex-chef/config.toml",
		set:      map[string]string{},
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"backend", "chat.num_chunks", "llm.api_key", "web.addr"}
}

func (m *mockSettingsService) Path() string                    { return m.path }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error  { return m.validateErr }
func (m *mockSettingsService) ValidateLLMConfig() error        { return m.validateErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	schema     *mockSchemaService
	ingest     *mockIngestService
	classifier *mockClassifierService
	chat       *mockChatService
	eval       *mockEvalService
	documents  *mockDocumentService
	settings   *mockSettingsService
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		schema:     &mockSchemaService{},
		ingest:     &mockIngestService{},
		classifier: &mockClassifierService{},
		chat:       &mockChatService{},
		eval:       &mockEvalService{},
		documents:  &mockDocumentService{},
		settings:   newMockSettingsService(),
	}
	prevFactory := factory
	factory = nil
	useServices(&Services{
		Schema:     ts.schema,
		Ingest:     ts.ingest,
		Classifier: ts.classifier,
		Chat:       ts.chat,
		Eval:       ts.eval,
		Documents:  ts.documents,
		Settings:   ts.settings,
	})
	return ts, func() {
		factory = prevFactory
		useServices(&Services{})
	}
}

// resetFlags restores every flag in the tree to its default so state does
// not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommandInput(t, "", args...)
}

// runCommandInput is runCommand with input on stdin.
func runCommandInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
		rootCmd.SetIn(os.Stdin)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
