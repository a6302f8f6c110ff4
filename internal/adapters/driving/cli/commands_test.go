package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/mcp"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

func TestRootCmd_Commands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"init", "upload", "ingest", "classify", "search", "ask", "eval",
		"documents", "serve", "tui", "mcp", "config", "version",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestServicesFor(t *testing.T) {
	assert.Equal(t, servicesNone, servicesFor(versionCmd))
	assert.Equal(t, servicesSettings, servicesFor(configCmd))
	assert.Equal(t, servicesSettings, servicesFor(configSetCmd), "inherited from parent")
	assert.Equal(t, "", servicesFor(askCmd))
}

func TestSetupServices_Factory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var got Options
	closed := false
	chat := &mockChatService{answer: &domain.Answer{Text: "From the factory."}}
	SetFactory(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{
			Chat:  chat,
			Close: func() error { closed = true; return nil },
		}, nil
	})

	out, err := runCommand(t, "--backend", "local", "--config-dir", "/tmp/chef", "ask", "soup?")

	require.NoError(t, err)
	assert.Contains(t, out, "From the factory.")
	assert.Equal(t, Options{ConfigDir: "/tmp/chef", Backend: domain.BackendLocal}, got)
	assert.True(t, closed)
}

func TestSetupServices_SettingsOnly(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var got Options
	settings := newMockSettingsService()
	SetFactory(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: settings}, nil
	})

	out, err := runCommand(t, "config", "path")

	require.NoError(t, err)
	assert.True(t, got.SettingsOnly)
	assert.Contains(t, out, settings.path)
}

func TestSetupServices_VersionSkipsFactory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	SetFactory(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("factory must not run")
	})

	_, err := runCommand(t, "version")
	assert.NoError(t, err)
}

func TestSetupServices_FactoryError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	SetFactory(func(context.Context, Options) (*Services, error) {
		return nil, domain.ErrMissingCredentials
	})

	_, err := runCommand(t, "init")
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestSetupServices_InvalidFlags(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "--backend", "oracle", "init")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCommand(t, "--log-format", "xml", "init")
	assert.Error(t, err)
}

func TestInitCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema initialised.")
	assert.Equal(t, 1, ts.schema.calls)

	ts.schema.err = domain.ErrBackendUnavailable
	_, err = runCommand(t, "init")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestCommands_RequireServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	useServices(&Services{})

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"init"}, "schema service not configured"},
		{[]string{"upload", "a.pdf"}, "ingest service not configured"},
		{[]string{"ingest"}, "ingest service not configured"},
		{[]string{"classify"}, "classifier service not configured"},
		{[]string{"search", "q"}, "chat service not configured"},
		{[]string{"ask", "q"}, "chat service not configured"},
		{[]string{"documents"}, "document service not configured"},
		{[]string{"config", "show"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUploadCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "upload", "recipes/a.pdf", "recipes/b.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded 2 files.")
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, ts.ingest.uploaded)
	assert.Zero(t, ts.ingest.ingestRuns)
}

func TestUploadCmd_Ingest(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.report = domain.IngestReport{Files: 1, Chunks: 7}

	out, err := runCommand(t, "upload", "--ingest", "a.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 7 chunks from 1 files.")
	assert.Equal(t, 1, ts.ingest.ingestRuns)
	assert.False(t, ts.ingest.lastOpts.Reload)
}

func TestUploadCmd_Errors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "upload")
	assert.Error(t, err)

	_, err = runCommand(t, "upload", "--watch", "a", "b")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ts.ingest.uploadErr = domain.ErrInvalidInput
	_, err = runCommand(t, "upload", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
}

func TestUploadCmd_WatchStopsWithContext(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := watchAndUpload(ctx, cmd, dir)
	assert.NoError(t, err)

	err = watchAndUpload(ctx, cmd, filepath.Join(dir, "a.pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatchPatterns(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() { uploadInclude = nil }()

	ts.settings.settings.Ingest.Include = []string{"**/*.txt"}
	got, err := watchPatterns()
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.txt"}, got)

	uploadInclude = []string{"*.pdf"}
	got, err = watchPatterns()
	require.NoError(t, err)
	assert.Equal(t, []string{"*.pdf"}, got)

	uploadInclude = nil
	settingsService = nil
	got, err = watchPatterns()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Ingest.Include, got)
}

func TestIngestCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.report = domain.IngestReport{Files: 3, Chunks: 12, Reloaded: true}

	out, err := runCommand(t, "ingest", "--reload")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 12 chunks from 3 files.")
	assert.True(t, ts.ingest.lastOpts.Reload)
}

func TestIngestCmd_NoStagedFiles(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.ingestErr = domain.ErrNoStagedFiles

	_, err := runCommand(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'cortex-chef upload' first")
}

func classifyReport() *domain.ClassifyReport {
	return &domain.ClassifyReport{
		Documents: 2,
		Assignments: []domain.CategoryAssignment{
			{RelativePath: "chicken-stir-fry.pdf", Category: domain.CategoryMainCourse},
			{RelativePath: "mango-lassi.pdf", Category: domain.CategoryJuices},
		},
		RowsUpdated: 5,
	}
}

func TestClassifyCmd_Table(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classifier.report = classifyReport()

	out, err := runCommand(t, "classify")

	require.NoError(t, err)
	assert.Contains(t, out, "Document")
	assert.Contains(t, out, "chicken-stir-fry.pdf")
	assert.Contains(t, out, "MainCourse")
	assert.Contains(t, out, "Juices")
	assert.Contains(t, out, "Updated 5 chunks across 2 documents.")
}

func TestClassifyCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classifier.report = classifyReport()

	out, err := runCommand(t, "classify", "-o", "json")
	require.NoError(t, err)

	var got domain.ClassifyReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, *classifyReport(), got)
}

func TestClassifyCmd_YAML(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classifier.report = classifyReport()

	out, err := runCommand(t, "classify", "--output", "yaml")
	require.NoError(t, err)

	var got domain.ClassifyReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(5), got.RowsUpdated)
	assert.Len(t, got.Assignments, 2)
}

func TestClassifyCmd_Empty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classifier.report = &domain.ClassifyReport{}

	out, err := runCommand(t, "classify")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents to classify.")
}

func TestClassifyCmd_Rejected(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.classifier.report = &domain.ClassifyReport{
		Documents: 1,
		Rejected:  []domain.CategoryRow{{RelativePath: "soup.pdf", Label: "Soups"}},
	}
	ts.classifier.err = domain.ErrUnknownCategory

	out, err := runCommand(t, "classify")

	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Contains(t, out, "Rejected labels:")
	assert.Contains(t, out, `soup.pdf: "Soups"`)
}

func TestClassifyCmd_BadOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "classify", "-o", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSearchCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.results = []domain.SearchResult{
		{RelativePath: "greek-salad.pdf", Chunk: "Chop the cucumbers.", Category: domain.CategorySalads, Score: 0.91},
	}

	out, err := runCommand(t, "search", "-c", "Salads", "-n", "5", "cucumber")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] greek-salad.pdf (0.91)")
	assert.Contains(t, out, "Category: Salads")
	assert.Equal(t, "cucumber", ts.chat.lastQuery)
	assert.Equal(t, domain.SearchOptions{Limit: 5, Category: domain.CategorySalads}, ts.chat.lastOpts)
}

func TestSearchCmd_Defaults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "search", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
	assert.Equal(t, domain.SearchOptions{Limit: domain.DefaultNumChunks}, ts.chat.lastOpts)
}

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "3", flag.DefValue)

	flag = searchCmd.Flags().Lookup("category")
	require.NotNil(t, flag)
	assert.Equal(t, domain.CategoryAll, flag.DefValue)
}

func TestSearchCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.results = []domain.SearchResult{{RelativePath: "a.pdf", Chunk: "x", Score: 1}}

	out, err := runCommand(t, "search", "--json", "x")
	require.NoError(t, err)

	var got []domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ts.chat.results, got)
}

func TestSearchCmd_Errors(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")

	_, err = runCommand(t, "search", "-c", "Soups", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	ts.chat.err = domain.ErrSearchUnavailable
	_, err = runCommand(t, "search", "x")
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestAskCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.answer = &domain.Answer{
		Text: "Make a chicken stir fry!",
		Related: []domain.RelatedDocument{
			{RelativePath: "chicken-stir-fry.pdf", URL: "https://stage.test/chicken"},
			{RelativePath: "rice.pdf"},
		},
	}

	out, err := runCommand(t, "ask", "--category", "MainCourse", "quick chicken dish")

	require.NoError(t, err)
	assert.Contains(t, out, "Make a chicken stir fry!")
	assert.Contains(t, out, "Related recipes:")
	assert.Contains(t, out, "- chicken-stir-fry.pdf\n    https://stage.test/chicken")
	assert.Contains(t, out, "- rice.pdf")
	assert.Equal(t, domain.AskRequest{Query: "quick chicken dish", Category: domain.CategoryMainCourse}, ts.chat.lastAsk)
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.answer = &domain.Answer{
		Text:        "Lassi!",
		SearchQuery: "mango drink",
		Context:     []domain.SearchResult{{RelativePath: "mango-lassi.pdf", Chunk: "Blend mango."}},
		Related:     []domain.RelatedDocument{{RelativePath: "mango-lassi.pdf"}},
	}

	out, err := runCommand(t, "ask", "--json", "mango drink")
	require.NoError(t, err)

	var got askOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Lassi!", got.Answer)
	assert.Equal(t, "mango drink", got.SearchQuery)
	assert.Len(t, got.Context, 1)
	assert.Equal(t, ts.chat.answer.Related, got.Related)
}

func TestAskCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.err = domain.ErrLLMUnavailable

	_, err := runCommand(t, "ask", "x")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func testEvaluation() *domain.Evaluation {
	return &domain.Evaluation{
		Question: "quick chicken dish",
		Answer: &domain.Answer{
			Text:    "Make a chicken stir fry!",
			Related: []domain.RelatedDocument{{RelativePath: "chicken-stir-fry.pdf"}},
		},
		Scores: []domain.MetricScore{
			{Metric: domain.MetricGroundedness, Score: 1, Reasons: "Every step is in the recipe."},
			{Metric: domain.MetricAnswerRelevance, Score: 2.0 / 3},
			{Metric: domain.MetricContextRelevance, Score: 0.5},
		},
	}
}

func TestEvalCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.eval.eval = testEvaluation()

	out, err := runCommand(t, "eval", "-c", "MainCourse", "quick chicken dish")

	require.NoError(t, err)
	assert.Contains(t, out, "Make a chicken stir fry!")
	assert.Contains(t, out, "groundedness")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "0.67")
	assert.Contains(t, out, "Every step is in the recipe.")
	assert.Equal(t, domain.AskRequest{Query: "quick chicken dish", Category: domain.CategoryMainCourse}, ts.eval.lastReq)
}

func TestEvalCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.eval.eval = testEvaluation()

	out, err := runCommand(t, "eval", "-o", "json", "quick chicken dish")
	require.NoError(t, err)

	var got evalOutputDoc
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "quick chicken dish", got.Question)
	assert.Equal(t, []string{"chicken-stir-fry.pdf"}, got.Sources)
	require.Len(t, got.Scores, 3)
	assert.Equal(t, domain.MetricContextRelevance, got.Scores[2].Metric)
	assert.InDelta(t, 0.5, got.Scores[2].Score, 1e-9)
}

func TestEvalCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		err     error
		wantErr error
	}{
		{name: "judge reply", args: []string{"eval", "x"}, err: domain.ErrUnscoredReply, wantErr: domain.ErrUnscoredReply},
		{name: "bad category", args: []string{"eval", "-c", "Soups", "x"}, wantErr: domain.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()
			ts.eval.err = tt.err

			_, err := runCommand(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDocumentsCmd_List(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.documents = []domain.DocumentSummary{
		{RelativePath: "chicken-stir-fry.pdf", Size: 2048, Chunks: 3, Category: domain.CategoryMainCourse, Consistent: true},
		{RelativePath: "mango-lassi.pdf", Size: 512, Chunks: 1, Consistent: true},
		{RelativePath: "mixed.pdf", Size: 100, Chunks: 2, Category: domain.CategorySnacks},
	}

	out, err := runCommand(t, "docs")

	require.NoError(t, err)
	assert.Contains(t, out, "chicken-stir-fry.pdf")
	assert.Contains(t, out, "2048")
	assert.Contains(t, out, "(unclassified)")
	assert.Contains(t, out, "Snacks (inconsistent)")
}

func TestDocumentsCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "documents")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")
}

func TestDocumentsCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.documents = []domain.DocumentSummary{{RelativePath: "a.pdf", Chunks: 1, Consistent: true}}

	out, err := runCommand(t, "documents", "-o", "json")
	require.NoError(t, err)

	var got []domain.DocumentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ts.documents.documents, got)
}

func TestDocumentsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	category := domain.CategoryDesserts
	ts.documents.chunks = []domain.ChunkRow{
		{RelativePath: "brownies.pdf", Chunk: "Melt the chocolate.", Category: &category},
		{RelativePath: "brownies.pdf", Chunk: "Bake 25 minutes."},
	}
	ts.documents.link = "http://localhost:8080/stage/brownies.pdf?expires=1"

	out, err := runCommand(t, "documents", "brownies.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Document: brownies.pdf")
	assert.Contains(t, out, "Link:     "+ts.documents.link)
	assert.Contains(t, out, "Chunks:   2")
	assert.Contains(t, out, "[1] Desserts")
	assert.Contains(t, out, "[2] (unclassified)")
	assert.Contains(t, out, "Melt the chocolate.")
}

func TestDocumentsCmd_ShowWithoutLink(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.chunks = []domain.ChunkRow{{RelativePath: "a.pdf", Chunk: "x"}}
	ts.documents.linkErr = domain.ErrNotFound

	out, err := runCommand(t, "documents", "a.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: no link for a.pdf")
	assert.NotContains(t, out, "Link:")
}

func TestDocumentsCmd_ShowOpen(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.chunks = []domain.ChunkRow{{RelativePath: "a.pdf", Chunk: "x"}}
	ts.documents.link = "http://localhost:8080/stage/a.pdf?expires=1"

	var opened []string
	orig := openBrowser
	defer func() { openBrowser = orig }()
	openBrowser = func(url string) error {
		opened = append(opened, url)
		return nil
	}

	_, err := runCommand(t, "documents", "a.pdf", "--open")
	require.NoError(t, err)
	assert.Equal(t, []string{ts.documents.link}, opened)

	opened = nil
	ts.documents.link = ""
	ts.documents.linkErr = domain.ErrNotFound
	_, err = runCommand(t, "documents", "a.pdf", "--open")
	require.NoError(t, err)
	assert.Empty(t, opened)
}

func TestDocumentsCmd_ShowNotFound(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.documents.err = domain.ErrNotFound

	_, err := runCommand(t, "documents", "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServeCmd_RequiresChat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	_, err := runCommand(t, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}

func TestServeCmd_OpenAndShutdown(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { serveAddr, serveOpen = "", false }()

	var opened string
	orig := openBrowser
	defer func() { openBrowser = orig }()
	openBrowser = func(url string) error {
		opened = url
		return errors.New("no display")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(ctx)
	serveAddr = "127.0.0.1:0"
	serveOpen = true

	require.NoError(t, runServe(cmd, nil))
	assert.Equal(t, "http://127.0.0.1:0", opened)
	assert.Contains(t, out.String(), "Web UI listening on http://127.0.0.1:0")
	assert.Contains(t, out.String(), "Warning: could not open browser: no display")
}

func TestMCPServeCmd_RequiresChat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	_, err := runCommand(t, "mcp", "serve", "--port", "0")

	assert.ErrorIs(t, err, mcp.ErrMissingChatService)
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.Category
		wantErr bool
	}{
		{"", "", false},
		{"ALL", "", false},
		{"Juices", domain.CategoryJuices, false},
		{"Soups", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseCategoryFlag(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "MainCourse")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n  b\tc", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestValidateOutput(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		assert.NoError(t, validateOutput(f))
	}
	assert.Error(t, validateOutput("csv"))
}
