package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/cli"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

func TestNew_SettingsOnly(t *testing.T) {
	dir := t.TempDir()

	c, err := New(context.Background(), cli.Options{ConfigDir: dir, SettingsOnly: true})
	require.NoError(t, err)
	defer c.Close()

	svc := c.Services()
	require.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Chat)
	assert.Nil(t, svc.Eval)
	assert.Nil(t, svc.Schema)
	assert.Equal(t, filepath.Join(dir, "config.toml"), svc.Settings.Path())
	assert.Equal(t, domain.BackendSnowflake, c.Settings.Backend)
}

func TestNew_Overrides(t *testing.T) {
	c, err := New(context.Background(), cli.Options{
		ConfigDir:    t.TempDir(),
		Backend:      domain.BackendLocal,
		Include:      []string{"**/*.txt"},
		SettingsOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BackendLocal, c.Settings.Backend)
	assert.Equal(t, []string{"**/*.txt"}, c.Settings.Ingest.Include)
}

func TestNew_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[ingest]\nchunk_size = 100\nchunk_overlap = 200\n"), 0o600))

	_, err := New(context.Background(), cli.Options{ConfigDir: dir, Backend: domain.BackendLocal})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_SnowflakeMissingCredentials(t *testing.T) {
	for _, env := range []string{
		"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_PASSWORD", "SNOWFLAKE_WAREHOUSE",
		"SNOWFLAKE_DATABASE", "SNOWFLAKE_SCHEMA", "SNOWFLAKE_ROLE",
	} {
		t.Setenv(env, "")
	}

	_, err := New(context.Background(), cli.Options{ConfigDir: t.TempDir()})

	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestNew_LocalBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := New(ctx, cli.Options{
		ConfigDir: dir,
		Backend:   domain.BackendLocal,
		Include:   []string{"**/*.txt"},
	})
	require.NoError(t, err)
	svc := c.Services()
	defer func() { assert.NoError(t, svc.Close()) }()

	assert.Equal(t, filepath.Join(dir, "data", "stage"), svc.StageDir)
	require.NotNil(t, svc.Links)
	assert.FileExists(t, filepath.Join(dir, "data", sqlite.LinkKeyFileName))
	require.NoError(t, svc.Schema.Initialize(ctx))

	recipes := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(recipes, "pancakes.txt"),
		[]byte("Fluffy pancakes. Whisk flour, milk and eggs, then fry in butter."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(recipes, "ignored.pdf"), []byte("%PDF"), 0o600))

	staged, err := svc.Ingest.Upload(ctx, []string{recipes}, nil)
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "pancakes.txt", staged[0].RelativePath)

	report, err := svc.Ingest.Ingest(ctx, domain.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Positive(t, report.Chunks)

	docs, err := svc.Documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "pancakes.txt", docs[0].RelativePath)
	assert.Equal(t, domain.Category(""), docs[0].Category)

	results, err := svc.Chat.Search(ctx, "pancakes", domain.SearchOptions{Limit: 3})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "pancakes.txt", results[0].RelativePath)

	// No LLM provider is configured.
	_, err = svc.Chat.Ask(ctx, domain.AskRequest{Query: "pancakes?"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	_, err = svc.Eval.Evaluate(ctx, domain.AskRequest{Query: "pancakes?"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestBuild(t *testing.T) {
	svc, err := Build(context.Background(), cli.Options{ConfigDir: t.TempDir(), SettingsOnly: true})

	require.NoError(t, err)
	require.NotNil(t, svc.Close)
	assert.NoError(t, svc.Close())
}

func TestLocalModel(t *testing.T) {
	openai := domain.LLMSettings{Provider: domain.AIProviderOpenAI}
	ollama := domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "qwen2.5"}

	assert.Equal(t, "gpt-4o-mini", localModel(domain.DefaultCompletionModel, openai))
	assert.Equal(t, "gpt-4o-mini", localModel("", openai))
	assert.Equal(t, "qwen2.5", localModel(domain.DefaultCompletionModel, ollama))
	assert.Equal(t, "gpt-4.1", localModel("gpt-4.1", openai))
	assert.Equal(t, "", localModel("", domain.LLMSettings{}))
}
