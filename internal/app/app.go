// Package app is the composition root: it reads settings, opens the selected
// backend and builds the core services the driving adapters call.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/ai"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/files"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/storage/snowflake"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/cli"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/web"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/services"
	"github.com/custodia-labs/cortex-chef/internal/logger"
	"github.com/custodia-labs/cortex-chef/internal/normalisers"
	"github.com/custodia-labs/cortex-chef/internal/normalisers/pdf"
	"github.com/custodia-labs/cortex-chef/internal/normalisers/plaintext"
	"github.com/custodia-labs/cortex-chef/internal/postprocessors"
)

// Container owns the opened backend and the services built on it.
type Container struct {
	// Settings are the effective settings after flag overrides.
	Settings *domain.AppSettings

	// ConfigDir is the resolved configuration directory.
	ConfigDir string

	services cli.Services
	closers  []func() error
}

// Build is a cli.Factory.
func Build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	c, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.Services(), nil
}

// New reads settings and, unless opts.SettingsOnly is set, opens the backend.
func New(ctx context.Context, opts cli.Options) (*Container, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.Backend != "" {
		settings.Backend = opts.Backend
	}
	if len(opts.Include) > 0 {
		settings.Ingest.Include = opts.Include
	}

	c := &Container{Settings: settings, ConfigDir: configDir}
	c.services.Settings = settingsService
	c.services.Close = c.Close

	if opts.SettingsOnly {
		return c, nil
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	logger.Debug("backend: %s", settings.Backend)
	switch settings.Backend {
	case domain.BackendLocal:
		err = c.openLocal(prompts)
	case domain.BackendSnowflake:
		err = c.openSnowflake(ctx, prompts, opts.SecretsPath)
	default:
		err = fmt.Errorf("%w: backend %q", domain.ErrInvalidInput, settings.Backend)
	}
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Services returns the driving ports for the CLI.
func (c *Container) Services() *cli.Services {
	s := c.services
	return &s
}

// Close releases the backend and AI clients in reverse order of opening.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) openLocal(prompts driven.PromptStore) error {
	s := c.Settings

	aiResult, err := ai.Init(&s.LLM, &s.Embedding)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, func() error { aiResult.Close(); return nil })
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	registry := normalisers.NewRegistry()
	registry.Register(pdf.New())
	registry.Register(plaintext.New())

	pipeline, err := postprocessors.NewDefaultPipeline(s.Ingest)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(sqlite.Config{
		DataDir:     filepath.Join(c.ConfigDir, "data"),
		BaseURL:     web.LocalURL(s.Web.Addr),
		Normalisers: registry,
		Pipeline:    pipeline,
		ParseMode:   s.Ingest.ParseMode,
		LLM:         aiResult.LLMService,
		Embedder:    aiResult.EmbeddingService,
		Workers:     s.Classify.Workers,
	})
	if err != nil {
		return err
	}
	c.closers = append(c.closers, store.Close)

	chat := s.Chat
	chat.Model = localModel(chat.Model, s.LLM)
	c.wire(store, store, store, aiResult.LLMService, prompts, chat, localModel(s.Classify.Model, s.LLM))
	c.services.StageDir = store.StageDir()
	c.services.Links = store.LinkSigner()
	return nil
}

func (c *Container) openSnowflake(ctx context.Context, prompts driven.PromptStore, secretsPath string) error {
	s := c.Settings

	if secretsPath == "" {
		secretsPath = filepath.Join(c.ConfigDir, file.SecretsFileName)
	}
	secrets, err := file.NewSecrets(secretsPath)
	if err != nil {
		return err
	}
	creds, err := secrets.Load()
	if err != nil {
		return err
	}
	if creds.Password == "" && creds.User != "" {
		pw, err := file.PromptPassword(os.Stdin, os.Stderr, creds.User)
		if err != nil {
			return err
		}
		creds.Password = pw
	}
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("%w (see %s)", err, secrets.Path())
	}

	store, err := snowflake.NewStore(ctx, snowflake.Config{
		Credentials:   creds,
		Stage:         s.Snowflake.Stage,
		SearchService: s.Snowflake.SearchService,
		TargetLag:     s.Snowflake.TargetLag,
		ChunkSize:     s.Ingest.ChunkSize,
		ChunkOverlap:  s.Ingest.ChunkOverlap,
		ParseMode:     s.Ingest.ParseMode,
		Model:         s.Chat.Model,
	})
	if err != nil {
		return err
	}
	c.closers = append(c.closers, store.Close)

	c.wire(store, store, store, store.LLM(), prompts, s.Chat, s.Classify.Model)
	return nil
}

// wire builds the core services over one backend.
func (c *Container) wire(
	store driven.ChunkStore,
	stage driven.Stage,
	search driven.SearchEngine,
	llm driven.LLMService,
	prompts driven.PromptStore,
	chat domain.ChatSettings,
	classifyModel string,
) {
	finder := files.NewFinder(c.Settings.Ingest.Include)

	c.services.Schema = services.NewSchemaService(store)
	c.services.Ingest = services.NewIngestService(stage, store, finder)
	c.services.Classifier = services.NewClassifierService(store, prompts, classifyModel)
	chatService := services.NewChatService(search, llm, stage, prompts, chat)
	c.services.Chat = chatService
	c.services.Eval = services.NewEvalService(chatService, llm, prompts, chat.Model)
	c.services.Documents = services.NewDocumentService(store, stage)
}

// localModel maps the warehouse completion model to the local provider's
// model. Any other configured name is passed through unchanged.
func localModel(configured string, llm domain.LLMSettings) string {
	if configured != "" && configured != domain.DefaultCompletionModel {
		return configured
	}
	if llm.Model != "" {
		return llm.Model
	}
	return domain.DefaultLLMModels()[llm.Provider]
}
