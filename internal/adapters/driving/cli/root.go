// Package cli provides the cobra command tree for cortex-chef.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/linksign"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Options are the global flag values handed to the service factory.
type Options struct {
	// ConfigDir overrides ~/.cortex-chef.
	ConfigDir string

	// SecretsPath overrides <config-dir>/secrets.toml.
	SecretsPath string

	// Backend overrides the configured backend when non-empty.
	Backend domain.Backend

	// Include overrides ingest.include when non-empty.
	Include []string

	// SettingsOnly skips opening the backend.
	SettingsOnly bool
}

// Services are the driving ports the commands call.
type Services struct {
	Schema     driving.SchemaService
	Ingest     driving.IngestService
	Classifier driving.ClassifierService
	Chat       driving.ChatService
	Eval       driving.EvalService
	Documents  driving.DocumentService
	Settings   driving.SettingsService

	// StageDir is the local backend's stage directory, served by the web
	// UI for scoped links. Empty for the snowflake backend.
	StageDir string

	// Links signs and verifies the local backend's scoped links.
	Links *linksign.Signer

	// Close releases the backend. May be nil.
	Close func() error
}

// Factory builds services from the global flags.
type Factory func(ctx context.Context, opts Options) (*Services, error)

var factory Factory

// SetFactory installs the composition root. Commands run against whatever
// services are already set when no factory is installed.
func SetFactory(f Factory) {
	factory = f
}

// Services used by commands.
var (
	schemaService     driving.SchemaService
	ingestService     driving.IngestService
	classifierService driving.ClassifierService
	chatService       driving.ChatService
	evalService       driving.EvalService
	documentService   driving.DocumentService
	settingsService   driving.SettingsService
	stageDir          string
	stageLinks        *linksign.Signer
	closeServices     func() error
)

// Command annotations controlling what the factory opens.
const (
	annotationServices = "cortex-chef/services"
	servicesNone       = "none"
	servicesSettings   = "settings"
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagSecrets   string
	flagBackend   string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cortex-chef",
	Short: "Recipe assistant over Snowflake Cortex",
	Long: `cortex-chef turns a folder of recipe PDFs into a conversational cooking
assistant.

Documents are uploaded to a stage, parsed and chunked into a table, labelled
with one of six recipe categories and answered from with retrieval-augmented
generation. The snowflake backend runs everything inside Snowflake Cortex;
the local backend uses SQLite and a configured LLM provider.

Typical flow:
  cortex-chef init
  cortex-chef upload ./recipes --ingest
  cortex-chef classify
  cortex-chef ask "quick chicken dish"`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return releaseServices()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.cortex-chef)")
	flags.StringVar(&flagSecrets, "secrets", "", "warehouse secrets file (default <config-dir>/secrets.toml)")
	flags.StringVar(&flagBackend, "backend", "", "backend to use: snowflake or local (overrides config)")
	flags.StringVar(&flagLogFormat, "log-format", string(logger.FormatText), "log format: text or json")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	if err := logger.SetFormat(logger.Format(flagLogFormat)); err != nil {
		return err
	}

	backend := domain.Backend(flagBackend)
	if flagBackend != "" && !backend.IsValid() {
		return fmt.Errorf("%w: backend %q", domain.ErrInvalidInput, flagBackend)
	}

	mode := servicesFor(cmd)
	if factory == nil || mode == servicesNone {
		return nil
	}

	svc, err := factory(cmd.Context(), Options{
		ConfigDir:    flagConfigDir,
		SecretsPath:  flagSecrets,
		Backend:      backend,
		Include:      uploadInclude,
		SettingsOnly: mode == servicesSettings,
	})
	if err != nil {
		return err
	}
	useServices(svc)
	return nil
}

// servicesFor returns the nearest services annotation up the command tree.
func servicesFor(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if v, ok := c.Annotations[annotationServices]; ok {
			return v
		}
	}
	return ""
}

func useServices(svc *Services) {
	schemaService = svc.Schema
	ingestService = svc.Ingest
	classifierService = svc.Classifier
	chatService = svc.Chat
	evalService = svc.Eval
	documentService = svc.Documents
	settingsService = svc.Settings
	stageDir = svc.StageDir
	stageLinks = svc.Links
	closeServices = svc.Close
}

func releaseServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// parseCategoryFlag turns --category into a filter; "" and ALL mean none.
func parseCategoryFlag(raw string) (domain.Category, error) {
	c, err := domain.ParseCategoryFilter(raw)
	if err != nil {
		return "", fmt.Errorf("%w (choose one of %s)", err, categoryChoices())
	}
	return c, nil
}

func categoryChoices() string {
	s := domain.CategoryAll
	for _, c := range domain.AllCategories() {
		s += ", " + string(c)
	}
	return s
}
