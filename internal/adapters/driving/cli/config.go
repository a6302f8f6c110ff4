package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change cortex-chef settings.

Settings live in config.toml under the configuration directory and use dot
notation keys (for example chat.num_chunks or snowflake.stage). Warehouse
credentials are kept separately in secrets.toml.`,
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Sets one setting by its dot notation key and saves it.

Pass "-" as the value of an api_key setting to type it without echo.
An unknown key lists the recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the local backend's LLM provider",
	Long:  `Interactively choose the completion provider used by the local backend.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigLLM,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the local backend's embedding provider",
	Long:  `Interactively choose the embedding provider used for local vector search.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigEmbedding,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Backend: %s\n", settings.Backend.Description())
	cmd.Println()

	if settings.Backend == domain.BackendSnowflake {
		cmd.Println("[Snowflake]")
		cmd.Printf("  Stage: %s\n", settings.Snowflake.Stage)
		cmd.Printf("  Search service: %s\n", valueOrNone(settings.Snowflake.SearchService))
		cmd.Printf("  Target lag: %s\n", settings.Snowflake.TargetLag)
		cmd.Println()
	} else {
		printLLMSettings(cmd, settings.LLM)
		printEmbeddingSettings(cmd, settings.Embedding)
	}

	cmd.Println("[Chat]")
	cmd.Printf("  Model: %s\n", settings.Chat.Model)
	cmd.Printf("  Chunks per question: %d\n", settings.Chat.NumChunks)
	cmd.Printf("  History window: %d\n", settings.Chat.HistoryWindow)
	cmd.Println()

	cmd.Println("[Classify]")
	cmd.Printf("  Model: %s\n", settings.Classify.Model)
	cmd.Printf("  Workers: %d\n", settings.Classify.Workers)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Ingest.ChunkOverlap)
	cmd.Printf("  Parse mode: %s\n", settings.Ingest.ParseMode)
	cmd.Printf("  Include: %s\n", strings.Join(settings.Ingest.Include, ", "))
	cmd.Println()

	cmd.Println("[Web]")
	cmd.Printf("  Address: %s\n", settings.Web.Addr)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'cortex-chef config set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printLLMSettings(cmd *cobra.Command, llm domain.LLMSettings) {
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", llm.Provider.Description())
	cmd.Printf("  Model: %s\n", valueOrNone(llm.Model))
	if llm.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", llm.BaseURL)
	}
	if llm.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", apiKeyStatus(llm.APIKey))
	}
	if llm.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", llm.RequestsPerSecond)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(llm.IsConfigured()))
	cmd.Println()
}

func printEmbeddingSettings(cmd *cobra.Command, emb domain.EmbeddingSettings) {
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", emb.Provider.Description())
	cmd.Printf("  Model: %s\n", valueOrNone(emb.Model))
	if emb.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", emb.BaseURL)
	}
	if emb.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", apiKeyStatus(emb.APIKey))
	}
	status := configuredStatus(emb.IsConfigured())
	if !emb.IsConfigured() {
		status += " (search uses term matching)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if strings.HasSuffix(key, "api_key") && value == "-" {
		cmd.Print("Enter API key: ")
		value = readPassword()
		cmd.Println()
	}

	if !slices.Contains(settingsService.Keys(), key) {
		return fmt.Errorf("%w: unknown setting %q (known keys: %s)",
			domain.ErrInvalidInput, key, strings.Join(settingsService.Keys(), ", "))
	}
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.Path())
	return nil
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

// providerChoice is the answer to an interactive provider prompt.
type providerChoice struct {
	provider domain.AIProvider
	model    string
	baseURL  string
	apiKey   string
}

func promptProvider(
	cmd *cobra.Command, reader *bufio.Reader, providers []domain.AIProvider, defaults map[domain.AIProvider]string,
) (providerChoice, error) {
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	choice := providerChoice{provider: providers[idx-1]}

	defaultModel := defaults[choice.provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	choice.model = readLine(reader)
	if choice.model == "" {
		choice.model = defaultModel
	}

	if choice.provider == domain.AIProviderOllama {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		choice.baseURL = readLine(reader)
	}

	if choice.provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		choice.apiKey = readPassword()
		cmd.Println()
		if choice.apiKey == "" {
			return choice, errors.New("API key is required for this provider")
		}
	}
	return choice, nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	choice, err := promptProvider(cmd, reader, domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Embedding = domain.EmbeddingSettings{
		Provider: choice.provider,
		Model:    choice.model,
		BaseURL:  choice.baseURL,
		APIKey:   choice.apiKey,
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", choice.provider.Description(), choice.model)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	choice, err := promptProvider(cmd, reader, domain.AllLLMProviders(), domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.LLM.Provider = choice.provider
	settings.LLM.Model = choice.model
	settings.LLM.BaseURL = choice.baseURL
	settings.LLM.APIKey = choice.apiKey
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", choice.provider.Description(), choice.model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func apiKeyStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
