package domain

import (
	"fmt"
	"regexp"
)

const unknownDescription = "Unknown"

// Backend identifies the platform providing tables and vendor functions.
type Backend string

// Available backends.
const (
	// BackendSnowflake runs every operation as SQL against Snowflake Cortex.
	BackendSnowflake Backend = "snowflake"

	// BackendLocal emulates the platform with SQLite and pluggable functions.
	BackendLocal Backend = "local"
)

// IsValid returns true if the backend is recognised.
func (b Backend) IsValid() bool {
	return b == BackendSnowflake || b == BackendLocal
}

// String returns the string representation.
func (b Backend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b Backend) Description() string {
	switch b {
	case BackendSnowflake:
		return "Snowflake Cortex (managed warehouse)"
	case BackendLocal:
		return "Local (SQLite + configured LLM)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration for the local backend.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerSecond throttles completion calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration for the local backend.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider != AIProviderOllama && e.Provider != AIProviderOpenAI {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChatSettings configures question answering.
type ChatSettings struct {
	// Model is the completion model used for answers.
	Model string

	// NumChunks is the number of chunks retrieved per question.
	NumChunks int

	// HistoryWindow is the number of recent messages considered, including
	// the current question.
	HistoryWindow int
}

// ClassifySettings configures the category classifier.
type ClassifySettings struct {
	// Model is the completion model used for labelling documents.
	Model string

	// Workers bounds concurrent completions on the local backend.
	Workers int
}

// IngestSettings configures document ingestion.
type IngestSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	ChunkOverlap int

	// ParseMode selects the document extraction mode.
	ParseMode ParseMode

	// Include lists doublestar patterns selecting files to upload.
	Include []string
}

// SnowflakeSettings names the warehouse objects used by the snowflake backend.
type SnowflakeSettings struct {
	// Stage is the internal stage holding uploaded documents.
	Stage string

	// SearchService is the Cortex Search service name. Empty disables
	// creating it during schema initialisation.
	SearchService string

	// TargetLag is the search service refresh lag (e.g., "1 minute").
	TargetLag string
}

// WebSettings configures the web UI.
type WebSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend   Backend
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Chat      ChatSettings
	Classify  ClassifySettings
	Ingest    IngestSettings
	Snowflake SnowflakeSettings
	Web       WebSettings
}

// Default values shared by settings and adapters.
const (
	DefaultCompletionModel = "mistral-large2"
	DefaultNumChunks       = 3
	DefaultHistoryWindow   = 7
	DefaultChunkSize       = 1512
	DefaultChunkOverlap    = 256
	DefaultStage           = "docs"
	DefaultSearchService   = "cc_search_service_cs"
	DefaultTargetLag       = "1 minute"
	DefaultWebAddr         = ":8080"
)

// DefaultAppSettings returns settings with sensible defaults.
// The local LLM is left unconfigured; the snowflake backend needs none.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSnowflake,
		Chat: ChatSettings{
			Model:         DefaultCompletionModel,
			NumChunks:     DefaultNumChunks,
			HistoryWindow: DefaultHistoryWindow,
		},
		Classify: ClassifySettings{
			Model:   DefaultCompletionModel,
			Workers: 1,
		},
		Ingest: IngestSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			ParseMode:    ParseModeLayout,
			Include:      []string{"**/*.pdf"},
		},
		Snowflake: SnowflakeSettings{
			Stage:         DefaultStage,
			SearchService: DefaultSearchService,
			TargetLag:     DefaultTargetLag,
		},
		Web: WebSettings{
			Addr: DefaultWebAddr,
		},
	}
}

// identifierPattern matches unquoted warehouse identifiers, optionally qualified.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// IsIdentifier reports whether s is safe to interpolate as an object name.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Validate checks settings for values the backends cannot work with.
func (s AppSettings) Validate() error {
	if !s.Backend.IsValid() {
		return fmt.Errorf("%w: backend %q", ErrInvalidInput, s.Backend)
	}
	if s.Chat.NumChunks <= 0 {
		return fmt.Errorf("%w: chat.num_chunks must be positive", ErrInvalidInput)
	}
	if s.Chat.HistoryWindow < 1 {
		return fmt.Errorf("%w: chat.history_window must be at least 1", ErrInvalidInput)
	}
	if s.Ingest.ChunkSize <= 0 || s.Ingest.ChunkOverlap < 0 || s.Ingest.ChunkOverlap >= s.Ingest.ChunkSize {
		return fmt.Errorf("%w: ingest.chunk_overlap must be in [0, chunk_size)", ErrInvalidInput)
	}
	if !s.Ingest.ParseMode.IsValid() {
		return fmt.Errorf("%w: ingest.parse_mode %q", ErrInvalidInput, s.Ingest.ParseMode)
	}
	if s.Backend == BackendSnowflake {
		if !IsIdentifier(s.Snowflake.Stage) {
			return fmt.Errorf("%w: snowflake.stage %q", ErrInvalidInput, s.Snowflake.Stage)
		}
		if s.Snowflake.SearchService != "" && !IsIdentifier(s.Snowflake.SearchService) {
			return fmt.Errorf("%w: snowflake.search_service %q", ErrInvalidInput, s.Snowflake.SearchService)
		}
	}
	return nil
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig derives the local chunking pipeline from ingest settings.
func (s IngestSettings) PipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": s.ChunkSize,
				"overlap":    s.ChunkOverlap,
			},
		},
	}
}

// EmbeddingDimensions returns known vector sizes for embedding models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
