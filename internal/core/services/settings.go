package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingField binds a dot-notation config key to an AppSettings field.
type settingField struct {
	key    string
	secret bool
	get    func(s *domain.AppSettings) any
	set    func(s *domain.AppSettings, v any) error
}

// settingFields lists every persisted key.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var settingFields = []settingField{
	{
		key: "backend",
		get: func(s *domain.AppSettings) any { return s.Backend.String() },
		set: func(s *domain.AppSettings, v any) error {
			b := domain.Backend(toString(v))
			if !b.IsValid() {
				return fmt.Errorf("backend must be snowflake or local, got %q", b)
			}
			s.Backend = b
			return nil
		},
	},
	providerField("llm.provider", func(s *domain.AppSettings) *domain.AIProvider { return &s.LLM.Provider }),
	stringField("llm.model", func(s *domain.AppSettings) *string { return &s.LLM.Model }),
	stringField("llm.base_url", func(s *domain.AppSettings) *string { return &s.LLM.BaseURL }),
	secretField("llm.api_key", func(s *domain.AppSettings) *string { return &s.LLM.APIKey }),
	{
		key: "llm.requests_per_second",
		get: func(s *domain.AppSettings) any { return s.LLM.RequestsPerSecond },
		set: func(s *domain.AppSettings, v any) error {
			f, err := toFloat(v)
			if err != nil || f < 0 {
				return fmt.Errorf("llm.requests_per_second must be a non-negative number")
			}
			s.LLM.RequestsPerSecond = f
			return nil
		},
	},
	providerField("embedding.provider", func(s *domain.AppSettings) *domain.AIProvider { return &s.Embedding.Provider }),
	stringField("embedding.model", func(s *domain.AppSettings) *string { return &s.Embedding.Model }),
	stringField("embedding.base_url", func(s *domain.AppSettings) *string { return &s.Embedding.BaseURL }),
	secretField("embedding.api_key", func(s *domain.AppSettings) *string { return &s.Embedding.APIKey }),
	stringField("chat.model", func(s *domain.AppSettings) *string { return &s.Chat.Model }),
	intField("chat.num_chunks", func(s *domain.AppSettings) *int { return &s.Chat.NumChunks }),
	intField("chat.history_window", func(s *domain.AppSettings) *int { return &s.Chat.HistoryWindow }),
	stringField("classify.model", func(s *domain.AppSettings) *string { return &s.Classify.Model }),
	intField("classify.workers", func(s *domain.AppSettings) *int { return &s.Classify.Workers }),
	intField("ingest.chunk_size", func(s *domain.AppSettings) *int { return &s.Ingest.ChunkSize }),
	intField("ingest.chunk_overlap", func(s *domain.AppSettings) *int { return &s.Ingest.ChunkOverlap }),
	{
		key: "ingest.parse_mode",
		get: func(s *domain.AppSettings) any { return s.Ingest.ParseMode.String() },
		set: func(s *domain.AppSettings, v any) error {
			m := domain.ParseMode(strings.ToUpper(toString(v)))
			if !m.IsValid() {
				return fmt.Errorf("ingest.parse_mode must be LAYOUT or OCR, got %q", m)
			}
			s.Ingest.ParseMode = m
			return nil
		},
	},
	{
		key: "ingest.include",
		get: func(s *domain.AppSettings) any { return s.Ingest.Include },
		set: func(s *domain.AppSettings, v any) error {
			patterns := toStrings(v)
			if len(patterns) == 0 {
				return fmt.Errorf("ingest.include needs at least one pattern")
			}
			s.Ingest.Include = patterns
			return nil
		},
	},
	stringField("snowflake.stage", func(s *domain.AppSettings) *string { return &s.Snowflake.Stage }),
	stringField("snowflake.search_service", func(s *domain.AppSettings) *string { return &s.Snowflake.SearchService }),
	stringField("snowflake.target_lag", func(s *domain.AppSettings) *string { return &s.Snowflake.TargetLag }),
	stringField("web.addr", func(s *domain.AppSettings) *string { return &s.Web.Addr }),
}

func stringField(key string, ptr func(*domain.AppSettings) *string) settingField {
	return settingField{
		key: key,
		get: func(s *domain.AppSettings) any { return *ptr(s) },
		set: func(s *domain.AppSettings, v any) error {
			*ptr(s) = strings.TrimSpace(toString(v))
			return nil
		},
	}
}

func secretField(key string, ptr func(*domain.AppSettings) *string) settingField {
	f := stringField(key, ptr)
	f.secret = true
	return f
}

func intField(key string, ptr func(*domain.AppSettings) *int) settingField {
	return settingField{
		key: key,
		get: func(s *domain.AppSettings) any { return *ptr(s) },
		set: func(s *domain.AppSettings, v any) error {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("%s must be an integer", key)
			}
			*ptr(s) = n
			return nil
		},
	}
}

func providerField(key string, ptr func(*domain.AppSettings) *domain.AIProvider) settingField {
	return settingField{
		key: key,
		get: func(s *domain.AppSettings) any { return ptr(s).String() },
		set: func(s *domain.AppSettings, v any) error {
			p := domain.AIProvider(strings.ToLower(toString(v)))
			if p != "" && !p.IsValid() {
				return fmt.Errorf("%s: unknown provider %q", key, p)
			}
			*ptr(s) = p
			return nil
		},
	}
}

func findField(key string) (settingField, bool) {
	for _, f := range settingFields {
		if f.key == key {
			return f, true
		}
	}
	return settingField{}, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Stored values that fail to parse are logged and replaced by defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	for _, f := range settingFields {
		raw, ok := s.configStore.Get(f.key)
		if !ok {
			continue
		}
		if err := f.set(&settings, raw); err != nil {
			logger.Warn("Ignoring config %s: %v", f.key, err)
		}
	}
	if settings.LLM.Provider != "" && settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.Embedding.Provider != "" && settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	return &settings, nil
}

// Save validates and persists application settings.
// Empty API keys are not written so a stored key is never cleared by accident.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, f := range settingFields {
		val := f.get(settings)
		if f.secret && val == "" {
			continue
		}
		if err := s.configStore.Set(f.key, val); err != nil {
			return fmt.Errorf("save %s: %w", f.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the resulting settings and persists them.
func (s *SettingsService) Set(key, value string) error {
	f, ok := findField(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := f.set(settings, value); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(f.key, f.get(settings)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised dot-notation keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingFields))
	for _, f := range settingFields {
		keys = append(keys, f.key)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Conversions from CLI strings and TOML-decoded values.

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	default:
		return strconv.Atoi(strings.TrimSpace(toString(v)))
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return strconv.ParseFloat(strings.TrimSpace(toString(v)), 64)
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return splitPatterns(toString(v))
	}
}

// splitPatterns splits a comma separated list, ignoring commas inside
// doublestar brace groups such as "*.{pdf,md}".
func splitPatterns(s string) []string {
	var out []string
	depth, start := 0, 0
	emit := func(end int) {
		if p := strings.TrimSpace(s[start:end]); p != "" {
			out = append(out, p)
		}
	}
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				emit(i)
				start = i + 1
			}
		}
	}
	emit(len(s))
	return out
}
