package driven

// ConfigStore persists settings as dot-notation keys ("chat.num_chunks").
// Values come back in whatever type the file format decodes them to; the
// settings service converts them.
type ConfigStore interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool)

	// Set stores value under key and persists it immediately.
	Set(key string, value any) error

	// Save rewrites the whole configuration.
	Save() error

	// Load rereads the configuration, discarding unsaved changes.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
