package domain

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// Limit is the maximum number of chunks returned.
	Limit int

	// Category restricts results to one category. Empty means all.
	Category Category
}

// SearchResult represents a single retrieved chunk.
type SearchResult struct {
	// Chunk is the chunk text.
	Chunk string `json:"chunk" yaml:"chunk"`

	// RelativePath identifies the source document.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// Category is the document category, empty when unclassified.
	Category Category `json:"category" yaml:"category"`

	// FileURL is the permanent URL of the source document.
	FileURL string `json:"file_url,omitempty" yaml:"file_url,omitempty"`

	// Score is the relevance score reported by the search function.
	Score float64 `json:"score" yaml:"score"`
}
