package domain

// ChunkRow is one row of the chunk table.
// Rows are created by ingestion with a nil Category and backfilled by the
// classifier; all rows sharing a RelativePath end up with the same Category.
type ChunkRow struct {
	// RelativePath identifies the source document inside the upload area.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// Size is the source file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// FileURL is the permanent URL of the source file.
	FileURL string `json:"file_url,omitempty" yaml:"file_url,omitempty"`

	// ScopedFileURL is an access-limited URL of the source file.
	ScopedFileURL string `json:"scoped_file_url,omitempty" yaml:"scoped_file_url,omitempty"`

	// Chunk is the extracted text of this piece of the document.
	Chunk string `json:"chunk" yaml:"chunk"`

	// Category is nil until the classifier has run.
	Category *Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// CategoryRow is a row of the transient category table.
// Label is the trimmed, unvalidated completion output.
type CategoryRow struct {
	RelativePath string `json:"relative_path" yaml:"relative_path"`
	Label        string `json:"label" yaml:"label"`
}

// CategoryAssignment is a validated category for one document.
type CategoryAssignment struct {
	RelativePath string   `json:"relative_path" yaml:"relative_path"`
	Category     Category `json:"category" yaml:"category"`
}

// DocumentSummary aggregates the chunk rows of one document.
type DocumentSummary struct {
	// RelativePath identifies the document.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// Size is the source file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Chunks is the number of chunk rows.
	Chunks int `json:"chunks" yaml:"chunks"`

	// Category is the document category, or "" when unclassified.
	Category Category `json:"category" yaml:"category"`

	// Consistent is true when every chunk row carries the same category
	// value (all unset, or all one label).
	Consistent bool `json:"consistent" yaml:"consistent"`
}

// Document is a parsed source file, before chunking.
// It is produced by the local parse function.
type Document struct {
	// RelativePath identifies the source file inside the upload area.
	RelativePath string

	// Size is the source file size in bytes.
	Size int64

	// Content is the full extracted text.
	Content string
}

// Chunk is a piece of a Document produced by the local split function.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// RelativePath links to the parent Document.
	RelativePath string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int
}
