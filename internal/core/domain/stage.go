package domain

import "time"

// StagedFile is a file stored in the upload area (stage).
type StagedFile struct {
	// RelativePath is the file path relative to the stage root.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// LastModified is when the file was last written to the stage.
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`

	// FileURL is the permanent URL of the staged file.
	FileURL string `json:"file_url,omitempty" yaml:"file_url,omitempty"`
}

// IngestOptions configures an ingestion run.
type IngestOptions struct {
	// Reload clears the chunk table before inserting, in the same transaction.
	Reload bool
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Files is the number of staged files ingested.
	Files int `json:"files" yaml:"files"`

	// Chunks is the number of chunk rows inserted.
	Chunks int64 `json:"chunks" yaml:"chunks"`

	// Reloaded is true when prior rows were cleared.
	Reloaded bool `json:"reloaded" yaml:"reloaded"`
}

// ClassifyReport summarises a classification run.
type ClassifyReport struct {
	// Documents is the number of distinct documents considered.
	Documents int `json:"documents" yaml:"documents"`

	// Assignments holds the validated category of each document.
	Assignments []CategoryAssignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`

	// Rejected holds rows whose label is not a valid category.
	// When non-empty nothing was written to the chunk table.
	Rejected []CategoryRow `json:"rejected,omitempty" yaml:"rejected,omitempty"`

	// RowsUpdated is the number of chunk rows backfilled.
	RowsUpdated int64 `json:"rows_updated" yaml:"rows_updated"`
}
