package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no parser can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnknownCategory indicates a label outside the six recipe categories.
	// Classification fails closed when the completion function returns one.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoStagedFiles indicates ingestion was requested with an empty upload area.
	ErrNoStagedFiles = errors.New("no staged files")

	// ErrUnscoredReply indicates a judge completion without a parsable score.
	ErrUnscoredReply = errors.New("judge reply has no score")

	// ErrLLMUnavailable indicates the completion function is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The local backend falls back to term matching without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the similarity search function is not configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrBackendUnavailable indicates the warehouse backend could not be opened.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMissingCredentials indicates the secrets file lacks a required field.
	ErrMissingCredentials = errors.New("missing warehouse credentials")
)
