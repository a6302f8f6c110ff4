// Package domain defines the core business entities for cortex-chef.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChunkRow: One row of the chunk table (a piece of a recipe document)
//   - CategoryRow: Raw, untrusted category label produced for a document
//   - Category: The strict six-value recipe category enumeration
//   - StagedFile: A file sitting in the upload area
//   - Answer: The rendered response to a user question
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
