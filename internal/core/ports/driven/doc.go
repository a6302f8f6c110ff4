// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: The chunk and category tables, plus the platform's
//     parse, split and classify functions run over them
//   - Stage: The upload area holding source files
//   - SearchEngine: Similarity search over chunk rows
//   - LLMService: The completion function used for answers
//   - PromptStore: Prompt templates
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings for the local backend.
//     Without it, local search falls back to term matching.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
