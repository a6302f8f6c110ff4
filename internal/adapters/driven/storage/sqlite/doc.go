// Package sqlite provides the local backend: an embedded SQLite database
// standing in for the managed warehouse.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single Store implements:
//
//   - ChunkStore: the chunk table and the transient category table
//   - Stage: a directory of uploaded files under the data directory
//   - SearchEngine: cosine similarity over stored embeddings, or term
//     matching when no embedding service is configured
//
// The vendor functions the warehouse would run in SQL are supplied as
// collaborators: a normaliser registry (parse), a post-processor pipeline
// (split), an LLM (complete) and an optional embedding service.
//
// # Schema
//
// The DDL lives in schema/*.sql and is applied in name order, inside one
// transaction, by ResetSchema.
//
// # Data Location
//
// By default, the database is stored at ~/.cortex-chef/data/cortex-chef.db and
// staged files under ~/.cortex-chef/data/stage.
package sqlite
