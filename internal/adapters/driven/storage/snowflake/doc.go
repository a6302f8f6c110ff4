// Package snowflake implements the warehouse backend.
//
// Every operation is one or more SQL statements against Snowflake Cortex:
// PARSE_DOCUMENT and SPLIT_TEXT_RECURSIVE_CHARACTER for ingestion, COMPLETE
// for classification and answers, SEARCH_PREVIEW against a Cortex Search
// service for retrieval, and directory tables on an internal stage for
// uploads and scoped links.
//
// The connection is opened once by NewStore and shared by the ChunkStore,
// Stage, SearchEngine and LLMService views of the Store.
package snowflake
