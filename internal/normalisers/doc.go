// Package normalisers provides the local backend's "parse document" functions.
// Each normaliser knows how to extract text content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
