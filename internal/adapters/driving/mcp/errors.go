// Package mcp exposes the recipe assistant over the Model Context Protocol so
// AI assistants can search recipes and ask the chef.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
