package mcp

import (
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Chat provides search and answers.
	Chat driving.ChatService

	// Documents lists ingested recipes. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
