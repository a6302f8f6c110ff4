// Package tui provides an interactive terminal user interface for cortex-chef.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Chat answers questions about the recipe collection.
	Chat driving.ChatService

	// Documents lists ingested documents. Optional.
	Documents driving.DocumentService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, documents driving.DocumentService) *Ports {
	return &Ports{Chat: chat, Documents: documents}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
