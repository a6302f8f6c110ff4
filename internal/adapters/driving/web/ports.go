package web

import (
	"errors"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("web: chat service is required")

// Ports aggregates the driving ports used by the web server.
type Ports struct {
	Chat       driving.ChatService
	Ingest     driving.IngestService
	Classifier driving.ClassifierService
	Documents  driving.DocumentService
}

// Validate ensures all required ports are set. Only chat is required; the
// other endpoints answer 503 when their service is missing.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
