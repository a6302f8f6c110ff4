// Package plaintext extracts text from plain text and markdown recipes.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise returns the file content as text. Both parse modes behave the
// same except that OCR mode collapses blank-line runs.
func (n *Normaliser) Normalise(
	_ context.Context, raw *domain.RawDocument, mode domain.ParseMode,
) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, domain.ErrUnsupportedType
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	if mode == domain.ParseModeOCR {
		content = strings.Join(strings.Fields(content), " ")
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			RelativePath: raw.RelativePath,
			Size:         int64(len(raw.Content)),
			Content:      strings.TrimSpace(content),
		},
	}, nil
}
