package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// extensionTypes maps file extensions to the MIME types normalisers register for.
var extensionTypes = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

// MIMEType guesses the MIME type of a file from its extension.
// Unknown extensions return "application/octet-stream".
func MIMEType(path string) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "application/octet-stream"
}

// Registry dispatches raw documents to the highest priority normaliser
// registered for their MIME type.
type Registry struct {
	byType map[string][]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]driven.Normaliser)}
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	for _, t := range n.SupportedMIMETypes() {
		list := append(r.byType[t], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byType[t] = list
	}
}

// Normalise extracts text using the best matching normaliser.
func (r *Registry) Normalise(
	ctx context.Context, raw *domain.RawDocument, mode domain.ParseMode,
) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = MIMEType(raw.RelativePath)
	}
	list := r.byType[mimeType]
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, raw.RelativePath, mimeType)
	}
	return list[0].Normalise(ctx, raw, mode)
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
