// Package postprocessors splits normalised recipe documents into chunk rows
// for the local backend.
package postprocessors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// ErrNilDocument is returned when Process is called without a document.
var ErrNilDocument = errors.New("document is nil")

// Pipeline runs processors in order. The first one creates the chunks and
// later ones rewrite them. Chunks left blank are dropped and the rest are
// renumbered and tagged with the document's path, so every row the store
// inserts has text and points back to a staged file.
type Pipeline struct {
	processors []driven.PostProcessor
}

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// NewPipeline creates a pipeline over processors.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Process splits doc into chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var chunks []domain.Chunk
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", doc.RelativePath, processor.Name(), err)
		}
	}

	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		c.RelativePath = doc.RelativePath
		c.Position = len(out)
		out = append(out, c)
	}
	if dropped := len(chunks) - len(out); dropped > 0 {
		logger.Debug("split %s: dropped %d blank chunks", doc.RelativePath, dropped)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Add appends a processor.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names lists the processors in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
