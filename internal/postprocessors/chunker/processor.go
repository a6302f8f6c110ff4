// Package chunker provides the local "split text" function: a recursive
// character splitter that prefers paragraph, then line, then sentence, then
// word boundaries before cutting inside a word.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// separators are tried in order; "" splits between characters.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits document content into chunks of at most chunkSize
// characters. It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pieces := []string{strings.TrimSpace(doc.Content)}
	if utf8.RuneCountInString(pieces[0]) > p.chunkSize {
		pieces = p.split(doc.Content, separators)
	}
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:           uuid.New().String(),
			RelativePath: doc.RelativePath,
			Content:      text,
			Position:     i,
		})
	}
	return chunks, nil
}

// split breaks text on the first separator it contains and recurses with
// the finer separators into pieces that are still too long.
func (p *Processor) split(text string, seps []string) []string {
	sep, rest := "", []string(nil)
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep, rest = s, seps[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(text, sep)
	}

	var out, small []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) <= p.chunkSize {
			small = append(small, part)
			continue
		}
		if len(small) > 0 {
			out = append(out, p.merge(small, sep)...)
			small = nil
		}
		if len(rest) == 0 {
			out = append(out, part)
		} else {
			out = append(out, p.split(part, rest)...)
		}
	}
	if len(small) > 0 {
		out = append(out, p.merge(small, sep)...)
	}
	return out
}

// merge joins consecutive parts into chunks no longer than chunkSize,
// carrying up to overlap characters of trailing parts into the next chunk.
func (p *Processor) merge(parts []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)
	var out, window []string
	total := 0

	joined := func() {
		if s := strings.TrimSpace(strings.Join(window, sep)); s != "" {
			out = append(out, s)
		}
	}

	for _, part := range parts {
		n := utf8.RuneCountInString(part)
		extra := 0
		if len(window) > 0 {
			extra = sepLen
		}
		if total+n+extra > p.chunkSize && len(window) > 0 {
			joined()
			for len(window) > 0 && (total > p.overlap || total+n+sepLen > p.chunkSize) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		if len(window) > 0 {
			total += sepLen
		}
		window = append(window, part)
		total += n
	}
	if len(window) > 0 {
		joined()
	}
	return out
}
