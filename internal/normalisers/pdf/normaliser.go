// Package pdf extracts text from PDF recipes with github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every page.
// LAYOUT mode keeps the reading order row by row, one line per row and a
// blank line between pages. OCR mode returns the plain text stream.
func (n *Normaliser) Normalise(
	ctx context.Context, raw *domain.RawDocument, mode domain.ParseMode,
) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("parse %s: %v", raw.RelativePath, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", raw.RelativePath, err)
	}

	var content string
	if mode == domain.ParseModeOCR {
		content, err = plainText(reader)
	} else {
		content, err = layoutText(ctx, reader)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", raw.RelativePath, err)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			RelativePath: raw.RelativePath,
			Size:         int64(len(raw.Content)),
			Content:      strings.TrimSpace(content),
		},
	}, nil
}

func layoutText(ctx context.Context, reader *pdf.Reader) (string, error) {
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, text := range row.Content {
				if s := strings.TrimSpace(text.S); s != "" {
					words = append(words, s)
				}
			}
			if len(words) > 0 {
				b.WriteString(strings.Join(words, " "))
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

func plainText(reader *pdf.Reader) (string, error) {
	r, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
