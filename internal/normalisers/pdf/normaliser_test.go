package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// minimalPDF builds a single-page PDF showing one line of Helvetica text.
func minimalPDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"application/pdf"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil, domain.ParseModeLayout)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NotAPDF(t *testing.T) {
	raw := &domain.RawDocument{RelativePath: "fake.pdf", Content: []byte("just some text")}

	result, err := New().Normalise(context.Background(), raw, domain.ParseModeLayout)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake.pdf")
	assert.Nil(t, result)
}

func TestNormalise_Layout(t *testing.T) {
	raw := &domain.RawDocument{
		RelativePath: "chicken-stir-fry.pdf",
		MIMEType:     "application/pdf",
		Content:      minimalPDF("Chicken Stir Fry"),
	}

	result, err := New().Normalise(context.Background(), raw, domain.ParseModeLayout)

	require.NoError(t, err)
	assert.Equal(t, "chicken-stir-fry.pdf", result.Document.RelativePath)
	assert.Contains(t, result.Document.Content, "Chicken")
	assert.Equal(t, int64(len(raw.Content)), result.Document.Size)
}
