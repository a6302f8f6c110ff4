package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// fixedProcessor replaces the chunks with its own, or passes them through
// when it has none.
type fixedProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
}

func (f *fixedProcessor) Name() string { return f.name }

func (f *fixedProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	f.seen = chunks
	if f.err != nil {
		return nil, f.err
	}
	if f.chunks != nil {
		return f.chunks, nil
	}
	return chunks, nil
}

func stirFry() *domain.Document {
	return &domain.Document{RelativePath: "chicken-stir-fry.pdf", Content: "Slice the chicken. Fry in a hot wok."}
}

func TestPipeline_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestPipeline_Empty(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), stirFry())
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_TagsAndRenumbers(t *testing.T) {
	split := &fixedProcessor{name: "split", chunks: []domain.Chunk{
		{ID: "a", Content: "Slice the chicken.", Position: 7},
		{ID: "b", Content: "  \n\t "},
		{ID: "c", Content: "Fry in a hot wok.", Position: 9},
	}}

	chunks, err := NewPipeline(split).Process(context.Background(), stirFry())

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.Equal(t, "chicken-stir-fry.pdf", c.RelativePath)
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, "a", chunks[0].ID)
	assert.Equal(t, "c", chunks[1].ID)
}

func TestPipeline_AllBlank(t *testing.T) {
	split := &fixedProcessor{name: "split", chunks: []domain.Chunk{{Content: " "}, {Content: ""}}}

	chunks, err := NewPipeline(split).Process(context.Background(), stirFry())

	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_RunsInOrder(t *testing.T) {
	first := &fixedProcessor{name: "split", chunks: []domain.Chunk{{ID: "1", Content: "Whisk the eggs."}}}
	second := &fixedProcessor{name: "rewrite", chunks: []domain.Chunk{{ID: "2", Content: "Whisk three eggs."}}}
	third := &fixedProcessor{name: "passthrough"}

	p := NewPipeline(first)
	p.Add(second)
	p.Add(third)
	chunks, err := p.Process(context.Background(), stirFry())

	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"split", "rewrite", "passthrough"}, p.Names())
	assert.Nil(t, first.seen)
	assert.Equal(t, "1", second.seen[0].ID)
	assert.Equal(t, "2", third.seen[0].ID)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Whisk three eggs.", chunks[0].Content)
}

func TestPipeline_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	last := &fixedProcessor{name: "after"}
	p := NewPipeline(&fixedProcessor{name: "split", err: boom}, last)

	_, err := p.Process(context.Background(), stirFry())

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "chicken-stir-fry.pdf: split")
	assert.Nil(t, last.seen)
}

func TestPipeline_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	split := &fixedProcessor{name: "split"}

	_, err := NewPipeline(split).Process(ctx, stirFry())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, split.seen)
}
