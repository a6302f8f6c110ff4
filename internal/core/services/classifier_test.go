package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

func TestClassifierService_Classify(t *testing.T) {
	store := &mockChunkStore{
		rowsPerDoc: 3,
		categoryRows: []domain.CategoryRow{
			{RelativePath: "chicken-stir-fry.pdf", Label: "MainCourse"},
			{RelativePath: "brownies.pdf", Label: " desserts\n"},
		},
	}
	svc := NewClassifierService(store, newMockPromptStore(), "")

	report, err := svc.Classify(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Empty(t, report.Rejected)
	assert.Equal(t, int64(6), report.RowsUpdated)
	assert.Equal(t, []domain.CategoryAssignment{
		{RelativePath: "chicken-stir-fry.pdf", Category: domain.CategoryMainCourse},
		{RelativePath: "brownies.pdf", Category: domain.CategoryDesserts},
	}, store.applied)

	require.Len(t, store.classifyReqs, 1)
	assert.Equal(t, domain.DefaultCompletionModel, store.classifyReqs[0].Model)
	assert.Equal(t, "Category of %s?", store.classifyReqs[0].Prompt)
}

func TestClassifierService_Classify_FailsClosed(t *testing.T) {
	store := &mockChunkStore{
		categoryRows: []domain.CategoryRow{
			{RelativePath: "chicken-stir-fry.pdf", Label: "MainCourse"},
			{RelativePath: "smoothie.pdf", Label: "Beverages"},
		},
	}
	svc := NewClassifierService(store, newMockPromptStore(), "mistral-large2")

	report, err := svc.Classify(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	require.NotNil(t, report)
	assert.Equal(t, []domain.CategoryRow{{RelativePath: "smoothie.pdf", Label: "Beverages"}}, report.Rejected)
	assert.Zero(t, store.applyCalls, "no chunk rows may be written when a label is rejected")
}

func TestClassifierService_Classify_EmptyTableIsNoop(t *testing.T) {
	store := &mockChunkStore{}
	svc := NewClassifierService(store, newMockPromptStore(), "")

	report, err := svc.Classify(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Documents)
	assert.Zero(t, store.applyCalls)
}

func TestClassifierService_Classify_BadPrompt(t *testing.T) {
	prompts := newMockPromptStore()
	prompts.prompts["classify"] = "no placeholder"
	store := &mockChunkStore{}
	svc := NewClassifierService(store, prompts, "")

	_, err := svc.Classify(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.classifyReqs)
}

func TestClassifierService_Classify_ComputeError(t *testing.T) {
	boom := errors.New("warehouse suspended")
	svc := NewClassifierService(&mockChunkStore{computeErr: boom}, newMockPromptStore(), "")

	_, err := svc.Classify(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestClassifierService_Classify_Deterministic(t *testing.T) {
	rows := []domain.CategoryRow{
		{RelativePath: "a.pdf", Label: "Snacks"},
		{RelativePath: "b.pdf", Label: "Juices"},
	}
	first := &mockChunkStore{categoryRows: rows}
	second := &mockChunkStore{categoryRows: rows}

	_, err := NewClassifierService(first, newMockPromptStore(), "").Classify(context.Background())
	require.NoError(t, err)
	_, err = NewClassifierService(second, newMockPromptStore(), "").Classify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.applied, second.applied)
}
