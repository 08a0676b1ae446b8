package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

// These tests cover the precondition paths that must fail before any SQL is
// issued; the repo is constructed with a nil handle on purpose.

func TestStoreChunksLengthMismatch(t *testing.T) {
	r := NewChunkRepo(nil)
	chunks := []*model.TextChunk{
		{Content: "a", TokenCount: 1, Index: 0},
		{Content: "b", TokenCount: 1, Index: 1},
	}
	embeddings := [][]float32{{0.1, 0.2}}

	stored, err := r.StoreChunks(context.Background(), "c1", "d1", chunks, embeddings, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, 0, stored)
}

func TestStoreChunksEmptyInput(t *testing.T) {
	r := NewChunkRepo(nil)
	stored, err := r.StoreChunks(context.Background(), "c1", "d1", nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, stored)
}

func TestRetrieveRelevantRejectsMalformedCompanyID(t *testing.T) {
	r := NewChunkRepo(nil)
	_, err := r.RetrieveRelevant(context.Background(), "not-a-uuid", []float32{0.1}, 10, 0.7)
	require.Error(t, err)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
