package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type stubEmbedder struct {
	embedding []float32
	err       error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return s.embedding, s.err
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.embedding
	}
	return out, nil
}

func (s *stubEmbedder) ModelName() string { return "stub-embed" }

type stubRetriever struct {
	chunks []*model.RetrievedChunk
	err    error
}

func (s *stubRetriever) RetrieveRelevant(ctx context.Context, companyID string, queryEmbedding []float32, limit int, threshold float64) ([]*model.RetrievedChunk, error) {
	return s.chunks, s.err
}

type stubVoiceReader struct {
	voice *model.VoiceSettings
	err   error
}

func (s *stubVoiceReader) Get(ctx context.Context, companyID string) (*model.VoiceSettings, error) {
	return s.voice, s.err
}

func TestBuildContextHappyPath(t *testing.T) {
	chunks := []*model.RetrievedChunk{
		{Chunk: model.Chunk{Content: "Our refund window is 30 days."}, Similarity: 0.91},
		{Chunk: model.Chunk{Content: "Support hours are 9 to 5."}, Similarity: 0.82},
	}
	voice := &model.VoiceSettings{BrandTone: "warm and direct"}
	svc := NewRAGService(&stubEmbedder{embedding: []float32{0.1}}, &stubRetriever{chunks: chunks}, &stubVoiceReader{voice: voice}, 10, 0.7)

	bundle := svc.BuildContext(context.Background(), BuildContextInput{CompanyID: "c1", Query: "refunds?"})
	require.True(t, bundle.HasContext)
	require.Len(t, bundle.Chunks, 2)
	require.Contains(t, bundle.FormattedChunks, "[1] Our refund window is 30 days.")
	require.Contains(t, bundle.FormattedChunks, "[2] Support hours are 9 to 5.")
	require.Equal(t, "Brand tone: warm and direct", bundle.FormattedVoice)
}

func TestBuildContextEmbeddingFailureYieldsEmptyContext(t *testing.T) {
	svc := NewRAGService(&stubEmbedder{err: errors.New("provider down")}, &stubRetriever{}, &stubVoiceReader{}, 10, 0.7)

	bundle := svc.BuildContext(context.Background(), BuildContextInput{CompanyID: "c1", Query: "anything"})
	require.NotNil(t, bundle)
	require.False(t, bundle.HasContext)
	require.Empty(t, bundle.Chunks)
	require.Empty(t, bundle.FormattedChunks)
	require.Nil(t, bundle.VoiceSettings)
}

func TestBuildContextRetrievalFailureYieldsEmptyContext(t *testing.T) {
	svc := NewRAGService(&stubEmbedder{embedding: []float32{0.1}}, &stubRetriever{err: errors.New("db gone")}, &stubVoiceReader{}, 10, 0.7)

	bundle := svc.BuildContext(context.Background(), BuildContextInput{CompanyID: "c1", Query: "anything"})
	require.False(t, bundle.HasContext)
	require.Empty(t, bundle.Chunks)
}

func TestBuildContextMissingVoiceIsNotAnError(t *testing.T) {
	chunks := []*model.RetrievedChunk{{Chunk: model.Chunk{Content: "fact"}, Similarity: 0.8}}
	svc := NewRAGService(&stubEmbedder{embedding: []float32{0.1}}, &stubRetriever{chunks: chunks}, &stubVoiceReader{err: appErr.ErrNotFound}, 10, 0.7)

	bundle := svc.BuildContext(context.Background(), BuildContextInput{CompanyID: "c1", Query: "q"})
	require.True(t, bundle.HasContext)
	require.Nil(t, bundle.VoiceSettings)
	require.Empty(t, bundle.FormattedVoice)
	require.Len(t, bundle.Chunks, 1)
}

func TestBuildContextVoiceOnlyStillHasContext(t *testing.T) {
	voice := &model.VoiceSettings{VoiceGuidelines: "be concise"}
	svc := NewRAGService(&stubEmbedder{embedding: []float32{0.1}}, &stubRetriever{}, &stubVoiceReader{voice: voice}, 10, 0.7)

	bundle := svc.BuildContext(context.Background(), BuildContextInput{CompanyID: "c1", Query: "q"})
	require.True(t, bundle.HasContext)
	require.Empty(t, bundle.Chunks)
	require.Equal(t, "Voice guidelines: be concise", bundle.FormattedVoice)
}

func TestFormatChunksEmpty(t *testing.T) {
	require.Equal(t, "", FormatChunks(nil))
	require.Equal(t, "", FormatChunks([]*model.RetrievedChunk{}))
}

func TestFormatVoiceSkipsEmptyFields(t *testing.T) {
	require.Equal(t, "", FormatVoice(nil))
	require.Equal(t, "", FormatVoice(&model.VoiceSettings{}))

	full := &model.VoiceSettings{
		VoiceGuidelines: "short sentences",
		BrandTone:       "playful",
		Positioning:     "budget-friendly",
	}
	require.Equal(t,
		"Voice guidelines: short sentences\nBrand tone: playful\nPositioning: budget-friendly",
		FormatVoice(full))
}
