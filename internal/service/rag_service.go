package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/ai"
	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

const (
	DefaultMaxChunks           = 10
	DefaultSimilarityThreshold = 0.7
)

type ChunkRetriever interface {
	RetrieveRelevant(ctx context.Context, companyID string, queryEmbedding []float32, limit int, threshold float64) ([]*model.RetrievedChunk, error)
}

type VoiceReader interface {
	Get(ctx context.Context, companyID string) (*model.VoiceSettings, error)
}

// RAGService assembles the retrieval context for reply generation. It is
// the one place errors are absorbed rather than propagated: generation must
// proceed even when grounding is unavailable, so any failure yields an
// empty context instead of an error.
type RAGService struct {
	embedder  ai.IEmbedder
	chunks    ChunkRetriever
	voices    VoiceReader
	maxChunks int
	threshold float64
}

func NewRAGService(embedder ai.IEmbedder, chunks ChunkRetriever, voices VoiceReader, maxChunks int, threshold float64) *RAGService {
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &RAGService{
		embedder:  embedder,
		chunks:    chunks,
		voices:    voices,
		maxChunks: maxChunks,
		threshold: threshold,
	}
}

type BuildContextInput struct {
	CompanyID string
	Query     string
	// MaxChunks and SimilarityThreshold override the service defaults when
	// positive.
	MaxChunks           int
	SimilarityThreshold float64
}

func emptyContext() *model.RAGContext {
	return &model.RAGContext{Chunks: []*model.RetrievedChunk{}}
}

// BuildContext never returns an error. On any failure it logs and returns
// an empty bundle with HasContext=false.
func (s *RAGService) BuildContext(ctx context.Context, in BuildContextInput) *model.RAGContext {
	logger := logutil.GetLogger(ctx).With(zap.String("company_id", in.CompanyID))

	maxChunks := in.MaxChunks
	if maxChunks <= 0 {
		maxChunks = s.maxChunks
	}
	threshold := in.SimilarityThreshold
	if threshold <= 0 {
		threshold = s.threshold
	}

	queryEmbedding, err := s.embedder.Embed(ctx, in.Query, ai.TaskRetrievalQuery)
	if err != nil {
		logger.Warn("rag context degraded: query embedding failed", zap.Error(err))
		return emptyContext()
	}

	chunks, err := s.chunks.RetrieveRelevant(ctx, in.CompanyID, queryEmbedding, maxChunks, threshold)
	if err != nil {
		logger.Warn("rag context degraded: retrieval failed", zap.Error(err))
		return emptyContext()
	}

	voice, err := s.voices.Get(ctx, in.CompanyID)
	if err != nil {
		if !appErr.IsNotFound(err) {
			logger.Warn("rag context degraded: voice settings load failed", zap.Error(err))
			return emptyContext()
		}
		voice = nil
	}

	bundle := &model.RAGContext{
		Chunks:          chunks,
		FormattedChunks: FormatChunks(chunks),
		VoiceSettings:   voice,
		FormattedVoice:  FormatVoice(voice),
		HasContext:      len(chunks) > 0 || voice != nil,
	}
	if bundle.Chunks == nil {
		bundle.Chunks = []*model.RetrievedChunk{}
	}
	logger.Debug("rag context built",
		zap.Int("chunks", len(bundle.Chunks)),
		zap.Bool("has_voice", voice != nil),
	)
	return bundle
}

// FormatChunks renders retrieved chunks as a numbered plain-text block for
// prompt injection.
func FormatChunks(chunks []*model.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Relevant company information:\n")
	for i, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, strings.TrimSpace(chunk.Content)))
	}
	return sb.String()
}

// FormatVoice renders voice settings as labeled lines, skipping empty
// fields. Returns "" for nil settings.
func FormatVoice(voice *model.VoiceSettings) string {
	if voice == nil {
		return ""
	}
	var lines []string
	if v := strings.TrimSpace(voice.VoiceGuidelines); v != "" {
		lines = append(lines, "Voice guidelines: "+v)
	}
	if v := strings.TrimSpace(voice.BrandTone); v != "" {
		lines = append(lines, "Brand tone: "+v)
	}
	if v := strings.TrimSpace(voice.Positioning); v != "" {
		lines = append(lines, "Positioning: "+v)
	}
	return strings.Join(lines, "\n")
}
