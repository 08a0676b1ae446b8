package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/replyforge/replyforge/internal/ai"
	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type ContextBuilder interface {
	BuildContext(ctx context.Context, in BuildContextInput) *model.RAGContext
}

// ReplyService is thin orchestration over the generation provider: build
// the retrieval context, assemble a prompt, call the model.
type ReplyService struct {
	rag ContextBuilder
	gen ai.IGenerator
}

func NewReplyService(rag ContextBuilder, gen ai.IGenerator) *ReplyService {
	return &ReplyService{rag: rag, gen: gen}
}

type GenerateReplyInput struct {
	CompanyID string
	Message   string
	Tone      string
	Platform  string
}

type GenerateReplyOutput struct {
	Reply      string `json:"reply"`
	HasContext bool   `json:"has_context"`
	ChunksUsed int    `json:"chunks_used"`
}

func (s *ReplyService) Generate(ctx context.Context, in GenerateReplyInput) (*GenerateReplyOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, appErr.ErrInvalid
	}
	bundle := s.rag.BuildContext(ctx, BuildContextInput{
		CompanyID: in.CompanyID,
		Query:     message,
	})
	prompt := buildReplyPrompt(message, in.Tone, in.Platform, bundle)
	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	return &GenerateReplyOutput{
		Reply:      reply,
		HasContext: bundle.HasContext,
		ChunksUsed: len(bundle.Chunks),
	}, nil
}

func buildReplyPrompt(message, tone, platform string, bundle *model.RAGContext) string {
	var sb strings.Builder
	sb.WriteString("Write a reply to the following social media message.\n")
	sb.WriteString("Tone: " + normalizeTone(tone) + "\n")
	sb.WriteString("Platform: " + normalizePlatform(platform) + "\n")
	if platformCharLimit(platform) > 0 {
		sb.WriteString(fmt.Sprintf("Keep the reply under %d characters.\n", platformCharLimit(platform)))
	}
	if bundle.FormattedVoice != "" {
		sb.WriteString("\n" + bundle.FormattedVoice + "\n")
	}
	if bundle.FormattedChunks != "" {
		sb.WriteString("\n" + bundle.FormattedChunks + "\n")
	}
	sb.WriteString("\nMessage:\n" + message + "\n\nReply:")
	return sb.String()
}

func normalizeTone(tone string) string {
	switch strings.ToLower(strings.TrimSpace(tone)) {
	case "friendly":
		return "friendly"
	case "casual":
		return "casual"
	case "witty":
		return "witty"
	default:
		return "professional"
	}
}

func normalizePlatform(platform string) string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "twitter", "x":
		return "twitter"
	case "linkedin":
		return "linkedin"
	case "instagram":
		return "instagram"
	default:
		return "facebook"
	}
}

func platformCharLimit(platform string) int {
	if normalizePlatform(platform) == "twitter" {
		return 280
	}
	return 0
}
