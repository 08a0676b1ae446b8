package service

import (
	"context"
	"strings"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type VoiceStore interface {
	Upsert(ctx context.Context, settings *model.VoiceSettings) error
	Get(ctx context.Context, companyID string) (*model.VoiceSettings, error)
}

type VoiceService struct {
	voices VoiceStore
}

func NewVoiceService(voices VoiceStore) *VoiceService {
	return &VoiceService{voices: voices}
}

type VoiceInput struct {
	VoiceGuidelines string
	BrandTone       string
	Positioning     string
	Metadata        map[string]interface{}
}

func (s *VoiceService) Upsert(ctx context.Context, companyID string, in VoiceInput) (*model.VoiceSettings, error) {
	if strings.TrimSpace(in.VoiceGuidelines) == "" &&
		strings.TrimSpace(in.BrandTone) == "" &&
		strings.TrimSpace(in.Positioning) == "" {
		return nil, appErr.ErrInvalid
	}
	settings := &model.VoiceSettings{
		CompanyID:       companyID,
		VoiceGuidelines: strings.TrimSpace(in.VoiceGuidelines),
		BrandTone:       strings.TrimSpace(in.BrandTone),
		Positioning:     strings.TrimSpace(in.Positioning),
		Metadata:        in.Metadata,
	}
	if err := s.voices.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *VoiceService) Get(ctx context.Context, companyID string) (*model.VoiceSettings, error) {
	return s.voices.Get(ctx, companyID)
}
