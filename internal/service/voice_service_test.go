package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type memVoiceStore struct {
	settings map[string]*model.VoiceSettings
}

func newMemVoiceStore() *memVoiceStore {
	return &memVoiceStore{settings: map[string]*model.VoiceSettings{}}
}

func (m *memVoiceStore) Upsert(ctx context.Context, settings *model.VoiceSettings) error {
	m.settings[settings.CompanyID] = settings
	return nil
}

func (m *memVoiceStore) Get(ctx context.Context, companyID string) (*model.VoiceSettings, error) {
	settings, ok := m.settings[companyID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return settings, nil
}

func TestVoiceUpsertTrimsAndStores(t *testing.T) {
	store := newMemVoiceStore()
	svc := NewVoiceService(store)

	settings, err := svc.Upsert(context.Background(), "c1", VoiceInput{
		VoiceGuidelines: "  short sentences  ",
		BrandTone:       "playful",
	})
	require.NoError(t, err)
	require.Equal(t, "short sentences", settings.VoiceGuidelines)
	require.Equal(t, "playful", settings.BrandTone)

	got, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, settings, got)
}

func TestVoiceUpsertRejectsAllEmpty(t *testing.T) {
	svc := NewVoiceService(newMemVoiceStore())
	_, err := svc.Upsert(context.Background(), "c1", VoiceInput{
		VoiceGuidelines: "   ",
		BrandTone:       "",
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestVoiceGetMissing(t *testing.T) {
	svc := NewVoiceService(newMemVoiceStore())
	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
