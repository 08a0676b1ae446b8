package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type VoiceRepo struct {
	db *sql.DB
}

func NewVoiceRepo(db *sql.DB) *VoiceRepo {
	return &VoiceRepo{db: db}
}

// Upsert keeps at most one voice settings row per company.
func (r *VoiceRepo) Upsert(ctx context.Context, settings *model.VoiceSettings) error {
	metaJSON, err := json.Marshal(settings.Metadata)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO voice_settings (company_id, voice_guidelines, brand_tone, positioning, metadata, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id) DO UPDATE SET
			voice_guidelines = EXCLUDED.voice_guidelines,
			brand_tone = EXCLUDED.brand_tone,
			positioning = EXCLUDED.positioning,
			metadata = EXCLUDED.metadata,
			mtime = EXCLUDED.mtime
	`
	_, err = r.db.ExecContext(ctx, query,
		settings.CompanyID,
		settings.VoiceGuidelines,
		settings.BrandTone,
		settings.Positioning,
		metaJSON,
		time.Now().UnixMilli(),
	)
	return err
}

func (r *VoiceRepo) Get(ctx context.Context, companyID string) (*model.VoiceSettings, error) {
	const query = `
		SELECT company_id, voice_guidelines, brand_tone, positioning, metadata, mtime
		FROM voice_settings
		WHERE company_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, companyID)
	var settings model.VoiceSettings
	var metaBlob []byte
	if err := row.Scan(&settings.CompanyID, &settings.VoiceGuidelines, &settings.BrandTone, &settings.Positioning, &metaBlob, &settings.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	if len(metaBlob) > 0 {
		if err := json.Unmarshal(metaBlob, &settings.Metadata); err != nil {
			return nil, err
		}
	}
	return &settings, nil
}
