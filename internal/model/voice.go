package model

// VoiceSettings is per-company free-text guidance merged into RAG context.
// At most one row per company (upsert keyed by company_id).
type VoiceSettings struct {
	CompanyID       string                 `json:"company_id"`
	VoiceGuidelines string                 `json:"voice_guidelines"`
	BrandTone       string                 `json:"brand_tone"`
	Positioning     string                 `json:"positioning"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Mtime           int64                  `json:"mtime"`
}
