package model

// RAGContext is the bundle handed to prompt assembly. When nothing could be
// retrieved (or retrieval failed), all fields are empty and HasContext is
// false; generation proceeds ungrounded.
type RAGContext struct {
	Chunks          []*RetrievedChunk `json:"chunks"`
	FormattedChunks string            `json:"formatted_chunks"`
	VoiceSettings   *VoiceSettings    `json:"voice_settings,omitempty"`
	FormattedVoice  string            `json:"formatted_voice"`
	HasContext      bool              `json:"has_context"`
}
