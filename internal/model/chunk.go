package model

// TextChunk is a chunk produced by the chunker, before it has an embedding.
// Index is the zero-based, gap-free position within the owning document.
type TextChunk struct {
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
	Index      int    `json:"index"`
}

// Chunk is a stored chunk row.
type Chunk struct {
	ID         string                 `json:"id"`
	CompanyID  string                 `json:"company_id"`
	DocumentID string                 `json:"document_id"`
	Content    string                 `json:"content"`
	ChunkIndex int                    `json:"chunk_index"`
	TokenCount int                    `json:"token_count"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	Chunk
	Similarity float64 `json:"similarity"`
}
