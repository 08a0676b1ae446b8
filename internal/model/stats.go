package model

type CompanyStats struct {
	TotalDocuments    int64 `json:"total_documents"`
	TotalChunks       int64 `json:"total_chunks"`
	TotalTokens       int64 `json:"total_tokens"`
	TotalStorageBytes int64 `json:"total_storage_bytes"`
	LastUpdated       int64 `json:"last_updated"`
}
