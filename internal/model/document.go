package model

const (
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

const (
	FileTypePDF  = "pdf"
	FileTypeDocx = "docx"
	FileTypeTxt  = "txt"
	FileTypeMd   = "md"
	FileTypeURL  = "url"
)

type Document struct {
	ID           string                 `json:"id"`
	CompanyID    string                 `json:"company_id"`
	Filename     string                 `json:"filename"`
	SourceURL    string                 `json:"source_url,omitempty"`
	FileType     string                 `json:"file_type"`
	SizeBytes    int64                  `json:"size_bytes"`
	Status       string                 `json:"status"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	TotalChunks  int                    `json:"total_chunks"`
	TotalTokens  int                    `json:"total_tokens"`
	StorageKey   string                 `json:"-"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Ctime        int64                  `json:"ctime"`
	Mtime        int64                  `json:"mtime"`
}

func ValidFileType(t string) bool {
	switch t {
	case FileTypePDF, FileTypeDocx, FileTypeTxt, FileTypeMd, FileTypeURL:
		return true
	}
	return false
}
