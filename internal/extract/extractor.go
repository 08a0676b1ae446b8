package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/replyforge/replyforge/internal/model"
)

const defaultUserAgent = "replyforge-ingest/1.0 (+https://github.com/replyforge/replyforge)"

// Extractor converts raw uploads and fetched web pages into plain UTF-8
// text. Extraction errors are fatal for the owning document and are not
// retried.
type Extractor struct {
	client        *http.Client
	userAgent     string
	minContentLen int
}

func NewExtractor() *Extractor {
	return &Extractor{
		client:        &http.Client{Timeout: 30 * time.Second},
		userAgent:     defaultUserAgent,
		minContentLen: 100,
	}
}

// Extract converts raw bytes of the declared type into plain text. The
// returned error always carries the file type for the document's
// error_message.
func (e *Extractor) Extract(ctx context.Context, fileType string, data []byte) (string, error) {
	_ = ctx // format parsing is local; only URL extraction does I/O
	switch fileType {
	case model.FileTypePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf: %w", err)
		}
		return text, nil
	case model.FileTypeDocx:
		text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("extract docx: %w", err)
		}
		return text, nil
	case model.FileTypeTxt, model.FileTypeMd:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("extract %s: content is not valid utf-8", fileType)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("extract: unsupported file type %q", fileType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(text)
		buf.WriteString("\n\n")
	}
	return buf.String(), nil
}
