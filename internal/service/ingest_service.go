package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/ai"
	"github.com/replyforge/replyforge/internal/filestore"
	"github.com/replyforge/replyforge/internal/ingest"
	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	MarkCompleted(ctx context.Context, docID string, totalChunks, totalTokens int) error
	MarkFailed(ctx context.Context, docID, errorMessage string) error
	Get(ctx context.Context, companyID, docID string) (*model.Document, error)
	List(ctx context.Context, companyID string, limit uint) ([]*model.Document, error)
	Delete(ctx context.Context, companyID, docID string) error
}

type ChunkStore interface {
	StoreChunks(ctx context.Context, companyID, documentID string, chunks []*model.TextChunk, embeddings [][]float32, metadata map[string]interface{}) (int, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	CompanyStats(ctx context.Context, companyID string) (*model.CompanyStats, error)
}

type Extractor interface {
	Extract(ctx context.Context, fileType string, data []byte) (string, error)
	ExtractURL(ctx context.Context, rawURL string) (string, error)
}

// Queue hands a freshly created document to the background ingestion pool.
type Queue interface {
	Enqueue(doc *model.Document) error
}

// IngestService owns the document lifecycle: accept an upload or URL,
// create the row in processing state, and run the pipeline (extract →
// clean → chunk → embed → store) to a terminal completed or failed status.
type IngestService struct {
	documents     DocumentStore
	chunks        ChunkStore
	extractor     Extractor
	embedder      ai.IEmbedder
	files         filestore.Store
	queue         Queue
	targetTokens  int
	overlapTokens int
}

type IngestConfig struct {
	TargetTokens  int
	OverlapTokens int
}

func NewIngestService(documents DocumentStore, chunks ChunkStore, extractor Extractor, embedder ai.IEmbedder, files filestore.Store, cfg IngestConfig) *IngestService {
	if cfg.TargetTokens <= 0 {
		cfg.TargetTokens = ingest.DefaultTargetTokens
	}
	if cfg.OverlapTokens <= 0 {
		cfg.OverlapTokens = ingest.DefaultOverlapTokens
	}
	return &IngestService{
		documents:     documents,
		chunks:        chunks,
		extractor:     extractor,
		embedder:      embedder,
		files:         files,
		targetTokens:  cfg.TargetTokens,
		overlapTokens: cfg.OverlapTokens,
	}
}

// AttachQueue wires the background pool after construction; the pool itself
// is built around this service as its processor.
func (s *IngestService) AttachQueue(q Queue) {
	s.queue = q
}

type UploadInput struct {
	Filename string
	FileType string
	Data     []byte
}

func (s *IngestService) CreateFromUpload(ctx context.Context, companyID string, in UploadInput) (*model.Document, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, fmt.Errorf("%w: company id", appErr.ErrInvalid)
	}
	if !model.ValidFileType(in.FileType) || in.FileType == model.FileTypeURL {
		return nil, fmt.Errorf("%w: file type %q", appErr.ErrInvalid, in.FileType)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", appErr.ErrInvalid)
	}
	now := time.Now().UnixMilli()
	doc := &model.Document{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		Filename:   in.Filename,
		FileType:   in.FileType,
		SizeBytes:  int64(len(in.Data)),
		Status:     model.DocumentStatusProcessing,
		StorageKey: "",
		Ctime:      now,
		Mtime:      now,
	}
	doc.StorageKey = doc.ID + "." + in.FileType
	if err := s.files.Save(ctx, doc.StorageKey, bytes.NewReader(in.Data)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return s.createAndEnqueue(ctx, doc)
}

func (s *IngestService) CreateFromURL(ctx context.Context, companyID, rawURL string) (*model.Document, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, fmt.Errorf("%w: company id", appErr.ErrInvalid)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: url %q", appErr.ErrInvalid, rawURL)
	}
	now := time.Now().UnixMilli()
	doc := &model.Document{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Filename:  parsed.Host,
		SourceURL: rawURL,
		FileType:  model.FileTypeURL,
		Status:    model.DocumentStatusProcessing,
		Ctime:     now,
		Mtime:     now,
	}
	return s.createAndEnqueue(ctx, doc)
}

func (s *IngestService) createAndEnqueue(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if s.queue == nil {
		return nil, appErr.ErrInternal
	}
	if err := s.queue.Enqueue(doc); err != nil {
		// Undo the row so the client sees a clean rejection, not a
		// document stuck in processing.
		_ = s.documents.Delete(ctx, doc.CompanyID, doc.ID)
		if doc.StorageKey != "" {
			_ = s.files.Delete(ctx, doc.StorageKey)
		}
		return nil, appErr.ErrTooMany
	}
	return doc, nil
}

// Process runs the whole pipeline for one document and persists the
// terminal status. Any step error marks the document failed with the error
// message; nothing is retried.
func (s *IngestService) Process(ctx context.Context, doc *model.Document) ingest.Result {
	res := ingest.Result{DocumentID: doc.ID}
	logger := logutil.GetLogger(ctx).With(
		zap.String("document_id", doc.ID),
		zap.String("company_id", doc.CompanyID),
		zap.String("file_type", doc.FileType),
	)

	text, err := s.extractText(ctx, doc)
	if err != nil {
		return s.fail(ctx, &res, err)
	}
	cleaned := ingest.Clean(text)
	if cleaned == "" {
		return s.fail(ctx, &res, fmt.Errorf("document contains no extractable text"))
	}

	chunks := ingest.Chunk(cleaned, s.targetTokens, s.overlapTokens)
	texts := make([]string, 0, len(chunks))
	totalTokens := 0
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
		totalTokens += chunk.TokenCount
	}
	logger.Info("document chunked", zap.Int("chunks", len(chunks)), zap.Int("tokens", totalTokens))

	embeddings, err := s.embedder.EmbedBatch(ctx, texts, ai.TaskRetrievalDocument)
	if err != nil {
		return s.fail(ctx, &res, fmt.Errorf("generate embeddings: %w", err))
	}

	metadata := map[string]interface{}{
		"filename":  doc.Filename,
		"file_type": doc.FileType,
	}
	if doc.SourceURL != "" {
		metadata["source_url"] = doc.SourceURL
	}
	stored, err := s.chunks.StoreChunks(ctx, doc.CompanyID, doc.ID, chunks, embeddings, metadata)
	if err != nil {
		return s.fail(ctx, &res, fmt.Errorf("store chunks: %w", err))
	}

	if err := s.documents.MarkCompleted(ctx, doc.ID, stored, totalTokens); err != nil {
		logger.Error("failed to mark document completed", zap.Error(err))
		res.Err = err
		return res
	}
	res.Completed = true
	res.Chunks = stored
	res.Tokens = totalTokens
	return res
}

func (s *IngestService) extractText(ctx context.Context, doc *model.Document) (string, error) {
	if doc.FileType == model.FileTypeURL {
		return s.extractor.ExtractURL(ctx, doc.SourceURL)
	}
	reader, err := s.files.Open(ctx, doc.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open stored file: %w", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}
	return s.extractor.Extract(ctx, doc.FileType, data)
}

func (s *IngestService) fail(ctx context.Context, res *ingest.Result, cause error) ingest.Result {
	res.Err = cause
	if err := s.documents.MarkFailed(ctx, res.DocumentID, cause.Error()); err != nil {
		logutil.GetLogger(ctx).Error("failed to mark document failed",
			zap.String("document_id", res.DocumentID), zap.Error(err))
	}
	return *res
}

func (s *IngestService) Get(ctx context.Context, companyID, docID string) (*model.Document, error) {
	return s.documents.Get(ctx, companyID, docID)
}

func (s *IngestService) List(ctx context.Context, companyID string, limit uint) ([]*model.Document, error) {
	return s.documents.List(ctx, companyID, limit)
}

// Delete removes the document, its chunks, and the stored raw file.
func (s *IngestService) Delete(ctx context.Context, companyID, docID string) error {
	doc, err := s.documents.Get(ctx, companyID, docID)
	if err != nil {
		return err
	}
	if err := s.chunks.DeleteByDocument(ctx, docID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.documents.Delete(ctx, companyID, docID); err != nil {
		return err
	}
	if doc.StorageKey != "" {
		if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
			logutil.GetLogger(ctx).Warn("failed to delete stored file",
				zap.String("storage_key", doc.StorageKey), zap.Error(err))
		}
	}
	return nil
}

func (s *IngestService) Stats(ctx context.Context, companyID string) (*model.CompanyStats, error) {
	return s.chunks.CompanyStats(ctx, companyID)
}
