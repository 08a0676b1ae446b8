package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/replyforge/replyforge/internal/model"
	"github.com/replyforge/replyforge/internal/pkg/dbutil"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

var documentColumns = []string{
	"id", "company_id", "filename", "source_url", "file_type", "size_bytes",
	"status", "error_message", "total_chunks", "total_tokens", "storage_key",
	"metadata", "ctime", "mtime",
}

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	metaJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":            doc.ID,
		"company_id":    doc.CompanyID,
		"filename":      doc.Filename,
		"source_url":    doc.SourceURL,
		"file_type":     doc.FileType,
		"size_bytes":    doc.SizeBytes,
		"status":        doc.Status,
		"error_message": doc.ErrorMessage,
		"total_chunks":  doc.TotalChunks,
		"total_tokens":  doc.TotalTokens,
		"storage_key":   doc.StorageKey,
		"metadata":      metaJSON,
		"ctime":         doc.Ctime,
		"mtime":         doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// MarkCompleted moves a document out of processing exactly once; a document
// already completed or failed is left untouched.
func (r *DocumentRepo) MarkCompleted(ctx context.Context, docID string, totalChunks, totalTokens int) error {
	return r.transition(ctx, docID, map[string]interface{}{
		"status":       model.DocumentStatusCompleted,
		"total_chunks": totalChunks,
		"total_tokens": totalTokens,
		"mtime":        time.Now().UnixMilli(),
	})
}

func (r *DocumentRepo) MarkFailed(ctx context.Context, docID string, errorMessage string) error {
	return r.transition(ctx, docID, map[string]interface{}{
		"status":        model.DocumentStatusFailed,
		"error_message": errorMessage,
		"mtime":         time.Now().UnixMilli(),
	})
}

func (r *DocumentRepo) transition(ctx context.Context, docID string, update map[string]interface{}) error {
	where := map[string]interface{}{
		"id":     docID,
		"status": model.DocumentStatusProcessing,
	}
	sqlStr, args, err := builder.BuildUpdate("documents", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) Get(ctx context.Context, companyID, docID string) (*model.Document, error) {
	where := map[string]interface{}{
		"id":         docID,
		"company_id": companyID,
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanDocument(rows)
}

func (r *DocumentRepo) List(ctx context.Context, companyID string, limit uint) ([]*model.Document, error) {
	where := map[string]interface{}{
		"company_id": companyID,
		"_orderby":   "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []*model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) Delete(ctx context.Context, companyID, docID string) error {
	where := map[string]interface{}{
		"id":         docID,
		"company_id": companyID,
	}
	sqlStr, args, err := builder.BuildDelete("documents", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// SweepStale fails documents stuck in processing since before cutoff.
// There is no cancellation for in-flight ingestion, so a crash can strand
// rows in processing forever; the sweep keeps the poll state machine
// truthful.
func (r *DocumentRepo) SweepStale(ctx context.Context, cutoff int64) (int64, error) {
	const query = `
		UPDATE documents
		SET status = $1, error_message = $2, mtime = $3
		WHERE status = $4 AND ctime < $5
	`
	result, err := r.db.ExecContext(ctx, query,
		model.DocumentStatusFailed,
		"ingestion timed out",
		time.Now().UnixMilli(),
		model.DocumentStatusProcessing,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanDocument(rows *sql.Rows) (*model.Document, error) {
	var doc model.Document
	var metaBlob []byte
	if err := rows.Scan(
		&doc.ID, &doc.CompanyID, &doc.Filename, &doc.SourceURL, &doc.FileType,
		&doc.SizeBytes, &doc.Status, &doc.ErrorMessage, &doc.TotalChunks,
		&doc.TotalTokens, &doc.StorageKey, &metaBlob, &doc.Ctime, &doc.Mtime,
	); err != nil {
		return nil, err
	}
	if len(metaBlob) > 0 {
		if err := json.Unmarshal(metaBlob, &doc.Metadata); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}
