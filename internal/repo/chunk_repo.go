package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/replyforge/replyforge/internal/model"
	appErr "github.com/replyforge/replyforge/internal/pkg/errors"
)

// storeBatchSize bounds a single multi-row insert to respect payload limits.
const storeBatchSize = 50

// ChunkRepo is the vector store adapter: it persists chunks with their
// embeddings and answers tenant-scoped similarity queries through pgvector.
type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// StoreChunks writes chunks and their embeddings in batches of 50. The two
// slices must be the same length; a mismatch fails before any write. A
// batch failure aborts the operation and leaves earlier batches committed —
// the caller marks the owning document failed, there is no rollback.
func (r *ChunkRepo) StoreChunks(ctx context.Context, companyID, documentID string, chunks []*model.TextChunk, embeddings [][]float32, metadata map[string]interface{}) (int, error) {
	if len(chunks) != len(embeddings) {
		return 0, fmt.Errorf("%w: %d chunks but %d embeddings", appErr.ErrInvalid, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	stored := 0
	for start := 0; start < len(chunks); start += storeBatchSize {
		end := start + storeBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := r.insertBatch(ctx, companyID, documentID, chunks[start:end], embeddings[start:end], metadata, start); err != nil {
			return stored, fmt.Errorf("store chunks batch at offset %d: %w", start, err)
		}
		stored += end - start
	}
	return stored, nil
}

func (r *ChunkRepo) insertBatch(ctx context.Context, companyID, documentID string, chunks []*model.TextChunk, embeddings [][]float32, metadata map[string]interface{}, offset int) error {
	now := time.Now().UnixMilli()
	var sb strings.Builder
	sb.WriteString(`INSERT INTO chunks (id, company_id, document_id, content, embedding, chunk_index, token_count, metadata, ctime) VALUES `)
	args := make([]interface{}, 0, len(chunks)*9)
	for i, chunk := range chunks {
		meta := make(map[string]interface{}, len(metadata)+1)
		for k, v := range metadata {
			meta[k] = v
		}
		// Position within the upload batch; must agree with chunk_index.
		meta["batch_position"] = offset + i
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := len(args)
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args,
			uuid.NewString(),
			companyID,
			documentID,
			chunk.Content,
			pgvector.NewVector(embeddings[i]),
			chunk.Index,
			chunk.TokenCount,
			metaJSON,
			now,
		)
	}
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

// RetrieveRelevant returns the chunks most similar to queryEmbedding for
// one company, ordered by descending cosine similarity, at most limit rows,
// each meeting the threshold. A malformed company id is rejected before any
// query is issued.
func (r *ChunkRepo) RetrieveRelevant(ctx context.Context, companyID string, queryEmbedding []float32, limit int, threshold float64) ([]*model.RetrievedChunk, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, fmt.Errorf("%w: company id %q is not a uuid", appErr.ErrInvalid, companyID)
	}
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, document_id, content, chunk_index, token_count, metadata,
		       1 - (embedding <=> $1) AS similarity
		FROM chunks
		WHERE company_id = $2
		  AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(queryEmbedding), companyID, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []*model.RetrievedChunk
	for rows.Next() {
		item := &model.RetrievedChunk{}
		item.CompanyID = companyID
		var metaBlob []byte
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.Content, &item.ChunkIndex, &item.TokenCount, &metaBlob, &item.Similarity); err != nil {
			return nil, err
		}
		if len(metaBlob) > 0 {
			if err := json.Unmarshal(metaBlob, &item.Metadata); err != nil {
				return nil, err
			}
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func (r *ChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	return err
}

// CompanyStats aggregates chunk rows for one company; a company with no
// rows gets zeroed defaults, not an error.
func (r *ChunkRepo) CompanyStats(ctx context.Context, companyID string) (*model.CompanyStats, error) {
	const query = `
		SELECT COUNT(DISTINCT document_id),
		       COUNT(*),
		       COALESCE(SUM(token_count), 0),
		       COALESCE(SUM(LENGTH(content)), 0),
		       COALESCE(MAX(ctime), 0)
		FROM chunks
		WHERE company_id = $1
	`
	stats := &model.CompanyStats{}
	row := r.db.QueryRowContext(ctx, query, companyID)
	if err := row.Scan(&stats.TotalDocuments, &stats.TotalChunks, &stats.TotalTokens, &stats.TotalStorageBytes, &stats.LastUpdated); err != nil {
		return nil, err
	}
	return stats, nil
}
