package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/repo"
)

// IngestSweepJob fails documents stranded in processing, e.g. after a crash
// mid-ingestion. There is no cancellation or retry for in-flight work, so
// without the sweep such rows would poll as processing forever.
type IngestSweepJob struct {
	documents      *repo.DocumentRepo
	timeoutMinutes int
}

func NewIngestSweepJob(documents *repo.DocumentRepo, timeoutMinutes int) *IngestSweepJob {
	if timeoutMinutes <= 0 {
		timeoutMinutes = 60
	}
	return &IngestSweepJob{documents: documents, timeoutMinutes: timeoutMinutes}
}

func (j *IngestSweepJob) Name() string {
	return "ingest_sweep"
}

func (j *IngestSweepJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(j.timeoutMinutes) * time.Minute).UnixMilli()
	swept, err := j.documents.SweepStale(ctx, cutoff)
	if err != nil {
		return err
	}
	if swept > 0 {
		logutil.GetLogger(ctx).Warn("stale ingestions failed by sweep", zap.Int64("count", swept))
	}
	return nil
}
