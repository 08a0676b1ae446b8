package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/replyforge/replyforge/internal/model"
)

var ErrQueueFull = errors.New("ingest queue full")

// Result is the typed outcome of one ingestion run. A failed run has
// already been recorded on the document row by the processor; the result
// exists for logging and for tests.
type Result struct {
	DocumentID string
	Completed  bool
	Chunks     int
	Tokens     int
	Err        error
}

// Processor runs the full pipeline for one document and must persist the
// terminal status itself (completed or failed) before returning.
type Processor interface {
	Process(ctx context.Context, doc *model.Document) Result
}

// Pool runs document ingestions on a fixed set of workers fed by a bounded
// queue. Enqueue never blocks: when the queue is full the caller gets
// ErrQueueFull and the upload is rejected rather than buffered unbounded.
type Pool struct {
	proc    Processor
	tasks   chan *model.Document
	workers int
	wg      sync.WaitGroup

	// OnResult, when set before Start, observes every result. Used by tests.
	OnResult func(Result)
}

func NewPool(proc Processor, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		proc:    proc,
		tasks:   make(chan *model.Document, queueSize),
		workers: workers,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) Enqueue(doc *model.Document) error {
	select {
	case p.tasks <- doc:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains in-flight work. Callers must not Enqueue after Stop.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case doc, ok := <-p.tasks:
			if !ok {
				return
			}
			res := p.proc.Process(ctx, doc)
			logger := logutil.GetLogger(ctx).With(
				zap.String("document_id", res.DocumentID),
				zap.Int("chunks", res.Chunks),
				zap.Int("tokens", res.Tokens),
			)
			if res.Err != nil {
				logger.Error("ingestion failed", zap.Error(res.Err))
			} else {
				logger.Info("ingestion completed")
			}
			if p.OnResult != nil {
				p.OnResult(res)
			}
		}
	}
}
