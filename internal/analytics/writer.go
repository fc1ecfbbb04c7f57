package analytics

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/pkg/logger"
)

// Writer buffers history records and writes them in batches. Flushing is
// best-effort: a failed batch is logged and dropped so analytics can
// never stall sentiment tracking.
type Writer struct {
	repo     *Repository
	mu       sync.Mutex
	buffer   []Record
	maxBatch int
}

// NewWriter creates a new buffered history writer
func NewWriter(repo *Repository, maxBatch int) *Writer {
	return &Writer{
		repo:     repo,
		buffer:   make([]Record, 0, maxBatch),
		maxBatch: maxBatch,
	}
}

// Add appends a record and flushes when the batch threshold is reached
func (w *Writer) Add(ctx context.Context, rec Record) {
	w.mu.Lock()
	w.buffer = append(w.buffer, rec)
	shouldFlush := len(w.buffer) >= w.maxBatch
	w.mu.Unlock()

	if shouldFlush {
		w.Flush(ctx)
	}
}

// Flush writes the buffered records
func (w *Writer) Flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return
	}
	toWrite := make([]Record, len(w.buffer))
	copy(toWrite, w.buffer)
	w.buffer = w.buffer[:0]
	w.mu.Unlock()

	if err := w.repo.SaveHistory(ctx, toWrite); err != nil {
		logger.Error("failed to flush sentiment history",
			zap.Int("records", len(toWrite)),
			zap.Error(err),
		)
		return
	}

	logger.Debug("flushed sentiment history",
		zap.Int("records", len(toWrite)),
	)
}

// Name implements worker.Worker
func (w *Writer) Name() string {
	return "sentiment_history_flusher"
}

// Run implements worker.Worker, flushing whatever has accumulated
func (w *Writer) Run(ctx context.Context) error {
	w.Flush(ctx)
	return nil
}
