package writer

import (
	"context"

	"github.com/rxtech-lab/argo-screener/internal/store"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// DefaultBatchSize is the number of bars sent to the store per upsert.
const DefaultBatchSize = 500

// StoreWriter batches bars into store.WriteBars calls.
type StoreWriter struct {
	store     store.Store
	batchSize int
	buffer    []types.PriceBar
	written   int
}

// NewStoreWriter creates a writer on top of the given store.
// A non-positive batch size falls back to DefaultBatchSize.
func NewStoreWriter(s store.Store, batchSize int) *StoreWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &StoreWriter{
		store:     s,
		batchSize: batchSize,
		buffer:    make([]types.PriceBar, 0, batchSize),
		written:   0,
	}
}

func (w *StoreWriter) Write(ctx context.Context, bar types.PriceBar) error {
	w.buffer = append(w.buffer, bar)
	if len(w.buffer) < w.batchSize {
		return nil
	}

	_, err := w.Flush(ctx)

	return err
}

func (w *StoreWriter) Flush(ctx context.Context) (int, error) {
	if len(w.buffer) == 0 {
		return w.written, nil
	}

	if err := w.store.WriteBars(ctx, w.buffer); err != nil {
		return w.written, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write price bars", err)
	}

	w.written += len(w.buffer)
	w.buffer = w.buffer[:0]

	return w.written, nil
}
