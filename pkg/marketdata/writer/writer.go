package writer

import (
	"context"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

// MarketDataWriter defines the interface for persisting downloaded bars.
type MarketDataWriter interface {
	// Write buffers a single bar. Implementations may persist eagerly.
	Write(ctx context.Context, bar types.PriceBar) error
	// Flush persists any buffered bars and returns the total number written so far.
	Flush(ctx context.Context) (int, error)
}
