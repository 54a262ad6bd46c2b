package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// Frame is the working set of one instrument while indicators are computed.
// Closes and Rows are index-aligned with the source price bars.
type Frame struct {
	Symbol string
	Closes []float64
	Rows   []types.IndicatorRow
}

// NewFrame creates a frame with one empty indicator row per bar.
func NewFrame(symbol string, bars []types.PriceBar) *Frame {
	frame := &Frame{
		Symbol: symbol,
		Closes: make([]float64, len(bars)),
		Rows:   make([]types.IndicatorRow, len(bars)),
	}

	for i, bar := range bars {
		frame.Closes[i] = bar.Close
		frame.Rows[i] = types.NewIndicatorRow(bar)
	}

	return frame
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Closes)
}

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config configures the indicator windows
	Config(params ...any) error
	// Compute fills the indicator's fields on every row of the frame.
	// Row i may only depend on closes 0..i.
	Compute(frame *Frame) error
}
