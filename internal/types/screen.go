package types

import "github.com/moznion/go-optional"

// ScreenCriteria filters instruments on their latest indicator row.
// Every criterion is optional; an empty criteria matches everything.
type ScreenCriteria struct {
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	MinVolume     *int64   `json:"min_volume,omitempty"`
	RSIOversold   *float64 `json:"rsi_oversold,omitempty"`
	RSIOverbought *float64 `json:"rsi_overbought,omitempty"`
	MACrossover   bool     `json:"ma_crossover,omitempty"`
	MACDBullish   bool     `json:"macd_bullish,omitempty"`
}

// ScreenCandidate is the latest state of an instrument considered by the screener.
type ScreenCandidate struct {
	Row IndicatorRow
	// Volume is the raw volume of the latest bar.
	Volume int64
}

// ScreenResult is a matched instrument.
type ScreenResult struct {
	Ticker  string   `json:"ticker"`
	Close   float64  `json:"close"`
	Volume  int64    `json:"volume"`
	RSI     *float64 `json:"rsi"`
	MACD    *float64 `json:"macd"`
	MA20Day *float64 `json:"ma_20day"`
	MA50Day *float64 `json:"ma_50day"`
}

// Matches reports whether the candidate passes every criterion that is set.
// A criterion that needs an indicator still warming up does not match.
func (c ScreenCriteria) Matches(candidate ScreenCandidate) bool {
	row := candidate.Row

	if c.MinPrice != nil && row.Close < *c.MinPrice {
		return false
	}

	if c.MaxPrice != nil && row.Close > *c.MaxPrice {
		return false
	}

	if c.MinVolume != nil && candidate.Volume < *c.MinVolume {
		return false
	}

	if c.RSIOversold != nil && !(row.RSI.IsSome() && row.RSI.Unwrap() <= *c.RSIOversold) {
		return false
	}

	if c.RSIOverbought != nil && !(row.RSI.IsSome() && row.RSI.Unwrap() >= *c.RSIOverbought) {
		return false
	}

	if c.MACrossover {
		if row.MA20.IsNone() || row.MA50.IsNone() {
			return false
		}

		if row.Close < row.MA20.Unwrap() || row.MA20.Unwrap() < row.MA50.Unwrap() {
			return false
		}
	}

	if c.MACDBullish {
		if row.MACD.IsNone() || row.SignalLine.IsNone() {
			return false
		}

		if row.MACD.Unwrap() <= row.SignalLine.Unwrap() {
			return false
		}
	}

	return true
}

// NewScreenResult builds the API view of a matched candidate.
func NewScreenResult(candidate ScreenCandidate) ScreenResult {
	row := candidate.Row

	return ScreenResult{
		Ticker:  row.Symbol,
		Close:   row.Close,
		Volume:  candidate.Volume,
		RSI:     OptionPtr(row.RSI),
		MACD:    OptionPtr(row.MACD),
		MA20Day: OptionPtr(row.MA20),
		MA50Day: OptionPtr(row.MA50),
	}
}

// OptionPtr converts an optional value into a nil-able pointer for JSON output.
func OptionPtr[T any](o optional.Option[T]) *T {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}
