package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// PriceBar is one daily OHLCV aggregate for an instrument.
type PriceBar struct {
	Symbol       string
	Time         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       int64
	VWAP         float64
	Transactions int64
	// OTC is unknown for most providers and left as None.
	OTC optional.Option[bool]
}

// Instrument is a tradable ticker listed in the store.
type Instrument struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}
