// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents end-of-day OHLCV data for a stock symbol.
type Candle struct {
	Symbol string    // Exchange symbol (e.g. "RELIANCE")
	Time   time.Time // Trading date at midnight UTC
	Open   float64   // Opening price
	High   float64   // Highest price of the day
	Low    float64   // Lowest price of the day
	Close  float64   // Closing price
	Volume int64     // Traded volume, 0 when not recorded
}
