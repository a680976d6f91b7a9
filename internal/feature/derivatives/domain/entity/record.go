// Package entity defines the domain models for the derivatives feature.
package entity

import "time"

// Record is one day of derivative analytics for a single stock.
type Record struct {
	Date               string // Trading date, YYYY-MM-DD
	Symbol             string // Exchange symbol (e.g. "RELIANCE")
	StockName          string
	LotSize            float64
	Sector             string
	Industry           string
	MCapCategory       string
	Close              float64
	ChangePct          float64 // Close-to-close change in percent
	CumulativeFutureOI float64
	OIChangePct        float64 // Future open interest change in percent
	VolumeTimes        float64 // Volume as a multiple of its average
	DeliveryTimes      float64 // Delivery as a multiple of its average
	CumulativeCallOI   float64
	CumulativePutOI    float64
	PCR                float64 // Put/call ratio
	PCRChange1D        float64
	OITrend            string // NewLong, NewShort, ShortCover, LongCover
	ImportedAt         time.Time
	Source             string
}

// Summary is the latest metadata of a tracked symbol.
type Summary struct {
	Symbol       string
	StockName    string
	Sector       string
	Industry     string
	MCapCategory string
	LotSize      float64
	RecordCount  int64
	LatestDate   string
}

// DateCount is the number of records stored for a date.
type DateCount struct {
	Date    string
	Records int64
}

// IndustryCount is the number of stocks of an industry on a date.
type IndustryCount struct {
	Industry string
	Stocks   int64
}

// Stats summarises the stored dataset.
type Stats struct {
	LatestDate    string
	TradingDays   int
	StocksTracked int
	TotalRecords  int64
}
