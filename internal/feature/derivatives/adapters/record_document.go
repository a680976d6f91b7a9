package adapters

import (
	"strings"
	"time"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
)

// Database and collection names of the derivative analytics store.
const (
	DatabaseName      = "Derivative_Analytics"
	RecordsCollection = "derivative_data"
	SummaryCollection = "stocks_summary"

	stockCollectionPrefix = "stock_"
)

// StockCollection returns the per-symbol collection name, e.g. "stock_INFY".
func StockCollection(symbol string) string {
	return stockCollectionPrefix + symbol
}

// RecordDocument is the stored shape of a derivative record. Field names
// follow the existing collections, which predate this service.
type RecordDocument struct {
	Date               string  `bson:"date"`
	Symbol             string  `bson:"symbol"`
	StockName          string  `bson:"stock_name"`
	LotSize            float64 `bson:"lot_size"`
	SectorName         string  `bson:"sector_name"`
	IndustryName       string  `bson:"industry_name"`
	MCapCategory       string  `bson:"mcap_category"`
	Close              float64 `bson:"close"`
	ChgPct             float64 `bson:"chg_pct"`
	CumulativeFutureOI float64 `bson:"cumulative_future_oi"`
	OIChgPct           float64 `bson:"oi_chg_pct"`
	VolumeTimes        float64 `bson:"volume_times"`
	DeliveryTimes      float64 `bson:"delivery_times"`
	CumulativeCallOI   float64 `bson:"cumulative_call_oi"`
	CumulativePutOI    float64 `bson:"cumulative_put_oi"`
	PutCallRatio       float64 `bson:"put_call_ratio"`
	PCRChange1D        float64 `bson:"pcr_change_1d"`
	OITrend            string  `bson:"oi_trend"`
	ImportedAt         string  `bson:"imported_at,omitempty"`
	Source             string  `bson:"source,omitempty"`
}

// importedAtLayouts are the timestamp layouts found in imported_at. Older
// documents carry a naive ISO timestamp with microseconds.
var importedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseImportedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range importedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FromEntity converts a domain record into its stored form.
func FromEntity(r entity.Record) RecordDocument {
	d := RecordDocument{
		Date:               r.Date,
		Symbol:             r.Symbol,
		StockName:          r.StockName,
		LotSize:            r.LotSize,
		SectorName:         r.Sector,
		IndustryName:       r.Industry,
		MCapCategory:       r.MCapCategory,
		Close:              r.Close,
		ChgPct:             r.ChangePct,
		CumulativeFutureOI: r.CumulativeFutureOI,
		OIChgPct:           r.OIChangePct,
		VolumeTimes:        r.VolumeTimes,
		DeliveryTimes:      r.DeliveryTimes,
		CumulativeCallOI:   r.CumulativeCallOI,
		CumulativePutOI:    r.CumulativePutOI,
		PutCallRatio:       r.PCR,
		PCRChange1D:        r.PCRChange1D,
		OITrend:            r.OITrend,
		Source:             r.Source,
	}
	if !r.ImportedAt.IsZero() {
		d.ImportedAt = r.ImportedAt.Format(time.RFC3339Nano)
	}
	return d
}

// ToEntity converts the stored form into a domain record.
func (d RecordDocument) ToEntity() entity.Record {
	return entity.Record{
		Date:               d.Date,
		Symbol:             d.Symbol,
		StockName:          d.StockName,
		LotSize:            d.LotSize,
		Sector:             d.SectorName,
		Industry:           d.IndustryName,
		MCapCategory:       d.MCapCategory,
		Close:              d.Close,
		ChangePct:          d.ChgPct,
		CumulativeFutureOI: d.CumulativeFutureOI,
		OIChangePct:        d.OIChgPct,
		VolumeTimes:        d.VolumeTimes,
		DeliveryTimes:      d.DeliveryTimes,
		CumulativeCallOI:   d.CumulativeCallOI,
		CumulativePutOI:    d.CumulativePutOI,
		PCR:                d.PutCallRatio,
		PCRChange1D:        d.PCRChange1D,
		OITrend:            d.OITrend,
		ImportedAt:         parseImportedAt(d.ImportedAt),
		Source:             d.Source,
	}
}
