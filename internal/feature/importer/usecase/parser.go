package usecase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"trading_dashboard/internal/feature/derivatives/domain/entity"
)

// dateLayouts are the accepted spellings of a trading date, tried in order.
var dateLayouts = []string{
	"2006-1-2",
	"2/Jan/2006",
	"2/January/2006",
	"2/1/2006",
	"2-Jan-2006",
	"2-January-2006",
	"2-1-2006",
}

// column aliases, first match wins.
var (
	colSymbol             = []string{"Symbol", "symbol"}
	colDate               = []string{"Date", "date"}
	colStockName          = []string{"Stock Name", "stock_name"}
	colLotSize            = []string{"Lot Size", "lot_size"}
	colSector             = []string{"Sector Name", "sector_name"}
	colIndustry           = []string{"Industry Name", "industry_name"}
	colMCapCategory       = []string{"MCap Category", "mcap_category"}
	colClose              = []string{"Close", "close"}
	colChangePct          = []string{"Chg %", "Change %", "chg_pct"}
	colCumulativeFutureOI = []string{"Cumulative Future OI", "cumulative_future_oi"}
	colOIChangePct        = []string{"OI Chg %", "Future OI Change %", "oi_chg_pct"}
	colVolumeTimes        = []string{"Volume (Times)", "Volume Times(x)", "volume_times"}
	colDeliveryTimes      = []string{"Delivery (Times)", "Delivery Times(x)", "delivery_times"}
	colCumulativeCallOI   = []string{"Cumulative Call OI", "cumulative_call_oi"}
	colCumulativePutOI    = []string{"Cumulative Put OI", "cumulative_put_oi"}
	colPCR                = []string{"Put Call Ratio (PCR)", "PCR", "put_call_ratio"}
	colPCRChange1D        = []string{"PCR Change 1D", "pcr_change_1d"}
	colOITrend            = []string{"OI Trend", "Derivative Trend", "oi_trend"}
)

// ParseDate normalises a date to YYYY-MM-DD. Unrecognised input is returned
// trimmed but otherwise unchanged.
func ParseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// ParseNumber reads a number that may carry thousands separators. Blank or
// invalid input is 0.
func ParseNumber(raw string) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// headerIndex returns the line holding the column header: the first line
// naming a symbol column together with a date, close or oi_trend column.
// Exports often carry a title preamble above it.
func headerIndex(lines []string) int {
	for i, line := range lines {
		low := strings.ToLower(line)
		if strings.Contains(low, "symbol") &&
			(strings.Contains(low, "date") || strings.Contains(low, "close") || strings.Contains(low, "oi_trend")) {
			return i
		}
	}
	return 0
}

// splitLines splits on \n, \r\n and \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// row gives alias-based access to one CSV record.
type row struct {
	header map[string]int
	fields []string
}

// get returns the first non-blank value among the aliases.
func (r row) get(aliases []string) string {
	for _, name := range aliases {
		i, ok := r.header[name]
		if !ok || i >= len(r.fields) {
			continue
		}
		if v := strings.TrimSpace(r.fields[i]); v != "" {
			return v
		}
	}
	return ""
}

func (r row) number(aliases []string) float64 {
	return ParseNumber(r.get(aliases))
}

// toRecord converts a row; ok is false for rows without symbol or date.
func (r row) toRecord(importedAt time.Time) (entity.Record, bool) {
	symbol := strings.ToUpper(r.get(colSymbol))
	if symbol == "" {
		return entity.Record{}, false
	}
	date := ParseDate(r.get(colDate))
	if date == "" {
		return entity.Record{}, false
	}

	return entity.Record{
		Date:               date,
		Symbol:             symbol,
		StockName:          r.get(colStockName),
		LotSize:            r.number(colLotSize),
		Sector:             r.get(colSector),
		Industry:           r.get(colIndustry),
		MCapCategory:       r.get(colMCapCategory),
		Close:              r.number(colClose),
		ChangePct:          r.number(colChangePct),
		CumulativeFutureOI: r.number(colCumulativeFutureOI),
		OIChangePct:        r.number(colOIChangePct),
		VolumeTimes:        r.number(colVolumeTimes),
		DeliveryTimes:      r.number(colDeliveryTimes),
		CumulativeCallOI:   r.number(colCumulativeCallOI),
		CumulativePutOI:    r.number(colCumulativePutOI),
		PCR:                r.number(colPCR),
		PCRChange1D:        r.number(colPCRChange1D),
		OITrend:            r.get(colOITrend),
		ImportedAt:         importedAt,
		Source:             SourceCSVUpload,
	}, true
}

// ParseCSV extracts derivative records from an exported CSV. Malformed lines
// are reported in rowErrs and skipped; they never abort the parse.
func ParseCSV(text string, importedAt time.Time) (records []entity.Record, rowErrs []string) {
	lines := splitLines(strings.TrimPrefix(text, "\ufeff"))
	start := headerIndex(lines)

	cr := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	fields, err := cr.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			rowErrs = append(rowErrs, fmt.Sprintf("header: %v", err))
		}
		return nil, rowErrs
	}
	header := make(map[string]int, len(fields))
	for i, name := range fields {
		name = strings.TrimSpace(name)
		if _, dup := header[name]; !dup {
			header[name] = i
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, err.Error())
			continue
		}
		if r, ok := (row{header: header, fields: fields}).toRecord(importedAt); ok {
			records = append(records, r)
		}
	}
	return records, rowErrs
}
