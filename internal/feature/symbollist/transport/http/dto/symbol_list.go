// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a tracked symbol in the API response.
type SymbolItem struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	MCapCategory string  `json:"mcap_category"`
	LotSize      float64 `json:"lot_size"`
	RecordCount  int64   `json:"record_count"`
	LatestDate   string  `json:"latest_date"`
}
