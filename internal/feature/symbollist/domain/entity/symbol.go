// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol is a tracked stock as recorded in the per-symbol summary: its
// latest metadata plus how much history is stored for it.
type Symbol struct {
	Code         string
	Name         string
	Sector       string
	Industry     string
	MCapCategory string
	LotSize      float64
	RecordCount  int64
	LatestDate   string
}
