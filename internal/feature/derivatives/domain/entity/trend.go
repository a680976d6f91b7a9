package entity

// OI trend values after normalisation.
const (
	TrendNewLong    = "NewLong"
	TrendNewShort   = "NewShort"
	TrendShortCover = "ShortCover"
	TrendLongCover  = "LongCover"
)

var aggressiveTrends = map[string]string{
	"AggressiveNewLong":    TrendNewLong,
	"AggressiveNewShort":   TrendNewShort,
	"AggressiveShortCover": TrendShortCover,
	"AggressiveLongCover":  TrendLongCover,
}

// NormalizeTrend strips the "Aggressive" prefix from an OI trend. Other
// values are returned as-is.
func NormalizeTrend(trend string) string {
	if base, ok := aggressiveTrends[trend]; ok {
		return base
	}
	return trend
}
