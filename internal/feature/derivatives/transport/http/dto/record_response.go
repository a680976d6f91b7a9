package dto

// RecordResponse は1銘柄1日分のデリバティブ分析データのレスポンスDTOです。
type RecordResponse struct {
	Date               string  `json:"date"`
	Symbol             string  `json:"symbol"`
	StockName          string  `json:"stock_name"`
	LotSize            float64 `json:"lot_size"`
	Sector             string  `json:"sector"`
	Industry           string  `json:"industry"`
	MCapCategory       string  `json:"mcap_category"`
	Close              float64 `json:"close"`
	ChangePct          float64 `json:"change_pct"`
	CumulativeFutureOI float64 `json:"cumulative_future_oi"`
	OIChangePct        float64 `json:"oi_change_pct"`
	VolumeTimes        float64 `json:"volume_times"`
	DeliveryTimes      float64 `json:"delivery_times"`
	CumulativeCallOI   float64 `json:"cumulative_call_oi"`
	CumulativePutOI    float64 `json:"cumulative_put_oi"`
	PCR                float64 `json:"pcr"`
	PCRChange1D        float64 `json:"pcr_change_1d"`
	OITrend            string  `json:"oi_trend"`
	ImportedAt         string  `json:"imported_at,omitempty"`
	Source             string  `json:"source,omitempty"`
}

// SnapshotResponse は指定日の全銘柄データです。
type SnapshotResponse struct {
	Date    string           `json:"date"`
	Records []RecordResponse `json:"records"`
}

// DatesResponse は利用可能な日付の一覧です。
type DatesResponse struct {
	Dates []string `json:"dates"`
}

// LatestDateResponse は最新日付です。
type LatestDateResponse struct {
	Date string `json:"date"`
}

// StatsResponse はデータセットの概要です。
type StatsResponse struct {
	LatestDate    string `json:"latest_date"`
	TradingDays   int    `json:"trading_days"`
	StocksTracked int    `json:"stocks_tracked"`
	TotalRecords  int64  `json:"total_records"`
}

// DateCountResponse は日付ごとのレコード数です。
type DateCountResponse struct {
	Date    string `json:"date"`
	Records int64  `json:"records"`
}

// IndustryCountResponse は業種ごとの銘柄数です。
type IndustryCountResponse struct {
	Industry string `json:"industry"`
	Stocks   int64  `json:"stocks"`
}

// IndustryBreakdownResponse は指定日の業種別内訳です。
type IndustryBreakdownResponse struct {
	Date       string                  `json:"date"`
	Industries []IndustryCountResponse `json:"industries"`
}
