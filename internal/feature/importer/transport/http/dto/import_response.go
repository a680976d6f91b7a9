package dto

// FileResult は1ファイル分の取り込み結果です。
type FileResult struct {
	Name    string   `json:"name"`
	New     int      `json:"new"`
	Updated int      `json:"updated"`
	Symbols int      `json:"symbols"`
	Errors  []string `json:"errors"`
	// Error はファイル自体が取り込めなかった場合の理由です。
	Error string `json:"error,omitempty"`
}

// ImportResponse はアップロード全体の結果です。
type ImportResponse struct {
	Files []FileResult `json:"files"`
}
