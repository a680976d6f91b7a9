package cache

import (
	"time"
)

// eodRefreshHour は日足データが更新されるインド標準時の時刻です。
const eodRefreshHour = 18

// ist はインド標準時です。tzdata に依存しないよう固定オフセットで定義します。
var ist = time.FixedZone("IST", 5*60*60+30*60)

// TimeUntilNextRefresh は now から次の日足更新時刻（IST 18:00）までの期間を返します。
func TimeUntilNextRefresh(now time.Time) time.Duration {
	now = now.In(ist)

	// 次の更新時刻を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), eodRefreshHour, 0, 0, 0, ist)

	// 今日の更新時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}

// capTTL は ttl を次の日足更新時刻までに切り詰めます。
func capTTL(ttl time.Duration, now time.Time) time.Duration {
	if until := TimeUntilNextRefresh(now); until < ttl {
		return until
	}
	return ttl
}
