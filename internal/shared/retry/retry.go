// Package retry はリトライ回数とバックオフ間隔を明示的なポリシーとして扱います。
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy は一時的な失敗に対するリトライ方針です。
type Policy struct {
	MaxAttempts    int           // 初回を含む最大試行回数
	InitialBackoff time.Duration // 1回目の失敗後の待機時間
	MaxBackoff     time.Duration // 待機時間の上限
	Multiplier     float64       // 試行ごとの待機時間の倍率
}

// DefaultPolicy はデータベース接続用のデフォルトポリシーを返します。
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// ErrExhausted は全ての試行が失敗したことを示します。
var ErrExhausted = errors.New("retry attempts exhausted")

// Attempts は少なくとも1を返します。
func (p Policy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Backoff は attempt 回目（1始まり）の失敗後に待機する時間を返します。
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.InitialBackoff <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialBackoff)
	for i := 1; i < attempt; i++ {
		d *= mult
		if p.MaxBackoff > 0 && d >= float64(p.MaxBackoff) {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && time.Duration(d) > p.MaxBackoff {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// Do は fn が成功するか、retryable が false を返すか、試行回数を使い切るまで fn を呼び出します。
// 使い切った場合は ErrExhausted と最後のエラーの両方をラップして返します。
// ctx がキャンセルされた場合は待機を中断し、最後のエラーを返します。
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context, attempt int) error) error {
	var last error
	max := p.Attempts()
	for attempt := 1; attempt <= max; attempt++ {
		last = fn(ctx, attempt)
		if last == nil {
			return nil
		}
		if retryable != nil && !retryable(last) {
			return last
		}
		if attempt == max {
			break
		}

		wait := p.Backoff(attempt)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, max, last)
}
