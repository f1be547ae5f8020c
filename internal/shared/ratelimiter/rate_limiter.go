package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、一括再計算スイープなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは固定ウィンドウ方式のレートリミッターです。マルチプル一括
// インポート後の全社再計算のように、大量の逐次処理がDBと外部APIを
// 飽和させないようペース調整に使います。
type RateLimiter struct {
	limit     int           // intervalあたりの上限
	interval  time.Duration // カウントをリセットする単位
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば
// ウィンドウの残り時間だけブロックします。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	// intervalを過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("rate limit reached, pausing sweep", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
