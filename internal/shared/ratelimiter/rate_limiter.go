// Package ratelimiter は高コストな操作の呼び出し頻度を制限します。
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、検出器バックエンド呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Allow() bool
	WaitIfNeeded()
}

// RateLimiterは固定ウィンドウ方式で操作の頻度を制限します。
// 検出器バックエンド（Vision API / Gemini / セグメンテーションサービス）は
// 高コストなため、解析エンドポイントの呼び出しを抑制します。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	mu        sync.Mutex    // count と lastReset を保護
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

// Allow は現在のウィンドウに空きがあればカウントを消費してtrueを返します。
// 空きがなければ待たずにfalseを返します（HTTPハンドラーが429を返すために使用）。
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.resetIfExpired(time.Now())
	if rl.count >= rl.limit {
		return false
	}
	rl.count++
	return true
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// （バッチ処理など、拒否よりも待機が望ましい呼び出し元向け）
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	now := time.Now()
	rl.resetIfExpired(now)

	rl.count++
	if rl.count <= rl.limit {
		rl.mu.Unlock()
		return
	}

	sleep := rl.interval - now.Sub(rl.lastReset)
	rl.count = 1
	rl.lastReset = now.Add(sleep)
	rl.mu.Unlock()

	if sleep > 0 {
		slog.Info("rate limit hit, sleeping", "limit", rl.limit, "sleep", sleep)
		time.Sleep(sleep)
	}
}

// resetIfExpired はウィンドウ経過後にカウントをリセットします。呼び出し元がロックを保持します。
func (rl *RateLimiter) resetIfExpired(now time.Time) {
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
}
