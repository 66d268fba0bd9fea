package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// Self-imposed courtesy cap, independent of the remote quota.
	softCapRequests = 30
	softCapWindow   = 60 * time.Second

	// Optimistic default until the first quota header arrives.
	defaultRemaining = 5000
)

// RateLimiter gates every outbound GitHub call. It never rejects a call,
// it only delays: first for a known quota reset when the remote budget is
// exhausted, then to keep under the rolling soft cap.
type RateLimiter struct {
	mu sync.Mutex

	remaining   int
	resetAt     time.Time
	windowCount int
	windowStart time.Time

	logger *zap.Logger

	// test seams
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewRateLimiter returns a limiter with optimistic defaults. It lives for
// the process's duration and is shared by every call of one client.
func NewRateLimiter(logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		remaining:   defaultRemaining,
		windowStart: time.Now(),
		logger:      logger,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Wait suspends the caller until a request may politely proceed, then
// counts it against the current window.
func (r *RateLimiter) Wait(ctx context.Context) {
	r.mu.Lock()

	if r.remaining == 0 && !r.resetAt.IsZero() {
		if wait := r.resetAt.Sub(r.now()); wait > 0 {
			r.mu.Unlock()
			r.logger.Info("rate limited, waiting for reset", zap.Duration("wait", wait))
			r.sleep(ctx, wait)
			r.mu.Lock()
		}
	}

	elapsed := r.now().Sub(r.windowStart)
	if elapsed < softCapWindow {
		if r.windowCount >= softCapRequests {
			wait := softCapWindow - elapsed
			r.mu.Unlock()
			r.logger.Debug("soft rate limiting", zap.Duration("wait", wait))
			r.sleep(ctx, wait)
			r.mu.Lock()
			r.windowCount = 0
			r.windowStart = r.now()
		}
	} else {
		r.windowCount = 0
		r.windowStart = r.now()
	}

	r.windowCount++
	r.mu.Unlock()
}

// UpdateFromResponse records the latest known quota from response headers.
// The update is applied in a detached goroutine so the caller that received
// the response is never blocked; governance is advisory, so a call already
// past the gate may act on pre-update state.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	remaining, err := strconv.Atoi(resp.Header.Get("x-ratelimit-remaining"))
	if err != nil {
		return
	}
	reset, resetErr := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset"), 10, 64)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.remaining = remaining
		if resetErr == nil {
			if until := reset - r.now().Unix(); until > 0 {
				r.resetAt = r.now().Add(time.Duration(until) * time.Second)
			}
		}
	}()
}

// Remaining reports the last observed remote quota.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
