package relay

import (
	"sync"
	"time"
)

// messageLimiter is a sliding-window limiter for one connection's inbound
// chat messages. Presence frames (join/leave/ping) are not counted.
type messageLimiter struct {
	mu       sync.Mutex
	history  []time.Time
	limit    int
	interval time.Duration
}

func newMessageLimiter(limit int, interval time.Duration) *messageLimiter {
	return &messageLimiter{limit: limit, interval: interval}
}

func (rl *messageLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	fresh := make([]time.Time, 0, len(rl.history))
	for _, t := range rl.history {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history = fresh
		return false
	}

	rl.history = append(fresh, now)
	return true
}
