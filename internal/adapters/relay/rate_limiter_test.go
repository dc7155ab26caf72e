package relay

import (
	"testing"
	"time"
)

func TestMessageLimiterAllowsUpToBurst(t *testing.T) {
	rl := newMessageLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("call beyond the burst should be denied")
	}
}

func TestMessageLimiterWindowSlides(t *testing.T) {
	rl := newMessageLimiter(2, 50*time.Millisecond)
	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Fatal("limit should be hit")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow() {
		t.Error("attempts outside the window should no longer count")
	}
}
