package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

// fakeConn records every frame delivered to it. Setting full makes TrySend
// report backpressure, mimicking a client whose send buffer never drains.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.full {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// events decodes everything the connection received so far.
func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var ev map[string]any
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatalf("undecodable frame %q: %v", f, err)
		}
		out = append(out, ev)
	}
	return out
}

func (c *fakeConn) eventsOfType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ev := range c.events(t) {
		if ev["type"] == typ {
			out = append(out, ev)
		}
	}
	return out
}

func newTestCoordinator() (*PresenceCoordinator, *BroadcastRouter) {
	p := NewPresenceCoordinator(NewIdentityDirectory(), NewRoomRegistry(), DropPolicy{})
	return p, NewBroadcastRouter(p)
}

func ident(t *testing.T, username, nickname string, avatar int) domain.Identity {
	t.Helper()
	id, err := domain.NewIdentity(username, nickname, avatar)
	if err != nil {
		t.Fatalf("NewIdentity(%q): %v", username, err)
	}
	return id
}
