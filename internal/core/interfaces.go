package core

import "github.com/dmelo/sala/internal/domain"

// Frame is a marshaled wire event ready for delivery.
type Frame []byte

// ConnID identifies one live transport session. It is allocated at upgrade
// time and never reused; a reconnect is always a brand-new ConnID that must
// re-join explicitly.
type ConnID string

// SignalConnection abstracts the outbound half of a member's transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the router.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// RoomInfo is a read-only view for the rooms API (no transport fields).
type RoomInfo struct {
	Room        domain.RoomID `json:"room"`
	MemberCount int           `json:"member_count"`
}
