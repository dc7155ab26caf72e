package app

import (
	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer was full during
// a fan-out. Delivery itself is fire-and-forget either way; the policy only
// governs what the coordinator does with the laggard afterwards.
type Policy interface {
	OnBackpressure(rid domain.RoomID, cid core.ConnID) BackpressureAction
}

// DropPolicy drops the frame for the slow member and moves on.
type DropPolicy struct{}

func (DropPolicy) OnBackpressure(domain.RoomID, core.ConnID) BackpressureAction {
	return DropFrame
}
