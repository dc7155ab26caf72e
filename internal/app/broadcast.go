package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/metrics"
)

// BroadcastRouter relays an inbound chat payload from a connection to every
// current member of its room, the sender included, so the sender's UI
// renders the same server-stamped copy everyone else sees.
type BroadcastRouter struct {
	presence *PresenceCoordinator
}

func NewBroadcastRouter(presence *PresenceCoordinator) *BroadcastRouter {
	return &BroadcastRouter{presence: presence}
}

// Relay resolves the sender's room and identity, stamps the outbound event
// and fans it out, all under the coordinator's mutex so membership cannot
// shift between resolution and delivery. A connection with no current room
// is a logged no-op: the client may transiently hold stale local state.
func (r *BroadcastRouter) Relay(cid core.ConnID, content string) bool {
	p := r.presence
	p.mu.Lock()
	defer p.mu.Unlock()

	rid, ok := p.where[cid]
	if !ok {
		log.Warn().Str("module", "app.broadcast").Str("cid", string(cid)).Msg("message from connection with no room")
		return false
	}
	id, ok := p.dir.Lookup(cid)
	if !ok {
		log.Warn().Str("module", "app.broadcast").Str("cid", string(cid)).Msg("message from connection with no identity")
		return false
	}

	f, ok := marshalFrame(ChatEvent{
		Type:        EventMessage,
		Content:     content,
		Sender:      id.Nickname,
		Username:    id.Username,
		AvatarIndex: id.AvatarIndex,
		Timestamp:   p.now(),
	})
	if !ok {
		return false
	}

	p.fanoutLocked(rid, f)
	metrics.MessagesTotal.Inc()
	return true
}
