package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

// Server-to-client event types. Client-to-server types are dispatched by the
// transport adapter.
const (
	EventRoomState    = "room_state"
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
	EventMessage      = "message"
)

// RoomStateEvent goes only to the connection that just joined, so a new
// client can render presence without racing the room broadcast.
type RoomStateEvent struct {
	Type    string          `json:"type"`
	Room    domain.RoomID   `json:"room"`
	Members []domain.Member `json:"members"`
	Count   int             `json:"count"`
}

// PresenceEvent announces a join or leave to a room. It carries the full
// post-transition member list so every client re-derives presence from one
// message instead of patching incrementally.
type PresenceEvent struct {
	Type        string          `json:"type"`
	Username    string          `json:"username"`
	Nickname    string          `json:"nickname"`
	AvatarIndex int             `json:"avatar_index"`
	Members     []domain.Member `json:"members"`
}

// ChatEvent is a relayed chat message. Sender fields and the timestamp are
// stamped server-side from the authoritative identity record; nothing in the
// inbound payload is trusted for attribution.
type ChatEvent struct {
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Sender      string    `json:"sender"`
	Username    string    `json:"username"`
	AvatarIndex int       `json:"avatar_index"`
	Timestamp   time.Time `json:"timestamp"`
}

func presenceEvent(typ string, id domain.Identity, members []domain.Member) PresenceEvent {
	return PresenceEvent{
		Type:        typ,
		Username:    id.Username,
		Nickname:    id.Nickname,
		AvatarIndex: id.AvatarIndex,
		Members:     members,
	}
}

func marshalFrame(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("marshal frame")
		return nil, false
	}
	return core.Frame(b), true
}
