package relay

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

var validate = validator.New()

type joinPayload struct {
	Type        string `json:"type"`
	Room        string `json:"room" validate:"required,max=64"`
	Username    string `json:"username" validate:"required,max=36"`
	Nickname    string `json:"nickname" validate:"omitempty,max=36"`
	AvatarIndex int    `json:"avatar_index" validate:"gte=0,lte=4"`
}

type messagePayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	// Sender fields a client might include are deliberately not parsed;
	// attribution comes from the registered identity only.
}

func (ctl *Controller) handleJoin(cid core.ConnID, c *wsConn, data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "relay").Str("cid", string(cid)).Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("cid", string(cid)).Msg("join rejected")
		ctl.sendError(c, "invalid_join")
		return
	}

	id, err := domain.NewIdentity(p.Username, p.Nickname, p.AvatarIndex)
	if err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("cid", string(cid)).Msg("join rejected")
		ctl.sendError(c, "invalid_join")
		return
	}

	log.Info().Str("module", "relay").Str("cid", string(cid)).Str("room", p.Room).Str("username", id.Username).Msg("join")
	ctl.Presence.Join(cid, domain.RoomID(p.Room), id, c)
}

func (ctl *Controller) handleMessage(cid core.ConnID, c *wsConn, data []byte) {
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "relay").Str("cid", string(cid)).Msg("bad message payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if !c.limiter.Allow() {
		log.Warn().Str("module", "relay").Str("cid", string(cid)).Msg("message rate limit exceeded, discarding")
		return
	}
	ctl.Router.Relay(cid, p.Content)
}

// handleLeave releases the current room without closing the socket, so the
// client can join another room on the same connection.
func (ctl *Controller) handleLeave(cid core.ConnID, c *wsConn) {
	log.Info().Str("module", "relay").Str("cid", string(cid)).Msg("leave")
	ctl.Presence.Leave(cid)
	ctl.sendJSON(c, map[string]any{
		"type": "left",
	})
}

func (ctl *Controller) handlePing(c *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}
