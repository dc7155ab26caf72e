package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

type memberEntry struct {
	member domain.Member
	conn   core.SignalConnection
}

// RoomRegistry owns room membership. Rooms are created lazily on first join
// and pruned the moment their member set empties; an empty room never stays
// behind in the map. Membership is keyed by connection, so re-adding the
// same connection replaces its record instead of duplicating it.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[core.ConnID]memberEntry
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomID]map[core.ConnID]memberEntry)}
}

// AddMember inserts or replaces the member record for cid, creating the room
// if it does not exist yet.
func (r *RoomRegistry) AddMember(rid domain.RoomID, cid core.ConnID, m domain.Member, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[rid]
	if !ok {
		room = make(map[core.ConnID]memberEntry)
		r.rooms[rid] = room
	}
	room[cid] = memberEntry{member: m, conn: conn}
	log.Info().Str("module", "app.rooms").Str("cid", string(cid)).Str("room", string(rid)).Str("username", m.Username).Msg("member added")
}

// RemoveMember removes and returns the prior record. The second return is
// false when the connection was not a member, which callers must treat as a
// plain no-op. Deletes the room entry when the set empties.
func (r *RoomRegistry) RemoveMember(rid domain.RoomID, cid core.ConnID) (domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[rid]
	if !ok {
		return domain.Member{}, false
	}
	entry, ok := room[cid]
	if !ok {
		return domain.Member{}, false
	}
	delete(room, cid)
	if len(room) == 0 {
		delete(r.rooms, rid)
		log.Info().Str("module", "app.rooms").Str("room", string(rid)).Msg("room pruned")
	}
	log.Info().Str("module", "app.rooms").Str("cid", string(cid)).Str("room", string(rid)).Msg("member removed")
	return entry.member, true
}

// Members returns a snapshot of the room's membership, sorted by username so
// repeated snapshots are stable. Unknown rooms yield an empty slice.
func (r *RoomRegistry) Members(rid domain.RoomID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.rooms[rid]
	out := make([]domain.Member, 0, len(room))
	for _, e := range room {
		out = append(out, e.member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *RoomRegistry) MemberCount(rid domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[rid])
}

// Has reports whether the room currently exists, i.e. has at least one member.
func (r *RoomRegistry) Has(rid domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[rid]
	return ok
}

// Count returns the number of live rooms.
func (r *RoomRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// List returns occupancy info for every live room.
func (r *RoomRegistry) List() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for rid, room := range r.rooms {
		out = append(out, core.RoomInfo{Room: rid, MemberCount: len(room)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}

// Broadcast fans a frame out to every current member of the room, the
// sender included. Delivery is non-blocking; members whose send buffer is
// full are reported in the result instead of stalling the fan-out.
func (r *RoomRegistry) Broadcast(rid domain.RoomID, f core.Frame) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := core.PublishResult{}
	for cid, e := range r.rooms[rid] {
		if err := e.conn.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.rooms").Str("room", string(rid)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// connOf exposes a member's transport to the coordinator (same package) for
// backpressure handling.
func (r *RoomRegistry) connOf(rid domain.RoomID, cid core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[rid][cid]
	if !ok {
		return nil, false
	}
	return e.conn, true
}
