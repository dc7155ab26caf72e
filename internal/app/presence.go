package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
	"github.com/dmelo/sala/internal/metrics"
)

// PresenceCoordinator owns the join/leave transition over the
// IdentityDirectory + RoomRegistry pair. Read pumps run one goroutine per
// connection, so the coordinator's mutex is what makes each compound
// operation (leave-then-join, resolve-stamp-fanout) atomic with respect to
// every other one. The single-room invariant depends on that: no component
// mutates the directory or the registry except through here.
type PresenceCoordinator struct {
	mu     sync.Mutex
	dir    *IdentityDirectory
	rooms  *RoomRegistry
	where  map[core.ConnID]domain.RoomID
	policy Policy
	now    func() time.Time
}

func NewPresenceCoordinator(dir *IdentityDirectory, rooms *RoomRegistry, policy Policy) *PresenceCoordinator {
	if policy == nil {
		policy = DropPolicy{}
	}
	return &PresenceCoordinator{
		dir:    dir,
		rooms:  rooms,
		where:  make(map[core.ConnID]domain.RoomID),
		policy: policy,
		now:    time.Now,
	}
}

// Join moves a connection into a room as one atomic transition: any prior
// membership is released first, the identity is re-registered wholesale, the
// member record is inserted, the room is told, and the joiner gets its own
// room snapshot. A first-ever join simply skips the leave branch.
func (p *PresenceCoordinator) Join(cid core.ConnID, rid domain.RoomID, id domain.Identity, conn core.SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.where[cid]; ok {
		prevID, _ := p.dir.Lookup(cid)
		if prev != rid || prevID != id {
			p.leaveLocked(cid)
		}
	}

	p.dir.Register(cid, id)
	p.rooms.AddMember(rid, cid, domain.NewMember(id, p.now()), conn)
	p.where[cid] = rid

	members := p.rooms.Members(rid)
	if f, ok := marshalFrame(presenceEvent(EventMemberJoined, id, members)); ok {
		p.fanoutLocked(rid, f)
	}
	if f, ok := marshalFrame(RoomStateEvent{Type: EventRoomState, Room: rid, Members: members, Count: len(members)}); ok {
		if err := conn.TrySend(f); err != nil {
			log.Warn().Err(err).Str("module", "app.presence").Str("cid", string(cid)).Msg("room state not delivered")
		}
	}

	metrics.JoinsTotal.Inc()
	metrics.ActiveRooms.Set(float64(p.rooms.Count()))
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(rid)).Str("username", id.Username).Msg("joined room")
}

// Leave releases the connection's current membership, if any. Safe to call
// twice; the second call finds no membership and does nothing.
func (p *PresenceCoordinator) Leave(cid core.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaveLocked(cid)
}

// Disconnect runs the full cleanup path for a closed transport: membership
// release plus identity removal. Idempotent like Leave.
func (p *PresenceCoordinator) Disconnect(cid core.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaveLocked(cid)
	p.dir.Remove(cid)
}

// RoomOf reports the connection's current room, if it has one.
func (p *PresenceCoordinator) RoomOf(cid core.ConnID) (domain.RoomID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rid, ok := p.where[cid]
	return rid, ok
}

// Members returns the current membership snapshot of a room.
func (p *PresenceCoordinator) Members(rid domain.RoomID) []domain.Member {
	return p.rooms.Members(rid)
}

// Rooms returns occupancy info for every live room.
func (p *PresenceCoordinator) Rooms() []core.RoomInfo {
	return p.rooms.List()
}

func (p *PresenceCoordinator) leaveLocked(cid core.ConnID) {
	rid, ok := p.where[cid]
	if !ok {
		return
	}
	delete(p.where, cid)
	m, removed := p.rooms.RemoveMember(rid, cid)
	metrics.ActiveRooms.Set(float64(p.rooms.Count()))
	if !removed {
		return
	}
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(rid)).Msg("left room")
	if !p.rooms.Has(rid) {
		// Room was pruned with the last member; no one left to notify.
		return
	}
	if f, ok := marshalFrame(presenceEvent(EventMemberLeft, m.Identity, p.rooms.Members(rid))); ok {
		p.fanoutLocked(rid, f)
	}
}

func (p *PresenceCoordinator) fanoutLocked(rid domain.RoomID, f core.Frame) {
	res := p.rooms.Broadcast(rid, f)
	if len(res.Dropped) == 0 {
		return
	}
	metrics.DroppedFramesTotal.Add(float64(len(res.Dropped)))
	for _, cid := range res.Dropped {
		switch p.policy.OnBackpressure(rid, cid) {
		case KickMember:
			conn, ok := p.rooms.connOf(rid, cid)
			p.leaveLocked(cid)
			p.dir.Remove(cid)
			if ok {
				conn.Close()
			}
			log.Warn().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(rid)).Msg("kicked slow member")
		case DropFrame, NoAction:
			log.Warn().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(rid)).Msg("frame dropped for slow member")
		}
	}
}
