package domain

import "time"

// RoomID is the application-level room key. The relay does not validate it
// against any catalog; any non-empty identifier names a room and creates it
// on demand.
type RoomID string

// StatusOnline is the only presence status a connected member can have.
const StatusOnline = "online"

// Member is one connection's presence record inside a single room.
// No transport or lifecycle logic here.
type Member struct {
	Identity
	Status   string    `json:"status"`
	LastSeen time.Time `json:"last_seen"`
}

// NewMember stamps a freshly joined member as online.
func NewMember(id Identity, joined time.Time) Member {
	return Member{Identity: id, Status: StatusOnline, LastSeen: joined}
}
