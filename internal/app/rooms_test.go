package app

import (
	"testing"
	"time"

	"github.com/dmelo/sala/internal/domain"
)

func member(t *testing.T, username, nickname string) domain.Member {
	t.Helper()
	return domain.NewMember(ident(t, username, nickname, 0), time.Now())
}

func TestAddMemberReplacesByConnection(t *testing.T) {
	r := NewRoomRegistry()
	r.AddMember("42", "c1", member(t, "alice", "Ana"), &fakeConn{})
	r.AddMember("42", "c1", member(t, "alice", "Ana2"), &fakeConn{})

	members := r.Members("42")
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1 (re-add must replace, not duplicate)", len(members))
	}
	if members[0].Nickname != "Ana2" {
		t.Errorf("nickname = %q, want Ana2", members[0].Nickname)
	}
}

func TestRemoveMemberReturnsPriorRecord(t *testing.T) {
	r := NewRoomRegistry()
	r.AddMember("42", "c1", member(t, "alice", ""), &fakeConn{})

	m, ok := r.RemoveMember("42", "c1")
	if !ok {
		t.Fatal("RemoveMember reported absent for a present member")
	}
	if m.Username != "alice" {
		t.Errorf("removed member username = %q, want alice", m.Username)
	}

	if _, ok := r.RemoveMember("42", "c1"); ok {
		t.Error("second RemoveMember should report absent")
	}
	if _, ok := r.RemoveMember("nope", "c1"); ok {
		t.Error("RemoveMember on unknown room should report absent")
	}
}

func TestEmptyRoomIsDeletedNotKeptEmpty(t *testing.T) {
	r := NewRoomRegistry()
	r.AddMember("42", "c1", member(t, "alice", ""), &fakeConn{})
	r.RemoveMember("42", "c1")

	if r.Has("42") {
		t.Error("room should be deleted once its member set empties")
	}
	if r.Count() != 0 {
		t.Errorf("Count = %d, want 0", r.Count())
	}
}

func TestMembersOfUnknownRoomIsEmptyNotError(t *testing.T) {
	r := NewRoomRegistry()
	if got := r.Members("missing"); len(got) != 0 {
		t.Errorf("Members on unknown room returned %d entries, want 0", len(got))
	}
	if r.MemberCount("missing") != 0 {
		t.Error("MemberCount on unknown room should be 0")
	}
}

func TestBroadcastReportsBackpressure(t *testing.T) {
	r := NewRoomRegistry()
	ok1, full := &fakeConn{}, &fakeConn{full: true}
	r.AddMember("42", "c1", member(t, "alice", ""), ok1)
	r.AddMember("42", "c2", member(t, "bob", ""), full)

	res := r.Broadcast("42", []byte(`{"type":"message"}`))

	if res.SentTo != 1 {
		t.Errorf("SentTo = %d, want 1", res.SentTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "c2" {
		t.Errorf("Dropped = %v, want [c2]", res.Dropped)
	}
	if len(ok1.frames) != 1 {
		t.Errorf("healthy member received %d frames, want 1", len(ok1.frames))
	}
}
