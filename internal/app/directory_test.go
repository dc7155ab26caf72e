package app

import "testing"

func TestDirectoryRegisterOverwrites(t *testing.T) {
	d := NewIdentityDirectory()
	d.Register("c1", ident(t, "alice", "Ana", 1))
	d.Register("c1", ident(t, "alice", "Ana2", 2))

	id, ok := d.Lookup("c1")
	if !ok {
		t.Fatal("Lookup reported absent after Register")
	}
	if id.Nickname != "Ana2" || id.AvatarIndex != 2 {
		t.Errorf("identity = %+v, want the overwriting values", id)
	}
}

func TestDirectoryLookupAbsentIsValidState(t *testing.T) {
	d := NewIdentityDirectory()
	if _, ok := d.Lookup("unknown"); ok {
		t.Error("Lookup on unknown connection should report absent")
	}
	// Removing an absent entry is a no-op, not an error.
	d.Remove("unknown")
}

func TestDirectoryRemove(t *testing.T) {
	d := NewIdentityDirectory()
	d.Register("c1", ident(t, "alice", "", 0))
	d.Remove("c1")
	if _, ok := d.Lookup("c1"); ok {
		t.Error("identity should be gone after Remove")
	}
}
