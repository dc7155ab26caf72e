package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/core"
	"github.com/dmelo/sala/internal/domain"
)

// IdentityDirectory maps a live connection to the identity it asserted at
// join time. An unjoined connection simply has no entry; callers must treat
// that as a valid state, not an error.
type IdentityDirectory struct {
	mu  sync.RWMutex
	ids map[core.ConnID]domain.Identity
}

func NewIdentityDirectory() *IdentityDirectory {
	return &IdentityDirectory{ids: make(map[core.ConnID]domain.Identity)}
}

// Register binds an identity to a connection, overwriting any prior entry.
func (d *IdentityDirectory) Register(cid core.ConnID, id domain.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[cid] = id
	log.Debug().Str("module", "app.directory").Str("cid", string(cid)).Str("username", id.Username).Msg("identity registered")
}

func (d *IdentityDirectory) Lookup(cid core.ConnID) (domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.ids[cid]
	return id, ok
}

// Remove is a no-op for an unknown connection.
func (d *IdentityDirectory) Remove(cid core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.ids, cid)
	log.Debug().Str("module", "app.directory").Str("cid", string(cid)).Msg("identity removed")
}
