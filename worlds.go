package bingo

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
)

// worldTable maps WorldID to *World for every world created in the process so
// that an Entity can find its owner from the id it carries. It only grows.
//
// Readers load the current snapshot without locking; registration copies the
// table under mu and publishes the new snapshot.
var worldTable struct {
	mu     sync.Mutex
	worlds atomic.Pointer[[]*World]
}

// registerWorld assigns w the next WorldID and publishes it.
func registerWorld(w *World) error {
	worldTable.mu.Lock()
	defer worldTable.mu.Unlock()
	var cur []*World
	if p := worldTable.worlds.Load(); p != nil {
		cur = *p
	}
	if len(cur) > math.MaxUint16 {
		return eris.Wrapf(ErrWorldLimit, "%d worlds registered", len(cur))
	}
	w.id = WorldID(len(cur))
	next := make([]*World, len(cur)+1, max(2*len(cur), len(cur)+1))
	copy(next, cur)
	next[len(cur)] = w
	worldTable.worlds.Store(&next)
	return nil
}

// LookupWorld returns the world registered under id.
func LookupWorld(id WorldID) (*World, error) {
	p := worldTable.worlds.Load()
	if p == nil || int(id) >= len(*p) {
		return nil, eris.Wrapf(ErrInvalidWorld, "world %d is not registered", id)
	}
	return (*p)[id], nil
}

// WorldCount returns the number of worlds registered so far.
func WorldCount() int {
	p := worldTable.worlds.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}
