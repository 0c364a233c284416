// Package actorutil collects small helpers built on top of baselib/actor
// that don't belong in the core runtime itself.
package actorutil

import (
	"fmt"
	"sync/atomic"

	"github.com/roasbeef/actortree/internal/baselib/actor"
)

// RoundRobin fans a single typed reference out to a fixed-size group of
// sibling actors of the same message type, picking the next member on every
// Tell call in round-robin order. It is a distinct concern from
// SharedPoolDispatcher: the dispatcher controls which goroutine executes a
// given cell's mailbox, while RoundRobin controls which cell among a named
// group receives a given message.
type RoundRobin[M actor.Message] struct {
	id      string
	members []actor.TypedRef[M]
	next    atomic.Uint64
}

// PoolConfig configures a RoundRobin group spawned under sp.
type PoolConfig[M actor.Message] struct {
	// ID names the group; member actors are spawned as "ID-0", "ID-1", ...
	ID string

	// Size is the number of actors in the group.
	Size int

	// Factory builds the behavior for the idx'th member.
	Factory func(idx int) func(*actor.Context[M]) actor.Actor[M]
}

// NewRoundRobin spawns cfg.Size children under sp and returns a RoundRobin
// that fans messages out across them.
func NewRoundRobin[M actor.Message](sp actor.Spawner, cfg PoolConfig[M]) *RoundRobin[M] {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}

	rr := &RoundRobin[M]{
		id:      cfg.ID,
		members: make([]actor.TypedRef[M], cfg.Size),
	}

	for i := 0; i < cfg.Size; i++ {
		name := fmt.Sprintf("%s-%d", cfg.ID, i)
		rr.members[i] = actor.Spawn(sp, name, cfg.Factory(i))
	}

	return rr
}

// ID returns the group's identifier.
func (rr *RoundRobin[M]) ID() string {
	return rr.id
}

// Tell delivers msg to the next member in round-robin order.
func (rr *RoundRobin[M]) Tell(msg M) {
	idx := rr.next.Add(1) % uint64(len(rr.members))
	rr.members[idx].Tell(msg)
}

// Broadcast delivers msg to every member of the group. Useful for
// configuration refreshes or a coordinated shutdown signal distinct from
// stopping the group itself.
func (rr *RoundRobin[M]) Broadcast(msg M) {
	for _, m := range rr.members {
		m.Tell(msg)
	}
}

// Size returns the number of actors in the group.
func (rr *RoundRobin[M]) Size() int {
	return len(rr.members)
}

// Members returns a copy of the group's member references.
func (rr *RoundRobin[M]) Members() []actor.TypedRef[M] {
	out := make([]actor.TypedRef[M], len(rr.members))
	copy(out, rr.members)
	return out
}

// Stop sends a PoisonPill to every member of the group.
func (rr *RoundRobin[M]) Stop() {
	for _, m := range rr.members {
		m.Stop()
	}
}
