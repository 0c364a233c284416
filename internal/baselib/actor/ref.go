package actor

import (
	"context"
	"fmt"
	"sync"
)

// cellHandle is the weak, nullable link from a Ref to its Cell. Holding a
// handle does not keep the cell alive: a parent's children map is the only
// strong owner of a child cell. Once a cell is reaped, its handle's c field
// is cleared, so any Ref still pointing at the handle safely becomes inert
// rather than dangling.
type cellHandle struct {
	// path is immutable and survives the cell being reaped, so a Ref can
	// still be displayed or compared after its cell is gone.
	path Path

	mu sync.RWMutex
	c  *cell
}

func (h *cellHandle) get() *cell {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.c
}

func (h *cellHandle) set(c *cell) {
	h.mu.Lock()
	h.c = c
	h.mu.Unlock()
}

func (h *cellHandle) clear() {
	h.mu.Lock()
	h.c = nil
	h.mu.Unlock()
}

// Ref is a handle to a cell by path. It forwards system messages into the
// cell's mailbox and may safely outlive the cell it was issued for: once the
// cell stops, the link is nulled and further sends are silently dropped.
//
// All Ref operations are safe to call from any goroutine; they ultimately
// hand off work to a SerialExecutor.
type Ref struct {
	path   Path
	handle *cellHandle
}

// Path returns the actor path this reference addresses.
func (r Ref) Path() Path {
	return r.path
}

// Tell enqueues a system message onto the target cell's mailbox. If the
// cell's link is already absent (the cell has been reaped), the message is
// silently dropped and logged at debug level.
func (r Ref) Tell(msg SystemMessage) {
	if r.handle == nil {
		return
	}

	c := r.handle.get()
	if c == nil {
		log.DebugS(context.Background(), "dropping message, ref is dead",
			"path", r.path.String())
		return
	}

	c.tellSystem(msg)
}

// Stop sends a PoisonPill to the target cell. It is a no-op on an already
// stopped (or never-alive) cell.
func (r Ref) Stop() {
	r.Tell(PoisonPill{})
}

// Find resolves pathStr relative to (or, if absolute, independent of) this
// ref's cell, exactly as cell-local address resolution would. It reports
// false if the ref is dead, the path string is malformed, or no actor exists
// at the resolved path.
func (r Ref) Find(pathStr string) (Ref, bool) {
	if r.handle == nil {
		return Ref{}, false
	}

	c := r.handle.get()
	if c == nil {
		return Ref{}, false
	}

	segs, absolute, ok := parsePathString(pathStr)
	if !ok {
		return Ref{}, false
	}

	if absolute {
		if c.system == nil {
			return Ref{}, false
		}
		return c.system.find(segs)
	}

	return c.find(segs)
}

// String renders the reference as "<Ref: /a/b>".
func (r Ref) String() string {
	return fmt.Sprintf("<Ref: %s>", r.path.String())
}

// TypedRef narrows the accepted user-message type to M at the call site. It
// embeds Ref, so Stop, Find, Path, and String are all available unchanged;
// Tell is redefined here to take M instead of a SystemMessage.
type TypedRef[M Message] struct {
	Ref
}

// Tell enqueues a user message onto the target cell's mailbox. If the
// cell's link is already absent, or the cell is stopping, the message is
// dropped (see Cell's dying invariant).
func (r TypedRef[M]) Tell(msg M) {
	if r.handle == nil {
		return
	}

	c := r.handle.get()
	if c == nil {
		return
	}

	c.tellUser(msg)
}
