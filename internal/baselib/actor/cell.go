package actor

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// cell is the untyped runtime record for one actor instance: it owns the
// actor's children table, lifecycle state, and system-message interpreter.
// The generic Context[M]/Actor[M] pair wraps this untyped core with a
// statically typed user-message entry point, so heterogeneous cells (a
// parent and child with unrelated message types) can still share one
// children map and one parent pointer.
type cell struct {
	path   Path
	ref    *cellHandle // this cell's own handle
	parent *cellHandle // nil only for the root
	system *System

	executor SerialExecutor

	mu        sync.Mutex
	children  map[string]*cellHandle
	dying     bool
	finalized bool

	// deliverUser and the hook closures below are bound once, at
	// construction, by bindHooks. They close over the concrete actor
	// instance and its *Context[M], letting the untyped interpreter below
	// invoke typed actor behavior without itself being generic.
	deliverUser            func(msg any)
	hookWillStop           func()
	hookPostStop           func()
	hookChildTerminated    func(child Ref)
	hookSupervisorStrategy func(cause error)
}

// bindHooks wires a concrete actor instance into an untyped cell. It is a
// free function, not a method, because cell is not generic and Go methods
// cannot introduce their own type parameters.
func bindHooks[M Message](c *cell, inst Actor[M], ctx *Context[M]) {
	c.deliverUser = func(msg any) {
		c.mu.Lock()
		dying := c.dying
		c.mu.Unlock()

		if dying {
			log.WarnS(context.Background(),
				"dropping user message, actor is stopping", nil,
				"path", c.path.String())
			return
		}

		inst.Receive(ctx, msg.(M))
	}
	c.hookWillStop = func() { inst.WillStop(ctx) }
	c.hookPostStop = func() { inst.PostStop(ctx) }
	c.hookChildTerminated = func(child Ref) { inst.ChildTerminated(ctx, child) }
	c.hookSupervisorStrategy = func(cause error) { inst.SupervisorStrategy(ctx, cause) }
}

// tellSystem submits a task that runs the system-message interpreter for
// msg. Submission itself never blocks; the task runs on this cell's
// executor in FIFO order relative to every other task already submitted to
// it (user or system).
func (c *cell) tellSystem(msg SystemMessage) {
	c.executor.Submit(func() {
		c.handleSystemMessage(msg)
	})
}

// tellUser submits a task that delivers msg to the actor's Receive hook,
// subject to the dying check performed inside deliverUser.
func (c *cell) tellUser(msg any) {
	c.executor.Submit(func() {
		c.deliverUser(msg)
	})
}

// find resolves segments against this cell, consuming one segment per
// recursive step: "." stays put, ".." climbs to the parent (or fails at the
// root), anything else looks up a child by short name.
func (c *cell) find(segments []string) (Ref, bool) {
	if len(segments) == 0 {
		return Ref{c.path, c.ref}, true
	}

	head, rest := segments[0], segments[1:]

	switch head {
	case ".":
		return c.find(rest)

	case "..":
		if c.parent == nil {
			return Ref{}, false
		}
		parentCell := c.parent.get()
		if parentCell == nil {
			return Ref{}, false
		}
		return parentCell.find(rest)

	default:
		c.mu.Lock()
		h, ok := c.children[head]
		c.mu.Unlock()

		if !ok {
			return Ref{}, false
		}

		childCell := h.get()
		if childCell == nil {
			return Ref{}, false
		}
		return childCell.find(rest)
	}
}

// parsePathString splits a path string into segments and reports whether it
// is absolute (leading "/"). A trailing "/" is stripped. An empty string is
// rejected. "/" alone parses to (nil, true, true). "." and ".." are left as
// ordinary segments for find to interpret.
func parsePathString(s string) (segments []string, absolute bool, ok bool) {
	if s == "" {
		return nil, false, false
	}

	s = strings.TrimSuffix(s, "/")
	if s == "" {
		// The original string was exactly "/".
		return nil, true, true
	}

	absolute = strings.HasPrefix(s, "/")
	trimmed := strings.TrimPrefix(s, "/")
	if trimmed == "" {
		return nil, absolute, true
	}

	return strings.Split(trimmed, "/"), absolute, true
}

// normalizeChildName substitutes a fresh unique identifier for an empty name
// or one containing a "/", per invariant I5. It reports whether a
// substitution was made.
func normalizeChildName(name string) (string, bool) {
	if name == "" || strings.Contains(name, "/") {
		return uuid.NewString(), true
	}
	return name, false
}

// deadRef builds a TypedRef whose handle was never (and will never be)
// attached to a live cell. Sends through it are silently dropped, matching
// the "never surfaced to the caller" policy for spawn requests the design
// rejects outright (a dying parent).
func deadRef[M Message](path Path) TypedRef[M] {
	return TypedRef[M]{Ref{path, &cellHandle{path: path}}}
}

// spawnChild allocates and starts a child cell of pc, running ctor to build
// the concrete actor instance. It is a free function (not a method on *cell)
// for the same reason bindHooks is: cell itself cannot be generic over the
// child's message type while also being the homogeneous type stored in
// every parent's children map.
func spawnChild[M Message](pc *cell, name string,
	ctor func(*Context[M]) Actor[M],
) TypedRef[M] {

	name, substituted := normalizeChildName(name)
	if substituted {
		log.WarnS(context.Background(),
			"malformed child name, substituting identifier", nil,
			"parent", pc.path.String(), "substituted", name)
	}

	pc.mu.Lock()
	if pc.dying {
		pc.mu.Unlock()
		log.WarnS(context.Background(),
			"spawn rejected, parent is stopping", nil,
			"parent", pc.path.String(), "name", name)
		return deadRef[M](pc.path.Append(name))
	}

	if _, exists := pc.children[name]; exists {
		old := name
		name = uuid.NewString()
		log.WarnS(context.Background(),
			"duplicate child name, substituting identifier", nil,
			"parent", pc.path.String(), "requested", old,
			"substituted", name)
	}

	childPath := pc.path.Append(name)
	handle := &cellHandle{path: childPath}
	pc.children[name] = handle
	pc.mu.Unlock()

	child := &cell{
		path:     childPath,
		parent:   pc.ref,
		system:   pc.system,
		children: make(map[string]*cellHandle),
		executor: pc.system.dispatcher.AssignQueue(),
	}
	child.ref = handle
	handle.set(child)

	ctx := &Context[M]{cell: child}
	inst := ctor(ctx)
	bindHooks(child, inst, ctx)

	inst.PreStart(ctx)

	return TypedRef[M]{Ref{childPath, handle}}
}

// handleSystemMessage runs on this cell's own SerialExecutor, so the side
// effects below (child-table mutation, poison-pill broadcast, hook
// invocation) are serialized with respect to every other task this cell has
// submitted to that executor.
func (c *cell) handleSystemMessage(msg SystemMessage) {
	switch m := msg.(type) {
	case ErrorSignal:
		c.hookSupervisorStrategy(m.Cause)

	case PoisonPill:
		c.mu.Lock()
		if c.dying {
			c.mu.Unlock()
			log.WarnS(context.Background(),
				"duplicate poison pill, dropping", nil,
				"path", c.path.String())
			return
		}
		c.dying = true
		c.mu.Unlock()

		c.hookWillStop()

		c.mu.Lock()
		kids := make([]*cellHandle, 0, len(c.children))
		for _, h := range c.children {
			kids = append(kids, h)
		}
		c.mu.Unlock()

		if len(kids) == 0 {
			c.mu.Lock()
			c.finalized = true
			c.mu.Unlock()
			c.finalize()
			return
		}

		for _, h := range kids {
			if cc := h.get(); cc != nil {
				cc.tellSystem(PoisonPill{})
			}
		}

	case Terminated:
		c.hookChildTerminated(m.Ref)

		c.mu.Lock()
		delete(c.children, m.Ref.path.LastSegment())
		dyingNow := c.dying
		emptyNow := len(c.children) == 0
		shouldFinalize := dyingNow && emptyNow && !c.finalized
		if shouldFinalize {
			c.finalized = true
		}
		c.mu.Unlock()

		if m.Ref.handle != nil {
			m.Ref.handle.clear()
		}

		// A stale or duplicate Terminated for a child already reaped finds
		// children still empty; shouldFinalize guards against re-running
		// finalize (and re-sending this cell's own Terminated upward) more
		// than once, per invariant I3.
		if shouldFinalize {
			c.finalize()
		}

	case DeadLetter:
		log.WarnS(context.Background(), "dead letter", nil,
			"path", c.path.String(),
			"original_type", m.Original.MessageType())

	default:
		log.WarnS(context.Background(), "unknown system message", nil,
			"path", c.path.String())
	}
}

// finalize is reached exactly once per cell, the moment it is both dying and
// childless: it notifies the parent (or, at the root, signals the system's
// shutdown gate), then invokes postStop. After finalize returns, the cell is
// terminal; its executor will receive no further work originating from this
// cell.
func (c *cell) finalize() {
	if c.parent != nil {
		if pc := c.parent.get(); pc != nil {
			pc.tellSystem(Terminated{Ref: Ref{c.path, c.ref}})
		}
	} else {
		c.system.signalShutdown()
	}

	c.hookPostStop()
}
