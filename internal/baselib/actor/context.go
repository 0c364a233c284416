package actor

// Spawner is the sealed capability to create a child cell. System and
// *Context[M] both implement it, which is how Spawn works uniformly at the
// root of a tree and from inside a running actor. It is sealed by the
// unexported spawnCell method so no type outside this package can fabricate
// a Spawner and bypass the normal spawn bookkeeping (name normalization,
// dying checks, dispatcher assignment).
type Spawner interface {
	spawnCell() *cell
}

// Context is the typed handle an actor of message type M uses to interact
// with its own cell: sending itself messages is never needed (Receive
// already owns the message), but addressing its parent, finding siblings,
// and spawning children all go through here.
//
// Context is not safe to retain past the Actor hook call it was passed to
// and use from another goroutine concurrently with that hook running, though
// the Ref and TypedRef values it returns are safe to retain and share
// freely.
type Context[M Message] struct {
	cell *cell
}

// spawnCell implements Spawner.
func (c *Context[M]) spawnCell() *cell {
	return c.cell
}

// Self returns a typed reference to the actor's own cell.
func (c *Context[M]) Self() TypedRef[M] {
	return TypedRef[M]{Ref{c.cell.path, c.cell.ref}}
}

// Parent returns an untyped reference to the actor's parent. It returns the
// zero Ref (a dead reference) for the root actor, which has no parent.
func (c *Context[M]) Parent() Ref {
	if c.cell.parent == nil {
		return Ref{}
	}
	return Ref{c.cell.parent.path, c.cell.parent}
}

// Find resolves pathStr relative to this actor's own cell, following the
// same "." / ".." / name segment rules as Ref.Find.
func (c *Context[M]) Find(pathStr string) (Ref, bool) {
	return Ref{c.cell.path, c.cell.ref}.Find(pathStr)
}

// Spawn creates a new child actor of message type C under sp (either a
// System, to create a top-level actor, or a *Context[M], to create a child
// of the currently running actor). name identifies the child among its
// siblings; an empty or "/"-containing name is replaced with a generated
// identifier, and a name colliding with an existing sibling is likewise
// replaced, per invariant I5.
//
// Spawn is a package-level function, not a method, because Go does not allow
// a method to introduce type parameters beyond those of its receiver.
func Spawn[C Message](sp Spawner, name string, ctor func(*Context[C]) Actor[C]) TypedRef[C] {
	return spawnChild(sp.spawnCell(), name, ctor)
}
