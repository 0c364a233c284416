package actor

// Actor is the behavior a user implements for a given message type M. The
// runtime invokes PreStart once, Receive once per delivered user message,
// WillStop once at the start of a stop cascade, ChildTerminated once per
// reaped child, SupervisorStrategy once per ErrorSignal received, and
// PostStop exactly once, after the cell has no children left and is about to
// be reaped itself.
//
// Embed BaseActor[M] to pick up no-op defaults for every hook but Receive.
type Actor[M Message] interface {
	// PreStart runs synchronously as part of spawning the actor, before any
	// message (user or system) can be delivered to it.
	PreStart(ctx *Context[M])

	// Receive handles one user message.
	Receive(ctx *Context[M], msg M)

	// WillStop runs once a PoisonPill has been accepted, before it is
	// cascaded to any children.
	WillStop(ctx *Context[M])

	// ChildTerminated runs once per child that has fully reaped, in
	// whatever order Terminated notifications arrive.
	ChildTerminated(ctx *Context[M], child Ref)

	// SupervisorStrategy runs when this actor receives an ErrorSignal,
	// which only ever happens if another actor explicitly addresses one to
	// it. There is no implicit escalation from children.
	SupervisorStrategy(ctx *Context[M], cause error)

	// PostStop runs once, after WillStop and after every child (if any) has
	// sent its Terminated notification. No further hooks run after this.
	PostStop(ctx *Context[M])
}

// BaseActor supplies no-op defaults for every Actor hook except Receive,
// which remains the embedder's responsibility to implement. Most actors only
// care about one or two hooks; embedding BaseActor keeps the rest out of the
// way.
type BaseActor[M Message] struct{}

// PreStart is a no-op default.
func (BaseActor[M]) PreStart(*Context[M]) {}

// WillStop is a no-op default.
func (BaseActor[M]) WillStop(*Context[M]) {}

// ChildTerminated is a no-op default.
func (BaseActor[M]) ChildTerminated(*Context[M], Ref) {}

// SupervisorStrategy is a no-op default.
func (BaseActor[M]) SupervisorStrategy(*Context[M], error) {}

// PostStop is a no-op default.
func (BaseActor[M]) PostStop(*Context[M]) {}
