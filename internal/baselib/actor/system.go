package actor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// waitForPollInterval is how often WaitFor re-checks whether a ref's cell
// has been reaped.
const waitForPollInterval = 5 * time.Millisecond

// defaultShutdownTimeout is applied by Shutdown when the caller's context
// carries no deadline of its own and the Config doesn't override it.
const defaultShutdownTimeout = 30 * time.Second

// Config controls how a System assigns executors to the cells it creates.
// The zero Config is not valid; use DefaultConfig as a starting point.
type Config struct {
	// Dispatcher is consulted once per cell, at spawn time, to obtain that
	// cell's SerialExecutor.
	Dispatcher Dispatcher

	// ShutdownTimeout overrides how long Shutdown waits for the stop
	// cascade when the caller passes a context with no deadline of its
	// own. Defaults to defaultShutdownTimeout when left unset.
	ShutdownTimeout fn.Option[time.Duration]
}

// DefaultConfig returns a Config backed by a PerCellDispatcher, giving every
// actor in the tree its own dedicated executor.
func DefaultConfig() Config {
	return Config{
		Dispatcher: NewPerCellDispatcher(),
	}
}

// Option configures a System at construction time.
type Option func(*Config)

// WithDispatcher overrides the dispatcher used to assign executors to cells.
func WithDispatcher(d Dispatcher) Option {
	return func(cfg *Config) {
		cfg.Dispatcher = d
	}
}

// WithShutdownTimeout overrides the deadline Shutdown applies when the
// caller's context has none of its own.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.ShutdownTimeout = fn.Some(d)
	}
}

// rootMessage is the (unexported) message type of the synthetic root actor
// that owns every top-level actor a caller spawns. It never receives any
// user messages itself.
type rootMessage struct{ BaseMessage }

func (rootMessage) MessageType() string { return "actor.root" }

// rootActor is the synthetic root actor's behavior: it does nothing besides
// exist as a parent, so that System.Spawn has a uniform Spawner to delegate
// to and every top-level actor has somewhere to send its Terminated
// notification.
type rootActor struct {
	BaseActor[rootMessage]
}

func (rootActor) Receive(*Context[rootMessage], rootMessage) {}

// System owns a tree of actors rooted at a single synthetic root cell. A
// System is created with NewSystem, used to Spawn top-level actors and Find
// existing ones by path, and torn down with Shutdown.
type System struct {
	dispatcher      Dispatcher
	shutdownTimeout time.Duration
	root            *cell

	shutdownOnce sync.Once
	done         chan struct{}
}

// NewSystem creates a System and starts its root cell. opts are applied over
// DefaultConfig.
func NewSystem(opts ...Option) *System {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sys := &System{
		dispatcher:      cfg.Dispatcher,
		shutdownTimeout: cfg.ShutdownTimeout.UnwrapOr(defaultShutdownTimeout),
		done:            make(chan struct{}),
	}

	handle := &cellHandle{path: userRootPath}
	root := &cell{
		path:     userRootPath,
		parent:   nil,
		system:   sys,
		children: make(map[string]*cellHandle),
		executor: sys.dispatcher.AssignQueue(),
	}
	root.ref = handle
	handle.set(root)

	ctx := &Context[rootMessage]{cell: root}
	inst := rootActor{}
	bindHooks[rootMessage](root, inst, ctx)
	inst.PreStart(ctx)

	sys.root = root

	return sys
}

// spawnCell implements Spawner: spawning directly on a System creates a
// top-level actor, i.e. a child of the synthetic root cell.
func (s *System) spawnCell() *cell {
	return s.root
}

// Root returns a reference to the system's synthetic root actor. Sending it
// a PoisonPill is equivalent to calling Shutdown, except Shutdown also waits
// for the cascade to finish.
func (s *System) Root() Ref {
	return Ref{s.root.path, s.root.ref}
}

// Find resolves an absolute path string against this system's tree. The path
// must begin with "/user"; the "system" and "deadLetter" roots spec.md
// reserves are not implemented and always resolve to nothing.
func (s *System) Find(pathStr string) (Ref, bool) {
	segs, absolute, ok := parsePathString(pathStr)
	if !ok {
		return Ref{}, false
	}
	if !absolute {
		return Ref{}, false
	}
	return s.find(segs)
}

// find resolves segments, which must begin with "user", against the root
// cell. It is the untyped entry point System.Find and Ref.Find (for absolute
// paths) both funnel through.
func (s *System) find(segments []string) (Ref, bool) {
	if len(segments) == 0 || segments[0] != "user" {
		return Ref{}, false
	}
	return s.root.find(segments[1:])
}

// signalShutdown is called by the root cell's finalize once it has no
// children left and has itself received a PoisonPill. It unblocks any
// goroutine parked in Wait or WaitFor.
func (s *System) signalShutdown() {
	s.shutdownOnce.Do(func() {
		close(s.done)
	})
}

// Wait blocks until the whole tree has finished its stop cascade (i.e. until
// Shutdown has been called and has completed), or until ctx is done,
// whichever comes first. It returns ctx.Err() in the latter case.
func (s *System) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitResult is an alias for the error Wait and WaitFor can return, kept as
// a named type so call sites reading `var res actor.WaitResult` read clearly
// as waiting on shutdown completion rather than an arbitrary error.
type WaitResult = error

// WaitFor blocks until ref's cell has sent its Terminated notification to
// its parent (i.e. until it has fully reaped), or until ctx is done.
//
// WaitFor works by polling: there is no per-ref completion channel, so it
// checks at a short, fixed interval whether ref's handle has been cleared
// by its parent's reaping. This trades a small latency tax for not having to thread
// a done-channel through every cell regardless of whether anything is ever
// waiting on it.
func (s *System) WaitFor(ctx context.Context, ref Ref) WaitResult {
	if ref.handle == nil {
		return nil
	}

	if ref.handle.get() == nil {
		return nil
	}

	ticker := time.NewTicker(waitForPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ref.handle.get() == nil {
				return nil
			}
		}
	}
}

// Shutdown begins a stop cascade at the root (equivalent to s.Root().Stop())
// and then waits for it to complete, or for ctx to be done. If ctx carries no
// deadline of its own, Shutdown applies the System's configured
// ShutdownTimeout.
func (s *System) Shutdown(ctx context.Context) error {
	s.root.tellSystem(PoisonPill{})

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	return s.Wait(ctx)
}

// String renders a brief system summary, useful in logs.
func (s *System) String() string {
	return fmt.Sprintf("<System: root=%s>", s.root.path.String())
}
