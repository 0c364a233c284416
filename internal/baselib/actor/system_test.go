package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pingMsg is a minimal test message type.
type pingMsg struct {
	BaseMessage
	reply chan string
}

func (pingMsg) MessageType() string { return "test.ping" }

// recorder is a test actor that counts received messages and records
// lifecycle hook invocations, guarded by a mutex since hooks and Receive all
// run on the cell's own executor but tests observe them from the test
// goroutine.
type recorder struct {
	BaseActor[pingMsg]

	mu              sync.Mutex
	received        int
	preStarted      bool
	willStopped     bool
	postStopped     bool
	postStopCount   int
	terminatedKids  []Ref
	supervisorCause error
}

func (r *recorder) PreStart(*Context[pingMsg]) {
	r.mu.Lock()
	r.preStarted = true
	r.mu.Unlock()
}

func (r *recorder) Receive(_ *Context[pingMsg], msg pingMsg) {
	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	if msg.reply != nil {
		msg.reply <- "pong"
	}
}

func (r *recorder) WillStop(*Context[pingMsg]) {
	r.mu.Lock()
	r.willStopped = true
	r.mu.Unlock()
}

func (r *recorder) PostStop(*Context[pingMsg]) {
	r.mu.Lock()
	r.postStopped = true
	r.postStopCount++
	r.mu.Unlock()
}

func (r *recorder) ChildTerminated(_ *Context[pingMsg], child Ref) {
	r.mu.Lock()
	r.terminatedKids = append(r.terminatedKids, child)
	r.mu.Unlock()
}

func (r *recorder) SupervisorStrategy(_ *Context[pingMsg], cause error) {
	r.mu.Lock()
	r.supervisorCause = cause
	r.mu.Unlock()
}

// recorderSnapshot is a copyable view of recorder's observable state, taken
// under its mutex.
type recorderSnapshot struct {
	received        int
	preStarted      bool
	willStopped     bool
	postStopped     bool
	postStopCount   int
	terminatedKids  []Ref
	supervisorCause error
}

func (r *recorder) snapshot() recorderSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return recorderSnapshot{
		received:        r.received,
		preStarted:      r.preStarted,
		willStopped:     r.willStopped,
		postStopped:     r.postStopped,
		postStopCount:   r.postStopCount,
		terminatedKids:  append([]Ref(nil), r.terminatedKids...),
		supervisorCause: r.supervisorCause,
	}
}

func newRecorderCtor(inst *recorder) func(*Context[pingMsg]) Actor[pingMsg] {
	return func(*Context[pingMsg]) Actor[pingMsg] {
		return inst
	}
}

// S1: spawning a top-level actor runs PreStart before any message delivery.
func TestSpawnRunsPreStartSynchronously(t *testing.T) {
	sys := NewSystem()

	inst := &recorder{}
	ref := Spawn(sys, "greeter", newRecorderCtor(inst))

	require.True(t, inst.snapshot().preStarted)
	require.Equal(t, "/user/greeter", ref.Path().String())
}

// S2: a sent message is eventually received.
func TestTellDeliversMessage(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	reply := make(chan string, 1)
	ref.Tell(pingMsg{reply: reply})

	select {
	case got := <-reply:
		require.Equal(t, "pong", got)
	case <-time.After(time.Second):
		t.Fatal("message was never received")
	}
}

// S3: System.Find / Ref.Find resolve spawned actors by absolute path.
func TestFindResolvesSpawnedActor(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	Spawn(sys, "worker", newRecorderCtor(inst))

	found, ok := sys.Find("/user/worker")
	require.True(t, ok)
	require.Equal(t, "/user/worker", found.Path().String())

	_, ok = sys.Find("/user/does-not-exist")
	require.False(t, ok)
}

// TestFindRejectsReservedRoots verifies that only "/user" resolves to
// anything: "system" and "deadLetter" are reserved per spec.md §4.5/§6 but
// not implemented, so they must always miss rather than accidentally
// aliasing the real tree.
func TestFindRejectsReservedRoots(t *testing.T) {
	sys := NewSystem()
	Spawn(sys, "worker", newRecorderCtor(&recorder{}))

	_, ok := sys.Find("/system")
	require.False(t, ok)

	_, ok = sys.Find("/deadLetter")
	require.False(t, ok)

	found, ok := sys.Find("/user")
	require.True(t, ok)
	require.Equal(t, "/user", found.Path().String())
}

// S4: a cell's full stop cascade runs WillStop, reaps children, then
// PostStop, and notifies its parent with Terminated.
func TestPoisonPillCascadesAndReapsChild(t *testing.T) {
	sys := NewSystem()

	parentInst := &recorder{}
	parentRef := Spawn(sys, "parent", newRecorderCtor(parentInst))

	parentCell := parentRef.handle.get()
	childInst := &recorder{}
	_ = Spawn[pingMsg](&Context[pingMsg]{cell: parentCell}, "child",
		newRecorderCtor(childInst))

	parentRef.Stop()

	require.Eventually(t, func() bool {
		return parentInst.snapshot().postStopped
	}, time.Second, time.Millisecond)

	snap := parentInst.snapshot()
	require.True(t, snap.willStopped)
	require.Len(t, snap.terminatedKids, 1)
	require.True(t, childInst.snapshot().postStopped)
}

// TestStaleTerminatedDoesNotRefinalize verifies invariant I3: a cell already
// reaped (dying, childless, finalize already run) that somehow receives
// another Terminated for a child it no longer tracks tolerates the lookup
// miss without re-sending Terminated to its own parent or re-invoking
// PostStop.
func TestStaleTerminatedDoesNotRefinalize(t *testing.T) {
	sys := NewSystem()

	grandparentInst := &recorder{}
	gpRef := Spawn(sys, "grandparent", newRecorderCtor(grandparentInst))
	gpCell := gpRef.handle.get()

	parentInst := &recorder{}
	parentRef := Spawn[pingMsg](&Context[pingMsg]{cell: gpCell}, "parent",
		newRecorderCtor(parentInst))
	parentCell := parentRef.handle.get()

	parentRef.Stop()

	require.Eventually(t, func() bool {
		return parentInst.snapshot().postStopped
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return len(grandparentInst.snapshot().terminatedKids) == 1
	}, time.Second, time.Millisecond)

	// Simulate a stale/duplicate Terminated arriving for a child the parent
	// no longer tracks (it has none left). This must not re-trigger finalize.
	staleChildPath := parentCell.path.Append("ghost-child")
	parentCell.tellSystem(Terminated{
		Ref: Ref{staleChildPath, &cellHandle{path: staleChildPath}},
	})

	// Give the stray message a chance to be (mis)processed, then assert
	// nothing changed.
	require.Never(t, func() bool {
		return len(grandparentInst.snapshot().terminatedKids) > 1
	}, 50*time.Millisecond, time.Millisecond)

	require.Equal(t, 1, parentInst.snapshot().postStopCount)
}

// S5: a second PoisonPill delivered to an already-dying cell is dropped, not
// double-processed.
func TestDuplicatePoisonPillIsDropped(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	ref.Stop()
	ref.Stop()

	require.Eventually(t, func() bool {
		return inst.snapshot().postStopped
	}, time.Second, time.Millisecond)

	require.Never(t, func() bool {
		return inst.snapshot().postStopCount > 1
	}, 50*time.Millisecond, time.Millisecond)
}

// S6: System.Shutdown blocks until the whole tree, root included, has
// reaped.
func TestSystemShutdownWaitsForFullCascade(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	Spawn(sys, "worker", newRecorderCtor(inst))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := sys.Shutdown(ctx)
	require.NoError(t, err)
	require.True(t, inst.snapshot().postStopped)
}

// TestShutdownAppliesConfiguredTimeout verifies that Shutdown, given a
// context with no deadline, is bounded by Config.ShutdownTimeout rather than
// blocking forever.
func TestShutdownAppliesConfiguredTimeout(t *testing.T) {
	sys := NewSystem(WithShutdownTimeout(10 * time.Millisecond))

	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	// Wedge the cell's executor so the stop cascade can never complete in
	// time, forcing Shutdown to hit the configured deadline.
	block := make(chan struct{})
	ref.handle.get().executor.Submit(func() {
		<-block
	})
	defer close(block)

	err := sys.Shutdown(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestPoisonPillDropsQueuedMessagesOnStop verifies that a user message
// enqueued strictly after a PoisonPill (in submission order) is dropped
// rather than delivered, even though both sit in the same FIFO queue.
func TestPoisonPillDropsQueuedMessagesOnStop(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	// Block the executor momentarily so both sends queue up before either
	// runs, making the ordering deterministic.
	block := make(chan struct{})
	ref.handle.get().executor.Submit(func() {
		<-block
	})

	ref.Stop()
	ref.Tell(pingMsg{})

	close(block)

	require.Eventually(t, func() bool {
		return inst.snapshot().postStopped
	}, time.Second, time.Millisecond)

	require.Equal(t, 0, inst.snapshot().received)
}

func TestSpawnSubstitutesEmptyAndDuplicateNames(t *testing.T) {
	sys := NewSystem()

	inst1 := &recorder{}
	ref1 := Spawn(sys, "", newRecorderCtor(inst1))
	require.NotEqual(t, "/user/", ref1.Path().String())

	inst2 := &recorder{}
	refA := Spawn(sys, "dup", newRecorderCtor(inst2))

	inst3 := &recorder{}
	refB := Spawn(sys, "dup", newRecorderCtor(inst3))

	require.NotEqual(t, refA.Path().String(), refB.Path().String())
}

func TestContextParentAndSelf(t *testing.T) {
	sys := NewSystem()

	var parentPathSeen string
	var selfPathSeen string

	inst := &recorder{}
	ctor := func(ctx *Context[pingMsg]) Actor[pingMsg] {
		parentPathSeen = ctx.Parent().Path().String()
		selfPathSeen = ctx.Self().Path().String()
		return inst
	}
	Spawn(sys, "child", ctor)

	require.Equal(t, "/user", parentPathSeen)
	require.Equal(t, "/user/child", selfPathSeen)
}

func TestErrorSignalReachesSupervisorStrategy(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	cause := context.DeadlineExceeded
	ref.Ref.Tell(ErrorSignal{Cause: cause})

	require.Eventually(t, func() bool {
		return inst.snapshot().supervisorCause != nil
	}, time.Second, time.Millisecond)
}
