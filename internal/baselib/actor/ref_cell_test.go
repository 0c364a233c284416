package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRefOutlivesReapedCell verifies the weak-handle invariant: a Ref kept
// around after its cell has fully reaped does not dangle, and sends through
// it are silently dropped instead of panicking or blocking.
func TestRefOutlivesReapedCell(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	ref.Stop()

	require.Eventually(t, func() bool {
		return inst.snapshot().postStopped
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return ref.handle.get() == nil
	}, time.Second, time.Millisecond)

	// Further sends must not panic and must be dropped silently.
	require.NotPanics(t, func() {
		ref.Tell(pingMsg{})
	})

	_, ok := ref.Find(".")
	require.False(t, ok)
}

func TestFindDotAndDotDot(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	parentRef := Spawn(sys, "parent", newRecorderCtor(inst))

	parentCell := parentRef.handle.get()
	childInst := &recorder{}
	childRef := Spawn[pingMsg](&Context[pingMsg]{cell: parentCell}, "child",
		newRecorderCtor(childInst))

	self, ok := childRef.Find(".")
	require.True(t, ok)
	require.Equal(t, childRef.Path().String(), self.Path().String())

	up, ok := childRef.Find("..")
	require.True(t, ok)
	require.Equal(t, "/user/parent", up.Path().String())
}

func TestRootHasNoParent(t *testing.T) {
	sys := NewSystem()
	_, ok := sys.Root().Find("..")
	require.False(t, ok)
}

func TestSystemWaitForReapedRef(t *testing.T) {
	sys := NewSystem()
	inst := &recorder{}
	ref := Spawn(sys, "worker", newRecorderCtor(inst))

	ref.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := sys.WaitFor(ctx, ref.Ref)
	require.NoError(t, err)
}
