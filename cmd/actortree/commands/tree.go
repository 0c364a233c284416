package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roasbeef/actortree/internal/baselib/actor"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Spawn a small nested tree and print every resolvable path",
	Long: `tree spawns a root actor with two children, one of which spawns
its own grandchild on start, then resolves and prints each path from the
system root to demonstrate absolute address resolution.`,
	RunE: runTree,
}

type noopMsg struct{ actor.BaseMessage }

func (noopMsg) MessageType() string { return "actortree.noop" }

type leafActor struct {
	actor.BaseActor[noopMsg]
}

func (leafActor) Receive(*actor.Context[noopMsg], noopMsg) {}

func newLeaf(*actor.Context[noopMsg]) actor.Actor[noopMsg] {
	return leafActor{}
}

// branchActor spawns one grandchild named "grandchild" as soon as it starts,
// demonstrating Spawn called from inside a running actor rather than at the
// system root.
type branchActor struct {
	actor.BaseActor[noopMsg]
}

func (branchActor) PreStart(ctx *actor.Context[noopMsg]) {
	actor.Spawn(ctx, "grandchild", newLeaf)
}

func (branchActor) Receive(*actor.Context[noopMsg], noopMsg) {}

func newBranch(*actor.Context[noopMsg]) actor.Actor[noopMsg] {
	return branchActor{}
}

func runTree(*cobra.Command, []string) error {
	sys := actor.NewSystem()

	actor.Spawn(sys, "a", newBranch)
	actor.Spawn(sys, "b", newLeaf)

	for _, p := range []string{"/user/a", "/user/a/grandchild", "/user/b"} {
		if ref, ok := sys.Find(p); ok {
			fmt.Println(ref.Path())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return sys.Shutdown(ctx)
}
