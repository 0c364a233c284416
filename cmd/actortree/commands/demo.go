package commands

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
	"github.com/spf13/cobra"

	"github.com/roasbeef/actortree/internal/actorutil"
	"github.com/roasbeef/actortree/internal/baselib/actor"
	"github.com/roasbeef/actortree/internal/build"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Spawn a demo supervisor with a pool of workers and send it work",
	Long: `demo builds a small supervision tree: a root supervisor actor
with --workers round-robin worker children underneath it. It sends each
worker a ping, prints the replies, then shuts the whole tree down.`,
	RunE: runDemo,
}

// echoMsg is the demo's only user message type: a ping carrying a reply
// channel.
type echoMsg struct {
	actor.BaseMessage
	from  string
	reply chan<- string
}

func (echoMsg) MessageType() string { return "actortree.echo" }

// echoWorker replies to every echoMsg with its own path, so the demo output
// shows which worker handled which message.
type echoWorker struct {
	actor.BaseActor[echoMsg]
}

func (echoWorker) Receive(ctx *actor.Context[echoMsg], msg echoMsg) {
	msg.reply <- fmt.Sprintf("%s handled ping from %s", ctx.Self().Path(), msg.from)
}

// supervisorActor owns the worker pool and logs when a worker terminates.
type supervisorActor struct {
	actor.BaseActor[echoMsg]
	pool *actorutil.RoundRobin[echoMsg]
}

func (s *supervisorActor) PreStart(ctx *actor.Context[echoMsg]) {
	s.pool = actorutil.NewRoundRobin(ctx, actorutil.PoolConfig[echoMsg]{
		ID:   "worker",
		Size: workerCount,
		Factory: func(int) func(*actor.Context[echoMsg]) actor.Actor[echoMsg] {
			return func(*actor.Context[echoMsg]) actor.Actor[echoMsg] {
				return echoWorker{}
			}
		},
	})
}

// Receive forwards every ping to the next worker in the round-robin pool, so
// the supervisor itself never does the echoing.
func (s *supervisorActor) Receive(_ *actor.Context[echoMsg], msg echoMsg) {
	s.pool.Tell(msg)
}

func (s *supervisorActor) ChildTerminated(_ *actor.Context[echoMsg], child actor.Ref) {
	fmt.Printf("worker terminated: %s\n", child.Path())
}

func runDemo(*cobra.Command, []string) error {
	maybeEnableLogging()

	sys := actor.NewSystem()

	var supervisor *supervisorActor
	supRef := actor.Spawn(sys, "supervisor", func(*actor.Context[echoMsg]) actor.Actor[echoMsg] {
		supervisor = &supervisorActor{}
		return supervisor
	})

	var wg sync.WaitGroup
	replies := make(chan string, workerCount)

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			supRef.Tell(echoMsg{
				from:  fmt.Sprintf("caller-%d", i),
				reply: replies,
			})
		}(i)
	}

	wg.Wait()

	for i := 0; i < workerCount; i++ {
		fmt.Println(<-replies)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sys.Shutdown(ctx)
}

// maybeEnableLogging wires the actor runtime's logger to stderr at debug
// level when --verbose is set; otherwise the runtime stays silent.
func maybeEnableLogging() {
	if !verbose {
		return
	}

	handler := build.NewHandlerSet(btclogv2.NewDefaultHandler(os.Stderr))
	handler.SetLevel(btclog.LevelDebug)
	actor.UseLogger(btclogv2.NewSLogger(handler))
}
