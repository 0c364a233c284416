// Command actortreed runs a long-lived actor system as a daemon: it spawns
// a configurable pool of worker actors under a supervisor and keeps the
// process alive until it receives a termination signal, at which point it
// drives a full, logged shutdown cascade.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"

	"github.com/roasbeef/actortree/internal/actorutil"
	"github.com/roasbeef/actortree/internal/baselib/actor"
	"github.com/roasbeef/actortree/internal/build"
)

func main() {
	var (
		poolSize       = flag.Int("pool-size", 4, "Number of worker actors in the shared pool")
		maxQueues      = flag.Int("max-queues", 2, "Number of executors in the shared dispatcher pool")
		logDir         = flag.String("log-dir", "", "Directory for log files (empty disables file logging)")
		maxLogFiles    = flag.Int("max-log-files", build.DefaultMaxLogFiles, "Maximum number of rotated log files to keep")
		maxLogFileSize = flag.Int("max-log-file-size", build.DefaultMaxLogFileSize, "Maximum log file size in MB before rotation")
	)
	flag.Parse()

	logDirExpanded := expandHome(*logDir)

	var logRotator *build.RotatingLogWriter
	if logDirExpanded != "" {
		logRotator = build.NewRotatingLogWriter()
		err := logRotator.InitLogRotator(&build.LogRotatorConfig{
			LogDir:         logDirExpanded,
			MaxLogFiles:    *maxLogFiles,
			MaxLogFileSize: *maxLogFileSize,
		})
		if err != nil {
			log.Printf(
				"Failed to init log rotator: %v "+
					"(continuing without file logging)", err,
			)
			logRotator = nil
		} else {
			defer logRotator.Close()
		}
	}

	var handlers []btclogv2.Handler
	handlers = append(handlers, btclogv2.NewDefaultHandler(os.Stderr))
	if logRotator != nil {
		handlers = append(handlers, btclogv2.NewDefaultHandler(logRotator))
	}

	combinedHandler := build.NewHandlerSet(handlers...)
	combinedHandler.SetLevel(btclog.LevelInfo)

	actorLogger := btclogv2.NewSLogger(combinedHandler)
	actor.UseLogger(actorLogger)

	log.Printf("actortreed starting: pool_size=%d max_queues=%d",
		*poolSize, *maxQueues)

	sys := actor.NewSystem(
		actor.WithDispatcher(actor.NewSharedPoolDispatcher(*maxQueues)),
	)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 30*time.Second,
		)
		defer cancel()

		if err := sys.Shutdown(shutdownCtx); err != nil {
			log.Printf(
				"Actor system shutdown incomplete: %v "+
					"(some goroutines may have leaked)", err,
			)
		}
	}()

	pool := actorutil.NewRoundRobin(sys, actorutil.PoolConfig[daemonMsg]{
		ID:   "worker",
		Size: *poolSize,
		Factory: func(idx int) func(*actor.Context[daemonMsg]) actor.Actor[daemonMsg] {
			return func(*actor.Context[daemonMsg]) actor.Actor[daemonMsg] {
				return &daemonWorker{idx: idx}
			}
		},
	})
	log.Printf("Worker pool started with %d members", pool.Size())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf(
			"Received %v, initiating graceful shutdown "+
				"(send again to force exit)...", sig,
		)
		cancel()

		sig = <-sigCh
		log.Printf("Received %v again, forcing immediate exit", sig)
		os.Exit(1)
	}()

	<-ctx.Done()
	log.Println("Shutting down actortreed")
}

// daemonMsg is the daemon's placeholder workload message; a real deployment
// would define its own message types per worker role.
type daemonMsg struct {
	actor.BaseMessage
}

func (daemonMsg) MessageType() string { return "actortreed.work" }

type daemonWorker struct {
	actor.BaseActor[daemonMsg]
	idx int
}

func (w *daemonWorker) Receive(ctx *actor.Context[daemonMsg], _ daemonMsg) {
	log.Printf("worker %d (%s) handled a message", w.idx, ctx.Self().Path())
}

// expandHome expands a leading "~" in path to the user's home directory.
func expandHome(path string) string {
	expanded := os.ExpandEnv(path)
	if expanded == path && len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		expanded = home + path[1:]
	}
	return expanded
}
