// Package actor implements a lightweight, hierarchical actor runtime: trees
// of message-processing cells, each with private state and a serial mailbox,
// dispatched over a bounded pool of worker executors.
//
// The three load-bearing pieces are the actor cell lifecycle (creation,
// mailbox serialization, poison-pill termination, child reaping), the
// supervision tree (parent/child references and hierarchical path
// resolution), and the dispatcher, which maps many cells onto a small fixed
// set of serial execution contexts.
//
// Network transports, concrete application messages, and persistence are
// explicitly out of scope; this package only provides the cell/ref/dispatch
// machinery that a concrete actor system is built from.
package actor
