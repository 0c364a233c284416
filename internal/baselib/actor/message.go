package actor

// BaseMessage is an embeddable helper that satisfies the unexported half of
// the Message interface. User message types embed it to become a Message
// without needing access to this package's internals.
type BaseMessage struct{}

// messageMarker implements the sealed half of Message.
func (BaseMessage) messageMarker() {}

// Message is the sealed interface for user payloads carried by a TypedRef.
// It is sealed by the unexported messageMarker method; embed BaseMessage to
// satisfy it.
type Message interface {
	messageMarker()

	// MessageType returns a routing/logging label for the message.
	MessageType() string
}

// SystemMessage is the sealed set of control messages interpreted by a
// cell's own system-message interpreter, distinct from opaque user payloads.
// It is sealed by the unexported systemMessageMarker method; the only
// implementations are the variants declared in this file.
type SystemMessage interface {
	systemMessageMarker()
}

// baseSystemMessage implements the sealed half of SystemMessage.
type baseSystemMessage struct{}

func (baseSystemMessage) systemMessageMarker() {}

// PoisonPill is the cooperative termination message. The first PoisonPill a
// cell receives begins its stop cascade; subsequent ones are dropped with a
// warning.
type PoisonPill struct {
	baseSystemMessage
}

// Terminated is the upward notification a child cell sends its parent
// exactly once, after its own children have all been reaped and it has
// received a PoisonPill.
type Terminated struct {
	baseSystemMessage

	// Ref identifies the cell that has terminated.
	Ref Ref
}

// ErrorSignal carries a self-reported actor failure into the cell's system
// interpreter, which forwards it to the actor's SupervisorStrategy hook.
// There is no implicit child-to-parent escalation: an actor that wants its
// parent to see a failure sends an ErrorSignal to ctx.Parent() explicitly.
type ErrorSignal struct {
	baseSystemMessage

	// Cause is the reported failure.
	Cause error
}

// DeadLetter wraps a message that could not be (or should not be) delivered
// to its intended recipient. Cells that receive a DeadLetter log a warning;
// nothing routes arbitrary dropped messages here automatically.
type DeadLetter struct {
	baseSystemMessage

	// Original is the undeliverable message.
	Original Message
}
