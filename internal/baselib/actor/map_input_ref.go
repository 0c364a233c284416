package actor

import "fmt"

// MapInputRef is a message-transforming wrapper around a TypedRef[Out]. It
// exposes a Tell accepting In, and forwards each message to the wrapped
// target after converting it with mapFn. This lets an actor expecting one
// message type receive traffic originating from a source that only knows
// how to produce a different (but convertible) type, without that source
// needing to know the target's real message type.
type MapInputRef[In Message, Out Message] struct {
	target TypedRef[Out]
	mapFn  func(In) Out
}

// NewMapInputRef creates a wrapper that transforms each In message with
// mapFn before forwarding it to target.
func NewMapInputRef[In Message, Out Message](
	target TypedRef[Out], mapFn func(In) Out,
) *MapInputRef[In, Out] {
	return &MapInputRef[In, Out]{
		target: target,
		mapFn:  mapFn,
	}
}

// Tell converts msg with mapFn and forwards it to the wrapped target. If the
// target is dead, the forwarded message is silently dropped, same as a
// direct TypedRef.Tell would do.
func (m *MapInputRef[In, Out]) Tell(msg In) {
	m.target.Tell(m.mapFn(msg))
}

// Path returns the wrapped target's path.
func (m *MapInputRef[In, Out]) Path() Path {
	return m.target.Path()
}

// String renders the wrapper in terms of the target it forwards to.
func (m *MapInputRef[In, Out]) String() string {
	return fmt.Sprintf("<MapInputRef -> %s>", m.target.String())
}
