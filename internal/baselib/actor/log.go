package actor

import "github.com/btcsuite/btclog/v2"

// log is the package-level logger. It defaults to a no-op implementation so
// the package is silent until a caller wires up a real logger via UseLogger.
var log btclog.Logger = btclog.Disabled

// UseLogger configures the package-level logger used for the warning points
// called out in the design: malformed actor names, duplicate poison pills,
// dead letters, and send-to-terminated-ref drops. Callers typically wire this
// up once at process start, e.g. via an actor.UseLogger(subLogger) call
// during daemon initialization.
func UseLogger(logger btclog.Logger) {
	log = logger
}
