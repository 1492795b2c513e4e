package telebus

import "github.com/bft-labs/telebus/internal/app"

// State represents the lifecycle state of a session.
type State int

const (
	// StateClosed means the session holds no resources.
	StateClosed State = iota
	// StateOpening means Open is connecting and building proxies.
	StateOpening
	// StateOpen means operations are accepted.
	StateOpen
	// StateClosing means Close is tearing the session down.
	StateClosing
	// StateFailed means the bus connection was lost. Call Close.
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

// StateChangeEvent describes one lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives session lifecycle events. Events are delivered
// synchronously from the goroutine causing the transition; implementations
// should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateClosed:
		return StateClosed
	case app.StateOpening:
		return StateOpening
	case app.StateOpen:
		return StateOpen
	case app.StateClosing:
		return StateClosing
	case app.StateFailed:
		return StateFailed
	default:
		return StateClosed
	}
}
