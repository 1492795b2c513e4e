package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
)

// DefaultCloseTimeout bounds how long Close waits for the dispatch loop.
const DefaultCloseTimeout = 5 * time.Second

// State represents the lifecycle state of a session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Lifecycle manages the state machine for a session.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       ports.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle manager.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateClosed,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// A closed session only moves to Opening; every other refused transition
// returns ErrInvalidTransition.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	if !allowed(oldState, newState) {
		l.mu.Unlock()
		if oldState == StateClosed {
			return domain.ErrClosed
		}
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, oldState, newState)
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Info("session state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

func allowed(from, to State) bool {
	switch from {
	case StateClosed:
		return to == StateOpening
	case StateOpening:
		return to == StateOpen || to == StateFailed || to == StateClosing
	case StateOpen:
		return to == StateClosing || to == StateFailed
	case StateClosing:
		return to == StateClosed
	case StateFailed:
		return to == StateClosing
	}
	return false
}

// Active reports whether new operations may be started.
func (l *Lifecycle) Active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateOpen
}

// CanClose reports whether Close has work to do.
func (l *Lifecycle) CanClose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateOpen || l.state == StateOpening || l.state == StateFailed
}

// SetCancel stores the cancel function for the dispatch loop.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel stops the dispatch loop.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish with a timeout.
// Returns ErrShutdownTimeout if the timeout expires.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("close timeout, abandoning dispatch loop",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
