package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func TestNewLifecycle(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	if l == nil {
		t.Fatal("NewLifecycle returned nil")
	}
	if l.State() != StateClosed {
		t.Errorf("initial state = %v, want StateClosed", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "Closed"},
		{StateOpening, "Opening"},
		{StateOpen, "Open"},
		{StateClosing, "Closing"},
		{StateFailed, "Failed"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_TransitionTo_ValidTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     State
		to       State
		wantErr  bool
	}{
		{"closed to opening", StateClosed, StateOpening, false},
		{"opening to open", StateOpening, StateOpen, false},
		{"opening to closing", StateOpening, StateClosing, false}, // open aborted
		{"opening to failed", StateOpening, StateFailed, false},
		{"open to closing", StateOpen, StateClosing, false},
		{"open to failed", StateOpen, StateFailed, false},
		{"closing to closed", StateClosing, StateClosed, false},
		{"failed to closing", StateFailed, StateClosing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")

			if (err != nil) != tt.wantErr {
				t.Errorf("TransitionTo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && l.State() != tt.to {
				t.Errorf("state = %v after transition, want %v", l.State(), tt.to)
			}
		})
	}
}

func TestLifecycle_TransitionTo_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr error
	}{
		{"closed to open", StateClosed, StateOpen, domain.ErrClosed},
		{"closed to closing", StateClosed, StateClosing, domain.ErrClosed},
		{"opening to closed", StateOpening, StateClosed, domain.ErrInvalidTransition},
		{"open to opening", StateOpen, StateOpening, domain.ErrInvalidTransition},
		{"open to closed", StateOpen, StateClosed, domain.ErrInvalidTransition},
		{"closing to open", StateClosing, StateOpen, domain.ErrInvalidTransition},
		{"closing to failed", StateClosing, StateFailed, domain.ErrInvalidTransition},
		{"failed to open", StateFailed, StateOpen, domain.ErrInvalidTransition},
		{"failed to closed", StateFailed, StateClosed, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.from

			err := l.TransitionTo(tt.to, "test")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			// State should not change on invalid transition
			if l.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition, want %v", l.State(), tt.from)
			}
		})
	}
}

func TestLifecycle_TransitionTo_EmitsEvents(t *testing.T) {
	emitter := &mockEmitter{}
	l := NewLifecycle(&mockLogger{}, emitter)

	_ = l.TransitionTo(StateOpening, "open test")
	_ = l.TransitionTo(StateOpen, "connected")

	events := emitter.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	if events[0].previous != StateClosed || events[0].current != StateOpening {
		t.Errorf("event 0: got %v->%v, want Closed->Opening", events[0].previous, events[0].current)
	}
	if events[1].previous != StateOpening || events[1].current != StateOpen {
		t.Errorf("event 1: got %v->%v, want Opening->Open", events[1].previous, events[1].current)
	}
	if events[1].reason != "connected" {
		t.Errorf("event 1 reason = %q", events[1].reason)
	}
}

func TestLifecycle_Active(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateClosed, false},
		{StateOpening, false},
		{StateOpen, true},
		{StateClosing, false},
		{StateFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			got := l.Active()
			if got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_CanClose(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateClosed, false},
		{StateOpening, true},
		{StateOpen, true},
		{StateClosing, false},
		{StateFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			l := NewLifecycle(&mockLogger{}, nil)
			l.state = tt.state

			got := l.CanClose()
			if got != tt.want {
				t.Errorf("CanClose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_SetCancel_And_Cancel(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	l.SetCancel(cancel)

	// Context should not be canceled yet
	select {
	case <-ctx.Done():
		t.Error("context should not be canceled before Cancel()")
	default:
	}

	l.Cancel()

	// Context should be canceled now
	select {
	case <-ctx.Done():
		// Expected
	default:
		t.Error("context should be canceled after Cancel()")
	}
}

func TestLifecycle_Cancel_NilSafe(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	// Should not panic when cancel is nil
	l.Cancel()
}

func TestLifecycle_WorkerTracking(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	// Start some workers
	for i := 0; i < 3; i++ {
		l.AddWorker()
	}

	// Workers complete
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			l.WorkerDone()
		}
	}()

	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Expected
	case <-time.After(time.Second):
		t.Error("workers did not complete in time")
	}
}

func TestLifecycle_WaitWithTimeout_Success(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	l.AddWorker()

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.WorkerDone()
	}()

	err := l.WaitWithTimeout(time.Second)
	if err != nil {
		t.Errorf("WaitWithTimeout() = %v, want nil", err)
	}
}

func TestLifecycle_WaitWithTimeout_Timeout(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	l.AddWorker()
	// Never call WorkerDone

	err := l.WaitWithTimeout(10 * time.Millisecond)
	if !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}

	// Clean up
	l.WorkerDone()
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := NewLifecycle(&mockLogger{}, nil)

	var wg sync.WaitGroup

	// Concurrent state reads
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = l.State()
				_ = l.Active()
				_ = l.CanClose()
			}
		}()
	}

	// Concurrent transitions (some will fail, which is expected)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.TransitionTo(StateOpening, "test")
			_ = l.TransitionTo(StateOpen, "test")
		}()
	}

	wg.Wait()
}
