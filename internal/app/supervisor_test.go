package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bft-labs/telebus/internal/adapters/fs"
	logadapter "github.com/bft-labs/telebus/internal/adapters/log"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/mocks"
)

type fakeTarget struct {
	id     string
	done   chan struct{}
	mu     sync.Mutex
	closed int
}

func newFakeTarget(id string) *fakeTarget {
	return &fakeTarget{id: id, done: make(chan struct{})}
}

func (f *fakeTarget) ID() string            { return f.id }
func (f *fakeTarget) Done() <-chan struct{} { return f.done }
func (f *fakeTarget) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeTarget) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// opener hands out targets on a channel so tests can observe each open.
type opener struct {
	mu      sync.Mutex
	n       int
	fail    int
	opened  chan *fakeTarget
	targets []*fakeTarget
}

func newOpener(fail int) *opener {
	return &opener{fail: fail, opened: make(chan *fakeTarget, 16)}
}

func (o *opener) open(ctx context.Context) (Target, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.n++
	if o.n <= o.fail {
		return nil, fmt.Errorf("attempt %d: bus not ready", o.n)
	}
	t := newFakeTarget(fmt.Sprintf("session-%d", o.n))
	o.targets = append(o.targets, t)
	o.opened <- t
	return t, nil
}

func (o *opener) next(t *testing.T) *fakeTarget {
	t.Helper()
	select {
	case tg := <-o.opened:
		return tg
	case <-time.After(2 * time.Second):
		t.Fatal("target not opened")
		return nil
	}
}

func runSupervisor(t *testing.T, s *Supervisor) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, errCh
}

func stop(t *testing.T, cancel context.CancelFunc, errCh <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestSupervisor_ReopensAfterLoss(t *testing.T) {
	o := newOpener(0)
	repo := fs.NewStatusFile(t.TempDir())
	s := NewSupervisor(SupervisorConfig{InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond},
		o.open, nil, repo, nil)
	cancel, errCh := runSupervisor(t, s)

	first := o.next(t)
	close(first.done)
	second := o.next(t)
	assert.Equal(t, "session-2", second.ID())
	assert.Equal(t, 1, first.closes())

	stop(t, cancel, errCh)
	assert.Equal(t, 1, second.closes())

	st := s.Status()
	assert.Equal(t, "Stopped", st.State)
	assert.Equal(t, 2, st.Opens)
	assert.Equal(t, 1, st.Reconnects)
	assert.Equal(t, "connection lost", st.LastError)

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st, saved)
}

func TestSupervisor_RetriesFailedOpens(t *testing.T) {
	o := newOpener(3)
	s := NewSupervisor(SupervisorConfig{InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
		o.open, nil, nil, nil)
	cancel, errCh := runSupervisor(t, s)

	tg := o.next(t)
	assert.Equal(t, "session-4", tg.ID())
	stop(t, cancel, errCh)
	assert.Equal(t, 1, s.Status().Opens)
	assert.Contains(t, s.Status().LastError, "attempt 3")
}

func TestSupervisor_ReadyFailureClosesTarget(t *testing.T) {
	o := newOpener(0)
	var mu sync.Mutex
	calls := 0
	ready := func(ctx context.Context, tg Target) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return errors.New("watch failed")
		}
		return nil
	}
	s := NewSupervisor(SupervisorConfig{InitialBackoff: time.Millisecond}, o.open, ready, nil, nil)
	cancel, errCh := runSupervisor(t, s)

	first := o.next(t)
	second := o.next(t)
	stop(t, cancel, errCh)

	assert.Equal(t, 1, first.closes())
	assert.Equal(t, 1, second.closes())
	assert.Equal(t, 1, s.Status().Opens)
}

func TestSupervisor_Reload(t *testing.T) {
	o := newOpener(0)
	reload := make(chan struct{})
	s := NewSupervisor(SupervisorConfig{Reload: reload}, o.open, nil, nil, nil)
	cancel, errCh := runSupervisor(t, s)

	first := o.next(t)
	reload <- struct{}{}
	second := o.next(t)
	stop(t, cancel, errCh)

	assert.Equal(t, 1, first.closes())
	assert.Equal(t, 1, second.closes())
	assert.Equal(t, 2, s.Status().Opens)
	assert.Zero(t, s.Status().Reconnects)
}

func TestSupervisor_StopsWhileBackingOff(t *testing.T) {
	s := NewSupervisor(SupervisorConfig{InitialBackoff: time.Hour, MaxBackoff: time.Hour},
		func(context.Context) (Target, error) { return nil, errors.New("no bus") }, nil, nil, nil)
	cancel, errCh := runSupervisor(t, s)

	time.Sleep(10 * time.Millisecond)
	stop(t, cancel, errCh)
	assert.Equal(t, "Stopped", s.Status().State)
	assert.Zero(t, s.Status().Opens)
}

func TestSupervisor_StatusRepositoryFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockStatusRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(domain.SupervisorStatus{}, errors.New("permission denied"))

	var states []string
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, st domain.SupervisorStatus) error {
			states = append(states, st.State)
			return errors.New("disk full")
		}).
		Times(2)

	logger := logadapter.NewRecorder()
	o := newOpener(0)
	s := NewSupervisor(SupervisorConfig{InitialBackoff: time.Millisecond}, o.open, nil, repo, logger)
	cancel, errCh := runSupervisor(t, s)

	tg := o.next(t)
	stop(t, cancel, errCh)

	assert.Equal(t, 1, tg.closes())
	assert.Equal(t, []string{"Open", "Stopped"}, states)
	assert.Len(t, logger.Find(logadapter.LevelWarn, "failed to load status"), 1)
	assert.Len(t, logger.Find(logadapter.LevelWarn, "failed to save status"), 2)
}
