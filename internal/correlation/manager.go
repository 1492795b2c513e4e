package correlation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

// Default limits.
const (
	DefaultMaxPending = 256
	DefaultMaxWatches = 64
)

// Config holds the manager limits.
type Config struct {
	// Service is the bus name signals are matched against.
	Service string
	// MaxPending caps in-flight single-shot operations.
	MaxPending int
	// MaxWatches caps active signal subscriptions.
	MaxWatches int
}

// Manager owns the pending-operation table of one session and runs its
// dispatch loop. Every completion callback and signal delivery runs on the
// goroutine executing Run.
type Manager struct {
	conn    ports.Conn
	cfg     Config
	logger  ports.Logger
	metrics ports.Metrics
	q       *queue

	mu        sync.Mutex
	closed    bool
	nextCall  Handle
	nextWatch WatchID
	calls     map[Handle]*call
	watches   map[WatchID]*watch
}

type call struct {
	handle  Handle
	op      domain.Op
	slot    domain.Slot
	args    [2]int
	started time.Time
	state   atomic.Int32
	finish  func(ports.Reply)
}

type watch struct {
	id         WatchID
	req        WatchRequest
	sub        uint64
	state      atomic.Int32
	deliveries atomic.Uint64
	deliver    func(ports.Signal)
}

// New creates a manager issuing subscriptions on conn. A nil logger or
// metrics discards output.
func New(conn ports.Conn, cfg Config, logger ports.Logger, metrics ports.Metrics) *Manager {
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = DefaultMaxPending
	}
	if cfg.MaxWatches <= 0 {
		cfg.MaxWatches = DefaultMaxWatches
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Manager{
		conn:    conn,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		q:       newQueue(),
		calls:   make(map[Handle]*call),
		watches: make(map[WatchID]*watch),
	}
}

// Run executes queued completions until Close is called or ctx ends.
// Work queued before Close is still run; completions for dropped
// correlations are discarded there.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.q.ready:
		}
		items, open := m.q.drain()
		for _, fn := range items {
			fn()
		}
		if !open {
			return nil
		}
	}
}

// Close drops every in-flight call without invoking its callback, removes
// every signal subscription and stops the dispatch loop. Completions that
// arrive afterwards are discarded.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrClosed
	}
	m.closed = true
	calls, watches := m.calls, m.watches
	m.calls = make(map[Handle]*call)
	m.watches = make(map[WatchID]*watch)
	m.mu.Unlock()

	for _, w := range watches {
		m.unsubscribe(w)
	}
	for _, c := range calls {
		c.state.Store(int32(StateFreed))
		m.logger.Debug("dropping in-flight call on close",
			ports.String("op", c.op.String()),
			ports.Int("slot", int(c.slot)),
			ports.Uint64("handle", uint64(c.handle)),
		)
	}
	if len(calls) > 0 || len(watches) > 0 {
		m.logger.Info("correlations released on close",
			ports.Int("calls", len(calls)),
			ports.Int("watches", len(watches)),
		)
	}

	m.q.close()
	m.metrics.Pending(0, 0)
	return nil
}

// Closed reports whether Close has run.
func (m *Manager) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Pending returns the number of in-flight single-shot operations.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Watches returns the number of active subscriptions.
func (m *Manager) Watches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watches)
}

// Barrier waits until everything queued before it has been dispatched.
// It must not be called from a callback.
func (m *Manager) Barrier(ctx context.Context) error {
	ch := make(chan struct{})
	if !m.q.push(func() { close(ch) }) {
		return domain.ErrClosed
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister cancels a subscription. Deliveries already queued for it are
// ignored.
func (m *Manager) Unregister(id WatchID) error {
	if id == 0 {
		return fmt.Errorf("%w: watch id 0", domain.ErrInvalidArgument)
	}
	m.mu.Lock()
	w, ok := m.watches[id]
	if ok {
		delete(m.watches, id)
	}
	calls, watches := len(m.calls), len(m.watches)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: unknown watch %d", domain.ErrInvalidArgument, id)
	}
	m.unsubscribe(w)
	m.metrics.Pending(calls, watches)
	return nil
}

func (m *Manager) unsubscribe(w *watch) {
	m.mu.Lock()
	sub := w.sub
	m.mu.Unlock()
	// Zero means Watch has not stored the subscription yet; it sees the
	// watch gone and unwatches itself.
	if sub == 0 {
		m.setWatchState(w, StateFreed)
		return
	}
	m.setWatchState(w, StateUnsubscribed)
	if err := m.conn.Unwatch(sub); err != nil {
		m.logger.Warn("unwatch failed",
			ports.String("op", w.req.Op.String()),
			ports.Uint64("watch", uint64(w.id)),
			ports.Err(err),
		)
	}
	m.setWatchState(w, StateFreed)
}

// admit inserts c into the pending table.
func (m *Manager) admit(c *call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrClosed
	}
	if len(m.calls) >= m.cfg.MaxPending {
		return fmt.Errorf("%w: %d operations pending", domain.ErrNoMemory, len(m.calls))
	}
	m.nextCall++
	c.handle = m.nextCall
	c.started = time.Now()
	m.calls[c.handle] = c
	return nil
}

// withdraw removes a call whose issue failed.
func (m *Manager) withdraw(h Handle) {
	m.mu.Lock()
	delete(m.calls, h)
	m.mu.Unlock()
}

func (m *Manager) admitWatch(w *watch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.ErrClosed
	}
	if len(m.watches) >= m.cfg.MaxWatches {
		return fmt.Errorf("%w: %d watches active", domain.ErrNoMemory, len(m.watches))
	}
	m.nextWatch++
	w.id = m.nextWatch
	m.watches[w.id] = w
	return nil
}

func (m *Manager) dropWatch(id WatchID) {
	m.mu.Lock()
	delete(m.watches, id)
	m.mu.Unlock()
}

// post queues fn on the dispatch loop, or discards it after Close.
func (m *Manager) post(op domain.Op, fn func()) {
	if !m.q.push(fn) {
		m.discard(op, "session closed")
	}
}

// complete runs on the loop. The table lookup and delete happen under the
// lock so a call is finished at most once.
func (m *Manager) complete(op domain.Op, h Handle, r ports.Reply) {
	m.mu.Lock()
	c, ok := m.calls[h]
	if ok {
		delete(m.calls, h)
	}
	calls, watches := len(m.calls), len(m.watches)
	m.mu.Unlock()

	if !ok {
		m.discard(op, "no pending correlation")
		return
	}
	c.finish(r)
	m.metrics.Pending(calls, watches)
}

func (m *Manager) signal(op domain.Op, id WatchID, sig ports.Signal) {
	m.mu.Lock()
	w, ok := m.watches[id]
	m.mu.Unlock()
	if !ok {
		m.discard(op, "no active watch")
		return
	}
	w.deliver(sig)
}

func (m *Manager) discard(op domain.Op, reason string) {
	m.logger.Debug("discarding late completion",
		ports.String("op", op.String()),
		ports.String("reason", reason),
	)
	m.metrics.Discarded(op.String())
}

// invoke runs a user callback. A panic is logged and swallowed so the
// dispatch loop keeps serving other correlations.
func (m *Manager) invoke(op domain.Op, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("callback panicked",
				ports.String("op", op.String()),
				ports.Any("panic", r),
			)
		}
	}()
	fn()
}

func (m *Manager) setState(c *call, s State) {
	c.state.Store(int32(s))
	m.logger.Debug("correlation state",
		ports.String("op", c.op.String()),
		ports.Int("slot", int(c.slot)),
		ports.Uint64("handle", uint64(c.handle)),
		ports.String("state", s.String()),
	)
}

func (m *Manager) setWatchState(w *watch, s State) {
	w.state.Store(int32(s))
	m.logger.Debug("watch state",
		ports.String("op", w.req.Op.String()),
		ports.Int("slot", int(w.req.Slot)),
		ports.Uint64("watch", uint64(w.id)),
		ports.String("state", s.String()),
	)
}

// classify maps a transport reply error to the error taxonomy.
func classify(err error) error {
	var remote *ports.RemoteError
	if errors.As(err, &remote) {
		return fmt.Errorf("%w: %w", domain.ErrRemote, remote)
	}
	if errors.Is(err, domain.ErrMalformed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrIO, err)
}

type nopMetrics struct{}

func (nopMetrics) CallStarted(string)                          {}
func (nopMetrics) CallCompleted(string, string, time.Duration) {}
func (nopMetrics) Discarded(string)                            {}
func (nopMetrics) SignalDelivered(string, string)              {}
func (nopMetrics) Rejected(string, string)                     {}
func (nopMetrics) Pending(int, int)                            {}
