package telebus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	dbusadapter "github.com/bft-labs/telebus/internal/adapters/dbus"
	"github.com/bft-labs/telebus/internal/app"
	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/internal/registry"
	"github.com/bft-labs/telebus/pkg/log"
)

// Session is one connection to the telephony daemon with its proxies and
// pending operations. Use Open to create one and Close to release it.
//
// Operations may be started from any goroutine, including from inside a
// callback. Close must not be called from a callback.
type Session struct {
	id        uuid.UUID
	cfg       Config
	logger    Logger
	metrics   Metrics
	lifecycle *app.Lifecycle

	conn ports.Conn
	reg  *registry.Registry
	mgr  *correlation.Manager

	mu   sync.Mutex
	done chan struct{}
}

// Open connects to the bus as clientName, builds a proxy for every
// configured interface on every slot and starts the dispatch loop.
//
// clientName must be a bus name such as "com.example.telectl". Connection
// and name failures wrap ErrIO; argument and configuration errors wrap
// ErrInvalidArgument. Interfaces the daemon does not publish are not an
// error; operations on them return ErrUnavailable.
func Open(ctx context.Context, clientName string, cfg Config, opts ...Option) (*Session, error) {
	if clientName == "" || !strings.Contains(clientName, ".") {
		return nil, fmt.Errorf("%w: client name %q is not a bus name", ErrInvalidArgument, clientName)
	}

	// Set defaults
	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	logger := log.With(o.logger, log.String("session", id.String()))
	if o.connector == nil {
		o.connector = dbusadapter.NewConnector(dbusadapter.SystemBus, logger)
	}

	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	s := &Session{
		id:        id,
		cfg:       cfg,
		logger:    logger,
		metrics:   o.metrics,
		lifecycle: app.NewLifecycle(logger, &emitter),
		done:      make(chan struct{}),
	}
	if err := s.lifecycle.TransitionTo(app.StateOpening, "Open() called"); err != nil {
		return nil, err
	}

	conn, err := o.connector.Connect(ctx, clientName)
	if err != nil {
		s.abort("connect failed")
		return nil, fmt.Errorf("%w: connect as %s: %v", ErrIO, clientName, err)
	}

	reg, err := registry.Build(ctx, conn, cfg.Service, cfg.PathPrefix, cfg.ModemCount, cfg.Interfaces, logger)
	if err != nil {
		_ = conn.Close()
		s.abort("proxy setup failed")
		return nil, err
	}

	s.conn = conn
	s.reg = reg
	s.mgr = correlation.New(conn, correlation.Config{
		Service:    cfg.Service,
		MaxPending: cfg.MaxPending,
		MaxWatches: cfg.MaxWatches,
	}, logger, o.metrics)

	runCtx, cancel := context.WithCancel(context.Background())
	s.lifecycle.SetCancel(cancel)
	s.lifecycle.AddWorker()
	go s.run(runCtx)
	go s.monitor(runCtx)

	if err := s.lifecycle.TransitionTo(app.StateOpen, "proxies ready"); err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Info("session open",
		log.String("client", clientName),
		log.String("service", cfg.Service),
		log.Int("slots", cfg.ModemCount),
		log.Int("proxies", reg.Len()),
	)
	return s, nil
}

// abort moves a half-opened session to Closed. The done channel is closed
// so Done never blocks on a session that did not open.
func (s *Session) abort(reason string) {
	_ = s.lifecycle.TransitionTo(app.StateFailed, reason)
	_ = s.lifecycle.TransitionTo(app.StateClosing, reason)
	_ = s.lifecycle.TransitionTo(app.StateClosed, reason)
	close(s.done)
}

func (s *Session) run(ctx context.Context) {
	defer s.lifecycle.WorkerDone()
	defer close(s.done)

	if err := s.mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("dispatch loop stopped", log.Err(err))
	}
}

// monitor fails the session when the bus connection goes away.
func (s *Session) monitor(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-s.done:
	case <-s.conn.Done():
		if err := s.lifecycle.TransitionTo(app.StateFailed, "bus connection lost"); err != nil {
			return
		}
		s.logger.Warn("bus connection lost",
			log.Int("pending", s.mgr.Pending()),
			log.Int("watches", s.mgr.Watches()),
		)
		_ = s.mgr.Close()
	}
}

// Close drops every pending operation without calling its callback,
// removes every watch, releases every proxy and closes the connection.
// Replies that arrive afterwards are discarded.
//
// Close on a nil session returns ErrInvalidArgument; a second Close returns
// ErrClosed. It waits up to Config.CloseTimeout for a running callback to
// return and reports ErrShutdownTimeout if it does not.
func (s *Session) Close() error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanClose() {
		return ErrClosed
	}
	if err := s.lifecycle.TransitionTo(app.StateClosing, "Close() called"); err != nil {
		return ErrClosed
	}

	if err := s.mgr.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
		s.logger.Warn("closing correlation manager", log.Err(err))
	}

	// Wait for the dispatch loop with timeout
	waitErr := s.lifecycle.WaitWithTimeout(s.cfg.CloseTimeout)
	s.lifecycle.Cancel()

	if err := s.reg.Close(); err != nil {
		s.logger.Warn("releasing proxies", log.Err(err))
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("closing bus connection", log.Err(err))
	}

	_ = s.lifecycle.TransitionTo(app.StateClosed, "Close() completed")
	return waitErr
}

// ID returns the session id. It labels every log line of the session.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Session) Status() State {
	if s == nil {
		return StateClosed
	}
	return convertState(s.lifecycle.State())
}

// Done is closed once the dispatch loop has stopped, either by Close or
// because the bus connection was lost.
func (s *Session) Done() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.done
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Available reports whether iface is published on slot.
func (s *Session) Available(slot Slot, iface Interface) bool {
	if s == nil {
		return false
	}
	_, ok := s.reg.Get(slot, iface)
	return ok
}

// Interfaces lists the interfaces published on slot.
func (s *Session) Interfaces(slot Slot) []Interface {
	if s == nil {
		return nil
	}
	return s.reg.Interfaces(slot)
}

// Pending returns the number of operations awaiting a reply.
func (s *Session) Pending() int {
	if s == nil || s.mgr == nil {
		return 0
	}
	return s.mgr.Pending()
}

// Watches returns the number of active watches.
func (s *Session) Watches() int {
	if s == nil || s.mgr == nil {
		return 0
	}
	return s.mgr.Watches()
}

// Barrier waits until every completion queued before the call has been
// dispatched. It must not be called from a callback.
func (s *Session) Barrier(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidArgument)
	}
	return s.mgr.Barrier(ctx)
}

// Unregister cancels a watch. Deliveries already queued for it are
// dropped.
func (s *Session) Unregister(id WatchID) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrInvalidArgument)
	}
	if !s.lifecycle.Active() {
		return ErrClosed
	}
	return s.mgr.Unregister(id)
}
