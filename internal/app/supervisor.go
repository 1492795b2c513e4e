package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

// Target is one supervised connection.
type Target interface {
	// ID labels the target in logs and the status file.
	ID() string
	// Done is closed when the target stops on its own.
	Done() <-chan struct{}
	Close() error
}

// OpenFunc opens a new target.
type OpenFunc func(ctx context.Context) (Target, error)

// ReadyFunc runs after every successful open, e.g. to install watches. An
// error closes the target and counts as a failed open.
type ReadyFunc func(ctx context.Context, t Target) error

// SupervisorConfig contains configuration for the supervisor loop.
type SupervisorConfig struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Reload, when it receives, closes the current target and opens a new
	// one without waiting.
	Reload <-chan struct{}
}

// Supervisor keeps a target open, reopening it with backoff when it fails.
type Supervisor struct {
	config  SupervisorConfig
	open    OpenFunc
	ready   ReadyFunc
	repo    ports.StatusRepository
	logger  ports.Logger
	backoff *Backoff
	status  domain.SupervisorStatus
}

// NewSupervisor creates a supervisor. ready and repo may be nil.
func NewSupervisor(config SupervisorConfig, open OpenFunc, ready ReadyFunc, repo ports.StatusRepository, logger ports.Logger) *Supervisor {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Supervisor{
		config:  config,
		open:    open,
		ready:   ready,
		repo:    repo,
		logger:  logger,
		backoff: NewBackoff(config.InitialBackoff, config.MaxBackoff),
	}
}

// Run opens targets until ctx is cancelled. It returns nil on cancellation.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.repo != nil {
		prev, err := s.repo.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to load status", log.Err(err))
		} else if prev.State != "" {
			s.logger.Debug("previous status",
				log.String("state", prev.State),
				log.Int("opens", prev.Opens),
				log.String("last_error", prev.LastError),
			)
		}
	}

	for {
		t, err := s.openTarget(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.record(ctx, "Stopped", "", nil)
				return nil
			}
			s.logger.Error("open failed",
				log.Err(err),
				log.Duration("retry_in", s.backoff.Current()),
			)
			s.record(ctx, "Retrying", "", err)
			if s.backoff.Wait(ctx) != nil {
				s.record(ctx, "Stopped", "", nil)
				return nil
			}
			continue
		}

		s.backoff.Reset()
		s.status.Opens++
		s.record(ctx, "Open", t.ID(), nil)
		s.logger.Info("target open", log.String("id", t.ID()), log.Int("opens", s.status.Opens))

		select {
		case <-ctx.Done():
			s.close(t)
			s.record(ctx, "Stopped", "", nil)
			return nil

		case <-t.Done():
			s.close(t)
			s.status.Reconnects++
			lost := errors.New("connection lost")
			s.logger.Warn("target stopped, reopening",
				log.String("id", t.ID()),
				log.Duration("retry_in", s.backoff.Current()),
			)
			s.record(ctx, "Retrying", "", lost)
			if s.backoff.Wait(ctx) != nil {
				s.record(ctx, "Stopped", "", nil)
				return nil
			}

		case <-s.config.Reload:
			s.logger.Info("reloading", log.String("id", t.ID()))
			s.close(t)
		}
	}
}

// Status returns the last recorded status. It must not be called
// concurrently with Run.
func (s *Supervisor) Status() domain.SupervisorStatus {
	return s.status
}

func (s *Supervisor) openTarget(ctx context.Context) (Target, error) {
	t, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if s.ready != nil {
		if err := s.ready(ctx, t); err != nil {
			s.close(t)
			return nil, err
		}
	}
	return t, nil
}

func (s *Supervisor) close(t Target) {
	if err := t.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
		s.logger.Warn("close failed", log.String("id", t.ID()), log.Err(err))
	}
}

func (s *Supervisor) record(ctx context.Context, state, id string, err error) {
	s.status.State = state
	s.status.SessionID = id
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.UpdatedAt = time.Now().UTC()
	if s.repo == nil {
		return
	}
	// The status must still be written while stopping.
	if err := s.repo.Save(context.WithoutCancel(ctx), s.status); err != nil {
		s.logger.Warn("failed to save status", log.Err(err))
	}
}
