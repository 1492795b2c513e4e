package correlation

import (
	"fmt"
	"time"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// Begin issues req and returns as soon as the transport has accepted it.
//
// Argument errors, a full pending table and a transport refusal are
// returned here and cb is never called. Once Begin returns a handle, cb is
// called exactly once on the dispatch loop with the decoded reply, a
// remote fault or a decode failure, unless the manager is closed first.
func Begin[T any](m *Manager, req Request, build payload.Builder[T], cb Callback[T]) (Handle, error) {
	if cb == nil {
		m.metrics.Rejected(req.Op.String(), "invalid_argument")
		return 0, fmt.Errorf("%w: %s: nil callback", domain.ErrInvalidArgument, req.Op)
	}
	if build == nil {
		m.metrics.Rejected(req.Op.String(), "invalid_argument")
		return 0, fmt.Errorf("%w: %s: nil decoder", domain.ErrInvalidArgument, req.Op)
	}
	if err := req.validate(); err != nil {
		m.metrics.Rejected(req.Op.String(), "invalid_argument")
		return 0, err
	}

	c := &call{op: req.Op, slot: req.Slot, args: req.Args}
	c.finish = func(r ports.Reply) { settle(m, c, r, build, cb) }
	if err := m.admit(c); err != nil {
		m.metrics.Rejected(req.Op.String(), reason(err))
		return 0, err
	}
	m.setState(c, StateCreated)

	h, op := c.handle, c.op
	done := func(r ports.Reply) {
		m.post(op, func() { m.complete(op, h, r) })
	}

	m.setState(c, StateInFlight)
	if err := issue(req, done); err != nil {
		m.withdraw(h)
		m.setState(c, StateFreed)
		m.metrics.Rejected(req.Op.String(), "io")
		return 0, fmt.Errorf("%w: %s %s.%s: %v", domain.ErrIO, req.Op, req.Proxy.Interface(), req.Member, err)
	}
	m.metrics.CallStarted(req.Op.String())
	return h, nil
}

func issue(req Request, done func(ports.Reply)) error {
	switch req.Kind {
	case KindGetProperty:
		return req.Proxy.GetProperty(req.Member, done)
	case KindSetProperty:
		return req.Proxy.SetProperty(req.Member, req.Params[0], done)
	default:
		return req.Proxy.Call(req.Member, req.Params, done)
	}
}

// settle runs on the dispatch loop after c has left the pending table.
func settle[T any](m *Manager, c *call, r ports.Reply, build payload.Builder[T], cb Callback[T]) {
	res := Result[T]{Op: c.op, Slot: c.slot, Args: c.args}
	defer func() {
		m.setState(c, StateFreed)
		m.metrics.CallCompleted(c.op.String(), res.Status.String(), time.Since(c.started))
	}()

	if r.Err != nil {
		res.Status = domain.StatusError
		res.Err = classify(r.Err)
		m.setState(c, StateFailed)
		m.invoke(c.op, func() { cb(res) })
		return
	}

	p, err := build(r.Body)
	if err != nil {
		res.Status = domain.StatusError
		res.Err = fmt.Errorf("%w: %s: %v", domain.ErrMalformed, c.op, err)
		m.setState(c, StateFailed)
		m.logger.Warn("reply did not decode",
			ports.String("op", c.op.String()),
			ports.Int("slot", int(c.slot)),
			ports.Err(err),
		)
		m.invoke(c.op, func() { cb(res) })
		return
	}

	res.Status = domain.StatusOK
	m.setState(c, StateCompleted)
	m.invoke(c.op, func() {
		p.Deliver(func(v T, rep propbag.Report) {
			out := res
			out.Value = v
			out.Dropped = rep.Dropped
			out.Truncated = rep.Truncated
			cb(out)
		})
	})
}

func reason(err error) string {
	switch domain.Code(err) {
	case domain.Code(domain.ErrNoMemory):
		return "no_memory"
	case domain.Code(domain.ErrClosed):
		return "closed"
	case domain.Code(domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "other"
	}
}
