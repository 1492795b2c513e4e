package correlation

import (
	"fmt"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// Watch subscribes to a signal. Each delivery is decoded with build and
// handed to cb on the dispatch loop; the payload is released when cb
// returns. The subscription lives until Unregister or Close.
func Watch[T any](m *Manager, req WatchRequest, build payload.Builder[T], cb Callback[T]) (WatchID, error) {
	if cb == nil || build == nil {
		m.metrics.Rejected(req.Op.String(), "invalid_argument")
		return 0, fmt.Errorf("%w: %s: nil callback or decoder", domain.ErrInvalidArgument, req.Op)
	}
	if err := req.validate(); err != nil {
		m.metrics.Rejected(req.Op.String(), "invalid_argument")
		return 0, err
	}

	w := &watch{req: req}
	w.deliver = func(sig ports.Signal) { dispatch(m, w, sig, build, cb) }
	if err := m.admitWatch(w); err != nil {
		m.metrics.Rejected(req.Op.String(), reason(err))
		return 0, err
	}
	m.setWatchState(w, StateCreated)

	id, op := w.id, req.Op
	sub, err := m.conn.WatchSignal(m.cfg.Service, req.Path, req.Interface, req.Signal,
		func(sig ports.Signal) {
			m.post(op, func() { m.signal(op, id, sig) })
		},
		func() {
			m.logger.Debug("signal subscription removed",
				ports.String("op", op.String()),
				ports.Uint64("watch", uint64(id)),
			)
		},
	)
	if err != nil {
		m.dropWatch(id)
		m.setWatchState(w, StateFreed)
		m.metrics.Rejected(req.Op.String(), "io")
		return 0, fmt.Errorf("%w: %s watch %s.%s: %v", domain.ErrIO, req.Op, req.Interface, req.Signal, err)
	}

	m.mu.Lock()
	w.sub = sub
	_, live := m.watches[id]
	calls, watches := len(m.calls), len(m.watches)
	m.mu.Unlock()

	// Close ran while subscribing.
	if !live {
		_ = m.conn.Unwatch(sub)
		m.setWatchState(w, StateFreed)
		return 0, domain.ErrClosed
	}
	m.setWatchState(w, StateSubscribed)
	m.metrics.Pending(calls, watches)
	return id, nil
}

// dispatch runs on the loop for one delivery.
func dispatch[T any](m *Manager, w *watch, sig ports.Signal, build payload.Builder[T], cb Callback[T]) {
	n := w.deliveries.Add(1)
	res := Result[T]{Op: w.req.Op, Slot: w.req.Slot}

	p, err := build(sig.Body)
	if err != nil {
		res.Status = domain.StatusError
		res.Err = fmt.Errorf("%w: %s signal %s: %v", domain.ErrMalformed, w.req.Op, sig.Member, err)
		m.logger.Warn("signal did not decode",
			ports.String("op", w.req.Op.String()),
			ports.Uint64("watch", uint64(w.id)),
			ports.Uint64("delivery", n),
			ports.Err(err),
		)
		m.invoke(w.req.Op, func() { cb(res) })
		m.metrics.SignalDelivered(w.req.Op.String(), res.Status.String())
		return
	}

	m.setWatchState(w, StateDecoded)
	res.Status = domain.StatusOK
	m.invoke(w.req.Op, func() {
		p.Deliver(func(v T, rep propbag.Report) {
			out := res
			out.Value = v
			out.Dropped = rep.Dropped
			out.Truncated = rep.Truncated
			m.setWatchState(w, StateDispatched)
			cb(out)
		})
	})
	m.setWatchState(w, StatePayloadFreed)
	m.metrics.SignalDelivered(w.req.Op.String(), res.Status.String())
}
