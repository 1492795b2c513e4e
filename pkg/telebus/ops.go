package telebus

import (
	"fmt"

	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
	"github.com/bft-labs/telebus/internal/ports"
)

// request describes one feature operation before it is bound to a proxy.
type request struct {
	op     domain.Op
	slot   Slot
	iface  Interface
	kind   correlation.CallKind
	member string
	params []any
	args   [2]int
}

// call validates, resolves the proxy and begins the operation. Nothing is
// allocated and no callback will run when it returns an error.
func call[T any](s *Session, r request, build payload.Builder[T], cb Callback[T]) error {
	p, err := s.resolve(r.op, r.slot, r.iface, cb == nil)
	if err != nil {
		return err
	}
	_, err = correlation.Begin(s.mgr, correlation.Request{
		Op:     r.op,
		Slot:   r.slot,
		Args:   r.args,
		Proxy:  p,
		Kind:   r.kind,
		Member: r.member,
		Params: r.params,
	}, build, cb)
	return err
}

// watch subscribes to signal on the object behind (slot, iface).
func watch[T any](s *Session, op domain.Op, slot Slot, iface Interface, signal string, build payload.Builder[T], cb Callback[T]) (WatchID, error) {
	p, err := s.resolve(op, slot, iface, cb == nil)
	if err != nil {
		return 0, err
	}
	return correlation.Watch(s.mgr, correlation.WatchRequest{
		Op:        op,
		Slot:      slot,
		Path:      p.Path(),
		Interface: p.Interface(),
		Signal:    signal,
	}, build, cb)
}

// resolve applies the checks every operation shares, in order: session,
// slot, callback, availability.
func (s *Session) resolve(op domain.Op, slot Slot, iface Interface, nilCallback bool) (ports.Proxy, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil session", ErrInvalidArgument)
	}
	if !s.lifecycle.Active() {
		s.reject(op, "closed")
		return nil, ErrClosed
	}
	if !slot.Valid(s.cfg.ModemCount) {
		s.reject(op, "invalid_argument")
		return nil, fmt.Errorf("%w: %s: slot %d out of range [0, %d)", ErrInvalidArgument, op, slot, s.cfg.ModemCount)
	}
	if nilCallback {
		s.reject(op, "invalid_argument")
		return nil, fmt.Errorf("%w: %s: nil callback", ErrInvalidArgument, op)
	}
	p, ok := s.reg.Get(slot, iface)
	if !ok {
		s.reject(op, "unavailable")
		return nil, fmt.Errorf("%w: %s on slot %d", ErrUnavailable, iface, slot)
	}
	return p, nil
}

func (s *Session) reject(op domain.Op, reason string) {
	if s.metrics != nil {
		s.metrics.Rejected(op.String(), reason)
	}
}

func required(op domain.Op, name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s: empty %s", ErrInvalidArgument, op, name)
	}
	return nil
}
