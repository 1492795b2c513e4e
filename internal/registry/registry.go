// Package registry holds the remote interface proxies of a session, one
// table per modem slot.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

// Registry maps (slot, interface) to a proxy. It is filled once by Build;
// afterwards only Close changes it, emptying every entry.
type Registry struct {
	service string
	prefix  string

	mu    sync.RWMutex
	slots [][domain.InterfaceCount]ports.Proxy
}

// Path returns the object path of slot.
func Path(prefix string, slot domain.Slot) string {
	return fmt.Sprintf("%s%d", prefix, slot)
}

// Build creates a proxy for every requested interface on every slot.
//
// An interface the daemon does not publish on a slot is left empty and
// logged at debug level; the session simply cannot use it there. Any other
// failure closes what was already opened and is returned wrapped in
// domain.ErrIO.
func Build(ctx context.Context, conn ports.Conn, service, prefix string, slots int, ifaces []domain.Interface, logger ports.Logger) (*Registry, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: nil connection", domain.ErrInvalidArgument)
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if slots < 1 || slots > domain.MaxSlots {
		return nil, fmt.Errorf("%w: %d slots, want 1..%d", domain.ErrInvalidArgument, slots, domain.MaxSlots)
	}
	for _, iface := range ifaces {
		if !iface.Valid() {
			return nil, fmt.Errorf("%w: unknown interface %d", domain.ErrInvalidArgument, int(iface))
		}
	}

	r := &Registry{
		service: service,
		prefix:  prefix,
		slots:   make([][domain.InterfaceCount]ports.Proxy, slots),
	}
	for s := range r.slots {
		slot := domain.Slot(s)
		path := Path(prefix, slot)
		for _, iface := range ifaces {
			if r.slots[s][iface] != nil {
				continue
			}
			p, err := conn.Proxy(ctx, service, path, iface.BusName())
			if errors.Is(err, domain.ErrNotPublished) {
				logger.Debug("interface not published",
					ports.String("path", path),
					ports.Stringer("interface", iface),
				)
				continue
			}
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("%w: proxy %s on %s: %v", domain.ErrIO, iface.BusName(), path, err)
			}
			r.slots[s][iface] = p
		}
		logger.Debug("slot proxies ready",
			ports.String("path", path),
			ports.Strings("interfaces", names(r.Interfaces(slot))),
		)
	}
	return r, nil
}

// Get returns the proxy for iface on slot. ok is false when the slot is out
// of range or the interface is not available there.
func (r *Registry) Get(slot domain.Slot, iface domain.Interface) (ports.Proxy, bool) {
	if r == nil || !slot.Valid(len(r.slots)) || !iface.Valid() {
		return nil, false
	}
	r.mu.RLock()
	p := r.slots[slot][iface]
	r.mu.RUnlock()
	return p, p != nil
}

// Interfaces lists the interfaces available on slot, in declaration order.
func (r *Registry) Interfaces(slot domain.Slot) []domain.Interface {
	if r == nil || !slot.Valid(len(r.slots)) {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Interface
	for i, p := range r.slots[slot] {
		if p != nil {
			out = append(out, domain.Interface(i))
		}
	}
	return out
}

// Slots returns the number of slots.
func (r *Registry) Slots() int {
	if r == nil {
		return 0
	}
	return len(r.slots)
}

// Len returns the total number of proxies held.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for s := range r.slots {
		for _, p := range r.slots[s] {
			if p != nil {
				n++
			}
		}
	}
	return n
}

// Path returns the object path of slot.
func (r *Registry) Path(slot domain.Slot) string {
	return Path(r.prefix, slot)
}

// Close releases every proxy. Errors are joined; every proxy is released
// regardless.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var held []ports.Proxy
	r.mu.Lock()
	for s := range r.slots {
		for i, p := range r.slots[s] {
			if p != nil {
				held = append(held, p)
				r.slots[s][i] = nil
			}
		}
	}
	r.mu.Unlock()

	var errs []error
	for _, p := range held {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func names(ifaces []domain.Interface) []string {
	out := make([]string, len(ifaces))
	for i, iface := range ifaces {
		out[i] = iface.String()
	}
	return out
}
