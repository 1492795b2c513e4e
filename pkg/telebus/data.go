package telebus

import (
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
	"github.com/bft-labs/telebus/internal/ports"
)

// GetContexts lists the packet data contexts of slot, up to
// Config.MaxContexts.
func (s *Session) GetContexts(slot Slot, cb Callback[[]ApnContext]) error {
	return call(s, request{
		op:     domain.OpGetContexts,
		slot:   slot,
		iface:  ConnectionManager,
		member: "GetContexts",
	}, payload.List(domain.ApnContextTable, s.listCap(func(c Config) int { return c.MaxContexts })), cb)
}

// AddContext creates a context of ctxType, e.g. "internet" or "mms". The
// result is the new context's object path.
func (s *Session) AddContext(slot Slot, ctxType string, cb Callback[string]) error {
	if err := required(domain.OpAddContext, "context type", ctxType); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpAddContext,
		slot:   slot,
		iface:  ConnectionManager,
		member: "AddContext",
		params: []any{ctxType},
	}, payload.String(), cb)
}

// RemoveContext deletes the context at path.
func (s *Session) RemoveContext(slot Slot, path string, cb Callback[struct{}]) error {
	if err := required(domain.OpRemoveContext, "context path", path); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpRemoveContext,
		slot:   slot,
		iface:  ConnectionManager,
		member: "RemoveContext",
		params: []any{ports.ObjectPath(path)},
	}, payload.Empty(), cb)
}

// WatchContextAdded delivers every ContextAdded signal of slot.
func (s *Session) WatchContextAdded(slot Slot, cb Callback[ApnContext]) (WatchID, error) {
	return watch(s, domain.OpWatchContextAdded, slot, ConnectionManager, "ContextAdded",
		payload.Func(domain.DecodeContextAdded), cb)
}
