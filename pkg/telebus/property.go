package telebus

import (
	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// GetProperty reads a single property of any interface.
func (s *Session) GetProperty(slot Slot, iface Interface, name string, cb Callback[Value]) error {
	if err := required(domain.OpGetProperty, "property name", name); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpGetProperty,
		slot:   slot,
		iface:  iface,
		kind:   correlation.KindGetProperty,
		member: name,
	}, payload.Value(), cb)
}

// SetProperty writes a single property of any interface. value must be a
// bool, string, integer or ObjectPath.
func (s *Session) SetProperty(slot Slot, iface Interface, name string, value any, cb Callback[struct{}]) error {
	if err := required(domain.OpSetProperty, "property name", name); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpSetProperty,
		slot:   slot,
		iface:  iface,
		kind:   correlation.KindSetProperty,
		member: name,
		params: []any{value},
	}, payload.Empty(), cb)
}

// WatchProperties delivers every PropertyChanged signal of iface.
func (s *Session) WatchProperties(slot Slot, iface Interface, cb Callback[PropertyChange]) (WatchID, error) {
	return watch(s, domain.OpWatchProperty, slot, iface, "PropertyChanged",
		payload.Func(domain.DecodePropertyChange), cb)
}
