package telebus

import (
	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// GetModem reads the modem properties of slot.
func (s *Session) GetModem(slot Slot, cb Callback[ModemInfo]) error {
	return call(s, request{
		op:     domain.OpGetModem,
		slot:   slot,
		iface:  Modem,
		member: "GetProperties",
	}, payload.Record(domain.ModemInfoTable), cb)
}

// SetModemPowered powers the modem on or off.
func (s *Session) SetModemPowered(slot Slot, powered bool, cb Callback[struct{}]) error {
	return s.setModem(slot, "Powered", powered, cb)
}

// SetModemOnline switches the radio on or off.
func (s *Session) SetModemOnline(slot Slot, online bool, cb Callback[struct{}]) error {
	return s.setModem(slot, "Online", online, cb)
}

func (s *Session) setModem(slot Slot, name string, v bool, cb Callback[struct{}]) error {
	return call(s, request{
		op:     domain.OpSetModemProperty,
		slot:   slot,
		iface:  Modem,
		kind:   correlation.KindSetProperty,
		member: name,
		params: []any{v},
	}, payload.Empty(), cb)
}

// WatchModem delivers every modem PropertyChanged signal of slot.
func (s *Session) WatchModem(slot Slot, cb Callback[PropertyChange]) (WatchID, error) {
	return watch(s, domain.OpWatchModem, slot, Modem, "PropertyChanged",
		payload.Func(domain.DecodePropertyChange), cb)
}
