package telebus

import (
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// GetSim reads the SIM properties of slot.
func (s *Session) GetSim(slot Slot, cb Callback[SimInfo]) error {
	return call(s, request{
		op:     domain.OpGetSim,
		slot:   slot,
		iface:  SimManager,
		member: "GetProperties",
	}, payload.Record(domain.SimInfoTable), cb)
}

// EnterPin submits pin for pinType, e.g. "pin" or "puk". Result.Args[0]
// carries the PIN length.
func (s *Session) EnterPin(slot Slot, pinType, pin string, cb Callback[struct{}]) error {
	if err := required(domain.OpEnterPin, "pin type", pinType); err != nil {
		return err
	}
	if err := required(domain.OpEnterPin, "pin", pin); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpEnterPin,
		slot:   slot,
		iface:  SimManager,
		member: "EnterPin",
		params: []any{pinType, pin},
		args:   [2]int{len(pin)},
	}, payload.Empty(), cb)
}

// WatchSim delivers every SIM PropertyChanged signal of slot.
func (s *Session) WatchSim(slot Slot, cb Callback[PropertyChange]) (WatchID, error) {
	return watch(s, domain.OpWatchSim, slot, SimManager, "PropertyChanged",
		payload.Func(domain.DecodePropertyChange), cb)
}
