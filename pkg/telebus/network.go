package telebus

import (
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// GetRegistration reads the network registration state of slot.
func (s *Session) GetRegistration(slot Slot, cb Callback[RegistrationInfo]) error {
	return call(s, request{
		op:     domain.OpGetRegistration,
		slot:   slot,
		iface:  NetworkRegistration,
		member: "GetProperties",
	}, payload.Record(domain.RegistrationInfoTable), cb)
}

// GetOperators lists the operators the modem already knows about, up to
// Config.MaxOperators.
func (s *Session) GetOperators(slot Slot, cb Callback[[]OperatorInfo]) error {
	return call(s, request{
		op:     domain.OpGetOperators,
		slot:   slot,
		iface:  NetworkRegistration,
		member: "GetOperators",
	}, payload.List(domain.OperatorInfoTable, s.listCap(func(c Config) int { return c.MaxOperators })), cb)
}

// ScanOperators runs a network scan. The daemon may take minutes to
// answer.
func (s *Session) ScanOperators(slot Slot, cb Callback[[]OperatorInfo]) error {
	return call(s, request{
		op:     domain.OpScanOperators,
		slot:   slot,
		iface:  NetworkRegistration,
		member: "Scan",
	}, payload.List(domain.OperatorInfoTable, s.listCap(func(c Config) int { return c.MaxOperators })), cb)
}

// WatchRegistration delivers every registration PropertyChanged signal.
func (s *Session) WatchRegistration(slot Slot, cb Callback[PropertyChange]) (WatchID, error) {
	return watch(s, domain.OpWatchRegistration, slot, NetworkRegistration, "PropertyChanged",
		payload.Func(domain.DecodePropertyChange), cb)
}

// listCap reads a list cap from the session config; a nil session gets 1 so
// the builder is valid and resolve reports the real error.
func (s *Session) listCap(pick func(Config) int) int {
	if s == nil {
		return 1
	}
	return pick(s.cfg)
}
