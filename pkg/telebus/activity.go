package telebus

import (
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// GetModemActivity reads the radio activity counters of slot. A TxTime
// array that is not exactly ActivityLevels long completes with
// ErrMalformed.
func (s *Session) GetModemActivity(slot Slot, cb Callback[ModemActivityInfo]) error {
	return call(s, request{
		op:     domain.OpGetModemActivity,
		slot:   slot,
		iface:  ModemActivity,
		member: "GetActivityInfo",
	}, payload.Record(domain.ModemActivityInfoTable), cb)
}
