package telebus

import (
	"fmt"

	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
	"github.com/bft-labs/telebus/internal/ports"
)

// Forwarding rules accepted by SetCallForwarding.
const (
	ForwardUnconditional = "VoiceUnconditional"
	ForwardBusy          = "VoiceBusy"
	ForwardNoReply       = "VoiceNoReply"
	ForwardNotReachable  = "VoiceNotReachable"
)

// Barring properties accepted by SetCallBarring.
const (
	BarIncoming = "VoiceIncoming"
	BarOutgoing = "VoiceOutgoing"
)

// GetCallForwarding reads the forwarding rules of slot.
func (s *Session) GetCallForwarding(slot Slot, cb Callback[CallForwardInfo]) error {
	return call(s, request{
		op:     domain.OpGetCallForwarding,
		slot:   slot,
		iface:  CallForwarding,
		member: "GetProperties",
	}, payload.Record(domain.CallForwardInfoTable), cb)
}

// SetCallForwarding sets rule to number. An empty number disables the rule.
func (s *Session) SetCallForwarding(slot Slot, rule, number string, cb Callback[struct{}]) error {
	switch rule {
	case ForwardUnconditional, ForwardBusy, ForwardNoReply, ForwardNotReachable:
	default:
		return fmt.Errorf("%w: %s: unknown forwarding rule %q", ErrInvalidArgument, domain.OpSetCallForwarding, rule)
	}
	return call(s, request{
		op:     domain.OpSetCallForwarding,
		slot:   slot,
		iface:  CallForwarding,
		kind:   correlation.KindSetProperty,
		member: rule,
		params: []any{number},
	}, payload.Empty(), cb)
}

// GetCallBarring reads the barring settings of slot.
func (s *Session) GetCallBarring(slot Slot, cb Callback[CallBarringInfo]) error {
	return call(s, request{
		op:     domain.OpGetCallBarring,
		slot:   slot,
		iface:  CallBarring,
		member: "GetProperties",
	}, payload.Record(domain.CallBarringInfoTable), cb)
}

// SetCallBarring changes a barring property, authorised by the network
// password pin. Result.Args[0] carries the password length.
func (s *Session) SetCallBarring(slot Slot, prop, value, pin string, cb Callback[struct{}]) error {
	switch prop {
	case BarIncoming, BarOutgoing:
	default:
		return fmt.Errorf("%w: %s: unknown barring property %q", ErrInvalidArgument, domain.OpSetCallBarring, prop)
	}
	if err := required(domain.OpSetCallBarring, "value", value); err != nil {
		return err
	}
	if err := required(domain.OpSetCallBarring, "pin", pin); err != nil {
		return err
	}
	// The barring SetProperty takes the password as a third argument, so
	// it goes out as a plain method call.
	return call(s, request{
		op:     domain.OpSetCallBarring,
		slot:   slot,
		iface:  CallBarring,
		member: "SetProperty",
		params: []any{prop, ports.Variant{Value: value}, pin},
		args:   [2]int{len(pin)},
	}, payload.Empty(), cb)
}

// InitiateSS sends a supplementary service or USSD string, e.g. "*#100#".
func (s *Session) InitiateSS(slot Slot, command string, cb Callback[SsInitiateInfo]) error {
	if err := required(domain.OpInitiateSS, "command", command); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpInitiateSS,
		slot:   slot,
		iface:  SupplementaryServices,
		member: "Initiate",
		params: []any{command},
	}, payload.Func(domain.DecodeSsInitiate), cb)
}

// CancelSS aborts the ongoing USSD session.
func (s *Session) CancelSS(slot Slot, cb Callback[struct{}]) error {
	return call(s, request{
		op:     domain.OpCancelSS,
		slot:   slot,
		iface:  SupplementaryServices,
		member: "Cancel",
	}, payload.Empty(), cb)
}
