package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSlots is the largest number of modem slots a session can manage.
const MaxSlots = 8

// Slot identifies one modem instance.
type Slot int

// Valid reports whether s is in [0, count).
func (s Slot) Valid(count int) bool {
	return s >= 0 && int(s) < count
}

func (s Slot) String() string {
	return strconv.Itoa(int(s))
}

// Interface is one of the service interfaces a modem object may publish.
type Interface int

// The order of this list is the order proxies are created in.
const (
	Modem Interface = iota
	SimManager
	NetworkRegistration
	ConnectionManager
	MessageManager
	VoiceCallManager
	CallForwarding
	CallBarring
	CallSettings
	SupplementaryServices
	CallVolume
	RadioSettings
	Phonebook
	CellBroadcast
	NetworkTime
	ModemActivity
)

// InterfaceCount is the number of known interfaces.
const InterfaceCount = int(ModemActivity) + 1

var interfaceNames = [InterfaceCount]string{
	Modem:                 "Modem",
	SimManager:            "SimManager",
	NetworkRegistration:   "NetworkRegistration",
	ConnectionManager:     "ConnectionManager",
	MessageManager:        "MessageManager",
	VoiceCallManager:      "VoiceCallManager",
	CallForwarding:        "CallForwarding",
	CallBarring:           "CallBarring",
	CallSettings:          "CallSettings",
	SupplementaryServices: "SupplementaryServices",
	CallVolume:            "CallVolume",
	RadioSettings:         "RadioSettings",
	Phonebook:             "Phonebook",
	CellBroadcast:         "CellBroadcast",
	NetworkTime:           "NetworkTime",
	ModemActivity:         "ModemActivity",
}

// InterfacePrefix is prepended to interface names on the bus.
const InterfacePrefix = "org.ofono."

// AllInterfaces returns every interface in creation order.
func AllInterfaces() []Interface {
	out := make([]Interface, InterfaceCount)
	for i := range out {
		out[i] = Interface(i)
	}
	return out
}

// Valid reports whether i is a known interface.
func (i Interface) Valid() bool {
	return i >= 0 && int(i) < InterfaceCount
}

func (i Interface) String() string {
	if !i.Valid() {
		return "Interface(" + strconv.Itoa(int(i)) + ")"
	}
	return interfaceNames[i]
}

// BusName returns the fully qualified interface name, e.g. "org.ofono.Modem".
func (i Interface) BusName() string {
	return InterfacePrefix + i.String()
}

// ParseInterface accepts either the short or the fully qualified name.
func ParseInterface(s string) (Interface, error) {
	short := strings.TrimPrefix(s, InterfacePrefix)
	for i, name := range interfaceNames {
		if strings.EqualFold(name, short) {
			return Interface(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interface %q", ErrInvalidArgument, s)
}

// Status is the outcome carried by a completion.
type Status int

const (
	StatusPending Status = iota
	StatusOK
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusOK:
		return "OK"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Op identifies the feature operation a correlation belongs to. It labels
// logs and metrics.
type Op int

const (
	OpUnknown Op = iota
	OpGetModem
	OpSetModemProperty
	OpWatchModem
	OpGetSim
	OpEnterPin
	OpWatchSim
	OpGetRegistration
	OpGetOperators
	OpScanOperators
	OpWatchRegistration
	OpGetContexts
	OpAddContext
	OpRemoveContext
	OpWatchContextAdded
	OpSendMessage
	OpGetMessages
	OpGetServiceCenter
	OpSetServiceCenter
	OpWatchIncomingMessage
	OpWatchImmediateMessage
	OpGetCallForwarding
	OpSetCallForwarding
	OpGetCallBarring
	OpSetCallBarring
	OpInitiateSS
	OpCancelSS
	OpGetModemActivity
	OpGetProperty
	OpSetProperty
	OpWatchProperty
	opCount
)

var opNames = [opCount]string{
	OpUnknown:               "unknown",
	OpGetModem:              "get_modem",
	OpSetModemProperty:      "set_modem_property",
	OpWatchModem:            "watch_modem",
	OpGetSim:                "get_sim",
	OpEnterPin:              "enter_pin",
	OpWatchSim:              "watch_sim",
	OpGetRegistration:       "get_registration",
	OpGetOperators:          "get_operators",
	OpScanOperators:         "scan_operators",
	OpWatchRegistration:     "watch_registration",
	OpGetContexts:           "get_contexts",
	OpAddContext:            "add_context",
	OpRemoveContext:         "remove_context",
	OpWatchContextAdded:     "watch_context_added",
	OpSendMessage:           "send_message",
	OpGetMessages:           "get_messages",
	OpGetServiceCenter:      "get_service_center",
	OpSetServiceCenter:      "set_service_center",
	OpWatchIncomingMessage:  "watch_incoming_message",
	OpWatchImmediateMessage: "watch_immediate_message",
	OpGetCallForwarding:     "get_call_forwarding",
	OpSetCallForwarding:     "set_call_forwarding",
	OpGetCallBarring:        "get_call_barring",
	OpSetCallBarring:        "set_call_barring",
	OpInitiateSS:            "initiate_ss",
	OpCancelSS:              "cancel_ss",
	OpGetModemActivity:      "get_modem_activity",
	OpGetProperty:           "get_property",
	OpSetProperty:           "set_property",
	OpWatchProperty:         "watch_property",
}

func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "op_" + strconv.Itoa(int(o))
	}
	return opNames[o]
}
