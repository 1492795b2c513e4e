package telebus

import (
	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// Re-exported identifiers.
type (
	// Slot identifies one modem instance.
	Slot = domain.Slot

	// Interface is one of the service interfaces a modem may publish.
	Interface = domain.Interface

	// Status is the outcome carried by a Result.
	Status = domain.Status

	// WatchID identifies an active signal subscription.
	WatchID = correlation.WatchID

	// Result is what a callback receives. Value is borrowed and only
	// valid until the callback returns.
	Result[T any] = correlation.Result[T]

	// Callback receives one completion or one signal delivery. Callbacks
	// run one at a time on the session's dispatch goroutine.
	Callback[T any] = correlation.Callback[T]

	// Logger is the interface for structured logging.
	Logger = log.Logger

	// Connector opens bus connections. The default dials the system bus.
	Connector = ports.Connector

	// Metrics records correlation activity.
	Metrics = ports.Metrics

	// ObjectPath marks a string argument as a bus object path.
	ObjectPath = ports.ObjectPath

	// RemoteError carries the fault name returned by the daemon. Results
	// with ErrRemote wrap one.
	RemoteError = ports.RemoteError

	// Value is a decoded property value.
	Value = propbag.Variant
)

// Records.
type (
	ModemInfo         = domain.ModemInfo
	SimInfo           = domain.SimInfo
	RegistrationInfo  = domain.RegistrationInfo
	OperatorInfo      = domain.OperatorInfo
	ApnContext        = domain.ApnContext
	IpSettings        = domain.IpSettings
	CallForwardInfo   = domain.CallForwardInfo
	CallBarringInfo   = domain.CallBarringInfo
	SsInitiateInfo    = domain.SsInitiateInfo
	MessageInfo       = domain.MessageInfo
	ModemActivityInfo = domain.ModemActivityInfo
	PropertyChange    = domain.PropertyChange
)

// Interfaces.
const (
	Modem                 = domain.Modem
	SimManager            = domain.SimManager
	NetworkRegistration   = domain.NetworkRegistration
	ConnectionManager     = domain.ConnectionManager
	MessageManager        = domain.MessageManager
	VoiceCallManager      = domain.VoiceCallManager
	CallForwarding        = domain.CallForwarding
	CallBarring           = domain.CallBarring
	CallSettings          = domain.CallSettings
	SupplementaryServices = domain.SupplementaryServices
	CallVolume            = domain.CallVolume
	RadioSettings         = domain.RadioSettings
	Phonebook             = domain.Phonebook
	CellBroadcast         = domain.CellBroadcast
	NetworkTime           = domain.NetworkTime
	ModemActivity         = domain.ModemActivity
)

// Result statuses.
const (
	StatusPending = domain.StatusPending
	StatusOK      = domain.StatusOK
	StatusError   = domain.StatusError
)

// MaxSlots is the largest supported ModemCount.
const MaxSlots = domain.MaxSlots

// ActivityLevels is the length of ModemActivityInfo.TxTime.
const ActivityLevels = domain.ActivityLevels

// Errors. Check with errors.Is.
var (
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrUnavailable     = domain.ErrUnavailable
	ErrNoMemory        = domain.ErrNoMemory
	ErrIO              = domain.ErrIO
	ErrClosed          = domain.ErrClosed
	ErrRemote          = domain.ErrRemote
	ErrMalformed       = domain.ErrMalformed
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// Code maps err to the signed result convention: 0 for nil, negative
// otherwise.
func Code(err error) int { return domain.Code(err) }

// ParseInterface accepts "Modem" or "org.ofono.Modem".
func ParseInterface(s string) (Interface, error) { return domain.ParseInterface(s) }

// AllInterfaces returns every interface in creation order.
func AllInterfaces() []Interface { return domain.AllInterfaces() }
