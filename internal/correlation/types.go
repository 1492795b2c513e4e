package correlation

import (
	"fmt"
	"strconv"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
)

// Handle identifies an accepted single-shot operation. It is always positive.
type Handle uint64

// WatchID identifies an active signal subscription. It is always positive
// and becomes invalid after Unregister.
type WatchID uint64

func (id WatchID) String() string { return strconv.FormatUint(uint64(id), 10) }

// State is the lifecycle position of a correlation.
type State int32

const (
	StateCreated State = iota
	StateInFlight
	StateCompleted
	StateFailed
	StateSubscribed
	StateDecoded
	StateDispatched
	StatePayloadFreed
	StateUnsubscribed
	StateFreed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateInFlight:
		return "InFlight"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateSubscribed:
		return "Subscribed"
	case StateDecoded:
		return "Decoded"
	case StateDispatched:
		return "Dispatched"
	case StatePayloadFreed:
		return "PayloadFreed"
	case StateUnsubscribed:
		return "Unsubscribed"
	case StateFreed:
		return "Freed"
	default:
		return "Unknown"
	}
}

// CallKind selects which proxy primitive a Request uses.
type CallKind int

const (
	KindMethod CallKind = iota
	KindGetProperty
	KindSetProperty
)

// Request describes one single-shot remote operation.
type Request struct {
	Op    domain.Op
	Slot  domain.Slot
	Args  [2]int
	Proxy ports.Proxy
	Kind  CallKind
	// Member is the method name, or the property name for property kinds.
	Member string
	// Params are the positional method arguments. For KindSetProperty it
	// holds exactly the new value.
	Params []any
}

func (r Request) validate() error {
	if r.Proxy == nil {
		return fmt.Errorf("%w: %s: nil proxy", domain.ErrInvalidArgument, r.Op)
	}
	if r.Member == "" {
		return fmt.Errorf("%w: %s: empty member", domain.ErrInvalidArgument, r.Op)
	}
	switch r.Kind {
	case KindMethod, KindGetProperty:
	case KindSetProperty:
		if len(r.Params) != 1 {
			return fmt.Errorf("%w: %s: set %s needs exactly one value", domain.ErrInvalidArgument, r.Op, r.Member)
		}
	default:
		return fmt.Errorf("%w: %s: unknown call kind %d", domain.ErrInvalidArgument, r.Op, r.Kind)
	}
	return nil
}

// WatchRequest describes one signal subscription.
type WatchRequest struct {
	Op        domain.Op
	Slot      domain.Slot
	Path      string
	Interface string
	Signal    string
}

func (r WatchRequest) validate() error {
	if r.Path == "" || r.Interface == "" || r.Signal == "" {
		return fmt.Errorf("%w: %s: path, interface and signal are required", domain.ErrInvalidArgument, r.Op)
	}
	return nil
}

// Result is what a completion callback receives.
//
// Value is borrowed: it is valid only until the callback returns. Slices
// inside it are zeroed afterwards, so copy what you need. On StatusError,
// Value is the zero value and Err says why.
type Result[T any] struct {
	Op     domain.Op
	Slot   domain.Slot
	Args   [2]int
	Status domain.Status
	Value  T
	// Dropped lists properties the decoder skipped. The result is still
	// StatusOK.
	Dropped []string
	// Truncated counts listing entries beyond the record limit.
	Truncated int
	Err       error
}

// Partial reports whether a successful result left anything out.
func (r Result[T]) Partial() bool {
	return len(r.Dropped) > 0 || r.Truncated > 0
}

// Callback receives the completion of an operation or one signal delivery.
type Callback[T any] func(Result[T])
