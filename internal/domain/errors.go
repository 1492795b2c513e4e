package domain

import "errors"

// Domain errors are returned by the public API and can be checked with errors.Is.
//
// The first group is reported synchronously: nothing was started. The second
// group is only ever delivered through a completion callback.
var (
	// ErrInvalidArgument is returned for a nil session, an out-of-range slot,
	// a missing string, a nil callback or an unknown watch id.
	ErrInvalidArgument = errors.New("telebus: invalid argument")

	// ErrUnavailable is returned when the daemon has not published the
	// interface for the requested slot.
	ErrUnavailable = errors.New("telebus: interface unavailable")

	// ErrNoMemory is returned when the pending-operation table is full.
	ErrNoMemory = errors.New("telebus: no capacity for operation")

	// ErrIO is returned when the bus connection fails or refuses a call.
	ErrIO = errors.New("telebus: bus i/o failure")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("telebus: session closed")

	// ErrRemote is delivered when the daemon answered with a fault.
	ErrRemote = errors.New("telebus: remote fault")

	// ErrMalformed is delivered when a reply or signal does not have the
	// expected shape.
	ErrMalformed = errors.New("telebus: malformed payload")
)

var (
	// ErrNotPublished is returned by transports when an object does not
	// implement the requested interface.
	ErrNotPublished = errors.New("telebus: interface not published")

	// ErrShutdownTimeout is returned when Close gives up waiting for the
	// dispatch loop.
	ErrShutdownTimeout = errors.New("telebus: shutdown timeout")

	// ErrInvalidTransition is returned when a session lifecycle change is
	// not allowed from the current state.
	ErrInvalidTransition = errors.New("telebus: invalid state transition")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("telebus: invalid configuration")
)

// Code maps err to the signed result convention: 0 for nil, a negative
// number for every rejection or failure.
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return -1
	case errors.Is(err, ErrUnavailable):
		return -2
	case errors.Is(err, ErrNoMemory):
		return -3
	case errors.Is(err, ErrIO):
		return -4
	case errors.Is(err, ErrClosed):
		return -5
	case errors.Is(err, ErrRemote):
		return -6
	case errors.Is(err, ErrMalformed):
		return -7
	default:
		return -128
	}
}
