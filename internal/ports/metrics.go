package ports

//go:generate mockgen -source=metrics.go -destination=../mocks/metrics.go -package=mocks

import "time"

// Metrics records correlation activity. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// CallStarted is recorded when a single-shot operation is accepted.
	CallStarted(op string)

	// CallCompleted is recorded after the completion callback returns.
	CallCompleted(op, status string, elapsed time.Duration)

	// Discarded is recorded when a completion or delivery arrives for a
	// correlation that no longer exists.
	Discarded(op string)

	// SignalDelivered is recorded once per dispatched signal.
	SignalDelivered(op, status string)

	// Rejected is recorded when an operation is refused synchronously.
	Rejected(op, reason string)

	// Pending reports the current number of in-flight calls and watches.
	Pending(calls, watches int)
}
