// Package telebus is a client for oFono-style telephony daemons on D-Bus.
//
// A [Session] connects to the bus, builds a proxy for every service
// interface on every modem slot, and runs asynchronous operations against
// them. Each operation takes a callback that is invoked exactly once with a
// decoded [Result], or never if the session is closed first.
//
// # Basic Usage
//
//	s, err := telebus.Open(ctx, "com.example.telectl", telebus.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	err = s.GetModem(0, func(r telebus.Result[telebus.ModemInfo]) {
//	    if r.Err != nil {
//	        log.Printf("get modem: %v", r.Err)
//	        return
//	    }
//	    log.Printf("modem %s powered=%v", r.Value.Model, r.Value.Powered)
//	})
//
// # Callbacks
//
// Callbacks run one at a time on the session's dispatch goroutine. A
// callback may start further operations. It must not call Close or
// Barrier.
//
// Result.Value is borrowed: slices inside it are cleared once the callback
// returns. Copy anything that must outlive the callback.
//
// Records are decoded leniently. Unknown properties are counted in
// Result.Dropped, oversized strings and lists in Result.Truncated, and the
// status stays StatusOK. A reply that cannot be decoded at all completes
// with ErrMalformed.
//
// # Errors
//
// Operations that cannot be started return an error and never invoke the
// callback:
//
//   - [ErrInvalidArgument] for a bad slot, nil callback or empty argument
//   - [ErrUnavailable] when the daemon does not publish the interface
//   - [ErrNoMemory] when MaxPending or MaxWatches is reached
//   - [ErrClosed] once the session is closing or failed
//   - [ErrIO] when the request could not be sent
//
// Failures after the request was sent arrive in Result.Err: [ErrRemote]
// for a daemon fault, [ErrMalformed] for an undecodable reply and [ErrIO]
// for a transport failure. A daemon fault also wraps a [*RemoteError]
// carrying the fault name; use errors.As to read it. [Code] maps any of
// them to a negative integer.
//
// # Watches
//
// Watch methods subscribe to a signal and invoke the callback for every
// delivery until [Session.Unregister]. Deliveries already queued when
// Unregister returns are dropped.
//
// # Lifecycle States
//
// A session moves through the following states:
//
//	Closed -> Opening -> Open -> Closing -> Closed
//	                       |
//	                       +-> Failed -> Closing -> Closed
//
// Failed is entered when the bus connection is lost. [Session.Done] is
// closed at that point; the caller should Close the session and open a new
// one.
package telebus
