// Package correlation binds in-flight remote operations and signal
// subscriptions to their callbacks.
//
// A [Manager] owns the pending table of one session. [Begin] issues a
// single-shot call and guarantees exactly one callback per accepted call;
// [Watch] subscribes to a signal and calls back once per delivery until
// [Manager.Unregister].
//
// All callbacks run on the goroutine executing [Manager.Run], one at a
// time. Transports complete calls from their own goroutines; those
// completions are queued and never run concurrently with each other.
// Begin and Watch may be called from inside a callback.
//
// There are no timeouts. A call the daemon never answers stays pending
// until the manager is closed, at which point it is dropped without a
// callback and any later completion is discarded.
package correlation
