// Package ports defines the interfaces that connect the telebus core to
// infrastructure adapters.
//
// The correlation manager and the proxy registry depend only on these
// interfaces. Adapters under internal/adapters implement them with godbus,
// zerolog and Prometheus; tests use the in-memory bus in internal/bustest
// or the gomock mocks in internal/mocks.
//
// # Port Interfaces
//
//   - [Connector]: opens a bus connection and registers the client name
//   - [Conn]: creates proxies and signal subscriptions
//   - [Proxy]: issues non-blocking calls on one remote interface
//   - [Logger]: structured logging abstraction
//   - [Metrics]: correlation counters
//   - [StatusRepository]: persists the supervisor status of telectl watch
//
// # Completion contract
//
// A Proxy method that returns nil has accepted the call and will invoke its
// done callback exactly once, from any goroutine. A Proxy method that
// returns an error has not started anything and never invokes done.
package ports
