package ports

//go:generate mockgen -source=bus.go -destination=../mocks/bus.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/bft-labs/telebus/pkg/propbag"
)

// Connector opens bus connections.
type Connector interface {
	// Connect establishes the connection and registers clientName on the bus.
	Connect(ctx context.Context, clientName string) (Conn, error)
}

// Conn is one open bus connection.
type Conn interface {
	// Proxy returns a handle to iface on the object at path owned by service.
	// It returns domain.ErrNotPublished when the object does not implement
	// iface.
	Proxy(ctx context.Context, service, path, iface string) (Proxy, error)

	// WatchSignal subscribes to member on iface at path. handler runs on a
	// transport goroutine for every matching signal. onUnsubscribe, if not
	// nil, runs once after the subscription is removed.
	WatchSignal(service, path, iface, member string, handler func(Signal), onUnsubscribe func()) (uint64, error)

	// Unwatch removes a subscription created by WatchSignal.
	Unwatch(id uint64) error

	// Done is closed when the connection is lost or closed.
	Done() <-chan struct{}

	// Close releases every subscription and the connection itself.
	Close() error
}

// Proxy is a handle to one interface of one remote object.
//
// Call, GetProperty and SetProperty never block on the remote side. When
// they return nil, done is invoked exactly once later, from any goroutine.
// When they return an error, done is never invoked.
type Proxy interface {
	Path() string
	Interface() string

	// Call invokes method with args in the order the remote signature
	// declares them.
	Call(method string, args []any, done func(Reply)) error

	// GetProperty reads one property. The reply body holds its value.
	GetProperty(name string, done func(Reply)) error

	// SetProperty writes one property.
	SetProperty(name string, value any, done func(Reply)) error

	// Close releases the handle.
	Close() error
}

// ObjectPath marks a string argument that must be sent as an object path.
type ObjectPath string

// Variant marks an argument that must be sent wrapped in a variant, e.g. the
// value of a SetProperty method call.
type Variant struct {
	Value any
}

// Reply is the completion of one remote call.
type Reply struct {
	Body []propbag.Variant
	// Err is a *RemoteError when the daemon answered with a fault, or a
	// transport error when the call never completed.
	Err error
}

// Signal is one delivered signal.
type Signal struct {
	Path      string
	Interface string
	Member    string
	Body      []propbag.Variant
}

// RemoteError is a fault reported by the remote daemon.
type RemoteError struct {
	Name    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}
