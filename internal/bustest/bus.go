// Package bustest provides an in-memory bus for exercising sessions without
// a running daemon.
//
// Objects are published per (path, interface). Method calls are answered by
// registered handlers; GetProperties, GetProperty and SetProperty are served
// from the object's property bag. Replies are delivered from a fresh
// goroutine unless the bus is holding them, in which case Flush releases
// them in issue order.
package bustest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// ErrDisconnected is returned for operations on a closed connection.
var ErrDisconnected = errors.New("bustest: disconnected")

// Handler answers one method call.
type Handler func(args []any) ([]propbag.Variant, error)

// Call records one issued operation.
type Call struct {
	Path      string
	Interface string
	Member    string
	Args      []any
}

// Bus is an in-memory daemon. The zero value is not usable; call New.
type Bus struct {
	mu         sync.Mutex
	objects    map[objectKey]*Object
	subs       map[uint64]*subscription
	nextSub    uint64
	hold       bool
	held       []func()
	calls      []Call
	clients    []string
	connectErr error
	issueErr   error
	conns      int
	live       []*conn
}

type objectKey struct {
	path  string
	iface string
}

type subscription struct {
	path, iface, member string
	handler             func(ports.Signal)
	onUnsubscribe       func()
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		objects: make(map[objectKey]*Object),
		subs:    make(map[uint64]*subscription),
	}
}

// Publish exposes iface at path. Publishing the same pair twice returns
// the existing object.
func (b *Bus) Publish(path, iface string) *Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := objectKey{path, iface}
	if o, ok := b.objects[k]; ok {
		return o
	}
	o := &Object{bus: b, path: path, iface: iface, handlers: make(map[string]Handler)}
	b.objects[k] = o
	return o
}

// Unpublish removes iface at path. Existing proxies keep working.
func (b *Bus) Unpublish(path, iface string) {
	b.mu.Lock()
	delete(b.objects, objectKey{path, iface})
	b.mu.Unlock()
}

// Hold queues replies instead of delivering them until Flush.
func (b *Bus) Hold(hold bool) {
	b.mu.Lock()
	b.hold = hold
	b.mu.Unlock()
}

// Flush delivers every held reply on the calling goroutine and returns how
// many there were.
func (b *Bus) Flush() int {
	b.mu.Lock()
	held := b.held
	b.held = nil
	b.mu.Unlock()
	for _, fn := range held {
		fn()
	}
	return len(held)
}

// Held returns the number of replies waiting for Flush.
func (b *Bus) Held() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.held)
}

// FailConnect makes every later Connect fail with err. Pass nil to clear.
func (b *Bus) FailConnect(err error) {
	b.mu.Lock()
	b.connectErr = err
	b.mu.Unlock()
}

// FailIssue makes every later operation fail synchronously with err, as a
// transport that cannot send would. Pass nil to clear.
func (b *Bus) FailIssue(err error) {
	b.mu.Lock()
	b.issueErr = err
	b.mu.Unlock()
}

// Calls returns every operation issued so far.
func (b *Bus) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Clients returns the names passed to Connect.
func (b *Bus) Clients() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.clients...)
}

// Subscriptions returns the number of live signal subscriptions.
func (b *Bus) Subscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Connections returns the number of open connections.
func (b *Bus) Connections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conns
}

// Emit delivers a signal to every matching subscription on the calling
// goroutine and returns how many received it.
func (b *Bus) Emit(path, iface, member string, body ...propbag.Variant) int {
	b.mu.Lock()
	var handlers []func(ports.Signal)
	for _, s := range b.subs {
		if s.path == path && s.iface == iface && s.member == member {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.Unlock()

	sig := ports.Signal{Path: path, Interface: iface, Member: member, Body: body}
	for _, h := range handlers {
		h(sig)
	}
	return len(handlers)
}

// Connect implements ports.Connector.
func (b *Bus) Connect(ctx context.Context, clientName string) (ports.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.connectErr != nil {
		return nil, b.connectErr
	}
	b.clients = append(b.clients, clientName)
	b.conns++
	c := &conn{bus: b, subs: make(map[uint64]struct{}), done: make(chan struct{})}
	b.live = append(b.live, c)
	return c, nil
}

// Disconnect drops every open connection as a daemon restart would.
// Subscriptions are removed and Done channels closed.
func (b *Bus) Disconnect() {
	b.mu.Lock()
	live := b.live
	b.live = nil
	b.mu.Unlock()
	for _, c := range live {
		_ = c.Close()
	}
}

func (b *Bus) issue(c Call, reply func() ports.Reply, done func(ports.Reply)) error {
	b.mu.Lock()
	if b.issueErr != nil {
		err := b.issueErr
		b.mu.Unlock()
		return err
	}
	b.calls = append(b.calls, c)
	deliver := func() { done(reply()) }
	if b.hold {
		b.held = append(b.held, deliver)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()
	go deliver()
	return nil
}

type conn struct {
	bus    *Bus
	mu     sync.Mutex
	closed bool
	subs   map[uint64]struct{}
	done   chan struct{}
}

func (c *conn) Done() <-chan struct{} { return c.done }

func (c *conn) Proxy(ctx context.Context, service, path, iface string) (ports.Proxy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrDisconnected
	}
	c.bus.mu.Lock()
	o, ok := c.bus.objects[objectKey{path, iface}]
	c.bus.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrNotPublished, iface, path)
	}
	return &proxy{conn: c, obj: o}, nil
}

func (c *conn) WatchSignal(service, path, iface, member string, handler func(ports.Signal), onUnsubscribe func()) (uint64, error) {
	if handler == nil {
		return 0, errors.New("bustest: nil signal handler")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrDisconnected
	}
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	if c.bus.issueErr != nil {
		return 0, c.bus.issueErr
	}
	c.bus.nextSub++
	id := c.bus.nextSub
	c.bus.subs[id] = &subscription{path: path, iface: iface, member: member, handler: handler, onUnsubscribe: onUnsubscribe}
	c.subs[id] = struct{}{}
	return id, nil
}

func (c *conn) Unwatch(id uint64) error {
	c.mu.Lock()
	_, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("bustest: unknown subscription %d", id)
	}
	c.bus.remove(id)
	return nil
}

func (c *conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDisconnected
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	close(c.done)
	c.mu.Unlock()

	for id := range subs {
		c.bus.remove(id)
	}
	c.bus.mu.Lock()
	c.bus.conns--
	for i, l := range c.bus.live {
		if l == c {
			c.bus.live = append(c.bus.live[:i], c.bus.live[i+1:]...)
			break
		}
	}
	c.bus.mu.Unlock()
	return nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	s, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if ok && s.onUnsubscribe != nil {
		s.onUnsubscribe()
	}
}
