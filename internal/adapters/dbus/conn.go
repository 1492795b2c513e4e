package dbus

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	godbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

const introspectMethod = "org.freedesktop.DBus.Introspectable.Introspect"

// ErrDisconnected is returned for operations on a closed connection.
var ErrDisconnected = errors.New("dbus: connection closed")

// conn implements ports.Conn. A single router goroutine reads every signal
// godbus receives and hands it to the matching subscriptions.
type conn struct {
	bus    *godbus.Conn
	logger ports.Logger

	signals chan *godbus.Signal
	stopped chan struct{}

	mu      sync.Mutex
	closed  bool
	nextSub uint64
	subs    map[uint64]*subscription
	// ifaces caches introspection results per (service, path).
	ifaces map[string][]string
}

type subscription struct {
	match         []godbus.MatchOption
	path          godbus.ObjectPath
	name          string // interface.member
	handler       func(ports.Signal)
	onUnsubscribe func()
}

func newConn(bus *godbus.Conn, logger ports.Logger) *conn {
	c := &conn{
		bus:     bus,
		logger:  logger,
		signals: make(chan *godbus.Signal, 64),
		stopped: make(chan struct{}),
		subs:    make(map[uint64]*subscription),
		ifaces:  make(map[string][]string),
	}
	bus.Signal(c.signals)
	go c.route()
	return c
}

func (c *conn) Done() <-chan struct{} {
	return c.bus.Context().Done()
}

// Proxy introspects path once and fails with domain.ErrNotPublished when
// the object does not exist or does not implement iface.
func (c *conn) Proxy(ctx context.Context, service, path, iface string) (ports.Proxy, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	if !godbus.ObjectPath(path).IsValid() {
		return nil, fmt.Errorf("%w: invalid object path %q", domain.ErrInvalidArgument, path)
	}
	ifaces, err := c.introspect(ctx, service, path)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(ifaces, iface) {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrNotPublished, iface, path)
	}
	return &proxy{
		conn:  c,
		obj:   c.bus.Object(service, godbus.ObjectPath(path)),
		path:  path,
		iface: iface,
	}, nil
}

func (c *conn) introspect(ctx context.Context, service, path string) ([]string, error) {
	key := service + path
	c.mu.Lock()
	cached, ok := c.ifaces[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var data string
	obj := c.bus.Object(service, godbus.ObjectPath(path))
	if err := obj.CallWithContext(ctx, introspectMethod, 0).Store(&data); err != nil {
		if remote := remoteError(err); remote != nil && unknownObject(remote.Name) {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrNotPublished, path, remote.Name)
		}
		return nil, fmt.Errorf("introspect %s: %w", path, err)
	}
	var node introspect.Node
	if err := xml.NewDecoder(strings.NewReader(data)).Decode(&node); err != nil {
		return nil, fmt.Errorf("introspect %s: %w", path, err)
	}
	names := make([]string, 0, len(node.Interfaces))
	for _, i := range node.Interfaces {
		names = append(names, i.Name)
	}

	c.mu.Lock()
	c.ifaces[key] = names
	c.mu.Unlock()
	return names, nil
}

func unknownObject(name string) bool {
	switch name {
	case "org.freedesktop.DBus.Error.UnknownObject",
		"org.freedesktop.DBus.Error.UnknownMethod",
		"org.freedesktop.DBus.Error.UnknownInterface":
		return true
	}
	return false
}

func (c *conn) WatchSignal(service, path, iface, member string, handler func(ports.Signal), onUnsubscribe func()) (uint64, error) {
	if handler == nil {
		return 0, fmt.Errorf("%w: nil signal handler", domain.ErrInvalidArgument)
	}
	if err := c.live(); err != nil {
		return 0, err
	}
	match := []godbus.MatchOption{
		godbus.WithMatchSender(service),
		godbus.WithMatchObjectPath(godbus.ObjectPath(path)),
		godbus.WithMatchInterface(iface),
		godbus.WithMatchMember(member),
	}
	if err := c.bus.AddMatchSignal(match...); err != nil {
		return 0, fmt.Errorf("add match %s.%s on %s: %w", iface, member, path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = c.bus.RemoveMatchSignal(match...)
		return 0, ErrDisconnected
	}
	c.nextSub++
	id := c.nextSub
	c.subs[id] = &subscription{
		match:         match,
		path:          godbus.ObjectPath(path),
		name:          iface + "." + member,
		handler:       handler,
		onUnsubscribe: onUnsubscribe,
	}
	return id, nil
}

func (c *conn) Unwatch(id uint64) error {
	c.mu.Lock()
	s, ok := c.subs[id]
	delete(c.subs, id)
	closed := c.closed
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown subscription %d", domain.ErrInvalidArgument, id)
	}

	var err error
	if !closed {
		err = c.bus.RemoveMatchSignal(s.match...)
	}
	if s.onUnsubscribe != nil {
		s.onUnsubscribe()
	}
	return err
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
	c.mu.Unlock()

	for _, s := range subs {
		_ = c.bus.RemoveMatchSignal(s.match...)
		if s.onUnsubscribe != nil {
			s.onUnsubscribe()
		}
	}
	c.bus.RemoveSignal(c.signals)
	close(c.stopped)
	return c.bus.Close()
}

func (c *conn) live() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.bus.Context().Err() != nil {
		return ErrDisconnected
	}
	return nil
}

func (c *conn) route() {
	for {
		select {
		case <-c.stopped:
			return
		case sig, ok := <-c.signals:
			if !ok {
				return
			}
			c.deliver(sig)
		}
	}
}

func (c *conn) deliver(sig *godbus.Signal) {
	c.mu.Lock()
	var handlers []func(ports.Signal)
	for _, s := range c.subs {
		if s.path == sig.Path && s.name == sig.Name {
			handlers = append(handlers, s.handler)
		}
	}
	c.mu.Unlock()
	if len(handlers) == 0 {
		return
	}

	body, err := fromBody(sig.Body)
	if err != nil {
		// Watch builders report malformed bodies; an unconvertible one
		// arrives empty.
		c.logger.Warn("signal body not convertible",
			log.String("path", string(sig.Path)),
			log.String("signal", sig.Name),
			log.Err(err),
		)
		body = nil
	}
	iface, member := splitName(sig.Name)
	out := ports.Signal{Path: string(sig.Path), Interface: iface, Member: member, Body: body}
	for _, h := range handlers {
		h(out)
	}
}

func splitName(name string) (iface, member string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}
