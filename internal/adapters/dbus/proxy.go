package dbus

import (
	"errors"

	godbus "github.com/godbus/dbus/v5"

	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

type proxy struct {
	conn  *conn
	obj   godbus.BusObject
	path  string
	iface string
}

func (p *proxy) Path() string      { return p.path }
func (p *proxy) Interface() string { return p.iface }

func (p *proxy) Call(method string, args []any, done func(ports.Reply)) error {
	out, err := toArgs(args)
	if err != nil {
		return err
	}
	return p.issue(p.iface+"."+method, out, func(body []propbag.Variant) ports.Reply {
		return ports.Reply{Body: body}
	}, done)
}

// GetProperty fetches the whole property bag and answers with one entry.
// The daemon has no single-property getter.
func (p *proxy) GetProperty(name string, done func(ports.Reply)) error {
	return p.issue(p.iface+".GetProperties", nil, func(body []propbag.Variant) ports.Reply {
		if len(body) > 0 {
			if bag, ok := body[0].AsBag(); ok {
				if v, ok := bag.Get(name); ok {
					return ports.Reply{Body: []propbag.Variant{v}}
				}
			}
		}
		return ports.Reply{Err: &ports.RemoteError{Name: "org.ofono.Error.NotFound", Message: name}}
	}, done)
}

func (p *proxy) SetProperty(name string, value any, done func(ports.Reply)) error {
	v, err := toArg(ports.Variant{Value: value})
	if err != nil {
		return err
	}
	return p.issue(p.iface+".SetProperty", []any{name, v}, func([]propbag.Variant) ports.Reply {
		return ports.Reply{}
	}, done)
}

// Proxies hold no bus resources of their own.
func (p *proxy) Close() error { return nil }

// issue sends the call and waits for its reply on a fresh goroutine, so
// done never runs on the caller's stack.
func (p *proxy) issue(member string, args []any, answer func([]propbag.Variant) ports.Reply, done func(ports.Reply)) error {
	if err := p.conn.live(); err != nil {
		return err
	}
	call := p.obj.Go(member, 0, make(chan *godbus.Call, 1), args...)
	go func() {
		<-call.Done
		if call.Err != nil {
			if remote := remoteError(call.Err); remote != nil {
				done(ports.Reply{Err: remote})
				return
			}
			done(ports.Reply{Err: call.Err})
			return
		}
		body, err := fromBody(call.Body)
		if err != nil {
			done(ports.Reply{Err: err})
			return
		}
		done(answer(body))
	}()
	return nil
}

// remoteError converts a D-Bus error reply. Transport failures return nil.
func remoteError(err error) *ports.RemoteError {
	var byValue godbus.Error
	if errors.As(err, &byValue) {
		return newRemoteError(byValue)
	}
	var byPointer *godbus.Error
	if errors.As(err, &byPointer) && byPointer != nil {
		return newRemoteError(*byPointer)
	}
	return nil
}

func newRemoteError(e godbus.Error) *ports.RemoteError {
	r := &ports.RemoteError{Name: e.Name}
	if len(e.Body) > 0 {
		if msg, ok := e.Body[0].(string); ok {
			r.Message = msg
		}
	}
	return r
}
