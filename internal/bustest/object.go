package bustest

import (
	"fmt"
	"sync"

	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// Object is one published interface.
type Object struct {
	bus   *Bus
	path  string
	iface string

	mu       sync.Mutex
	handlers map[string]Handler
	props    propbag.Bag
}

// Handle registers h for method, replacing any earlier handler.
func (o *Object) Handle(method string, h Handler) *Object {
	o.mu.Lock()
	o.handlers[method] = h
	o.mu.Unlock()
	return o
}

// Reply registers a handler that always answers with body.
func (o *Object) Reply(method string, body ...propbag.Variant) *Object {
	return o.Handle(method, func([]any) ([]propbag.Variant, error) { return body, nil })
}

// Fail registers a handler that always answers with a remote fault.
func (o *Object) Fail(method, name, message string) *Object {
	return o.Handle(method, func([]any) ([]propbag.Variant, error) {
		return nil, &ports.RemoteError{Name: name, Message: message}
	})
}

// Set stores a property without emitting PropertyChanged.
func (o *Object) Set(name string, v propbag.Variant) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.props {
		if o.props[i].Name == name {
			o.props[i].Value = v
			return o
		}
	}
	o.props = append(o.props, propbag.Prop(name, v))
	return o
}

// Properties returns a copy of the property bag.
func (o *Object) Properties() propbag.Bag {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append(propbag.Bag(nil), o.props...)
}

func (o *Object) answer(method string, args []any) ports.Reply {
	o.mu.Lock()
	h, ok := o.handlers[method]
	props := append(propbag.Bag(nil), o.props...)
	o.mu.Unlock()

	if ok {
		body, err := h(args)
		return ports.Reply{Body: body, Err: err}
	}
	if method == "GetProperties" {
		return ports.Reply{Body: []propbag.Variant{propbag.Nested(props)}}
	}
	return ports.Reply{Err: &ports.RemoteError{
		Name:    "org.freedesktop.DBus.Error.UnknownMethod",
		Message: fmt.Sprintf("%s.%s not implemented", o.iface, method),
	}}
}

type proxy struct {
	conn *conn
	obj  *Object
}

func (p *proxy) Path() string      { return p.obj.path }
func (p *proxy) Interface() string { return p.obj.iface }

func (p *proxy) Call(method string, args []any, done func(ports.Reply)) error {
	if err := p.live(); err != nil {
		return err
	}
	return p.obj.bus.issue(p.record(method, args), func() ports.Reply {
		return p.obj.answer(method, args)
	}, done)
}

func (p *proxy) GetProperty(name string, done func(ports.Reply)) error {
	if err := p.live(); err != nil {
		return err
	}
	return p.obj.bus.issue(p.record("GetProperty", []any{name}), func() ports.Reply {
		r := p.obj.answer("GetProperties", nil)
		if r.Err != nil {
			return r
		}
		bag, _ := r.Body[0].AsBag()
		v, ok := bag.Get(name)
		if !ok {
			return ports.Reply{Err: &ports.RemoteError{
				Name:    "org.ofono.Error.NotFound",
				Message: name,
			}}
		}
		return ports.Reply{Body: []propbag.Variant{v}}
	}, done)
}

func (p *proxy) SetProperty(name string, value any, done func(ports.Reply)) error {
	if err := p.live(); err != nil {
		return err
	}
	args := []any{name, value}
	return p.obj.bus.issue(p.record("SetProperty", args), func() ports.Reply {
		p.obj.mu.Lock()
		h, ok := p.obj.handlers["SetProperty"]
		p.obj.mu.Unlock()
		if ok {
			body, err := h(args)
			return ports.Reply{Body: body, Err: err}
		}
		v, err := variantOf(value)
		if err != nil {
			return ports.Reply{Err: &ports.RemoteError{Name: "org.ofono.Error.InvalidArguments", Message: err.Error()}}
		}
		p.obj.Set(name, v)
		p.obj.bus.Emit(p.obj.path, p.obj.iface, "PropertyChanged", propbag.String(name), v)
		return ports.Reply{}
	}, done)
}

func (p *proxy) Close() error { return nil }

func (p *proxy) live() error {
	p.conn.mu.Lock()
	defer p.conn.mu.Unlock()
	if p.conn.closed {
		return ErrDisconnected
	}
	return nil
}

func (p *proxy) record(member string, args []any) Call {
	return Call{Path: p.obj.path, Interface: p.obj.iface, Member: member, Args: args}
}

func variantOf(v any) (propbag.Variant, error) {
	switch x := v.(type) {
	case propbag.Variant:
		return x, nil
	case ports.Variant:
		return variantOf(x.Value)
	case ports.ObjectPath:
		return propbag.String(string(x)), nil
	case bool:
		return propbag.Bool(x), nil
	case string:
		return propbag.String(x), nil
	case int:
		return propbag.Int(int64(x)), nil
	case int32:
		return propbag.Int(int64(x)), nil
	case int64:
		return propbag.Int(x), nil
	case uint32:
		return propbag.Int(int64(x)), nil
	case uint16:
		return propbag.Int(int64(x)), nil
	case uint8:
		return propbag.Int(int64(x)), nil
	default:
		return propbag.Variant{}, fmt.Errorf("unsupported value %T", v)
	}
}
