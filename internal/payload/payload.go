// Package payload builds the transient result containers handed to
// completion callbacks.
//
// A Payload is borrowed by the callback. Deliver releases it as soon as the
// callback returns, on every path, so callers must copy anything they want
// to keep.
package payload

import (
	"fmt"
	"reflect"

	"github.com/bft-labs/telebus/pkg/propbag"
)

// Payload holds one decoded value until it is released.
type Payload[T any] struct {
	value    T
	report   propbag.Report
	released bool
}

// New wraps an already decoded value.
func New[T any](v T, rep propbag.Report) *Payload[T] {
	return &Payload[T]{value: v, report: rep}
}

// Value returns the decoded value. It is the zero value after Release.
func (p *Payload[T]) Value() T { return p.value }

// Report returns what the decoder left out.
func (p *Payload[T]) Report() propbag.Report { return p.report }

// Released reports whether Release has run.
func (p *Payload[T]) Released() bool { return p.released }

// Release zeroes the value. Slice elements are zeroed in place so a slice
// header retained past the callback no longer exposes the records.
// Calling Release more than once has no effect.
func (p *Payload[T]) Release() {
	if p.released {
		return
	}
	p.released = true
	rv := reflect.ValueOf(&p.value).Elem()
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			rv.Index(i).SetZero()
		}
	}
	var zero T
	p.value = zero
	p.report = propbag.Report{}
}

// Deliver hands the value to fn and releases the payload when fn returns
// or panics.
func (p *Payload[T]) Deliver(fn func(T, propbag.Report)) {
	defer p.Release()
	fn(p.value, p.report)
}

// Builder turns a reply or signal body into a payload.
type Builder[T any] func(body []propbag.Variant) (*Payload[T], error)

// Record decodes the first body argument as a property bag.
func Record[R any](t *propbag.Table[R]) Builder[R] {
	return func(body []propbag.Variant) (*Payload[R], error) {
		bag, err := bagArg(body, 0)
		if err != nil {
			return nil, err
		}
		rec, rep, err := propbag.DecodeRecord(bag, t)
		if err != nil {
			return nil, err
		}
		return New(rec, rep), nil
	}
}

// List decodes the first body argument as a listing of at most max records.
func List[R any](t *propbag.Table[R], max int) Builder[[]R] {
	return func(body []propbag.Variant) (*Payload[[]R], error) {
		if len(body) < 1 {
			return nil, fmt.Errorf("%w: empty body, want listing", propbag.ErrMalformed)
		}
		// Entries past the cap are dropped unchecked.
		entries, rest, err := propbag.Listing(body[0], max)
		if err != nil {
			return nil, err
		}
		recs, rep, err := propbag.DecodeList(entries, t, max)
		if err != nil {
			return nil, err
		}
		rep.Truncated += rest
		return New(recs, rep), nil
	}
}

// Table decodes the named property of the first body argument as a numeric
// array of exactly n elements.
func Table(prop string, n int) Builder[[]int64] {
	return func(body []propbag.Variant) (*Payload[[]int64], error) {
		bag, err := bagArg(body, 0)
		if err != nil {
			return nil, err
		}
		v, ok := bag.Get(prop)
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", propbag.ErrMalformed, prop)
		}
		vals, err := propbag.DecodeFixedArray(v, n)
		if err != nil {
			return nil, err
		}
		return New(vals, propbag.Report{}), nil
	}
}

// Func adapts a custom body decoder.
func Func[T any](decode func([]propbag.Variant) (T, propbag.Report, error)) Builder[T] {
	return func(body []propbag.Variant) (*Payload[T], error) {
		v, rep, err := decode(body)
		if err != nil {
			return nil, err
		}
		return New(v, rep), nil
	}
}

// Empty accepts any body and carries no value. Used for calls whose reply
// only signals completion.
func Empty() Builder[struct{}] {
	return func([]propbag.Variant) (*Payload[struct{}], error) {
		return New(struct{}{}, propbag.Report{}), nil
	}
}

// Value returns the first body argument unchanged.
func Value() Builder[propbag.Variant] {
	return func(body []propbag.Variant) (*Payload[propbag.Variant], error) {
		if len(body) < 1 || !body[0].Valid() {
			return nil, fmt.Errorf("%w: empty body, want value", propbag.ErrMalformed)
		}
		return New(body[0], propbag.Report{}), nil
	}
}

// String returns the first body argument as a string, e.g. an object path.
func String() Builder[string] {
	return func(body []propbag.Variant) (*Payload[string], error) {
		if len(body) < 1 {
			return nil, fmt.Errorf("%w: empty body, want string", propbag.ErrMalformed)
		}
		s, ok := body[0].AsString()
		if !ok {
			return nil, fmt.Errorf("%w: reply is %s, want string", propbag.ErrMalformed, body[0].Kind())
		}
		return New(s, propbag.Report{}), nil
	}
}

func bagArg(body []propbag.Variant, i int) (propbag.Bag, error) {
	if len(body) <= i {
		return nil, fmt.Errorf("%w: body has %d arguments, want property bag at %d", propbag.ErrMalformed, len(body), i)
	}
	bag, ok := body[i].AsBag()
	if !ok {
		return nil, fmt.Errorf("%w: argument %d is %s, want property bag", propbag.ErrMalformed, i, body[i].Kind())
	}
	return bag, nil
}
