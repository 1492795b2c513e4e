package propbag

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what a Variant holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
	KindBag
	KindArray
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBag:
		return "bag"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Variant is a dynamically typed value reported by the remote service.
// The zero Variant is invalid.
type Variant struct {
	kind Kind
	b    bool
	i    int64
	s    string
	bag  Bag
	arr  []Variant
}

// Bool wraps a boolean.
func Bool(v bool) Variant { return Variant{kind: KindBool, b: v} }

// Int wraps an integer. Every integer width on the wire maps here.
func Int(v int64) Variant { return Variant{kind: KindInt, i: v} }

// String wraps a string. Object paths are reported as strings too.
func String(v string) Variant { return Variant{kind: KindString, s: v} }

// Nested wraps a nested property bag.
func Nested(b Bag) Variant { return Variant{kind: KindBag, bag: b} }

// Array wraps a sequence of variants.
func Array(vs ...Variant) Variant {
	if vs == nil {
		vs = []Variant{}
	}
	return Variant{kind: KindArray, arr: vs}
}

// Ints is shorthand for an array of integers.
func Ints(vs ...int64) Variant {
	arr := make([]Variant, len(vs))
	for i, v := range vs {
		arr[i] = Int(v)
	}
	return Variant{kind: KindArray, arr: arr}
}

// Strings is shorthand for an array of strings.
func Strings(vs ...string) Variant {
	arr := make([]Variant, len(vs))
	for i, v := range vs {
		arr[i] = String(v)
	}
	return Variant{kind: KindArray, arr: arr}
}

// Kind reports what v holds.
func (v Variant) Kind() Kind { return v.kind }

// Valid reports whether v holds a value.
func (v Variant) Valid() bool { return v.kind != KindInvalid }

// AsBool returns the boolean held by v.
func (v Variant) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Variant) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsString returns the string held by v.
func (v Variant) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBag returns the nested bag held by v.
func (v Variant) AsBag() (Bag, bool) { return v.bag, v.kind == KindBag }

// AsArray returns the elements held by v.
func (v Variant) AsArray() ([]Variant, bool) { return v.arr, v.kind == KindArray }

// Equal reports whether v and o hold the same value.
func (v Variant) Equal(o Variant) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindBag:
		return v.bag.Equal(o.bag)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Variant) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	case KindBag:
		return v.bag.String()
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "<invalid>"
	}
}

// Property is one named attribute of a remote object.
type Property struct {
	Name  string
	Value Variant
}

// Prop is shorthand for building a Property.
func Prop(name string, value Variant) Property {
	return Property{Name: name, Value: value}
}

// Bag is an ordered sequence of properties as reported by the remote service.
type Bag []Property

// Get returns the first property called name.
func (b Bag) Get(name string) (Variant, bool) {
	for _, p := range b {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Variant{}, false
}

// Equal reports whether both bags hold the same properties in the same order.
func (b Bag) Equal(o Bag) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i].Name != o[i].Name || !b[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

func (b Bag) String() string {
	parts := make([]string, len(b))
	for i, p := range b {
		parts[i] = fmt.Sprintf("%s=%s", p.Name, p.Value)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Entry is one (object id, properties) element of a listing reply.
type Entry struct {
	ObjectID string
	Props    Bag
}

// Entries interprets v as a listing: an array whose elements are
// two-element arrays of (object id string, nested bag).
func Entries(v Variant) ([]Entry, error) {
	out, _, err := Listing(v, -1)
	return out, err
}

// Listing is Entries limited to the first max elements. Elements past max
// are not inspected; their count is returned as rest. A negative max means
// no limit.
func Listing(v Variant, max int) (entries []Entry, rest int, err error) {
	arr, ok := v.AsArray()
	if !ok {
		return nil, 0, fmt.Errorf("%w: listing is %s, want array", ErrMalformed, v.Kind())
	}
	if max >= 0 && len(arr) > max {
		rest = len(arr) - max
		arr = arr[:max]
	}
	out := make([]Entry, 0, len(arr))
	for i, elem := range arr {
		pair, ok := elem.AsArray()
		if !ok || len(pair) != 2 {
			return nil, 0, fmt.Errorf("%w: listing entry %d is not a pair", ErrMalformed, i)
		}
		id, ok := pair[0].AsString()
		if !ok {
			return nil, 0, fmt.Errorf("%w: listing entry %d has no object id", ErrMalformed, i)
		}
		props, ok := pair[1].AsBag()
		if !ok {
			return nil, 0, fmt.Errorf("%w: listing entry %d has no properties", ErrMalformed, i)
		}
		out = append(out, Entry{ObjectID: id, Props: props})
	}
	return out, rest, nil
}
