package dbus

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	godbus "github.com/godbus/dbus/v5"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

// toArgs converts outgoing arguments to values godbus can marshal.
func toArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		v, err := toArg(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func toArg(a any) (any, error) {
	switch x := a.(type) {
	case ports.ObjectPath:
		p := godbus.ObjectPath(x)
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: invalid object path %q", domain.ErrInvalidArgument, x)
		}
		return p, nil
	case ports.Variant:
		inner, err := toArg(x.Value)
		if err != nil {
			return nil, err
		}
		return godbus.MakeVariant(inner), nil
	case propbag.Variant:
		return fromVariant(x)
	case int:
		// Plain ints go out as int32, the width every daemon property uses.
		if x < math.MinInt32 || x > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %d overflows int32", domain.ErrInvalidArgument, x)
		}
		return int32(x), nil
	case nil:
		return nil, fmt.Errorf("%w: nil argument", domain.ErrInvalidArgument)
	default:
		return a, nil
	}
}

// fromVariant converts a decoded value back to a marshallable one.
func fromVariant(v propbag.Variant) (any, error) {
	switch v.Kind() {
	case propbag.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case propbag.KindInt:
		i, _ := v.AsInt()
		return i, nil
	case propbag.KindString:
		s, _ := v.AsString()
		return s, nil
	default:
		return nil, fmt.Errorf("%w: cannot send %s value", domain.ErrInvalidArgument, v.Kind())
	}
}

// fromBody converts a reply or signal body.
func fromBody(body []any) ([]propbag.Variant, error) {
	out := make([]propbag.Variant, len(body))
	for i, b := range body {
		v, err := fromValue(b)
		if err != nil {
			return nil, fmt.Errorf("%w: body argument %d: %v", domain.ErrMalformed, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// fromValue converts one unmarshalled D-Bus value. Dictionaries with
// string keys become property bags ordered by key, structs and arrays
// become arrays.
func fromValue(x any) (propbag.Variant, error) {
	switch v := x.(type) {
	case godbus.Variant:
		return fromValue(v.Value())
	case godbus.ObjectPath:
		return propbag.String(string(v)), nil
	case godbus.Signature:
		return propbag.String(v.String()), nil
	case string:
		return propbag.String(v), nil
	case bool:
		return propbag.Bool(v), nil
	case byte:
		return propbag.Int(int64(v)), nil
	case int16:
		return propbag.Int(int64(v)), nil
	case uint16:
		return propbag.Int(int64(v)), nil
	case int32:
		return propbag.Int(int64(v)), nil
	case uint32:
		return propbag.Int(int64(v)), nil
	case int64:
		return propbag.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return propbag.Variant{}, fmt.Errorf("uint64 %d overflows", v)
		}
		return propbag.Int(int64(v)), nil
	case map[string]godbus.Variant:
		return bagOf(len(v), func(yield func(string, any)) {
			for k, e := range v {
				yield(k, e)
			}
		})
	case []any:
		return arrayOf(len(v), func(i int) any { return v[i] })
	case []string:
		return propbag.Strings(v...), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return arrayOf(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return propbag.Variant{}, fmt.Errorf("map keyed by %s", rv.Type().Key())
		}
		return bagOf(rv.Len(), func(yield func(string, any)) {
			it := rv.MapRange()
			for it.Next() {
				yield(it.Key().String(), it.Value().Interface())
			}
		})
	}
	return propbag.Variant{}, fmt.Errorf("unsupported type %T", x)
}

func arrayOf(n int, at func(int) any) (propbag.Variant, error) {
	out := make([]propbag.Variant, n)
	for i := range out {
		v, err := fromValue(at(i))
		if err != nil {
			return propbag.Variant{}, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return propbag.Array(out...), nil
}

func bagOf(n int, each func(yield func(string, any))) (propbag.Variant, error) {
	bag := make(propbag.Bag, 0, n)
	var err error
	each(func(k string, e any) {
		if err != nil {
			return
		}
		v, convErr := fromValue(e)
		if convErr != nil {
			err = fmt.Errorf("property %s: %w", k, convErr)
			return
		}
		bag = append(bag, propbag.Prop(k, v))
	})
	if err != nil {
		return propbag.Variant{}, err
	}
	sort.Slice(bag, func(i, j int) bool { return bag[i].Name < bag[j].Name })
	return propbag.Nested(bag), nil
}
