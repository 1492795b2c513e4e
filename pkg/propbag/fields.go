package propbag

import (
	"fmt"
	"reflect"
)

// Str binds a string property to a string field. Values longer than
// capacity bytes leave the field unchanged.
func Str[R any](prop, target string, capacity int) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check: func(t reflect.Type) error {
			if capacity <= 0 {
				return fmt.Errorf("capacity %d must be positive", capacity)
			}
			return wantKind(t, reflect.String)
		},
		set: func(dst reflect.Value, v Variant, _ *Report) error {
			s, ok := v.AsString()
			if !ok || len(s) > capacity {
				return errSkipped
			}
			dst.SetString(s)
			return nil
		},
	}
}

// ObjectID binds the object id of a listing entry to a string field.
func ObjectID[R any](target string, capacity int) Field[R] {
	f := Str[R]("<object>", target, capacity)
	f.id = true
	return f
}

// IntField binds an integer property to any signed or unsigned integer field.
// Values that do not fit the field are skipped.
func IntField[R any](prop, target string) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check:  wantInteger,
		set: func(dst reflect.Value, v Variant, _ *Report) error {
			i, ok := v.AsInt()
			if !ok || !setInteger(dst, i) {
				return errSkipped
			}
			return nil
		},
	}
}

// BoolField binds a boolean property to a bool field.
func BoolField[R any](prop, target string) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check: func(t reflect.Type) error {
			return wantKind(t, reflect.Bool)
		},
		set: func(dst reflect.Value, v Variant, _ *Report) error {
			b, ok := v.AsBool()
			if !ok {
				return errSkipped
			}
			dst.SetBool(b)
			return nil
		},
	}
}

// StrList binds an array of strings to a []string field. At most maxItems
// elements are kept and elements longer than capacity are dropped. A value
// that is not an array of strings is skipped.
func StrList[R any](prop, target string, maxItems, capacity int) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check: func(t reflect.Type) error {
			if maxItems <= 0 || capacity <= 0 {
				return fmt.Errorf("limits %d/%d must be positive", maxItems, capacity)
			}
			if t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.String {
				return fmt.Errorf("field type %s, want []string", t)
			}
			return nil
		},
		set: func(dst reflect.Value, v Variant, _ *Report) error {
			arr, ok := v.AsArray()
			if !ok {
				return errSkipped
			}
			out := reflect.MakeSlice(dst.Type(), 0, min(len(arr), maxItems))
			for _, e := range arr {
				s, ok := e.AsString()
				if !ok {
					return errSkipped
				}
				if len(s) > capacity || out.Len() == maxItems {
					continue
				}
				out = reflect.Append(out, reflect.ValueOf(s).Convert(dst.Type().Elem()))
			}
			dst.Set(out)
			return nil
		},
	}
}

// FixedInts binds a numeric array of exactly n elements to an [n]int field.
// Any other length aborts the whole decode with ErrMalformed.
func FixedInts[R any](prop, target string, n int) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check: func(t reflect.Type) error {
			if t.Kind() != reflect.Array || t.Len() != n {
				return fmt.Errorf("field type %s, want [%d]int", t, n)
			}
			return wantInteger(t.Elem())
		},
		set: func(dst reflect.Value, v Variant, _ *Report) error {
			vals, err := DecodeFixedArray(v, n)
			if err != nil {
				return err
			}
			tmp := reflect.New(dst.Type()).Elem()
			for i, x := range vals {
				if !setInteger(tmp.Index(i), x) {
					return fmt.Errorf("%w: element %d out of range", ErrMalformed, i)
				}
			}
			dst.Set(tmp)
			return nil
		},
	}
}

// NestedField binds a nested property bag to a field of record type N, decoded
// with table t. Properties dropped inside the nested record are reported as
// "prop.name".
func NestedField[R, N any](prop, target string, t *Table[N]) Field[R] {
	return Field[R]{
		prop:   prop,
		target: target,
		check: func(ft reflect.Type) error {
			if t == nil {
				return fmt.Errorf("nil nested table")
			}
			if want := reflect.TypeFor[N](); ft != want {
				return fmt.Errorf("field type %s, want %s", ft, want)
			}
			return nil
		},
		set: func(dst reflect.Value, v Variant, rep *Report) error {
			bag, ok := v.AsBag()
			if !ok {
				return errSkipped
			}
			rec, sub, err := t.Decode(bag)
			if err != nil {
				return err
			}
			for _, d := range sub.Dropped {
				rep.Dropped = append(rep.Dropped, prop+"."+d)
			}
			dst.Set(reflect.ValueOf(rec))
			return nil
		},
	}
}

func wantKind(t reflect.Type, k reflect.Kind) error {
	if t.Kind() != k {
		return fmt.Errorf("field type %s, want %s", t, k)
	}
	return nil
}

func wantInteger(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	}
	return fmt.Errorf("field type %s, want an integer", t)
}

func setInteger(dst reflect.Value, i int64) bool {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if dst.OverflowInt(i) {
			return false
		}
		dst.SetInt(i)
	default:
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return false
		}
		dst.SetUint(uint64(i))
	}
	return true
}
