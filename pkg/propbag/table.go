package propbag

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrMalformed is returned when a value does not have the shape a record
// requires. It aborts the whole decode.
var ErrMalformed = errors.New("propbag: malformed")

// errSkipped marks a single property that was left out of the record.
var errSkipped = errors.New("propbag: skipped")

type setFunc func(dst reflect.Value, v Variant, rep *Report) error

type binding struct {
	prop  string
	index []int
	set   setFunc
}

// Field binds one property name to one struct field of R. Fields are built
// with Str, Int, Bool, StrList, FixedInts, Nested and ObjectID.
type Field[R any] struct {
	prop   string
	target string
	id     bool
	check  func(reflect.Type) error
	set    setFunc
}

// Table is the decode table of one record kind. It is built once, usually
// at package init, and is safe for concurrent use afterwards.
type Table[R any] struct {
	kind   string
	fields map[string]binding
	id     *binding
}

// NewTable builds the table for record type R.
//
// It panics if R is not a struct, if a property name is bound twice, if a
// binding names a missing field or one of the wrong type, or if an exported
// field of R is not bound by anything. Fields tagged `propbag:"-"` are
// excluded from the last check.
func NewTable[R any](kind string, fields ...Field[R]) *Table[R] {
	t, err := buildTable(kind, fields)
	if err != nil {
		panic(err)
	}
	return t
}

func buildTable[R any](kind string, fields []Field[R]) (*Table[R], error) {
	rt := reflect.TypeFor[R]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("propbag: %s: record type %s is not a struct", kind, rt)
	}

	t := &Table[R]{kind: kind, fields: make(map[string]binding, len(fields))}
	covered := make(map[string]bool, len(fields))

	for _, f := range fields {
		if f.set == nil {
			return nil, fmt.Errorf("propbag: %s: binding for %q has no setter", kind, f.target)
		}
		sf, ok := rt.FieldByName(f.target)
		if !ok || !sf.IsExported() {
			return nil, fmt.Errorf("propbag: %s: no exported field %q", kind, f.target)
		}
		if err := f.check(sf.Type); err != nil {
			return nil, fmt.Errorf("propbag: %s.%s: %w", kind, f.target, err)
		}
		b := binding{prop: f.prop, index: sf.Index, set: f.set}

		if f.id {
			if t.id != nil {
				return nil, fmt.Errorf("propbag: %s: object id bound twice", kind)
			}
			t.id = &b
		} else {
			if f.prop == "" {
				return nil, fmt.Errorf("propbag: %s.%s: empty property name", kind, f.target)
			}
			if _, dup := t.fields[f.prop]; dup {
				return nil, fmt.Errorf("propbag: %s: property %q bound twice", kind, f.prop)
			}
			t.fields[f.prop] = b
		}
		covered[f.target] = true
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Tag.Get("propbag") == "-" {
			continue
		}
		if !covered[sf.Name] {
			return nil, fmt.Errorf("propbag: %s: field %q is not bound to any property", kind, sf.Name)
		}
	}
	return t, nil
}

// Kind returns the record kind name the table was built with.
func (t *Table[R]) Kind() string { return t.kind }

// Properties returns the bound property names, sorted.
func (t *Table[R]) Properties() []string {
	out := make([]string, 0, len(t.fields))
	for name := range t.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Decode fills a new R from bag. Unknown properties are ignored. Properties
// whose value has the wrong type or does not fit are left out and listed in
// the report. A shape error aborts the decode and no record is returned.
func (t *Table[R]) Decode(bag Bag) (R, Report, error) {
	var rec R
	var rep Report
	rv := reflect.ValueOf(&rec).Elem()
	for _, p := range bag {
		b, ok := t.fields[p.Name]
		if !ok {
			continue
		}
		if err := t.apply(rv, b, p.Value, &rep); err != nil {
			var zero R
			return zero, Report{}, err
		}
	}
	return rec, rep, nil
}

func (t *Table[R]) apply(rv reflect.Value, b binding, v Variant, rep *Report) error {
	err := b.set(rv.FieldByIndex(b.index), v, rep)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errSkipped):
		rep.Dropped = append(rep.Dropped, b.prop)
		return nil
	default:
		return fmt.Errorf("%s.%s: %w", t.kind, b.prop, err)
	}
}

func (t *Table[R]) decodeEntry(e Entry) (R, Report, error) {
	rec, rep, err := t.Decode(e.Props)
	if err != nil || t.id == nil {
		return rec, rep, err
	}
	rv := reflect.ValueOf(&rec).Elem()
	if err := t.apply(rv, *t.id, String(e.ObjectID), &rep); err != nil {
		var zero R
		return zero, Report{}, err
	}
	return rec, rep, nil
}
