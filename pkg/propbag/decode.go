package propbag

import "fmt"

// Report describes what a decode left out. A decode with a non-empty
// report still succeeded; the record holds every property that fit.
type Report struct {
	// Dropped lists property names that were present but skipped.
	Dropped []string
	// Truncated counts listing entries beyond the requested maximum.
	Truncated int
}

// Partial reports whether anything was left out.
func (r Report) Partial() bool {
	return len(r.Dropped) > 0 || r.Truncated > 0
}

func (r *Report) merge(prefix string, o Report) {
	for _, d := range o.Dropped {
		r.Dropped = append(r.Dropped, prefix+d)
	}
	r.Truncated += o.Truncated
}

// DecodeRecord decodes bag into a record using table t.
func DecodeRecord[R any](bag Bag, t *Table[R]) (R, Report, error) {
	return t.Decode(bag)
}

// DecodeEntry decodes a listing entry, binding its object id to the
// table's ObjectID field when one is declared.
func DecodeEntry[R any](e Entry, t *Table[R]) (R, Report, error) {
	return t.decodeEntry(e)
}

// DecodeList decodes at most max entries. Entries past max are not decoded
// and only counted in Report.Truncated. A malformed entry fails the whole
// list.
func DecodeList[R any](entries []Entry, t *Table[R], max int) ([]R, Report, error) {
	if max < 0 {
		max = 0
	}
	n := min(len(entries), max)
	out := make([]R, 0, n)
	var rep Report
	for i := 0; i < n; i++ {
		rec, sub, err := t.decodeEntry(entries[i])
		if err != nil {
			return nil, Report{}, fmt.Errorf("entry %d (%s): %w", i, entries[i].ObjectID, err)
		}
		rep.merge(entries[i].ObjectID+":", sub)
		out = append(out, rec)
	}
	rep.Truncated += len(entries) - n
	return out, rep, nil
}

// DecodeFixedArray reads a flat numeric array whose length must be exactly
// expectedLen.
func DecodeFixedArray(v Variant, expectedLen int) ([]int64, error) {
	arr, ok := v.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", ErrMalformed, v.Kind())
	}
	if len(arr) != expectedLen {
		return nil, fmt.Errorf("%w: array length %d, want %d", ErrMalformed, len(arr), expectedLen)
	}
	out := make([]int64, expectedLen)
	for i, e := range arr {
		x, ok := e.AsInt()
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s, want int", ErrMalformed, i, e.Kind())
		}
		out[i] = x
	}
	return out, nil
}
