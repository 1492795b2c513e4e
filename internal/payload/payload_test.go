package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/telebus/pkg/propbag"
)

type rec struct {
	Path string
	Name string
}

var recTable = propbag.NewTable("rec",
	propbag.ObjectID[rec]("Path", 32),
	propbag.Str[rec]("Name", "Name", 8),
)

func listing(names ...string) propbag.Variant {
	out := make([]propbag.Variant, len(names))
	for i, n := range names {
		out[i] = propbag.Array(propbag.String("/o/"+n), propbag.Nested(propbag.Bag{propbag.Prop("Name", propbag.String(n))}))
	}
	return propbag.Array(out...)
}

func TestDeliver_ReleasesAfterCallback(t *testing.T) {
	p, err := Record(recTable)([]propbag.Variant{propbag.Nested(propbag.Bag{
		propbag.Prop("Name", propbag.String("a")),
	})})
	require.NoError(t, err)

	var seen rec
	p.Deliver(func(v rec, _ propbag.Report) {
		assert.False(t, p.Released())
		seen = v
	})
	assert.Equal(t, "a", seen.Name)
	assert.True(t, p.Released())
	assert.Equal(t, rec{}, p.Value())
}

func TestDeliver_ReleasesOnPanic(t *testing.T) {
	p := New([]rec{{Name: "x"}}, propbag.Report{Truncated: 1})
	assert.Panics(t, func() {
		p.Deliver(func([]rec, propbag.Report) { panic("boom") })
	})
	assert.True(t, p.Released())
	assert.Nil(t, p.Value())
	assert.Equal(t, propbag.Report{}, p.Report())
}

func TestRelease_ZeroesRetainedSlice(t *testing.T) {
	p, err := List(recTable, 4)([]propbag.Variant{listing("a", "b")})
	require.NoError(t, err)

	var kept []rec
	p.Deliver(func(v []rec, _ propbag.Report) {
		require.Len(t, v, 2)
		kept = v
	})
	assert.Equal(t, []rec{{}, {}}, kept)

	// idempotent
	p.Release()
	assert.True(t, p.Released())
}

func TestList_Truncates(t *testing.T) {
	p, err := List(recTable, 2)([]propbag.Variant{listing("a", "b", "c")})
	require.NoError(t, err)
	assert.Len(t, p.Value(), 2)
	assert.Equal(t, 1, p.Report().Truncated)
	assert.Equal(t, "/o/b", p.Value()[1].Path)
}

func TestList_MalformedEntryPastCap(t *testing.T) {
	arr, _ := listing("a", "b").AsArray()
	body := propbag.Array(append(arr, propbag.Int(7))...)

	p, err := List(recTable, 2)([]propbag.Variant{body})
	require.NoError(t, err)
	assert.Len(t, p.Value(), 2)
	assert.Equal(t, 1, p.Report().Truncated)

	_, err = List(recTable, 3)([]propbag.Variant{body})
	assert.ErrorIs(t, err, propbag.ErrMalformed)
}

func TestBuilders_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"record without body", func() error {
			_, err := Record(recTable)(nil)
			return err
		}},
		{"record from string", func() error {
			_, err := Record(recTable)([]propbag.Variant{propbag.String("x")})
			return err
		}},
		{"list without body", func() error {
			_, err := List(recTable, 1)(nil)
			return err
		}},
		{"list from bag", func() error {
			_, err := List(recTable, 1)([]propbag.Variant{propbag.Nested(nil)})
			return err
		}},
		{"table missing property", func() error {
			_, err := Table("TxTime", 5)([]propbag.Variant{propbag.Nested(nil)})
			return err
		}},
		{"table wrong length", func() error {
			_, err := Table("TxTime", 5)([]propbag.Variant{propbag.Nested(propbag.Bag{
				propbag.Prop("TxTime", propbag.Ints(1, 2)),
			})})
			return err
		}},
		{"string from int", func() error {
			_, err := String()([]propbag.Variant{propbag.Int(1)})
			return err
		}},
		{"value without body", func() error {
			_, err := Value()(nil)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build(), propbag.ErrMalformed)
		})
	}
}

func TestTable(t *testing.T) {
	p, err := Table("TxTime", 3)([]propbag.Variant{propbag.Nested(propbag.Bag{
		propbag.Prop("TxTime", propbag.Ints(4, 5, 6)),
	})})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6}, p.Value())
}

func TestScalars(t *testing.T) {
	s, err := String()([]propbag.Variant{propbag.String("/ril_0/message_1")})
	require.NoError(t, err)
	assert.Equal(t, "/ril_0/message_1", s.Value())

	v, err := Value()([]propbag.Variant{propbag.Bool(true)})
	require.NoError(t, err)
	assert.True(t, v.Value().Equal(propbag.Bool(true)))

	e, err := Empty()(nil)
	require.NoError(t, err)
	assert.Equal(t, struct{}{}, e.Value())
}
