package dbus

import (
	"errors"
	"fmt"
	"testing"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/propbag"
)

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want propbag.Variant
	}{
		{"string", "EG25", propbag.String("EG25")},
		{"bool", true, propbag.Bool(true)},
		{"byte", byte(7), propbag.Int(7)},
		{"uint16", uint16(20), propbag.Int(20)},
		{"int32", int32(-3), propbag.Int(-3)},
		{"uint32", uint32(4000000000), propbag.Int(4000000000)},
		{"object path", godbus.ObjectPath("/ril_0/context1"), propbag.String("/ril_0/context1")},
		{"variant", godbus.MakeVariant("on"), propbag.String("on")},
		{"string array", []string{"sim", "gprs"}, propbag.Strings("sim", "gprs")},
		{"uint32 array", []uint32{1, 2, 3}, propbag.Ints(1, 2, 3)},
		{
			"dictionary sorted by key",
			map[string]godbus.Variant{
				"Powered":      godbus.MakeVariant(true),
				"Manufacturer": godbus.MakeVariant("quectel"),
			},
			propbag.Nested(propbag.Bag{
				propbag.Prop("Manufacturer", propbag.String("quectel")),
				propbag.Prop("Powered", propbag.Bool(true)),
			}),
		},
		{
			"listing entry",
			[]any{godbus.ObjectPath("/ril_0/context1"), map[string]godbus.Variant{"Active": godbus.MakeVariant(false)}},
			propbag.Array(
				propbag.String("/ril_0/context1"),
				propbag.Nested(propbag.Bag{propbag.Prop("Active", propbag.Bool(false))}),
			),
		},
		{
			"typed map",
			map[string]string{"Method": "dhcp"},
			propbag.Nested(propbag.Bag{propbag.Prop("Method", propbag.String("dhcp"))}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromValue(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFromValue_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"double", 1.5},
		{"int keyed map", map[int32]string{1: "a"}},
		{"nested double", []any{"ok", 2.5}},
		{"uint64 overflow", uint64(1 << 63)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromValue(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestFromBody_Malformed(t *testing.T) {
	_, err := fromBody([]any{"Powered", 0.5})
	assert.ErrorIs(t, err, domain.ErrMalformed)

	body, err := fromBody([]any{"Powered", godbus.MakeVariant(true)})
	require.NoError(t, err)
	assert.Equal(t, []propbag.Variant{propbag.String("Powered"), propbag.Bool(true)}, body)
}

func TestToArgs(t *testing.T) {
	out, err := toArgs([]any{
		"VoiceOutgoing",
		ports.Variant{Value: "international"},
		ports.ObjectPath("/ril_0/context1"),
		20,
		uint16(30),
		ports.Variant{Value: propbag.Bool(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{
		"VoiceOutgoing",
		godbus.MakeVariant("international"),
		godbus.ObjectPath("/ril_0/context1"),
		int32(20),
		uint16(30),
		godbus.MakeVariant(true),
	}, out)
}

func TestToArgs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		arg  any
	}{
		{"nil", nil},
		{"bad object path", ports.ObjectPath("ril_0")},
		{"int overflow", 1 << 40},
		{"array variant", propbag.Strings("a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toArgs([]any{tt.arg})
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestRemoteError(t *testing.T) {
	e := godbus.Error{Name: "org.ofono.Error.InProgress", Body: []any{"operation in progress"}}

	r := remoteError(fmt.Errorf("call: %w", e))
	require.NotNil(t, r)
	assert.Equal(t, "org.ofono.Error.InProgress", r.Name)
	assert.Equal(t, "operation in progress", r.Message)

	r = remoteError(&godbus.Error{Name: "org.ofono.Error.Failed"})
	require.NotNil(t, r)
	assert.Equal(t, "org.ofono.Error.Failed", r.Name)
	assert.Empty(t, r.Message)

	assert.Nil(t, remoteError(errors.New("broken pipe")))
}

func TestSplitName(t *testing.T) {
	iface, member := splitName("org.ofono.Modem.PropertyChanged")
	assert.Equal(t, "org.ofono.Modem", iface)
	assert.Equal(t, "PropertyChanged", member)
}

func TestNewConnector_Defaults(t *testing.T) {
	c := NewConnector("", nil)
	assert.Equal(t, SystemBus, c.address)
	assert.NotNil(t, c.logger)
}
