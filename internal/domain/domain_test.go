package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/bft-labs/telebus/pkg/propbag"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{ErrInvalidArgument, -1},
		{fmt.Errorf("%w: slot 9", ErrInvalidArgument), -1},
		{ErrUnavailable, -2},
		{ErrNoMemory, -3},
		{ErrIO, -4},
		{ErrClosed, -5},
		{ErrRemote, -6},
		{ErrMalformed, -7},
		{errors.New("other"), -128},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSlot_Valid(t *testing.T) {
	tests := []struct {
		slot  Slot
		count int
		want  bool
	}{
		{0, 1, true},
		{1, 2, true},
		{2, 2, false},
		{-1, 2, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		if got := tt.slot.Valid(tt.count); got != tt.want {
			t.Errorf("Slot(%d).Valid(%d) = %v, want %v", tt.slot, tt.count, got, tt.want)
		}
	}
}

func TestInterface_Names(t *testing.T) {
	all := AllInterfaces()
	if len(all) != 16 {
		t.Fatalf("AllInterfaces() returned %d interfaces, want 16", len(all))
	}
	seen := map[string]bool{}
	for i, iface := range all {
		if iface != Interface(i) {
			t.Errorf("AllInterfaces()[%d] = %v, want creation order", i, iface)
		}
		if !strings.HasPrefix(iface.BusName(), "org.ofono.") {
			t.Errorf("%v.BusName() = %s", iface, iface.BusName())
		}
		if seen[iface.String()] {
			t.Errorf("duplicate interface name %s", iface)
		}
		seen[iface.String()] = true
	}
	if got := Interface(99).String(); got != "Interface(99)" {
		t.Errorf("Interface(99).String() = %s", got)
	}
}

func TestParseInterface(t *testing.T) {
	tests := []struct {
		in      string
		want    Interface
		wantErr bool
	}{
		{"Modem", Modem, false},
		{"org.ofono.MessageManager", MessageManager, false},
		{"connectionmanager", ConnectionManager, false},
		{"org.ofono.Bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseInterface(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseInterface(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseInterface(%q) error = %v, want ErrInvalidArgument", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseInterface(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOp_String(t *testing.T) {
	for o := OpUnknown; o < opCount; o++ {
		if opNames[o] == "" {
			t.Errorf("Op(%d) has no name", o)
		}
	}
	if got := Op(-3).String(); got != "op_-3" {
		t.Errorf("Op(-3).String() = %s", got)
	}
}

func TestApnContextTable_NestedSettings(t *testing.T) {
	e := propbag.Entry{
		ObjectID: "/ril_0/context1",
		Props: propbag.Bag{
			propbag.Prop("Active", propbag.Bool(true)),
			propbag.Prop("AccessPointName", propbag.String("internet")),
			propbag.Prop("Type", propbag.String("internet")),
			propbag.Prop("Protocol", propbag.String("ip")),
			propbag.Prop("Settings", propbag.Nested(propbag.Bag{
				propbag.Prop("Interface", propbag.String("rmnet0")),
				propbag.Prop("Method", propbag.String("static")),
				propbag.Prop("Address", propbag.String("10.1.2.3")),
				propbag.Prop("DomainNameServers", propbag.Strings("8.8.8.8", "8.8.4.4")),
			})),
			propbag.Prop("IPv6.Settings", propbag.Nested(propbag.Bag{
				propbag.Prop("Address", propbag.String("2001:db8::1")),
				propbag.Prop("PrefixLength", propbag.Int(64)),
			})),
		},
	}

	got, rep, err := propbag.DecodeEntry(e, ApnContextTable)
	if err != nil {
		t.Fatalf("DecodeEntry() error = %v", err)
	}
	if rep.Partial() {
		t.Errorf("DecodeEntry() report = %+v, want complete", rep)
	}
	want := ApnContext{
		Path:            "/ril_0/context1",
		Active:          true,
		AccessPointName: "internet",
		Type:            "internet",
		Protocol:        "ip",
		Settings: IpSettings{
			Interface:         "rmnet0",
			Method:            "static",
			Address:           "10.1.2.3",
			DomainNameServers: []string{"8.8.8.8", "8.8.4.4"},
		},
		IPv6Settings: IpSettings{Address: "2001:db8::1", PrefixLength: 64},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeEntry() = %+v, want %+v", got, want)
	}
}

func TestApnContextTable_AccessPointNameCapacity(t *testing.T) {
	tests := []struct {
		name string
		apn  string
		want string
	}{
		{"at capacity", strings.Repeat("a", capAPN), strings.Repeat("a", capAPN)},
		{"over capacity", strings.Repeat("a", capAPN+1), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := propbag.DecodeRecord(propbag.Bag{
				propbag.Prop("AccessPointName", propbag.String(tt.apn)),
			}, ApnContextTable)
			if err != nil {
				t.Fatalf("DecodeRecord() error = %v", err)
			}
			if got.AccessPointName != tt.want {
				t.Errorf("AccessPointName length = %d, want %d", len(got.AccessPointName), len(tt.want))
			}
		})
	}
}

func TestModemActivityInfoTable(t *testing.T) {
	tests := []struct {
		name    string
		tx      propbag.Variant
		want    [ActivityLevels]uint32
		wantErr bool
	}{
		{"five levels", propbag.Ints(1, 2, 3, 4, 5), [ActivityLevels]uint32{1, 2, 3, 4, 5}, false},
		{"four levels", propbag.Ints(1, 2, 3, 4), [ActivityLevels]uint32{}, true},
		{"six levels", propbag.Ints(1, 2, 3, 4, 5, 6), [ActivityLevels]uint32{}, true},
		{"negative level", propbag.Ints(1, 2, -3, 4, 5), [ActivityLevels]uint32{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := propbag.DecodeRecord(propbag.Bag{
				propbag.Prop("SleepTime", propbag.Int(100)),
				propbag.Prop("TxTime", tt.tx),
				propbag.Prop("RxTime", propbag.Int(7)),
			}, ModemActivityInfoTable)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, propbag.ErrMalformed) {
					t.Errorf("DecodeRecord() error = %v, want ErrMalformed", err)
				}
				if got != (ModemActivityInfo{}) {
					t.Errorf("DecodeRecord() = %+v, want zero record", got)
				}
				return
			}
			if got.TxTime != tt.want || got.SleepTime != 100 || got.RxTime != 7 {
				t.Errorf("DecodeRecord() = %+v", got)
			}
		})
	}
}

func TestDecodePropertyChange(t *testing.T) {
	got, _, err := DecodePropertyChange([]propbag.Variant{propbag.String("Powered"), propbag.Bool(true)})
	if err != nil {
		t.Fatalf("DecodePropertyChange() error = %v", err)
	}
	if got.Name != "Powered" || !got.Value.Equal(propbag.Bool(true)) {
		t.Errorf("DecodePropertyChange() = %+v", got)
	}

	bad := [][]propbag.Variant{
		nil,
		{propbag.String("Powered")},
		{propbag.Int(1), propbag.Bool(true)},
		{propbag.String("Powered"), {}},
	}
	for i, body := range bad {
		if _, _, err := DecodePropertyChange(body); !errors.Is(err, propbag.ErrMalformed) {
			t.Errorf("case %d: DecodePropertyChange() error = %v, want ErrMalformed", i, err)
		}
	}
}

func TestDecodeIncomingMessage(t *testing.T) {
	got, rep, err := DecodeIncomingMessage([]propbag.Variant{
		propbag.String("hello"),
		propbag.Nested(propbag.Bag{
			propbag.Prop("Sender", propbag.String("+15551234")),
			propbag.Prop("SentTime", propbag.String("2026-10-16T10:00:00+0000")),
		}),
	})
	if err != nil {
		t.Fatalf("DecodeIncomingMessage() error = %v", err)
	}
	if rep.Partial() {
		t.Errorf("report = %+v", rep)
	}
	if got.Text != "hello" || got.Sender != "+15551234" || got.SentTime == "" {
		t.Errorf("DecodeIncomingMessage() = %+v", got)
	}

	if _, _, err := DecodeIncomingMessage([]propbag.Variant{propbag.String("x"), propbag.String("y")}); !errors.Is(err, propbag.ErrMalformed) {
		t.Errorf("DecodeIncomingMessage() error = %v, want ErrMalformed", err)
	}
}

func TestDecodeContextAdded(t *testing.T) {
	got, _, err := DecodeContextAdded([]propbag.Variant{
		propbag.String("/ril_0/context3"),
		propbag.Nested(propbag.Bag{propbag.Prop("Name", propbag.String("mms"))}),
	})
	if err != nil {
		t.Fatalf("DecodeContextAdded() error = %v", err)
	}
	if got.Path != "/ril_0/context3" || got.Name != "mms" {
		t.Errorf("DecodeContextAdded() = %+v", got)
	}
}

func TestDecodeSsInitiate(t *testing.T) {
	tests := []struct {
		name    string
		body    []propbag.Variant
		want    SsInitiateInfo
		wantErr bool
	}{
		{
			name: "ussd",
			body: []propbag.Variant{propbag.String("USSD"), propbag.String("Balance: 5.00")},
			want: SsInitiateInfo{Type: "USSD", Message: "Balance: 5.00"},
		},
		{
			name: "service control",
			body: []propbag.Variant{
				propbag.String("CallBarring"),
				propbag.Array(propbag.String("activation"), propbag.String("AI"), propbag.Nested(nil)),
			},
			want: SsInitiateInfo{Type: "CallBarring", Operation: "activation", Service: "AI"},
		},
		{
			name:    "short structure",
			body:    []propbag.Variant{propbag.String("CallBarring"), propbag.Array(propbag.String("x"))},
			wantErr: true,
		},
		{
			name:    "wrong result kind",
			body:    []propbag.Variant{propbag.String("USSD"), propbag.Int(1)},
			wantErr: true,
		},
		{
			name:    "missing result",
			body:    []propbag.Variant{propbag.String("USSD")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := DecodeSsInitiate(tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeSsInitiate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DecodeSsInitiate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
