package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/telebus/internal/bustest"
	"github.com/bft-labs/telebus/pkg/propbag"
	"github.com/bft-labs/telebus/pkg/telebus"
)

func TestWatchAll(t *testing.T) {
	bus := bustest.New()
	bus.Publish("/ril_0", "org.ofono.Modem")
	bus.Publish("/ril_0", "org.ofono.MessageManager")

	s, err := telebus.Open(context.Background(), "com.example.telectl", telebus.DefaultConfig(), telebus.WithConnector(bus))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var out bytes.Buffer
	require.NoError(t, watchAll(s, &out))
	// Modem, two message signals. The other interfaces are not published.
	assert.Equal(t, 3, s.Watches())

	bus.Emit("/ril_0", "org.ofono.Modem", "PropertyChanged", propbag.String("Online"), propbag.Bool(true))
	bus.Emit("/ril_0", "org.ofono.MessageManager", "IncomingMessage",
		propbag.String("hello"),
		propbag.Nested(propbag.Bag{
			propbag.Prop("Sender", propbag.String("+15550100")),
			propbag.Prop("SentTime", propbag.String("2026-10-16T09:00:00+0000")),
		}),
	)
	require.NoError(t, s.Barrier(context.Background()))

	assert.Equal(t,
		"[0] Modem.Online = true\n"+
			"[0] message from +15550100 at 2026-10-16T09:00:00+0000: hello\n",
		out.String())
}

func TestRootPreRun_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	c := newCLI()
	root := c.rootCmd()
	require.NoError(t, root.ParseFlags([]string{
		"--config", filepath.Join(dir, "missing.toml"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "debug",
		"--modems", "2",
	}))
	require.NoError(t, root.PersistentPreRunE(root, nil))

	assert.True(t, c.changed["log-level"])
	assert.True(t, c.changed["modems"])
	assert.Equal(t, "debug", c.cfg.LogLevel)
	assert.Equal(t, 2, c.cfg.ModemCount)
	assert.Equal(t, filepath.Join(dir, ".telectl"), c.cfg.StateDir)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"1", 1},
		{"-20", -20},
		{"lte", "lte"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func TestParseOnOff(t *testing.T) {
	on, err := parseOnOff("ON")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = parseOnOff("off")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = parseOnOff("maybe")
	assert.ErrorIs(t, err, telebus.ErrInvalidArgument)
}

func TestPrintActivity(t *testing.T) {
	var out bytes.Buffer
	printActivity(&out, telebus.ModemActivityInfo{
		SleepTime: 10,
		IdleTime:  20,
		RxTime:    30,
		TxTime:    [telebus.ActivityLevels]uint32{1, 2, 3, 4, 5},
	})
	assert.Equal(t, "sleep=10ms idle=20ms rx=30ms tx=1,2,3,4,5\n", out.String())
}

func TestPrintSS(t *testing.T) {
	var out bytes.Buffer
	printSS(&out, telebus.SsInitiateInfo{Type: "USSD", Message: "Balance: 5.00"})
	printSS(&out, telebus.SsInitiateInfo{Type: "CallBarring", Operation: "activation", Service: "AO"})
	assert.Equal(t, "Balance: 5.00\nCallBarring activation AO\n", out.String())
}
