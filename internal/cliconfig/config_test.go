package cliconfig

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/telebus/pkg/telebus"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Service != "org.ofono" {
		t.Errorf("Service = %v, want org.ofono", cfg.Service)
	}
	if cfg.ClientName != DefaultClientName {
		t.Errorf("ClientName = %v, want %v", cfg.ClientName, DefaultClientName)
	}
	if cfg.MaxPending != telebus.DefaultMaxPending {
		t.Errorf("MaxPending = %v, want %v", cfg.MaxPending, telebus.DefaultMaxPending)
	}
	if cfg.InitialBackoff != time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", cfg.InitialBackoff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "client name is not a bus name",
			mutate:  func(c *Config) { c.ClientName = "telectl" },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
		{
			name:    "zero initial backoff",
			mutate:  func(c *Config) { c.InitialBackoff = 0 },
			wantErr: true,
		},
		{
			name:    "max backoff below initial",
			mutate:  func(c *Config) { c.MaxBackoff = 10 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "too many modems",
			mutate:  func(c *Config) { c.ModemCount = 9 },
			wantErr: true,
		},
		{
			name:    "unknown interface",
			mutate:  func(c *Config) { c.Interfaces = []string{"Modem", "Fax"} },
			wantErr: true,
		},
		{
			name:   "upper case log level",
			mutate: func(c *Config) { c.LogLevel = "DEBUG" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.StateDir = "/tmp/telectl"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateDerivesStateDir(t *testing.T) {
	t.Setenv("HOME", "/home/radio")

	cfg := DefaultConfig()
	cfg.BusAddress = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.StateDir != filepath.Join("/home/radio", ".telectl") {
		t.Errorf("StateDir = %v, want /home/radio/.telectl", cfg.StateDir)
	}
	if cfg.StatusPath() != filepath.Join("/home/radio", ".telectl", "status.json") {
		t.Errorf("StatusPath() = %v", cfg.StatusPath())
	}
	if cfg.BusAddress != "system" {
		t.Errorf("BusAddress = %v, want system", cfg.BusAddress)
	}
}

func TestConfig_Session(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModemCount = 2
	cfg.Interfaces = []string{"Modem", " org.ofono.SimManager", "networkregistration"}
	cfg.MaxOperators = 4

	sc, err := cfg.Session()
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if sc.ModemCount != 2 {
		t.Errorf("ModemCount = %v, want 2", sc.ModemCount)
	}
	want := []telebus.Interface{telebus.Modem, telebus.SimManager, telebus.NetworkRegistration}
	if len(sc.Interfaces) != len(want) {
		t.Fatalf("Interfaces = %v, want %v", sc.Interfaces, want)
	}
	for i := range want {
		if sc.Interfaces[i] != want[i] {
			t.Errorf("Interfaces[%d] = %v, want %v", i, sc.Interfaces[i], want[i])
		}
	}
	if sc.MaxOperators != 4 {
		t.Errorf("MaxOperators = %v, want 4", sc.MaxOperators)
	}

	cfg.Interfaces = []string{"Fax"}
	if _, err := cfg.Session(); !errors.Is(err, telebus.ErrInvalidArgument) {
		t.Errorf("Session() error = %v, want ErrInvalidArgument", err)
	}
}

func TestConfig_Level(t *testing.T) {
	cfg := Config{LogLevel: "warn"}
	if cfg.Level() != zerolog.WarnLevel {
		t.Errorf("Level() = %v, want warn", cfg.Level())
	}
	cfg.LogLevel = "bogus"
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level() = %v, want info fallback", cfg.Level())
	}
}

func TestConfigSetter(t *testing.T) {
	s := newConfigSetter(map[string]bool{"service": true})

	service := "org.ofono"
	s.setString("service", "org.other", &service)
	if service != "org.ofono" {
		t.Errorf("setString overrode a changed flag: %v", service)
	}

	ifaces := []string{"Modem"}
	s.setStrings("interfaces", nil, &ifaces)
	if len(ifaces) != 1 {
		t.Errorf("setStrings with empty source changed dst: %v", ifaces)
	}
	s.setStrings("interfaces", []string{"SimManager", "Modem"}, &ifaces)
	if len(ifaces) != 2 || ifaces[0] != "SimManager" {
		t.Errorf("setStrings = %v", ifaces)
	}

	n := 3
	if err := s.setIntFromString("modems", "-1", &n); err != nil || n != 3 {
		t.Errorf("setIntFromString(-1) = %v, n = %d", err, n)
	}
	if err := s.setIntFromString("modems", "x", &n); err == nil {
		t.Error("setIntFromString(x) want error")
	}
}
