package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/telebus/pkg/telebus"
)

// DefaultClientName is the well-known bus name telectl requests.
const DefaultClientName = "io.telebus.telectl"

// Config holds CLI configuration for telectl.
type Config struct {
	Service    string
	PathPrefix string
	ModemCount int
	Interfaces []string

	ClientName string
	BusAddress string

	MaxPending   int
	MaxWatches   int
	CloseTimeout time.Duration
	MaxContexts  int
	MaxOperators int
	MaxMessages  int

	LogLevel    string
	MetricsAddr string
	StateDir    string

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Service:        telebus.DefaultService,
		PathPrefix:     telebus.DefaultPathPrefix,
		ModemCount:     telebus.DefaultModemCount,
		ClientName:     DefaultClientName,
		BusAddress:     "system",
		MaxPending:     telebus.DefaultMaxPending,
		MaxWatches:     telebus.DefaultMaxWatches,
		CloseTimeout:   telebus.DefaultCloseTimeout,
		MaxContexts:    telebus.DefaultMaxContexts,
		MaxOperators:   telebus.DefaultMaxOperators,
		MaxMessages:    telebus.DefaultMaxMessages,
		LogLevel:       "info",
		StateDir:       "", // Derived from the home directory during Validate
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ClientName == "" || !strings.Contains(c.ClientName, ".") {
		return fmt.Errorf("client name %q is not a bus name", c.ClientName)
	}
	if c.BusAddress == "" {
		c.BusAddress = "system"
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if c.StateDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(h, ".telectl")
		} else {
			c.StateDir = filepath.Join(os.TempDir(), "telectl")
		}
	}

	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max backoff %v is below initial backoff %v", c.MaxBackoff, c.InitialBackoff)
	}

	_, err := c.Session()
	return err
}

// Session converts the CLI configuration to a session configuration.
func (c *Config) Session() (telebus.Config, error) {
	cfg := telebus.Config{
		Service:      c.Service,
		PathPrefix:   c.PathPrefix,
		ModemCount:   c.ModemCount,
		MaxPending:   c.MaxPending,
		MaxWatches:   c.MaxWatches,
		CloseTimeout: c.CloseTimeout,
		MaxContexts:  c.MaxContexts,
		MaxOperators: c.MaxOperators,
		MaxMessages:  c.MaxMessages,
	}
	for _, name := range c.Interfaces {
		iface, err := telebus.ParseInterface(strings.TrimSpace(name))
		if err != nil {
			return telebus.Config{}, err
		}
		cfg.Interfaces = append(cfg.Interfaces, iface)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return telebus.Config{}, err
	}
	return cfg, nil
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// StatusPath returns where telectl watch records supervisor status.
func (c *Config) StatusPath() string {
	return filepath.Join(c.StateDir, "status.json")
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings replaces a list if the source has entries and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
