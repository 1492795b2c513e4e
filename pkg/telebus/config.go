package telebus

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
)

// Default configuration values.
const (
	DefaultService      = "org.ofono"
	DefaultPathPrefix   = "/ril_"
	DefaultModemCount   = 1
	DefaultCloseTimeout = 5 * time.Second
	DefaultMaxPending   = correlation.DefaultMaxPending
	DefaultMaxWatches   = correlation.DefaultMaxWatches
	DefaultMaxContexts  = 8
	DefaultMaxOperators = 16
	DefaultMaxMessages  = 32
)

// Config holds the session configuration.
// Use DefaultConfig() or call SetDefaults() on a partial Config.
type Config struct {
	// Service is the bus name of the telephony daemon.
	Service string

	// PathPrefix is the object path prefix of modem objects. Slot n lives
	// at PathPrefix followed by n, e.g. "/ril_0".
	PathPrefix string

	// ModemCount is the number of modem slots, 1 to MaxSlots.
	ModemCount int

	// Interfaces restricts which interfaces get proxies. Empty means all.
	Interfaces []Interface

	// MaxPending caps in-flight single-shot operations.
	MaxPending int

	// MaxWatches caps active signal subscriptions.
	MaxWatches int

	// CloseTimeout bounds how long Close waits for the dispatch loop.
	CloseTimeout time.Duration

	// List result caps. Entries beyond the cap are dropped and counted in
	// Result.Truncated.
	MaxContexts  int
	MaxOperators int
	MaxMessages  int
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Service == "" {
		c.Service = DefaultService
	}
	if c.PathPrefix == "" {
		c.PathPrefix = DefaultPathPrefix
	}
	if c.ModemCount == 0 {
		c.ModemCount = DefaultModemCount
	}
	if len(c.Interfaces) == 0 {
		c.Interfaces = domain.AllInterfaces()
	}
	if c.MaxPending == 0 {
		c.MaxPending = DefaultMaxPending
	}
	if c.MaxWatches == 0 {
		c.MaxWatches = DefaultMaxWatches
	}
	if c.CloseTimeout == 0 {
		c.CloseTimeout = DefaultCloseTimeout
	}
	if c.MaxContexts == 0 {
		c.MaxContexts = DefaultMaxContexts
	}
	if c.MaxOperators == 0 {
		c.MaxOperators = DefaultMaxOperators
	}
	if c.MaxMessages == 0 {
		c.MaxMessages = DefaultMaxMessages
	}
}

// Validate checks the configuration. Errors wrap both ErrInvalidConfig and
// ErrInvalidArgument.
func (c *Config) Validate() error {
	if c.Service == "" || !strings.Contains(c.Service, ".") {
		return invalidConfig("service %q is not a bus name", c.Service)
	}
	if !strings.HasPrefix(c.PathPrefix, "/") {
		return invalidConfig("path prefix %q must start with /", c.PathPrefix)
	}
	if c.ModemCount < 1 || c.ModemCount > domain.MaxSlots {
		return invalidConfig("modem count %d, want 1..%d", c.ModemCount, domain.MaxSlots)
	}
	for _, iface := range c.Interfaces {
		if !iface.Valid() {
			return invalidConfig("unknown interface %d", int(iface))
		}
	}
	if c.MaxPending < 1 {
		return invalidConfig("max pending must be positive")
	}
	if c.MaxWatches < 1 {
		return invalidConfig("max watches must be positive")
	}
	if c.CloseTimeout <= 0 {
		return invalidConfig("close timeout must be positive")
	}
	if c.MaxContexts < 1 || c.MaxOperators < 1 || c.MaxMessages < 1 {
		return invalidConfig("list caps must be positive")
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", domain.ErrInvalidArgument, domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
