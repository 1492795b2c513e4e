package cliconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable telectl reads.
const EnvPrefix = "TELECTL"

// EnvConfig is the TELECTL_* view of Config, e.g. MaxPending is read from
// TELECTL_MAX_PENDING. Numbers and durations stay strings so a malformed
// value names the flag it would have set.
type EnvConfig struct {
	Service        string   `split_words:"true"`
	PathPrefix     string   `split_words:"true"`
	ModemCount     string   `split_words:"true"`
	Interfaces     []string `split_words:"true"`
	ClientName     string   `split_words:"true"`
	BusAddress     string   `split_words:"true"`
	MaxPending     string   `split_words:"true"`
	MaxWatches     string   `split_words:"true"`
	CloseTimeout   string   `split_words:"true"`
	MaxContexts    string   `split_words:"true"`
	MaxOperators   string   `split_words:"true"`
	MaxMessages    string   `split_words:"true"`
	LogLevel       string   `split_words:"true"`
	MetricsAddr    string   `split_words:"true"`
	StateDir       string   `split_words:"true"`
	InitialBackoff string   `split_words:"true"`
	MaxBackoff     string   `split_words:"true"`
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnvConfig applies configuration from environment variables (TELECTL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	var ec EnvConfig
	if err := envconfig.Process(EnvPrefix, &ec); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	s := newConfigSetter(changed)

	s.setString("service", ec.Service, &cfg.Service)
	s.setString("path-prefix", ec.PathPrefix, &cfg.PathPrefix)
	s.setStrings("interfaces", ec.Interfaces, &cfg.Interfaces)
	s.setString("client-name", ec.ClientName, &cfg.ClientName)
	s.setString("bus", ec.BusAddress, &cfg.BusAddress)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)
	s.setString("metrics-addr", ec.MetricsAddr, &cfg.MetricsAddr)
	s.setString("state-dir", ec.StateDir, &cfg.StateDir)

	ints := []struct {
		flag  string
		value string
		dst   *int
	}{
		{"modems", ec.ModemCount, &cfg.ModemCount},
		{"max-pending", ec.MaxPending, &cfg.MaxPending},
		{"max-watches", ec.MaxWatches, &cfg.MaxWatches},
		{"max-contexts", ec.MaxContexts, &cfg.MaxContexts},
		{"max-operators", ec.MaxOperators, &cfg.MaxOperators},
		{"max-messages", ec.MaxMessages, &cfg.MaxMessages},
	}
	for _, i := range ints {
		if err := s.setIntFromString(i.flag, i.value, i.dst); err != nil {
			return err
		}
	}

	if err := s.setDuration("close-timeout", ec.CloseTimeout, &cfg.CloseTimeout); err != nil {
		return err
	}
	if err := s.setDuration("initial-backoff", ec.InitialBackoff, &cfg.InitialBackoff); err != nil {
		return err
	}
	if err := s.setDuration("max-backoff", ec.MaxBackoff, &cfg.MaxBackoff); err != nil {
		return err
	}

	return nil
}
