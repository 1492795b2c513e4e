package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Service        string   `toml:"service"`
	PathPrefix     string   `toml:"path_prefix"`
	ModemCount     int      `toml:"modem_count"`
	Interfaces     []string `toml:"interfaces"`
	ClientName     string   `toml:"client_name"`
	BusAddress     string   `toml:"bus_address"`
	MaxPending     int      `toml:"max_pending"`
	MaxWatches     int      `toml:"max_watches"`
	CloseTimeout   string   `toml:"close_timeout"`
	MaxContexts    int      `toml:"max_contexts"`
	MaxOperators   int      `toml:"max_operators"`
	MaxMessages    int      `toml:"max_messages"`
	LogLevel       string   `toml:"log_level"`
	MetricsAddr    string   `toml:"metrics_addr"`
	StateDir       string   `toml:"state_dir"`
	InitialBackoff string   `toml:"initial_backoff"`
	MaxBackoff     string   `toml:"max_backoff"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.telectl/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".telectl", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service", fc.Service, &cfg.Service)
	s.setString("path-prefix", fc.PathPrefix, &cfg.PathPrefix)
	s.setStrings("interfaces", fc.Interfaces, &cfg.Interfaces)
	s.setString("client-name", fc.ClientName, &cfg.ClientName)
	s.setString("bus", fc.BusAddress, &cfg.BusAddress)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)

	s.setInt("modems", fc.ModemCount, &cfg.ModemCount)
	s.setInt("max-pending", fc.MaxPending, &cfg.MaxPending)
	s.setInt("max-watches", fc.MaxWatches, &cfg.MaxWatches)
	s.setInt("max-contexts", fc.MaxContexts, &cfg.MaxContexts)
	s.setInt("max-operators", fc.MaxOperators, &cfg.MaxOperators)
	s.setInt("max-messages", fc.MaxMessages, &cfg.MaxMessages)

	if err := s.setDuration("close-timeout", fc.CloseTimeout, &cfg.CloseTimeout); err != nil {
		return err
	}
	if err := s.setDuration("initial-backoff", fc.InitialBackoff, &cfg.InitialBackoff); err != nil {
		return err
	}
	if err := s.setDuration("max-backoff", fc.MaxBackoff, &cfg.MaxBackoff); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
