package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	dbusadapter "github.com/bft-labs/telebus/internal/adapters/dbus"
	"github.com/bft-labs/telebus/internal/cliconfig"
	"github.com/bft-labs/telebus/pkg/log"
	"github.com/bft-labs/telebus/pkg/telebus"
)

const helpDescription = `
Talk to the telephony daemon over D-Bus.

telectl opens a session, builds a proxy for every modem interface the daemon
publishes and runs one operation, or with "watch" keeps the session open and
prints every property change until interrupted.

Configuration is read from $HOME/.telectl/config.toml, then .env and
TELECTL_* environment variables, then flags.
`

var exampleUsage = strings.TrimSpace(`
  telectl modem --slot 0
  telectl operators --scan
  telectl send-sms +15550100 "hello"
  telectl watch --metrics-addr 127.0.0.1:9464
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the state shared by every subcommand.
type cli struct {
	cfg cliconfig.Config
	// base holds defaults plus flags, before the file and environment.
	base    cliconfig.Config
	cfgPath string
	envPath string
	changed map[string]bool
	logger  *log.ZerologAdapter
}

func newCLI() *cli {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.logger = log.NewConsoleAdapter(os.Stderr, c.cfg.Level())
	return c
}

func main() {
	c := newCLI()
	if err := c.rootCmd().Execute(); err != nil {
		c.logger.Error("telectl", log.Err(err), log.Int("code", telebus.Code(err)))
		os.Exit(1)
	}
}

// rootCmd builds the command tree. Persistent flags bind into c.cfg.
func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "telectl",
		Short:         "Query and watch modems through the telephony daemon",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			c.changed = map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { c.changed[f.Name] = true })
			c.base = c.cfg

			cfg, err := c.load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = log.NewConsoleAdapter(os.Stderr, cfg.Level())
			zl := c.logger.Logger()
			zl.Debug().Interface("config", cfg).Msg("configuration")
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.telectl/config.toml)")
	f.StringVar(&c.envPath, "env-file", ".env", "path to a .env file with TELECTL_* variables")
	f.StringVar(&c.cfg.Service, "service", c.cfg.Service, "bus name of the telephony daemon")
	f.StringVar(&c.cfg.PathPrefix, "path-prefix", c.cfg.PathPrefix, "object path prefix of modem objects")
	f.IntVar(&c.cfg.ModemCount, "modems", c.cfg.ModemCount, "number of modem slots")
	f.StringSliceVar(&c.cfg.Interfaces, "interfaces", c.cfg.Interfaces, "interfaces to build proxies for (default: all)")
	f.StringVar(&c.cfg.ClientName, "client-name", c.cfg.ClientName, "well-known bus name requested by telectl")
	f.StringVar(&c.cfg.BusAddress, "bus", c.cfg.BusAddress, `bus to connect to: "system", "session" or a D-Bus address`)
	f.IntVar(&c.cfg.MaxPending, "max-pending", c.cfg.MaxPending, "maximum in-flight operations")
	f.IntVar(&c.cfg.MaxWatches, "max-watches", c.cfg.MaxWatches, "maximum active signal watches")
	f.DurationVar(&c.cfg.CloseTimeout, "close-timeout", c.cfg.CloseTimeout, "how long close waits for the dispatch loop")
	f.IntVar(&c.cfg.MaxContexts, "max-contexts", c.cfg.MaxContexts, "maximum data contexts listed")
	f.IntVar(&c.cfg.MaxOperators, "max-operators", c.cfg.MaxOperators, "maximum operators listed")
	f.IntVar(&c.cfg.MaxMessages, "max-messages", c.cfg.MaxMessages, "maximum messages listed")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		c.modemCmd(),
		c.simCmd(),
		c.registrationCmd(),
		c.operatorsCmd(),
		c.contextsCmd(),
		c.sendSMSCmd(),
		c.ussdCmd(),
		c.activityCmd(),
		c.getCmd(),
		c.setCmd(),
		c.watchCmd(),
	)
	return root
}

// load builds the configuration: defaults, then the config file, then .env
// and the environment, with explicitly set flags winning over all of them.
// watch calls it again on every reload.
func (c *cli) load() (cliconfig.Config, error) {
	cfg := c.base
	cfg.Interfaces = append([]string(nil), c.base.Interfaces...)

	cfgFile := c.configFile()
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, c.changed); err != nil {
			return cfg, err
		}
	}

	if err := cliconfig.LoadDotEnv(c.envPath); err != nil {
		return cfg, fmt.Errorf("load %s: %w", c.envPath, err)
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, c.changed); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *cli) configFile() string {
	if c.cfgPath != "" {
		return c.cfgPath
	}
	return cliconfig.DefaultConfigPath()
}

// open connects a session for cfg.
func (c *cli) open(ctx context.Context, cfg cliconfig.Config, opts ...telebus.Option) (*telebus.Session, error) {
	sc, err := cfg.Session()
	if err != nil {
		return nil, err
	}
	opts = append([]telebus.Option{
		telebus.WithLogger(c.logger),
		telebus.WithConnector(dbusadapter.NewConnector(cfg.BusAddress, c.logger)),
	}, opts...)
	return telebus.Open(ctx, cfg.ClientName, sc, opts...)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
