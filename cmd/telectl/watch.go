package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bft-labs/telebus/internal/adapters/fs"
	httpadapter "github.com/bft-labs/telebus/internal/adapters/http"
	"github.com/bft-labs/telebus/internal/adapters/metrics"
	"github.com/bft-labs/telebus/internal/app"
	"github.com/bft-labs/telebus/internal/cliconfig"
	"github.com/bft-labs/telebus/pkg/log"
	"github.com/bft-labs/telebus/pkg/telebus"
)

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a session open and print modem events until interrupted",
		Long: strings.TrimSpace(`
Keep a session open and print property changes, registration changes and
incoming messages for every slot. The session is reopened with backoff when
the bus connection is lost, and right away when the config file changes.
The supervisor state is written to status.json in the state directory.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watch(cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.cfg.MetricsAddr, "metrics-addr", c.cfg.MetricsAddr, "serve /metrics and /healthz on this address")
	f.StringVar(&c.cfg.StateDir, "state-dir", c.cfg.StateDir, "directory for status.json (default: $HOME/.telectl)")
	f.DurationVar(&c.cfg.InitialBackoff, "initial-backoff", c.cfg.InitialBackoff, "first reopen delay")
	f.DurationVar(&c.cfg.MaxBackoff, "max-backoff", c.cfg.MaxBackoff, "longest reopen delay")
	return cmd
}

func (c *cli) watch(out io.Writer) error {
	ctx, cancel := signalContext()
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder, err := metrics.NewPrometheus(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var reload <-chan struct{}
	if path := c.configFile(); path != "" && cliconfig.FileExists(path) {
		w := cliconfig.NewWatcher(path, cliconfig.DefaultDebounce, c.logger)
		if err := w.Start(ctx); err != nil {
			c.logger.Warn("config reload disabled", log.Err(err))
		} else {
			reload = w.Reload()
		}
	}

	var current atomic.Pointer[telebus.Session]

	open := func(ctx context.Context) (app.Target, error) {
		// Reopening rereads the file so a reload applies the new settings.
		cfg, err := c.load()
		if err != nil {
			return nil, err
		}
		s, err := c.open(ctx, cfg, telebus.WithMetrics(recorder))
		if err != nil {
			return nil, err
		}
		current.Store(s)
		return s, nil
	}
	ready := func(ctx context.Context, t app.Target) error {
		return watchAll(t.(*telebus.Session), out)
	}

	sup := app.NewSupervisor(app.SupervisorConfig{
		InitialBackoff: c.cfg.InitialBackoff,
		MaxBackoff:     c.cfg.MaxBackoff,
		Reload:         reload,
	}, open, ready, fs.NewStatusFile(c.cfg.StateDir), c.logger)

	serverDone := make(chan struct{})
	if c.cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(c.cfg.MetricsAddr, reg, func() (bool, string) {
			st := current.Load().Status()
			return st == telebus.StateOpen, strings.ToLower(st.String())
		}, c.logger)
		go func() {
			defer close(serverDone)
			if err := srv.Run(ctx); err != nil {
				c.logger.Error("metrics endpoint stopped", log.Err(err))
				cancel()
			}
		}()
	} else {
		close(serverDone)
	}

	c.logger.Info("watching",
		log.String("service", c.cfg.Service),
		log.Int("slots", c.cfg.ModemCount),
		log.String("status", c.cfg.StatusPath()),
	)
	err = sup.Run(ctx)
	cancel()

	select {
	case <-serverDone:
	case <-time.After(10 * time.Second):
		c.logger.Warn("metrics endpoint did not stop")
	}
	return err
}

// watchAll subscribes to the events of every slot. Interfaces the daemon
// does not publish are skipped.
func watchAll(s *telebus.Session, out io.Writer) error {
	for i := 0; i < s.Config().ModemCount; i++ {
		slot := telebus.Slot(i)
		changes := map[telebus.Interface]func(telebus.Slot, telebus.Callback[telebus.PropertyChange]) (telebus.WatchID, error){
			telebus.Modem:               s.WatchModem,
			telebus.SimManager:          s.WatchSim,
			telebus.NetworkRegistration: s.WatchRegistration,
		}
		for iface, watch := range changes {
			_, err := watch(slot, func(r telebus.Result[telebus.PropertyChange]) {
				if r.Err != nil {
					fmt.Fprintf(out, "[%s] %s: %v\n", slot, iface, r.Err)
					return
				}
				printChange(out, slot, iface, r.Value)
			})
			if err := skipUnavailable(err); err != nil {
				return fmt.Errorf("watch %s on slot %s: %w", iface, slot, err)
			}
		}

		onMessage := func(r telebus.Result[telebus.MessageInfo]) {
			if r.Err != nil {
				fmt.Fprintf(out, "[%s] message: %v\n", slot, r.Err)
				return
			}
			printMessage(out, slot, r.Value)
		}
		_, err := s.WatchIncomingMessage(slot, onMessage)
		if err := skipUnavailable(err); err != nil {
			return fmt.Errorf("watch messages on slot %s: %w", slot, err)
		}
		_, err = s.WatchImmediateMessage(slot, onMessage)
		if err := skipUnavailable(err); err != nil {
			return fmt.Errorf("watch messages on slot %s: %w", slot, err)
		}

		_, err = s.WatchContextAdded(slot, func(r telebus.Result[telebus.ApnContext]) {
			if r.Err != nil {
				fmt.Fprintf(out, "[%s] context: %v\n", slot, r.Err)
				return
			}
			fmt.Fprintf(out, "[%s] context added %s (%s)\n", slot, r.Value.Path, r.Value.Type)
		})
		if err := skipUnavailable(err); err != nil {
			return fmt.Errorf("watch contexts on slot %s: %w", slot, err)
		}
	}
	return nil
}

func skipUnavailable(err error) error {
	if errors.Is(err, telebus.ErrUnavailable) {
		return nil
	}
	return err
}
