package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/telebus/pkg/log"
	"github.com/bft-labs/telebus/pkg/telebus"
)

// do opens a session, starts one operation and waits for its completion.
// The result is rendered inside the callback since its value is borrowed.
func do[T any](c *cli, cmd *cobra.Command, start func(*telebus.Session, telebus.Callback[T]) error, render func(io.Writer, T)) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var out bytes.Buffer
	done := make(chan error, 1)
	err = start(s, func(r telebus.Result[T]) {
		if r.Err != nil {
			done <- fmt.Errorf("%s: %w", r.Op, r.Err)
			return
		}
		if r.Partial() {
			c.logger.Warn("partial result",
				log.String("op", r.Op.String()),
				log.Strings("dropped", r.Dropped),
				log.Int("truncated", r.Truncated),
			)
		}
		render(&out, r.Value)
		done <- nil
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		_, err = out.WriteTo(cmd.OutOrStdout())
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Done():
		return fmt.Errorf("session %s: %w", s.Status(), telebus.ErrIO)
	}
}

func addSlotFlag(cmd *cobra.Command, slot *int) {
	cmd.Flags().IntVar(slot, "slot", 0, "modem slot")
}

func (c *cli) modemCmd() *cobra.Command {
	var slot int
	var power, online string
	cmd := &cobra.Command{
		Use:   "modem",
		Short: "Show modem properties, or power it and bring it online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case power != "":
				on, err := parseOnOff(power)
				if err != nil {
					return err
				}
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
					return s.SetModemPowered(telebus.Slot(slot), on, cb)
				}, printOK)
			case online != "":
				on, err := parseOnOff(online)
				if err != nil {
					return err
				}
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
					return s.SetModemOnline(telebus.Slot(slot), on, cb)
				}, printOK)
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.ModemInfo]) error {
				return s.GetModem(telebus.Slot(slot), cb)
			}, printModem)
		},
	}
	addSlotFlag(cmd, &slot)
	cmd.Flags().StringVar(&power, "power", "", "set Powered (on|off)")
	cmd.Flags().StringVar(&online, "online", "", "set Online (on|off)")
	cmd.MarkFlagsMutuallyExclusive("power", "online")
	return cmd
}

func (c *cli) simCmd() *cobra.Command {
	var slot int
	var pin, pinType string
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Show the SIM card, or enter a PIN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pin != "" {
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
					return s.EnterPin(telebus.Slot(slot), pinType, pin, cb)
				}, printOK)
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.SimInfo]) error {
				return s.GetSim(telebus.Slot(slot), cb)
			}, printSim)
		},
	}
	addSlotFlag(cmd, &slot)
	cmd.Flags().StringVar(&pin, "pin", "", "PIN to enter")
	cmd.Flags().StringVar(&pinType, "pin-type", "pin", "PIN type, e.g. pin or puk")
	return cmd
}

func (c *cli) registrationCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "registration",
		Short: "Show network registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.RegistrationInfo]) error {
				return s.GetRegistration(telebus.Slot(slot), cb)
			}, printRegistration)
		},
	}
	addSlotFlag(cmd, &slot)
	return cmd
}

func (c *cli) operatorsCmd() *cobra.Command {
	var slot int
	var scan bool
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "List known network operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[[]telebus.OperatorInfo]) error {
				if scan {
					return s.ScanOperators(telebus.Slot(slot), cb)
				}
				return s.GetOperators(telebus.Slot(slot), cb)
			}, printOperators)
		},
	}
	addSlotFlag(cmd, &slot)
	cmd.Flags().BoolVar(&scan, "scan", false, "scan for operators instead of listing cached ones")
	return cmd
}

func (c *cli) contextsCmd() *cobra.Command {
	var slot int
	var add, remove string
	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "List, add or remove data contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case add != "":
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[string]) error {
					return s.AddContext(telebus.Slot(slot), add, cb)
				}, printLine)
			case remove != "":
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
					return s.RemoveContext(telebus.Slot(slot), remove, cb)
				}, printOK)
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[[]telebus.ApnContext]) error {
				return s.GetContexts(telebus.Slot(slot), cb)
			}, printContexts)
		},
	}
	addSlotFlag(cmd, &slot)
	cmd.Flags().StringVar(&add, "add", "", "add a context of this type, e.g. internet")
	cmd.Flags().StringVar(&remove, "remove", "", "remove the context at this object path")
	cmd.MarkFlagsMutuallyExclusive("add", "remove")
	return cmd
}

func (c *cli) sendSMSCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "send-sms <number> <text>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[string]) error {
				return s.SendMessage(telebus.Slot(slot), args[0], args[1], cb)
			}, printLine)
		},
	}
	addSlotFlag(cmd, &slot)
	return cmd
}

func (c *cli) ussdCmd() *cobra.Command {
	var slot int
	var cancel bool
	cmd := &cobra.Command{
		Use:   "ussd [command]",
		Short: "Run a supplementary service command such as *#06#",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cancel {
				return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
					return s.CancelSS(telebus.Slot(slot), cb)
				}, printOK)
			}
			if len(args) == 0 {
				return fmt.Errorf("%w: command required", telebus.ErrInvalidArgument)
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.SsInitiateInfo]) error {
				return s.InitiateSS(telebus.Slot(slot), args[0], cb)
			}, printSS)
		},
	}
	addSlotFlag(cmd, &slot)
	cmd.Flags().BoolVar(&cancel, "cancel", false, "cancel the ongoing session")
	return cmd
}

func (c *cli) activityCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show modem radio activity counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.ModemActivityInfo]) error {
				return s.GetModemActivity(telebus.Slot(slot), cb)
			}, printActivity)
		},
	}
	addSlotFlag(cmd, &slot)
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "get <interface> <property>",
		Short: "Read one property, e.g. get RadioSettings TechnologyPreference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iface, err := telebus.ParseInterface(args[0])
			if err != nil {
				return err
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[telebus.Value]) error {
				return s.GetProperty(telebus.Slot(slot), iface, args[1], cb)
			}, func(w io.Writer, v telebus.Value) { fmt.Fprintln(w, v) })
		},
	}
	addSlotFlag(cmd, &slot)
	return cmd
}

func (c *cli) setCmd() *cobra.Command {
	var slot int
	cmd := &cobra.Command{
		Use:   "set <interface> <property> <value>",
		Short: "Write one property; true/false and integers are sent typed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			iface, err := telebus.ParseInterface(args[0])
			if err != nil {
				return err
			}
			return do(c, cmd, func(s *telebus.Session, cb telebus.Callback[struct{}]) error {
				return s.SetProperty(telebus.Slot(slot), iface, args[1], parseValue(args[2]), cb)
			}, printOK)
		},
	}
	addSlotFlag(cmd, &slot)
	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not on or off", telebus.ErrInvalidArgument, s)
}

// parseValue types a command line property value.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
