package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/telebus/pkg/telebus"
)

func printOK(w io.Writer, _ struct{}) { fmt.Fprintln(w, "ok") }

func printLine(w io.Writer, s string) { fmt.Fprintln(w, s) }

func printModem(w io.Writer, m telebus.ModemInfo) {
	fmt.Fprintf(w, "Manufacturer: %s\n", m.Manufacturer)
	fmt.Fprintf(w, "Model:        %s\n", m.Model)
	fmt.Fprintf(w, "Revision:     %s\n", m.Revision)
	fmt.Fprintf(w, "Serial:       %s\n", m.Serial)
	fmt.Fprintf(w, "Powered:      %t\n", m.Powered)
	fmt.Fprintf(w, "Online:       %t\n", m.Online)
	fmt.Fprintf(w, "Features:     %s\n", strings.Join(m.Features, " "))
}

func printSim(w io.Writer, s telebus.SimInfo) {
	fmt.Fprintf(w, "Present:     %t\n", s.Present)
	fmt.Fprintf(w, "IMSI:        %s\n", s.SubscriberIdentity)
	fmt.Fprintf(w, "ICCID:       %s\n", s.CardIdentifier)
	fmt.Fprintf(w, "Operator:    %s%s %s\n", s.MobileCountryCode, s.MobileNetworkCode, s.ServiceProviderName)
	fmt.Fprintf(w, "PinRequired: %s\n", s.PinRequired)
	fmt.Fprintf(w, "LockedPins:  %s\n", strings.Join(s.LockedPins, " "))
}

func printRegistration(w io.Writer, r telebus.RegistrationInfo) {
	fmt.Fprintf(w, "Status:     %s\n", r.Status)
	fmt.Fprintf(w, "Operator:   %s (%s%s)\n", r.Name, r.MobileCountryCode, r.MobileNetworkCode)
	fmt.Fprintf(w, "Technology: %s\n", r.Technology)
	fmt.Fprintf(w, "Strength:   %d%%\n", r.Strength)
	fmt.Fprintf(w, "Cell:       lac=%d cid=%d\n", r.LocationAreaCode, r.CellID)
}

func printOperators(w io.Writer, ops []telebus.OperatorInfo) {
	for _, o := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s%s\t%s\t%s\n",
			o.Path, o.Name, o.MobileCountryCode, o.MobileNetworkCode, o.Status, strings.Join(o.Technologies, ","))
	}
}

func printContexts(w io.Writer, ctxs []telebus.ApnContext) {
	for _, c := range ctxs {
		fmt.Fprintf(w, "%s\t%s\t%s\tactive=%t", c.Path, c.Type, c.AccessPointName, c.Active)
		if c.Settings.Address != "" {
			fmt.Fprintf(w, "\t%s/%s via %s", c.Settings.Address, c.Settings.Netmask, c.Settings.Interface)
		}
		fmt.Fprintln(w)
	}
}

func printSS(w io.Writer, r telebus.SsInitiateInfo) {
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", r.Type, r.Operation, r.Service)
}

func printActivity(w io.Writer, a telebus.ModemActivityInfo) {
	fmt.Fprintf(w, "sleep=%dms idle=%dms rx=%dms tx=", a.SleepTime, a.IdleTime, a.RxTime)
	for i, t := range a.TxTime {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, "%d", t)
	}
	fmt.Fprintln(w)
}

func printChange(w io.Writer, slot telebus.Slot, iface telebus.Interface, ch telebus.PropertyChange) {
	fmt.Fprintf(w, "[%s] %s.%s = %s\n", slot, iface, ch.Name, ch.Value)
}

func printMessage(w io.Writer, slot telebus.Slot, m telebus.MessageInfo) {
	fmt.Fprintf(w, "[%s] message from %s at %s: %s\n", slot, m.Sender, m.SentTime, m.Text)
}
