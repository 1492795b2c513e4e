// Package dbus implements the bus ports on top of godbus.
package dbus

import (
	"context"
	"fmt"

	godbus "github.com/godbus/dbus/v5"

	"github.com/bft-labs/telebus/internal/ports"
	"github.com/bft-labs/telebus/pkg/log"
)

// Well-known bus addresses accepted by NewConnector. Anything else is
// passed to godbus as a D-Bus address, e.g. "unix:path=/run/dbus/sock".
const (
	SystemBus  = "system"
	SessionBus = "session"
)

// Connector implements ports.Connector for a real message bus.
type Connector struct {
	address string
	logger  ports.Logger
}

// NewConnector creates a connector for address.
func NewConnector(address string, logger ports.Logger) *Connector {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if address == "" {
		address = SystemBus
	}
	return &Connector{address: address, logger: logger}
}

// Connect dials the bus and takes clientName as a well-known name. The name
// must not be owned by another client.
func (c *Connector) Connect(ctx context.Context, clientName string) (ports.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The connection outlives ctx, so it is not passed to godbus.
	bus, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("dial %s bus: %w", c.address, err)
	}

	reply, err := bus.RequestName(clientName, godbus.NameFlagDoNotQueue)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("request name %s: %w", clientName, err)
	}
	if reply != godbus.RequestNameReplyPrimaryOwner {
		_ = bus.Close()
		return nil, fmt.Errorf("request name %s: already owned (reply %d)", clientName, reply)
	}

	c.logger.Debug("bus connected",
		log.String("address", c.address),
		log.String("name", clientName),
	)
	return newConn(bus, c.logger), nil
}

func (c *Connector) dial() (*godbus.Conn, error) {
	switch c.address {
	case SystemBus:
		return godbus.ConnectSystemBus()
	case SessionBus:
		return godbus.ConnectSessionBus()
	default:
		return godbus.Connect(c.address)
	}
}
