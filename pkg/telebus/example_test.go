package telebus_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/telebus/internal/bustest"
	"github.com/bft-labs/telebus/pkg/propbag"
	"github.com/bft-labs/telebus/pkg/telebus"
)

// ExampleOpen reads the modem of slot 0 from an in-memory daemon.
func ExampleOpen() {
	bus := bustest.New()
	bus.Publish("/ril_0", "org.ofono.Modem").
		Set("Powered", propbag.Bool(true)).
		Set("Model", propbag.String("EG25"))

	s, err := telebus.Open(context.Background(), "com.example.telectl",
		telebus.DefaultConfig(), telebus.WithConnector(bus))
	if err != nil {
		fmt.Printf("open: %v\n", err)
		return
	}
	defer s.Close()

	done := make(chan struct{})
	err = s.GetModem(0, func(r telebus.Result[telebus.ModemInfo]) {
		defer close(done)
		if r.Err != nil {
			fmt.Printf("get modem: %v\n", r.Err)
			return
		}
		fmt.Printf("%s powered=%v\n", r.Value.Model, r.Value.Powered)
	})
	if err != nil {
		fmt.Printf("get modem: %v\n", err)
		return
	}
	<-done

	// Output: EG25 powered=true
}

// ExampleSession_SendMessage shows how a missing interface is reported.
func ExampleSession_SendMessage() {
	bus := bustest.New()
	bus.Publish("/ril_0", "org.ofono.Modem")

	s, err := telebus.Open(context.Background(), "com.example.telectl",
		telebus.DefaultConfig(), telebus.WithConnector(bus))
	if err != nil {
		fmt.Printf("open: %v\n", err)
		return
	}
	defer s.Close()

	err = s.SendMessage(0, "+15550100", "hello", func(telebus.Result[string]) {})
	fmt.Println(errors.Is(err, telebus.ErrUnavailable), telebus.Code(err) < 0)

	// Output: true true
}
