package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/telebus/internal/bustest"
	"github.com/bft-labs/telebus/pkg/propbag"
	"github.com/bft-labs/telebus/pkg/telebus"
)

// sample returns the value of the metric family name whose labels include
// every pair in labels.
func sample(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, l := range m.GetLabel() {
				got[l.GetName()] = l.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("no sample %s%v", name, labels)
	return 0
}

func TestPrometheus_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.CallStarted("get_modem")
	p.CallStarted("get_modem")
	p.CallCompleted("get_modem", "OK", 30*time.Millisecond)
	p.Discarded("get_modem")
	p.SignalDelivered("watch_modem", "OK")
	p.Rejected("enter_pin", "unavailable")
	p.Pending(3, 2)

	assert.Equal(t, 2.0, sample(t, reg, "telebus_calls_started_total", map[string]string{"op": "get_modem"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_completed_total", map[string]string{"op": "get_modem", "status": "OK"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_duration_seconds", map[string]string{"op": "get_modem"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_discarded_total", map[string]string{"op": "get_modem"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_signals_delivered_total", map[string]string{"op": "watch_modem"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_rejected_total", map[string]string{"reason": "unavailable"}))
	assert.Equal(t, 3.0, sample(t, reg, "telebus_pending", map[string]string{"kind": "calls"}))
	assert.Equal(t, 2.0, sample(t, reg, "telebus_pending", map[string]string{"kind": "watches"}))
}

func TestPrometheus_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)
	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func TestPrometheus_Session(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	bus := bustest.New()
	bus.Publish("/ril_0", "org.ofono.Modem").Set("Powered", propbag.Bool(true))
	s, err := telebus.Open(context.Background(), "com.example.metrics", telebus.Config{},
		telebus.WithConnector(bus), telebus.WithMetrics(p))
	require.NoError(t, err)
	defer s.Close()

	done := make(chan struct{})
	require.NoError(t, s.GetModem(0, func(telebus.Result[telebus.ModemInfo]) { close(done) }))
	<-done
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Barrier(ctx))

	assert.ErrorIs(t, s.GetSim(0, func(telebus.Result[telebus.SimInfo]) {}), telebus.ErrUnavailable)

	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_started_total", map[string]string{"op": "get_modem"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_completed_total", map[string]string{"op": "get_modem", "status": "OK"}))
	assert.Equal(t, 1.0, sample(t, reg, "telebus_calls_rejected_total", map[string]string{"op": "get_sim", "reason": "unavailable"}))
}
