// internal/metrics/metrics_test.go
package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CommandSent("put")
		m.CommandDropped("not_ready")
		m.SendError("COMMAND")
		m.Telegram("state")
		m.DecodeError()
		m.Reconnect("STATUS")
		m.SetReady(true)
		m.SetConnected("STATUS", true)
		m.MirrorWrite(nil)
	})
}

// value sums every sample of the named family.
func value(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			}
		}
		return sum
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CommandSent("put")
	m.CommandSent("put")
	m.CommandDropped("not_ready")
	m.DecodeError()
	m.SetReady(true)
	m.MirrorWrite(errors.New("boom"))

	assert.Equal(t, 2.0, value(t, reg, "catsbridge_commands_sent_total"))
	assert.Equal(t, 1.0, value(t, reg, "catsbridge_commands_dropped_total"))
	assert.Equal(t, 1.0, value(t, reg, "catsbridge_decode_errors_total"))
	assert.Equal(t, 1.0, value(t, reg, "catsbridge_ready"))
	assert.Equal(t, 1.0, value(t, reg, "catsbridge_mirror_writes_total"))
}

func TestUnregistered(t *testing.T) {
	m := New(nil)
	assert.NotPanics(t, func() { m.CommandSent("get") })
}
