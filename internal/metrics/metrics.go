// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catsbridge"

// Metrics holds the bridge collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	commandsSent     *prometheus.CounterVec
	commandsDropped  *prometheus.CounterVec
	sendErrors       *prometheus.CounterVec
	telegrams        *prometheus.CounterVec
	decodeErrors     prometheus.Counter
	reconnects       *prometheus.CounterVec
	ready            prometheus.Gauge
	channelConnected *prometheus.GaugeVec
	mirrorWrites     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_sent_total",
			Help:      "Commands written to the robot command channel.",
		}, []string{"command"}),
		commandsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_dropped_total",
			Help:      "Commands discarded before reaching the robot.",
		}, []string{"reason"}),
		sendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_errors_total",
			Help:      "Failed writes per robot channel.",
		}, []string{"channel"}),
		telegrams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegrams_total",
			Help:      "Status telegrams received per context.",
		}, []string{"context"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Status fields or telegrams that could not be decoded.",
		}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_total",
			Help:      "Successful connections per robot channel.",
		}, []string{"channel"}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready",
			Help:      "1 when both channels are connected and commands are accepted.",
		}),
		channelConnected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_connected",
			Help:      "1 while the robot channel is connected.",
		}, []string{"channel"}),
		mirrorWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_writes_total",
			Help:      "Status block writes per result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.commandsSent,
			m.commandsDropped,
			m.sendErrors,
			m.telegrams,
			m.decodeErrors,
			m.reconnects,
			m.ready,
			m.channelConnected,
			m.mirrorWrites,
		)
	}
	return m
}

func (m *Metrics) CommandSent(name string) {
	if m == nil {
		return
	}
	m.commandsSent.WithLabelValues(name).Inc()
}

func (m *Metrics) CommandDropped(reason string) {
	if m == nil {
		return
	}
	m.commandsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) SendError(channel string) {
	if m == nil {
		return
	}
	m.sendErrors.WithLabelValues(channel).Inc()
}

func (m *Metrics) Telegram(context string) {
	if m == nil {
		return
	}
	m.telegrams.WithLabelValues(context).Inc()
}

func (m *Metrics) DecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) Reconnect(channel string) {
	if m == nil {
		return
	}
	m.reconnects.WithLabelValues(channel).Inc()
}

func (m *Metrics) SetReady(ready bool) {
	if m == nil {
		return
	}
	m.ready.Set(b2f(ready))
}

func (m *Metrics) SetConnected(channel string, connected bool) {
	if m == nil {
		return
	}
	m.channelConnected.WithLabelValues(channel).Set(b2f(connected))
}

// MirrorWrite records one status block write.
func (m *Metrics) MirrorWrite(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mirrorWrites.WithLabelValues(result).Inc()
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
