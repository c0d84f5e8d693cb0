// Package metrics bundles the prometheus collectors of the poker server.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	connections prometheus.Gauge
	rooms       prometheus.Gauge
	delivered   prometheus.Counter
	dropped     prometheus.Counter
	commands    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poker_ws_connections",
			Help: "Current number of open websocket connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poker_rooms",
			Help: "Current number of rooms.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poker_messages_delivered_total",
			Help: "Total messages queued to participants.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poker_messages_dropped_total",
			Help: "Total messages dropped because a participant could not take them.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poker_commands_total",
			Help: "Inbound messages by command.",
		}, []string{"command"}),
	}
	reg.MustRegister(m.connections, m.rooms, m.delivered, m.dropped, m.commands)
	return m
}

func (m *Metrics) ConnOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) ConnClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

func (m *Metrics) SetRooms(n int) {
	if m != nil {
		m.rooms.Set(float64(n))
	}
}

func (m *Metrics) Delivered(n int) {
	if m != nil && n > 0 {
		m.delivered.Add(float64(n))
	}
}

func (m *Metrics) Dropped(n int) {
	if m != nil && n > 0 {
		m.dropped.Add(float64(n))
	}
}

func (m *Metrics) Command(name string) {
	if m != nil {
		m.commands.WithLabelValues(name).Inc()
	}
}
