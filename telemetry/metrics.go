// Package telemetry exports what the modem and the fleet do as Prometheus
// metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"i4.energy/across/sensorfleet/fleet"
	"i4.energy/across/sensorfleet/modem"
)

const namespace = "sensorfleet"

// Metrics implements modem.Observer and fleet.Observer.
type Metrics struct {
	commands  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	reports   *prometheus.CounterVec
	reading   *prometheus.GaugeVec
	attention *prometheus.GaugeVec
}

var (
	_ modem.Observer = (*Metrics)(nil)
	_ fleet.Observer = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "at_commands_total",
			Help:      "AT commands run, by command name and outcome.",
		}, []string{"command", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "at_command_duration_seconds",
			Help:      "Time from writing an AT command to its final response line.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"command"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Device cycles, by device and outcome.",
		}, []string{"device", "outcome"}),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading_celsius",
			Help:      "Last published reading.",
		}, []string{"device"}),
		attention: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attention",
			Help:      "1 when the last reading needed attention.",
		}, []string{"device"}),
	}

	reg.MustRegister(m.commands, m.duration, m.reports, m.reading, m.attention)

	return m
}

func (m *Metrics) CommandCompleted(command string, status modem.Status, elapsed time.Duration) {
	m.commands.WithLabelValues(command, status.String()).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) ReportCompleted(report fleet.Report) {
	m.reports.WithLabelValues(report.Device, "reported").Inc()
	m.reading.WithLabelValues(report.Device).Set(report.Reading)

	attention := 0.0
	if report.Attention {
		attention = 1
	}
	m.attention.WithLabelValues(report.Device).Set(attention)
}

func (m *Metrics) Unverified(device string) {
	m.reports.WithLabelValues(device, "unverified").Inc()
}
