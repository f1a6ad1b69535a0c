package telemetry_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/sensorfleet/fleet"
	"i4.energy/across/sensorfleet/modem"
	"i4.energy/across/sensorfleet/telemetry"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := telemetry.NewMetrics(reg)

	m.CommandCompleted("AT+CWMODE", modem.StatusSuccess, 20*time.Millisecond)
	m.CommandCompleted("AT+CWMODE", modem.StatusSuccess, 30*time.Millisecond)
	m.CommandCompleted("AT+MQTTCONN", modem.StatusTimeout, 30*time.Second)

	m.ReportCompleted(fleet.Report{Device: "Oven Sensor", Verified: true, Reading: 26.5, Attention: true})
	m.ReportCompleted(fleet.Report{Device: "Oven Sensor", Verified: true, Reading: 23, Attention: false})
	m.Unverified("Refrigerator Sensor")

	expected := `
# HELP sensorfleet_at_commands_total AT commands run, by command name and outcome.
# TYPE sensorfleet_at_commands_total counter
sensorfleet_at_commands_total{command="AT+CWMODE",status="success"} 2
sensorfleet_at_commands_total{command="AT+MQTTCONN",status="timeout"} 1
# HELP sensorfleet_attention 1 when the last reading needed attention.
# TYPE sensorfleet_attention gauge
sensorfleet_attention{device="Oven Sensor"} 0
# HELP sensorfleet_reading_celsius Last published reading.
# TYPE sensorfleet_reading_celsius gauge
sensorfleet_reading_celsius{device="Oven Sensor"} 23
# HELP sensorfleet_reports_total Device cycles, by device and outcome.
# TYPE sensorfleet_reports_total counter
sensorfleet_reports_total{device="Oven Sensor",outcome="reported"} 2
sensorfleet_reports_total{device="Refrigerator Sensor",outcome="unverified"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"sensorfleet_at_commands_total",
		"sensorfleet_attention",
		"sensorfleet_reading_celsius",
		"sensorfleet_reports_total",
	)
	require.NoError(t, err)

	series, err := testutil.GatherAndCount(reg, "sensorfleet_at_command_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestNewMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	telemetry.NewMetrics(reg)

	assert.Panics(t, func() { telemetry.NewMetrics(reg) })
}
