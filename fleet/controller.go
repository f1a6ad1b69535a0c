//go:generate go tool mockgen -source=controller.go -destination=mock_device.go -package=fleet

// Package fleet drives simulated sensors through the modem: it makes sure
// the module is on the configured network, then publishes one reading per
// sensor to the MQTT broker.
package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/sensorfleet/modem"
	"i4.energy/across/sensorfleet/sensor"
)

// Device is the subset of the AT command library the workflow needs.
// *modem.Modem implements it.
type Device interface {
	IsStationMode(ctx context.Context) (bool, error)
	SetStationMode(ctx context.Context) (modem.Result, error)
	IsWiFiJoined(ctx context.Context) (bool, error)
	JoinWiFi(ctx context.Context, ssid, password string) (modem.Result, error)
	SetTimeServers(ctx context.Context, timezone int, servers []string) (modem.Result, error)
	SetMQTTUserConfig(ctx context.Context, clientID string) (modem.Result, error)
	ConnectMQTT(ctx context.Context, address string, port int) (modem.Result, error)
	PublishMQTT(ctx context.Context, topic, message string) (modem.Result, error)
}

var _ Device = (*modem.Modem)(nil)

// Observer is notified about every device cycle.
type Observer interface {
	ReportCompleted(report Report)
	Unverified(device string)
}

type WiFiCredentials struct {
	SSID     string
	Password string
}

// Endpoint is the MQTT broker the module connects to.
type Endpoint struct {
	Server string
	Port   int
}

// TimeSync enables SNTP before each report when set.
type TimeSync struct {
	Timezone int
	Servers  []string
}

// Settings is what the controller needs to know about the environment.
type Settings struct {
	WiFi     WiFiCredentials
	Broker   Endpoint
	TimeSync *TimeSync
}

// ClientIDPrefix is prepended to the sensor index to form the MQTT client ID.
const ClientIDPrefix = "dont-forget-"

// Controller runs the per-device workflow on top of a Device.
type Controller struct {
	device   Device
	settings Settings
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewController returns a controller for device. logger and observer may
// be nil.
func NewController(device Device, settings Settings, logger *slog.Logger, observer Observer) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		device:   device,
		settings: settings,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

func (c *Controller) withLogger(logger *slog.Logger) *Controller {
	clone := *c
	clone.logger = logger
	return &clone
}

// VerifyConfiguration makes sure the module is in station mode and joined
// to the configured access point, fixing either when it is not. It
// reports false when a fix was refused by the module. The error is only
// set for transport faults and cancellation.
func (c *Controller) VerifyConfiguration(ctx context.Context) (bool, error) {
	station, err := c.device.IsStationMode(ctx)
	if err != nil {
		return false, err
	}

	if !station {
		c.logger.Info("setting station mode")
		result, err := c.device.SetStationMode(ctx)
		if err != nil {
			return false, err
		}
		if result.Failed() {
			c.logger.Warn("could not set station mode", "status", result.Status, "error", result.Message)
			return false, nil
		}
	}

	joined, err := c.device.IsWiFiJoined(ctx)
	if err != nil {
		return false, err
	}
	if joined {
		return true, nil
	}

	c.logger.Info("joining wifi", "ssid", c.settings.WiFi.SSID)
	result, err := c.device.JoinWiFi(ctx, c.settings.WiFi.SSID, c.settings.WiFi.Password)
	if err != nil {
		return false, err
	}
	if result.Failed() {
		c.logger.Warn("could not join wifi", "ssid", c.settings.WiFi.SSID, "status", result.Status, "data", result.Data)
		return false, nil
	}

	return true, nil
}

// ReportCycle publishes one reading of d, using index to derive the MQTT
// client ID. It assumes VerifyConfiguration succeeded. Every failure
// except time synchronisation is returned as a *FatalError.
func (c *Controller) ReportCycle(ctx context.Context, index int, d sensor.Descriptor) (Report, error) {
	if ts := c.settings.TimeSync; ts != nil {
		result, err := c.device.SetTimeServers(ctx, ts.Timezone, ts.Servers)
		if err != nil {
			return Report{}, &FatalError{Step: "configure time servers", Err: err}
		}
		if result.Failed() {
			c.logger.Warn("could not configure time servers", "status", result.Status, "error", result.Message)
		}
	}

	clientID := fmt.Sprintf("%s%d", ClientIDPrefix, index)
	if err := step("configure MQTT", func() (modem.Result, error) {
		return c.device.SetMQTTUserConfig(ctx, clientID)
	}); err != nil {
		return Report{}, err
	}

	broker := c.settings.Broker
	if err := step("connect MQTT", func() (modem.Result, error) {
		return c.device.ConnectMQTT(ctx, broker.Server, broker.Port)
	}); err != nil {
		return Report{}, err
	}

	reading := d.Sample()
	verdict := d.Verdict(reading)

	if err := step("publish warning", func() (modem.Result, error) {
		return c.device.PublishMQTT(ctx, d.WarnTopic, verdict)
	}); err != nil {
		return Report{}, err
	}

	if err := step("publish reading", func() (modem.Result, error) {
		return c.device.PublishMQTT(ctx, d.TempTopic, sensor.FormatReading(reading))
	}); err != nil {
		return Report{}, err
	}

	report := Report{
		Device:    d.Name,
		Index:     index,
		Verified:  true,
		Reading:   reading,
		Attention: verdict == sensor.StatusCheck,
		At:        c.now(),
	}
	c.logger.Info("reported", "device", d.Name, "reading", reading, "verdict", verdict)
	if c.observer != nil {
		c.observer.ReportCompleted(report)
	}

	return report, nil
}

// Cycle verifies the module configuration and, when that succeeds,
// reports d. An unverified device yields a Report with Verified unset
// and no error.
func (c *Controller) Cycle(ctx context.Context, index int, d sensor.Descriptor) (Report, error) {
	verified, err := c.VerifyConfiguration(ctx)
	if err != nil {
		return Report{}, &FatalError{Step: "verify configuration", Err: err}
	}
	if !verified {
		c.logger.Warn("configuration could not be verified, skipping device", "device", d.Name)
		if c.observer != nil {
			c.observer.Unverified(d.Name)
		}
		return Report{Device: d.Name, Index: index, At: c.now()}, nil
	}

	return c.ReportCycle(ctx, index, d)
}

// step runs one fatal workflow step.
func step(name string, run func() (modem.Result, error)) error {
	result, err := run()
	if err != nil {
		return &FatalError{Step: name, Err: err}
	}
	if result.Failed() {
		return &FatalError{Step: name, Err: result.Err()}
	}
	return nil
}
