package broker

import (
	"context"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/sensorfleet/sensor"
)

// Observation is one decoded fleet message.
type Observation struct {
	Device string
	Kind   sensor.TopicKind
	Topic  string
	// Status is "OK" or "CHECK" for warn topics.
	Status string
	// Reading is set for temperature topics.
	Reading float64
}

// Decode maps msg to the sensor that published it.
func Decode(catalog []sensor.Descriptor, msg mqtt.Message) (Observation, error) {
	d, kind, ok := sensor.FindByTopic(catalog, msg.Topic())
	if !ok {
		return Observation{}, fmt.Errorf("%w: %s", ErrUnknownTopic, msg.Topic())
	}

	obs := Observation{Device: d.Name, Kind: kind, Topic: msg.Topic()}
	payload := string(msg.Payload())

	switch kind {
	case sensor.TopicWarn:
		if payload != sensor.StatusOK && payload != sensor.StatusCheck {
			return Observation{}, fmt.Errorf("%w: %q on %s", ErrInvalidPayload, payload, msg.Topic())
		}
		obs.Status = payload
	case sensor.TopicTemperature:
		reading, err := sensor.ParseReading(payload)
		if err != nil {
			return Observation{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		obs.Reading = reading
	}

	return obs, nil
}

// Monitor subscribes to every fleet topic and decodes what arrives.
type Monitor struct {
	client  mqtt.Client
	catalog []sensor.Descriptor
	logger  *slog.Logger
}

func NewMonitor(client mqtt.Client, catalog []sensor.Descriptor, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{client: client, catalog: catalog, logger: logger}
}

// Run subscribes and passes every decoded observation to handle, which
// may be nil. Messages that do not decode are logged and dropped. Run
// blocks until ctx is done, then unsubscribes.
func (m *Monitor) Run(ctx context.Context, handle func(Observation)) error {
	token := m.client.Subscribe(sensor.TopicFilter, 0, func(_ mqtt.Client, msg mqtt.Message) {
		obs, err := Decode(m.catalog, msg)
		if err != nil {
			m.logger.Debug("ignoring message", "topic", msg.Topic(), "error", err)
			return
		}

		switch obs.Kind {
		case sensor.TopicWarn:
			m.logger.Info("status", "device", obs.Device, "status", obs.Status)
		case sensor.TopicTemperature:
			m.logger.Info("reading", "device", obs.Device, "reading", obs.Reading)
		}
		if handle != nil {
			handle(obs)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", sensor.TopicFilter, token.Error())
	}
	m.logger.Info("subscribed", "topic", sensor.TopicFilter)

	<-ctx.Done()

	m.client.Unsubscribe(sensor.TopicFilter).Wait()
	return nil
}
