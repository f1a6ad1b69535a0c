package modem

import (
	"context"
	"fmt"
	"strings"

	"i4.energy/across/sensorfleet/at"
)

// SetMQTTUserConfig configures MQTT link 0 for a plain TCP connection
// with the given client ID and no credentials.
func (m *Modem) SetMQTTUserConfig(ctx context.Context, clientID string) (Result, error) {
	command := fmt.Sprintf(`%s=0,1,%s,"","",0,0,""`, at.CmdMQTTUserConfig, quote(clientID))
	return m.Run(ctx, command, Expect{})
}

// ConnectMQTT connects MQTT link 0 to the broker at address:port without
// automatic reconnection.
func (m *Modem) ConnectMQTT(ctx context.Context, address string, port int) (Result, error) {
	if err := checkPort(port); err != nil {
		return Result{}, err
	}
	command := fmt.Sprintf(`%s=0,%s,%d,0`, at.CmdMQTTConnect, quote(address), port)
	return m.Run(ctx, command, Expect{})
}

// PublishMQTT publishes message on topic with QoS 0 and no retain flag.
// Double quotes in the message are backslash-escaped.
func (m *Modem) PublishMQTT(ctx context.Context, topic, message string) (Result, error) {
	command := fmt.Sprintf(`%s=0,%s,%s,0,0`, at.CmdMQTTPublish, quote(topic), quote(messageEscaper.Replace(message)))
	return m.Run(ctx, command, Expect{})
}

var messageEscaper = strings.NewReplacer(`"`, `\"`)

func checkPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, port)
	}
	return nil
}
