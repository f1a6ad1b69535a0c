package modem

import (
	"context"
	"fmt"
	"strings"

	"i4.energy/across/sensorfleet/at"
)

// MaxSNTPServers is the number of SNTP servers the firmware accepts.
const MaxSNTPServers = 3

// SetTimeServers enables SNTP with the given timezone offset and up to
// three servers. With no servers the firmware keeps its defaults.
func (m *Modem) SetTimeServers(ctx context.Context, timezone int, servers []string) (Result, error) {
	if len(servers) > MaxSNTPServers {
		return Result{}, fmt.Errorf("%w: got %d", ErrTooManySNTPServers, len(servers))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s=1,%d", at.CmdSNTPConfig, timezone)
	for _, server := range servers {
		b.WriteByte(',')
		b.WriteString(quote(server))
	}

	return m.Run(ctx, b.String(), Expect{})
}

// OpenTCP opens a single TCP connection to ip:port.
func (m *Modem) OpenTCP(ctx context.Context, ip string, port int) (Result, error) {
	if err := checkPort(port); err != nil {
		return Result{}, err
	}
	command := fmt.Sprintf(`%s="TCP",%s,%d`, at.CmdTCPStart, quote(ip), port)
	return m.Run(ctx, command, Expect{})
}

// CloseTCP closes the TCP connection.
func (m *Modem) CloseTCP(ctx context.Context) (Result, error) {
	return m.Run(ctx, at.CmdTCPClose, Expect{})
}

// SendData sends data over the open TCP connection. The length is
// announced first; if the module refuses it, the payload is not sent and
// the announcement result is returned.
func (m *Modem) SendData(ctx context.Context, data string) (Result, error) {
	if len(data) > at.MaxPayloadLength {
		return Result{}, fmt.Errorf("%w: %d bytes, limit is %d", ErrCommandTooLong, len(data), at.MaxPayloadLength)
	}

	announce, err := m.Run(ctx, fmt.Sprintf("%s=%d", at.CmdTCPSend, len(data)), Expect{})
	if err != nil || announce.Failed() {
		return announce, err
	}

	return m.Run(ctx, data, Expect{Success: at.SendOK, MaxLength: at.MaxPayloadLength})
}
