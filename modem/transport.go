//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=modem

package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Transport represents an established, bidirectional byte stream to a WiFi
// modem.
//
// A Transport is assumed to be already connected and ready for use. It provides
// the low-level I/O primitives required to send AT commands and receive responses.
// Typical implementations include serial ports, TCP connections to emulators,
// or in-memory fakes used for testing.
//
// A Read that returns (0, nil) is treated as "no data yet", which is how
// serial ports report their own read timeout.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport to a WiFi modem.
//
// Dialer abstracts how the modem connection is created (for example, via a
// serial port, TCP-based emulator, or test double) and is intended to be used
// during modem construction only. Once a Transport is obtained, the Dialer is
// no longer needed.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport. It may
	// perform blocking operations and should respect cancellation and deadlines
	// provided by the context. Dial returns an error if the transport cannot be
	// established.
	Dial(ctx context.Context) (Transport, error)
}

const (
	// DefaultBaudRate is used by SerialDialer when neither Mode nor BaudRate is set.
	DefaultBaudRate = 115200

	// defaultPollInterval bounds how long a single serial Read blocks, so the
	// reader goroutine notices Close promptly.
	defaultPollInterval = 200 * time.Millisecond
)

// SerialDialer opens a modem over a serial port using go.bug.st/serial.
//
// The line profile is fixed to 8 data bits, no parity and one stop bit
// unless Mode is given explicitly.
type SerialDialer struct {
	PortName string
	BaudRate int
	Mode     *serial.Mode
	// PollInterval is the serial read timeout. Zero means 200ms.
	PollInterval time.Duration
}

// Dial opens the serial port.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("modem: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("modem: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud <= 0 {
			baud = DefaultBaudRate
		}
		mode = &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: fmt.Errorf("%s: %w", d.PortName, err)}
	}

	poll := d.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	if err := port.SetReadTimeout(poll); err != nil {
		port.Close()
		return nil, &TransportError{Op: "open", Err: fmt.Errorf("set read timeout on %s: %w", d.PortName, err)}
	}

	return port, nil
}
