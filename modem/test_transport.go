package modem

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"i4.energy/across/sensorfleet/at"
)

// TestTransport is a test helper that simulates an ESP-AT module over
// channels. Replies are scripted per command with Respond and delivered
// when the matching command is written, so the reader goroutine blocks
// between commands like it would on a real serial port.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	closed   bool
	replies  map[string][]string
	written  []string
	writeErr error
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 64),
		replies:  make(map[string][]string),
	}
}

// Respond queues reply to be sent the next time command is written.
// Replies to the same command are delivered in the order they were queued.
func (t *TestTransport) Respond(command, reply string) *TestTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[command] = append(t.replies[command], reply)
	return t
}

// FailWrites makes every following Write return err.
func (t *TestTransport) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// Written returns every line written so far, without the CRLF terminator.
func (t *TestTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.written)
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	if t.writeErr != nil {
		return 0, t.writeErr
	}

	command := strings.TrimSuffix(string(p), at.CRLF)
	t.written = append(t.written, command)

	if queue := t.replies[command]; len(queue) > 0 {
		t.replies[command] = queue[1:]
		t.readChan <- []byte(queue[0])
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates unsolicited output from the modem.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// TestDialer hands out a fixed Transport.
type TestDialer struct {
	Transport Transport
}

func (d TestDialer) Dial(ctx context.Context) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Transport, nil
}
