package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"i4.energy/across/sensorfleet/at"
)

// Modem is an ESP-AT WiFi modem reached over a Transport. It owns the
// transport for its whole lifetime and serializes every command, so a
// single Modem may be shared between goroutines.
type Modem struct {
	// transport provides the physical connection to the modem (serial, TCP, etc.)
	transport Transport
	// atTimeout bounds the wait for each response line
	atTimeout time.Duration
	logger    *slog.Logger
	observer  Observer

	// mu is held for the duration of a command, from write to final line
	mu sync.Mutex
	// pending holds bytes received but not yet split into lines
	pending []byte
	// eof is set once the transport reported end of stream
	eof bool
	// fault is the sticky read error reported by the reader goroutine
	fault error

	// chunks carries raw reads from the reader goroutine
	chunks chan []byte
	// readErr receives the error that stopped the reader goroutine
	readErr chan error
	// done is closed by Close to stop the reader goroutine
	done   chan struct{}
	closed atomic.Bool
}

// New creates a new Modem instance with the given configuration. It dials
// the transport and starts the goroutine reading from it.
//
// The context only bounds dialing; it does not control the lifetime of
// the Modem. Call Close to release the transport.
func New(ctx context.Context, config Config) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	m := &Modem{
		transport: transport,
		atTimeout: config.atTimeout,
		logger:    config.logger,
		observer:  config.observer,
		chunks:    make(chan []byte, 16),
		readErr:   make(chan error, 1),
		done:      make(chan struct{}),
	}

	go m.readLoop()

	return m, nil
}

// Close stops the reader goroutine and closes the transport. After
// calling Close, the modem cannot be reused.
func (m *Modem) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if m.done != nil {
		close(m.done)
	}

	if m.transport != nil {
		return m.transport.Close()
	}

	return nil
}

// ATTimeout returns the per-line response timeout.
func (m *Modem) ATTimeout() time.Duration {
	return m.atTimeout
}

// readLoop is the only goroutine that reads from the transport. It hands
// every non-empty read to the command in progress through m.chunks and
// exits on the first read error or when the modem is closed.
func (m *Modem) readLoop() {
	buf := make([]byte, 1024)
	for {
		n, err := m.transport.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case m.chunks <- chunk:
			case <-m.done:
				return
			}
		}
		if err != nil {
			select {
			case m.readErr <- err:
			case <-m.done:
			}
			return
		}

		select {
		case <-m.done:
			return
		default:
		}
	}
}

// runState tracks a command from the moment it is written until a final
// classification is reached.
type runState int

const (
	stateReading runState = iota
	stateSucceeded
	stateFailed
	stateTimedOut
)

// classify decides whether line ends the command.
func (e Expect) classify(line string) runState {
	switch {
	case line == e.Success:
		return stateSucceeded
	case line == e.Error:
		return stateFailed
	case e.ErrorPattern != nil && e.ErrorPattern.MatchString(line):
		return stateFailed
	default:
		return stateReading
	}
}

// Run sends command followed by CRLF and collects response lines until
// one of them matches expect.Success, matches expect.Error or
// expect.ErrorPattern, or no line arrives within the AT timeout.
//
// Protocol outcomes, including the timeout, are reported through the
// returned Result. The error is reserved for problems that are not the
// device's answer: an invalid argument (reported before anything is
// written), a transport fault, a closed modem or a cancelled context.
func (m *Modem) Run(ctx context.Context, command string, expect Expect) (Result, error) {
	expect = expect.withDefaults()

	if len(command) > expect.MaxLength {
		return Result{}, fmt.Errorf("%w: %d bytes, limit is %d", ErrCommandTooLong, len(command), expect.MaxLength)
	}
	if m.closed.Load() {
		return Result{}, ErrAlreadyClosed
	}
	if m.transport == nil {
		return Result{}, ErrNotInitialized
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()

	m.logger.Debug("sent command", "command", command)
	if _, err := m.transport.Write([]byte(command + at.CRLF)); err != nil {
		return Result{}, &TransportError{Op: "write", Err: fmt.Errorf("command %q: %w", command, err)}
	}

	var data strings.Builder
	state := stateReading
	for state == stateReading {
		raw, ok, err := m.readLine(ctx)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			state = stateTimedOut
			continue
		}

		line := decodeLine(raw)
		m.logger.Debug("received line", "command", at.Name(command), "line", line)

		data.WriteString(line)
		data.WriteString(at.LF)
		state = expect.classify(line)
	}

	result := Result{Command: command, Data: data.String()}
	switch state {
	case stateSucceeded:
		result.Status = StatusSuccess
	case stateFailed:
		result.Status = StatusError
		result.Message = fmt.Sprintf("running command (%s) returned an error", command)
	case stateTimedOut:
		result.Status = StatusTimeout
		result.Message = fmt.Sprintf(
			"never received expected success (%s) or error message (%s) for command %q within the %s timeout",
			expect.Success, expect.Error, command, m.atTimeout)
	}

	if m.observer != nil {
		m.observer.CommandCompleted(at.Name(command), result.Status, time.Since(start))
	}

	return result, nil
}

// readLine returns the next response line. ok is false when no line
// arrived within the AT timeout or the stream has ended. A partial line
// still buffered when the timeout fires is returned as a line of its own.
func (m *Modem) readLine(ctx context.Context) (line []byte, ok bool, err error) {
	timer := time.NewTimer(m.atTimeout)
	defer timer.Stop()

	for {
		if advance, token, _ := at.Splitter(m.pending, m.eof); advance > 0 {
			line = append([]byte(nil), token...)
			m.pending = m.pending[advance:]
			return line, true, nil
		}
		if m.fault != nil {
			return nil, false, m.fault
		}
		if m.eof {
			return nil, false, nil
		}

		select {
		case chunk := <-m.chunks:
			m.pending = append(m.pending, chunk...)

		case err := <-m.readErr:
			// The reader goroutine sends its error after its last chunk,
			// so whatever it read is already buffered.
			m.drainChunks()
			if errors.Is(err, io.EOF) {
				m.eof = true
			} else {
				m.fault = &TransportError{Op: "read", Err: err}
			}

		case <-timer.C:
			if len(m.pending) > 0 {
				line = m.pending
				m.pending = nil
				return line, true, nil
			}
			return nil, false, nil

		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

func (m *Modem) drainChunks() {
	for {
		select {
		case chunk := <-m.chunks:
			m.pending = append(m.pending, chunk...)
		default:
			return
		}
	}
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// decodeLine turns raw response bytes into text. Bytes that are not valid
// UTF-8 are replaced by a placeholder carrying a hex dump, so one garbled
// line does not abort the command.
func decodeLine(raw []byte) string {
	if !utf8.Valid(raw) {
		return fmt.Sprintf("*** line could not be decoded as UTF-8, raw data: [%x]", raw)
	}
	return lineBreaks.Replace(string(raw))
}
