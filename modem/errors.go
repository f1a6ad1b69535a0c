package modem

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has no transport.
	//
	// This can occur if the Dialer returned neither a transport nor an error,
	// or if the Modem was not created via New.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed, or when a command is run after Close.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrInvalidArgument is the parent of every error caused by malformed
	// input to a command. These are caller bugs, not device faults, and
	// they are always reported before anything is written to the transport.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCommandTooLong is returned when the encoded command exceeds the
	// maximum length allowed for the invocation.
	ErrCommandTooLong = fmt.Errorf("%w: command too long", ErrInvalidArgument)

	// ErrInvalidPort is returned when a network port is outside 1-65535.
	ErrInvalidPort = fmt.Errorf("%w: port must be between 1 and 65535", ErrInvalidArgument)

	// ErrTooManySNTPServers is returned when more than three SNTP servers
	// are passed to SetTimeServers.
	ErrTooManySNTPServers = fmt.Errorf("%w: at most 3 SNTP servers are allowed", ErrInvalidArgument)
)

// TransportError reports a fault of the underlying byte channel: the
// device could not be opened, or a read or write failed mid-session.
// An ordinary read timeout is not a TransportError.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CommandError is the error form of a failed Result. It carries the
// classification and the raw response so callers can log what the
// firmware actually said.
type CommandError struct {
	Command string
	Status  Status
	Message string
	Data    string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}
