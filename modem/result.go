package modem

import (
	"regexp"

	"i4.energy/across/sensorfleet/at"
)

// Status classifies the outcome of a single command.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
	// StatusTimeout means the transport went quiet before either the
	// success or the error token showed up. It is error-shaped: callers
	// that only care about success treat it like StatusError.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result is the classified outcome of one Run invocation.
type Result struct {
	Command string
	Status  Status
	// Message explains a failure. It is empty on success.
	Message string
	// Data holds every response line received, blank ones included, each
	// followed by a newline, up to and including the line that ended the
	// command.
	Data string
}

// Ok reports whether the command succeeded.
func (r Result) Ok() bool {
	return r.Status == StatusSuccess
}

// Failed reports whether the command ended in an error or a timeout.
func (r Result) Failed() bool {
	return r.Status != StatusSuccess
}

// Err returns nil for a successful result and a *CommandError otherwise.
func (r Result) Err() error {
	if r.Ok() {
		return nil
	}
	return &CommandError{
		Command: r.Command,
		Status:  r.Status,
		Message: r.Message,
		Data:    r.Data,
	}
}

// Expect describes which response lines end a command and how. The zero
// value expects "OK" for success, "ERROR" for failure and caps the command
// at 256 bytes.
type Expect struct {
	// Success is the exact line that marks success. Default "OK".
	Success string
	// Error is the exact line that marks failure. Default "ERROR".
	Error string
	// ErrorPattern, when set, marks failure for any line it matches.
	// It is applied with MatchString, so anchor it if it must match the
	// start of the line.
	ErrorPattern *regexp.Regexp
	// MaxLength is the maximum encoded command length in bytes. Default 256.
	MaxLength int
}

func (e Expect) withDefaults() Expect {
	if e.Success == "" {
		e.Success = at.OK
	}
	if e.Error == "" {
		e.Error = at.ERROR
	}
	if e.MaxLength <= 0 {
		e.MaxLength = at.MaxCommandLength
	}
	return e
}
