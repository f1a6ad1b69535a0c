package modem_test

import (
	"io"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/sensorfleet/modem"
)

// MockSequenceBuilder scripts an ESP-AT conversation on a MockTransport.
// Reads block until the expected write has produced its reply, the way a
// serial port stays quiet between commands.
type MockSequenceBuilder struct {
	transport *modem.MockTransport
	replies   chan []byte
	closed    chan struct{}
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	b := &MockSequenceBuilder{
		transport: transport,
		replies:   make(chan []byte, 16),
		closed:    make(chan struct{}),
		calls:     []any{},
	}
	transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		select {
		case data := <-b.replies:
			return copy(p, data), nil
		case <-b.closed:
			return 0, io.EOF
		}
	}).AnyTimes()
	return b
}

// Command expects command to be written and answers it with reply.
func (b *MockSequenceBuilder) Command(command, reply string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(command+"\r\n")).DoAndReturn(func(p []byte) (int, error) {
			if reply != "" {
				b.replies <- []byte(reply)
			}
			return len(p), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) StationMode() *MockSequenceBuilder {
	return b.Command("AT+CWMODE?", "+CWMODE:1\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) SoftAPMode() *MockSequenceBuilder {
	return b.Command("AT+CWMODE?", "+CWMODE:2\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) SetStationMode() *MockSequenceBuilder {
	return b.Command("AT+CWMODE=1", "OK\r\n")
}

func (b *MockSequenceBuilder) Joined(ssid string) *MockSequenceBuilder {
	return b.Command("AT+CWJAP?", `+CWJAP:"`+ssid+`","c4:ad:34:10:aa:01",6,-58,0,1,3,0,1`+"\r\n\r\nOK\r\n")
}

// Close expects the transport to be closed and makes it return err.
func (b *MockSequenceBuilder) Close(err error) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Close().DoAndReturn(func() error {
			close(b.closed)
			return err
		}),
	)
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
