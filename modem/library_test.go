package modem_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"i4.energy/across/sensorfleet/modem"
)

func TestWiFiCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("IsStationMode", func(t *testing.T) {
		tests := []struct {
			name  string
			reply string
			want  bool
		}{
			{"station", "+CWMODE:1\r\n\r\nOK\r\n", true},
			{"soft AP", "+CWMODE:2\r\n\r\nOK\r\n", false},
			{"query failed", "+CWMODE:1\r\nERROR\r\n", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := newTestModem(t, modem.NewTestTransport().Respond("AT+CWMODE?", tt.reply), time.Second)

				got, err := m.IsStationMode(ctx)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("IsWiFiJoined", func(t *testing.T) {
		tests := []struct {
			name  string
			reply string
			want  bool
		}{
			{"joined", "+CWJAP:\"home\",\"c4:ad:34:10:aa:01\",6,-58\r\n\r\nOK\r\n", true},
			{"not joined", "No AP\r\n\r\nOK\r\n", false},
			{"empty ssid", "+CWJAP:\"\"\r\n\r\nOK\r\n", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := newTestModem(t, modem.NewTestTransport().Respond("AT+CWJAP?", tt.reply), time.Second)

				got, err := m.IsWiFiJoined(ctx)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("JoinWiFi", func(t *testing.T) {
		tests := []struct {
			name  string
			reply string
			want  modem.Status
		}{
			{"joined", "WIFI CONNECTED\r\nWIFI GOT IP\r\n\r\nOK\r\n", modem.StatusSuccess},
			{"wrong password", "+CWJAP:2\r\n\r\nFAIL\r\n", modem.StatusError},
			{"bare FAIL", "FAIL\r\n", modem.StatusError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				const command = `AT+CWJAP="home","s3cret"`
				transport := modem.NewTestTransport().Respond(command, tt.reply)
				m := newTestModem(t, transport, time.Second)

				result, err := m.JoinWiFi(ctx, "home", "s3cret")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.Status != tt.want {
					t.Errorf("expected %s, got %s", tt.want, result.Status)
				}
				if written := transport.Written(); !slices.Equal(written, []string{command}) {
					t.Errorf("unexpected commands %q", written)
				}
			})
		}
	})

	t.Run("ResetAndWaitForWiFi waits for an IP", func(t *testing.T) {
		transport := modem.NewTestTransport().
			Respond("AT+RST", "OK\r\n ets Jan  8 2013,rst cause:2\r\nready\r\nWIFI CONNECTED\r\nWIFI GOT IP\r\n")
		m := newTestModem(t, transport, time.Second)

		result, err := m.ResetAndWaitForWiFi(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Ok() {
			t.Errorf("expected success, got %+v", result)
		}
	})

	t.Run("SetStationMode and LeaveWiFi", func(t *testing.T) {
		transport := modem.NewTestTransport().
			Respond("AT+CWMODE=1", "OK\r\n").
			Respond("AT+CWQAP", "OK\r\n")
		m := newTestModem(t, transport, time.Second)

		if result, err := m.SetStationMode(ctx); err != nil || !result.Ok() {
			t.Errorf("SetStationMode: %+v, %v", result, err)
		}
		if result, err := m.LeaveWiFi(ctx); err != nil || !result.Ok() {
			t.Errorf("LeaveWiFi: %+v, %v", result, err)
		}
	})
}

func TestMQTTCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("SetMQTTUserConfig", func(t *testing.T) {
		const command = `AT+MQTTUSERCFG=0,1,"dont-forget-0","","",0,0,""`
		transport := modem.NewTestTransport().Respond(command, "OK\r\n")
		m := newTestModem(t, transport, time.Second)

		result, err := m.SetMQTTUserConfig(ctx, "dont-forget-0")
		if err != nil || !result.Ok() {
			t.Fatalf("unexpected outcome: %+v, %v", result, err)
		}
	})

	t.Run("ConnectMQTT", func(t *testing.T) {
		const command = `AT+MQTTCONN=0,"192.168.1.10",1883,0`
		transport := modem.NewTestTransport().Respond(command, "+MQTTCONNECTED:0,1,\"192.168.1.10\",\"1883\",\"\",0\r\n\r\nOK\r\n")
		m := newTestModem(t, transport, time.Second)

		result, err := m.ConnectMQTT(ctx, "192.168.1.10", 1883)
		if err != nil || !result.Ok() {
			t.Fatalf("unexpected outcome: %+v, %v", result, err)
		}
	})

	t.Run("ConnectMQTT rejects invalid ports before writing", func(t *testing.T) {
		for _, port := range []int{0, -1, 65536} {
			transport := modem.NewTestTransport()
			m := newTestModem(t, transport, time.Second)

			_, err := m.ConnectMQTT(ctx, "broker", port)
			if !errors.Is(err, modem.ErrInvalidPort) || !errors.Is(err, modem.ErrInvalidArgument) {
				t.Errorf("port %d: expected ErrInvalidPort, got: %v", port, err)
			}
			if len(transport.Written()) != 0 {
				t.Errorf("port %d: nothing should be written, got %q", port, transport.Written())
			}
		}
	})

	t.Run("PublishMQTT escapes double quotes", func(t *testing.T) {
		const command = `AT+MQTTPUB=0,"home/sensors/forgot/oven/1","say \"hi\"",0,0`
		transport := modem.NewTestTransport().Respond(command, "OK\r\n")
		m := newTestModem(t, transport, time.Second)

		result, err := m.PublishMQTT(ctx, "home/sensors/forgot/oven/1", `say "hi"`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Ok() {
			t.Errorf("escaping must not affect classification, got %+v", result)
		}
		if written := transport.Written(); !slices.Equal(written, []string{command}) {
			t.Errorf("unexpected commands %q", written)
		}
	})
}

func TestParametersAreSentVerbatim(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		command string
		run     func(*modem.Modem) (modem.Result, error)
	}{
		{
			name:    "JoinWiFi",
			command: `AT+CWJAP="my"net","p"w"`,
			run:     func(m *modem.Modem) (modem.Result, error) { return m.JoinWiFi(ctx, `my"net`, `p"w`) },
		},
		{
			name:    "SetMQTTUserConfig",
			command: `AT+MQTTUSERCFG=0,1,"id"1","","",0,0,""`,
			run:     func(m *modem.Modem) (modem.Result, error) { return m.SetMQTTUserConfig(ctx, `id"1`) },
		},
		{
			name:    "ConnectMQTT",
			command: `AT+MQTTCONN=0,"bro"ker",1883,0`,
			run:     func(m *modem.Modem) (modem.Result, error) { return m.ConnectMQTT(ctx, `bro"ker`, 1883) },
		},
		{
			name:    "PublishMQTT escapes the message only",
			command: `AT+MQTTPUB=0,"a"b","\"c\"",0,0`,
			run:     func(m *modem.Modem) (modem.Result, error) { return m.PublishMQTT(ctx, `a"b`, `"c"`) },
		},
		{
			name:    "OpenTCP",
			command: `AT+CIPSTART="TCP","10.0.0."2",80`,
			run:     func(m *modem.Modem) (modem.Result, error) { return m.OpenTCP(ctx, `10.0.0."2`, 80) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := modem.NewTestTransport().Respond(tt.command, "OK\r\n")
			m := newTestModem(t, transport, time.Second)

			if _, err := tt.run(m); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if written := transport.Written(); !slices.Equal(written, []string{tt.command}) {
				t.Errorf("expected %q, got %q", tt.command, written)
			}
		})
	}
}

func TestNetworkCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("SetTimeServers", func(t *testing.T) {
		tests := []struct {
			name    string
			servers []string
			command string
		}{
			{"no servers", nil, "AT+CIPSNTPCFG=1,2"},
			{"two servers", []string{"pool.ntp.org", "time.google.com"}, `AT+CIPSNTPCFG=1,2,"pool.ntp.org","time.google.com"`},
			{"three servers", []string{"a", "b", "c"}, `AT+CIPSNTPCFG=1,2,"a","b","c"`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				transport := modem.NewTestTransport().Respond(tt.command, "OK\r\n")
				m := newTestModem(t, transport, time.Second)

				result, err := m.SetTimeServers(ctx, 2, tt.servers)
				if err != nil || !result.Ok() {
					t.Fatalf("unexpected outcome: %+v, %v", result, err)
				}
			})
		}
	})

	t.Run("SetTimeServers rejects more than three servers", func(t *testing.T) {
		transport := modem.NewTestTransport()
		m := newTestModem(t, transport, time.Second)

		_, err := m.SetTimeServers(ctx, 1, []string{"a", "b", "c", "d"})
		if !errors.Is(err, modem.ErrTooManySNTPServers) {
			t.Errorf("expected ErrTooManySNTPServers, got: %v", err)
		}
		if len(transport.Written()) != 0 {
			t.Errorf("nothing should be written, got %q", transport.Written())
		}
	})

	t.Run("TCP round trip", func(t *testing.T) {
		transport := modem.NewTestTransport().
			Respond(`AT+CIPSTART="TCP","10.0.0.2",8080`, "CONNECT\r\n\r\nOK\r\n").
			Respond("AT+CIPSEND=5", "OK\r\n\r\n> ").
			Respond("hello", "Recv 5 bytes\r\n\r\nSEND OK\r\n").
			Respond("AT+CIPCLOSE", "CLOSED\r\n\r\nOK\r\n")
		m := newTestModem(t, transport, time.Second)

		if result, err := m.OpenTCP(ctx, "10.0.0.2", 8080); err != nil || !result.Ok() {
			t.Fatalf("OpenTCP: %+v, %v", result, err)
		}
		if result, err := m.SendData(ctx, "hello"); err != nil || !result.Ok() {
			t.Fatalf("SendData: %+v, %v", result, err)
		}
		if result, err := m.CloseTCP(ctx); err != nil || !result.Ok() {
			t.Fatalf("CloseTCP: %+v, %v", result, err)
		}

		want := []string{`AT+CIPSTART="TCP","10.0.0.2",8080`, "AT+CIPSEND=5", "hello", "AT+CIPCLOSE"}
		if written := transport.Written(); !slices.Equal(written, want) {
			t.Errorf("expected %q, got %q", want, written)
		}
	})

	t.Run("SendData stops when the length is refused", func(t *testing.T) {
		transport := modem.NewTestTransport().Respond("AT+CIPSEND=5", "link is not valid\r\n\r\nERROR\r\n")
		m := newTestModem(t, transport, time.Second)

		result, err := m.SendData(ctx, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != modem.StatusError {
			t.Errorf("expected error, got %s", result.Status)
		}
		if written := transport.Written(); !slices.Equal(written, []string{"AT+CIPSEND=5"}) {
			t.Errorf("payload must not be sent, got %q", written)
		}
	})

	t.Run("OpenTCP rejects invalid ports", func(t *testing.T) {
		m := newTestModem(t, modem.NewTestTransport(), time.Second)

		if _, err := m.OpenTCP(ctx, "10.0.0.2", 0); !errors.Is(err, modem.ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got: %v", err)
		}
	})
}

func TestStationSetupSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransport := modem.NewMockTransport(ctrl)
	gomock.InOrder(NewMockSequence(mockTransport).
		SoftAPMode().
		SetStationMode().
		StationMode().
		Joined("home").
		Close(nil).
		Build()...)

	config, err := modem.NewConfigBuilder().
		WithDialer(modem.TestDialer{Transport: mockTransport}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}
	m, err := modem.New(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if station, err := m.IsStationMode(ctx); err != nil || station {
		t.Errorf("expected soft AP mode first, got %v, %v", station, err)
	}
	if result, err := m.SetStationMode(ctx); err != nil || !result.Ok() {
		t.Errorf("SetStationMode: %+v, %v", result, err)
	}
	if station, err := m.IsStationMode(ctx); err != nil || !station {
		t.Errorf("expected station mode, got %v, %v", station, err)
	}
	if joined, err := m.IsWiFiJoined(ctx); err != nil || !joined {
		t.Errorf("expected joined, got %v, %v", joined, err)
	}

	if err := m.Close(); err != nil {
		t.Errorf("unexpected error from Close(): %v", err)
	}
}
