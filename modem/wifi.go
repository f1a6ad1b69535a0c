package modem

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"i4.energy/across/sensorfleet/at"
)

var (
	// joinedAP matches the query answer of a station that is associated
	// with a named access point.
	joinedAP = regexp.MustCompile(`\+CWJAP:"[^"]+"`)

	// joinFailure matches the failure lines AT+CWJAP prints instead of
	// ERROR, such as "+CWJAP:1" followed by "FAIL".
	joinFailure = regexp.MustCompile(`^(?:FAIL|\+CWJAP:\d+)`)
)

// ResetAndWaitForWiFi restarts the module and waits until it reports
// having obtained an IP address from the access point it remembers.
func (m *Modem) ResetAndWaitForWiFi(ctx context.Context) (Result, error) {
	return m.Run(ctx, at.CmdReset, Expect{Success: at.WifiGotIP})
}

// IsStationMode reports whether the module runs in station mode. A failed
// query counts as false.
func (m *Modem) IsStationMode(ctx context.Context) (bool, error) {
	result, err := m.Run(ctx, at.CmdQueryWifiMode, Expect{})
	if err != nil {
		return false, err
	}
	return result.Ok() && strings.Contains(result.Data, at.StationMode), nil
}

// SetStationMode switches the module into station mode.
func (m *Modem) SetStationMode(ctx context.Context) (Result, error) {
	return m.Run(ctx, at.CmdSetStationMode, Expect{})
}

// IsWiFiJoined reports whether the module is associated with an access
// point. A failed query counts as false.
func (m *Modem) IsWiFiJoined(ctx context.Context) (bool, error) {
	result, err := m.Run(ctx, at.CmdQueryJoinedAP, Expect{})
	if err != nil {
		return false, err
	}
	return result.Ok() && joinedAP.MatchString(result.Data), nil
}

// JoinWiFi associates the module with the given access point.
func (m *Modem) JoinWiFi(ctx context.Context, ssid, password string) (Result, error) {
	command := fmt.Sprintf(`%s=%s,%s`, at.CmdJoinAP, quote(ssid), quote(password))
	return m.Run(ctx, command, Expect{ErrorPattern: joinFailure})
}

// LeaveWiFi disconnects from the current access point.
func (m *Modem) LeaveWiFi(ctx context.Context) (Result, error) {
	return m.Run(ctx, at.CmdQuitAP, Expect{})
}

// quote renders s as a double-quoted AT string parameter. s is sent as
// is; only published MQTT messages get their quotes escaped.
func quote(s string) string {
	return `"` + s + `"`
}
