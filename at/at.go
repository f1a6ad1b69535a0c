// Package at holds the ESP-AT vocabulary spoken by the WiFi modem: line
// terminators, final result tokens and command names.
package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	LF     = "\n"
	Prompt = "> "

	// Response Codes
	OK        = "OK"
	ERROR     = "ERROR"
	Fail      = "FAIL"
	SendOK    = "SEND OK"
	WifiGotIP = "WIFI GOT IP"

	// Query response prefixes
	StationMode = "+CWMODE:1"
	JoinedAP    = "+CWJAP:"
)

// Commands
const (
	CmdReset          = "AT+RST"
	CmdQueryWifiMode  = "AT+CWMODE?"
	CmdSetStationMode = "AT+CWMODE=1"
	CmdQueryJoinedAP  = "AT+CWJAP?"
	CmdJoinAP         = "AT+CWJAP"
	CmdQuitAP         = "AT+CWQAP"
	CmdSNTPConfig     = "AT+CIPSNTPCFG"
	CmdMQTTUserConfig = "AT+MQTTUSERCFG"
	CmdMQTTConnect    = "AT+MQTTCONN"
	CmdMQTTPublish    = "AT+MQTTPUB"
	CmdTCPStart       = "AT+CIPSTART"
	CmdTCPClose       = "AT+CIPCLOSE"
	CmdTCPSend        = "AT+CIPSEND"
)

const (
	// MaxCommandLength is the longest command line the firmware accepts.
	MaxCommandLength = 256
	// MaxPayloadLength is the largest raw payload accepted after AT+CIPSEND.
	MaxPayloadLength = 8192
)
