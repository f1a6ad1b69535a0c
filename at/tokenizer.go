package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing AT command modem responses. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// It splits the input on LF, dropping a trailing CR so CRLF and bare LF
// framed lines yield the same token, and also recognizes the data input
// prompt ("> ") printed by AT+CIPSEND, which is not line terminated.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match data prompt
	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[0:len(Prompt)], nil
	}

	// 2. Match line ending (CRLF or LF)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[0:i], []byte("\r")), nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Name reduces a command line to its command name, dropping arguments
// and query suffixes: `AT+CWJAP="ssid","pw"` becomes "AT+CWJAP". Lines
// that are not AT commands, such as raw AT+CIPSEND payloads, are named
// "DATA".
func Name(command string) string {
	if !strings.HasPrefix(strings.ToUpper(command), "AT") {
		return "DATA"
	}
	if i := strings.IndexAny(command, "=?"); i >= 0 {
		return command[:i]
	}
	return command
}
