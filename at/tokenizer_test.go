package at_test

import (
	"bufio"
	"strings"
	"testing"

	"i4.energy/across/sensorfleet/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple AT command response",
			input:    "AT+CWMODE?\r\n+CWMODE:1\r\n\r\nOK\r\n",
			expected: []string{"AT+CWMODE?", "+CWMODE:1", "", "OK"},
		},
		{
			name:     "AT command with error",
			input:    "AT+MQTTCONN=0,\"10.0.0.2\",1883,0\r\nERROR\r\n",
			expected: []string{"AT+MQTTCONN=0,\"10.0.0.2\",1883,0", "ERROR"},
		},
		{
			name:     "WiFi join failure",
			input:    "AT+CWJAP=\"Home\",\"secret\"\r\n+CWJAP:1\r\n\r\nFAIL\r\n",
			expected: []string{"AT+CWJAP=\"Home\",\"secret\"", "+CWJAP:1", "", "FAIL"},
		},
		{
			name:     "Data send sequence",
			input:    "AT+CIPSEND=5\r\n\r\nOK\r\n> hello\r\nRecv 5 bytes\r\n\r\nSEND OK\r\n",
			expected: []string{"AT+CIPSEND=5", "", "OK", "> ", "hello", "Recv 5 bytes", "", "SEND OK"},
		},
		{
			name:     "Reset output",
			input:    "AT+RST\r\nOK\r\nready\r\nWIFI CONNECTED\r\nWIFI GOT IP\r\n",
			expected: []string{"AT+RST", "OK", "ready", "WIFI CONNECTED", "WIFI GOT IP"},
		},
		{
			name:     "Bare LF line endings",
			input:    "+CWJAP:\"Home\",\"aa:bb:cc:dd:ee:ff\",6,-52\nOK\n",
			expected: []string{"+CWJAP:\"Home\",\"aa:bb:cc:dd:ee:ff\",6,-52", "OK"},
		},
		{
			name:     "Prompt only",
			input:    "> ",
			expected: []string{"> "},
		},
		{
			name:     "Empty lines handling",
			input:    "\r\n\r\nAT\r\nOK\r\n\r\n",
			expected: []string{"", "", "AT", "OK", ""},
		},
		// EOF scenarios - testing atEOF functionality
		{
			name:     "Incomplete response at EOF",
			input:    "AT+CWMODE?\r\n+CWMODE:1",
			expected: []string{"AT+CWMODE?", "+CWMODE:1"},
		},
		{
			name:     "Command without CRLF at EOF",
			input:    "AT+CWQAP",
			expected: []string{"AT+CWQAP"},
		},
		{
			name:     "Partial prompt at EOF",
			input:    "AT+CIPSEND=4\r\n>",
			expected: []string{"AT+CIPSEND=4", ">"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %v\nGot: %v",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "AT", expected: "AT"},
		{input: "AT+RST", expected: "AT+RST"},
		{input: "AT+CWMODE?", expected: "AT+CWMODE"},
		{input: "AT+CWMODE=1", expected: "AT+CWMODE"},
		{input: `AT+CWJAP="Home","secret"`, expected: "AT+CWJAP"},
		{input: `AT+MQTTPUB=0,"a/b","x=y",0,0`, expected: "AT+MQTTPUB"},
		{input: "hello world", expected: "DATA"},
		{input: "", expected: "DATA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := at.Name(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func BenchmarkSplitter(b *testing.B) {
	data := "AT+CWJAP?\r\n+CWJAP:\"Home\",\"aa:bb:cc:dd:ee:ff\",6,-52\r\n\r\nOK\r\n"
	input := strings.Repeat(data, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scanner := bufio.NewScanner(strings.NewReader(input))
		scanner.Split(at.Splitter)

		for scanner.Scan() {
			_ = scanner.Text()
		}
	}
}
