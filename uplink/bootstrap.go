package uplink

import (
	"time"

	"pharmatracker.io/buttons"
	"pharmatracker.io/lcd"
)

// BootstrapResult reports how Bootstrap ended.
type BootstrapResult int

const (
	// BootstrapConnected means the module reported CONNECTED and the
	// caller should proceed to emit the 'b' startup event.
	BootstrapConnected BootstrapResult = iota
	// BootstrapCancelled means the user pressed LEFT during the
	// "Connecting..." screen.
	BootstrapCancelled
)

// StatusPoller is satisfied by ATTransport; separated so tests can fake
// AT+CIPSTATUS polling without a real serial port. PollStatus, unlike
// Transport.Status, actually sends AT+CIPSTATUS and parses the response.
type StatusPoller interface {
	PollStatus() Status
}

// Bootstrap reproduces GccApplication1_644.c's UART_ESP8266_init /
// AT+CIPSTATUS sequence (SPEC_FULL.md, SUPPLEMENTED FEATURES): reset and
// retry until the module is ready, then poll connectivity with LCD
// progress until CONNECTED or the user cancels with LEFT. It blocks.
func Bootstrap(t interface {
	Transport
	StatusPoller
}, keys buttons.Source, disp lcd.Display, poll time.Duration) BootstrapResult {
	disp.Clear()
	disp.SetCursor(0, 0)
	disp.WriteString("Connecting Wifi")
	for {
		if err := t.Reset(); err != nil {
			disp.SetCursor(1, 0)
			disp.WriteString("timeout/UART err")
			time.Sleep(poll)
			disp.SetCursor(1, 0)
			disp.WriteString("restarting...   ")
			continue
		}
		break
	}
	for {
		switch t.PollStatus() {
		case Connected:
			return BootstrapConnected
		default:
			disp.SetCursor(1, 0)
			disp.WriteString("Connected: NO   ")
		}
		if keys.Poll() == buttons.Left {
			return BootstrapCancelled
		}
		time.Sleep(poll)
	}
}
