// Package uplink implements the Event Uplink of spec §4.9: it serializes
// every Tag Controller transition as a 30-byte ASCII GET line and hands
// it to the Wi-Fi AT-command collaborator of spec §6, over a
// bufio.Reader/Writer pair in the same style the teacher drives the
// MarkingWay engraver's serial protocol in driver/mjolnir.Engrave
// (buffered writes, a small expect-style response reader), adapted here
// from a binary command protocol to line-oriented AT commands.
package uplink

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"pharmatracker.io/tracker"
)

// Status is the Wi-Fi module's reported connectivity state.
type Status int

const (
	Unknown Status = iota
	Connected
	Disconnected
)

// Transport is the Wi-Fi uplink collaborator contract of spec §6.
type Transport interface {
	// SendLine writes s followed by CRLF.
	SendLine(s []byte) error
	// Reset blocks until the module has produced a "ready" line.
	Reset() error
	Status() Status
}

// RequestSize is the length of the serialized GET request line itself,
// spec §6: "the 30-byte GET request".
const RequestSize = 30

// CIPSendSize is the total byte count the module is told to expect via
// AT+CIPSEND, spec §4.9/§6: the 30-byte GET line plus the CRLF send_line
// appends (2 bytes) plus the empty line's own CRLF (2 bytes) = 34.
const CIPSendSize = 34

// ServerAddr is the configured IPv4:80 endpoint the module CIPSTARTs to.
type ServerAddr struct {
	Host string
	Port int
}

// Uplink publishes tracker.Event values over Transport as the fixed
// CIPSTART/CIPSEND/payload/empty-line sequence of spec §6. It implements
// tracker.Sink.
type Uplink struct {
	t    Transport
	addr ServerAddr
}

// New returns an Uplink that sends to addr over t.
func New(t Transport, addr ServerAddr) *Uplink {
	return &Uplink{t: t, addr: addr}
}

var _ tracker.Sink = (*Uplink)(nil)

// Line formats ev as the fixed 30-byte GET request of spec §4.9/§6.
func Line(ev tracker.Event) []byte {
	return []byte(fmt.Sprintf("GET /add/%s/%c HTTP/1.0", ev.ID, ev.Action))
}

// Publish sends one event. Failures are logged and dropped, never
// retried synchronously and never rolled back into tracker state, per
// spec §7's UplinkFailed policy; Publish preserves the order events are
// handed to it since it is a single blocking call per event and the
// Tag Controller calls it synchronously from the foreground.
func (u *Uplink) Publish(ev tracker.Event) {
	if err := u.send(ev); err != nil {
		log.Printf("uplink: event %c for %s dropped: %v", ev.Action, ev.ID, err)
	}
}

func (u *Uplink) send(ev tracker.Event) error {
	line := Line(ev)
	if len(line) != RequestSize {
		return fmt.Errorf("uplink: malformed line length %d", len(line))
	}
	if err := u.t.SendLine([]byte(fmt.Sprintf("AT+CIPSTART=\"TCP\",\"%s\",%d", u.addr.Host, u.addr.Port))); err != nil {
		return fmt.Errorf("CIPSTART: %w", err)
	}
	if err := u.t.SendLine([]byte(fmt.Sprintf("AT+CIPSEND=%d", CIPSendSize))); err != nil {
		return fmt.Errorf("CIPSEND: %w", err)
	}
	if err := u.t.SendLine(line); err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	if err := u.t.SendLine(nil); err != nil {
		return fmt.Errorf("terminator: %w", err)
	}
	return nil
}

// ATTransport drives a real ESP8266-style AT-command Wi-Fi module over a
// serial port (github.com/tarm/serial on the real device, any
// io.ReadWriteCloser in tests), mirroring GccApplication1_644.c's
// UART_ESP8266_init / AT+CIPSTATUS polling loop.
type ATTransport struct {
	rw     io.ReadWriteCloser
	r      *bufio.Reader
	status Status
}

// OpenAT wraps rw, an already-opened serial connection to the Wi-Fi
// module.
func OpenAT(rw io.ReadWriteCloser) *ATTransport {
	return &ATTransport{rw: rw, r: bufio.NewReader(rw)}
}

func (a *ATTransport) SendLine(s []byte) error {
	if _, err := a.rw.Write(append(append([]byte{}, s...), '\r', '\n')); err != nil {
		return err
	}
	// Response bodies are discarded per spec §6; just drain one line so
	// the next command starts from a clean buffer.
	_, err := a.r.ReadString('\n')
	return err
}

// Reset reproduces the bootstrap sequence described in SPEC_FULL.md,
// §SUPPLEMENTED FEATURES: reset-and-retry-until-ready, local echo off.
func (a *ATTransport) Reset() error {
	for {
		if _, err := a.rw.Write([]byte("AT+RST\r\n")); err != nil {
			return err
		}
		if line, err := a.r.ReadString('\n'); err == nil {
			if containsReady(line) {
				break
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return a.SendLine([]byte("ATE0"))
}

func containsReady(line string) bool {
	for i := 0; i+5 <= len(line); i++ {
		if line[i:i+5] == "ready" {
			return true
		}
	}
	return false
}

// Status returns the last polled connectivity state, without touching the
// wire. Bootstrap (see bootstrap.go) is responsible for keeping it current
// by calling PollStatus; steady-state callers only read the cached value.
func (a *ATTransport) Status() Status {
	return a.status
}

// SetStatus lets a poller update the cached status after parsing an
// AT+CIPSTATUS response.
func (a *ATTransport) SetStatus(s Status) {
	a.status = s
}

// cipStatusMaxLines bounds how many response lines PollStatus reads
// looking for a STATUS: line before giving up, so a module that echoes
// the command and an "OK" but no STATUS line (or stays silent) can't wedge
// the poll forever.
const cipStatusMaxLines = 8

// PollStatus implements isConnected's per-iteration AT+CIPSTATUS probe
// (GccApplication1_644.c): it sends AT+CIPSTATUS, scans the response for
// "STATUS:2" (connected) or "STATUS:5" (disconnected), caches the parsed
// result via SetStatus, and returns it. A response with neither token
// within cipStatusMaxLines lines caches and returns Unknown; a write/read
// error returns Unknown without touching the cache.
func (a *ATTransport) PollStatus() Status {
	s, err := a.queryCIPStatus()
	if err != nil {
		log.Printf("uplink: AT+CIPSTATUS: %v", err)
		return Unknown
	}
	a.SetStatus(s)
	return s
}

func (a *ATTransport) queryCIPStatus() (Status, error) {
	if _, err := a.rw.Write([]byte("AT+CIPSTATUS\r\n")); err != nil {
		return Unknown, err
	}
	for i := 0; i < cipStatusMaxLines; i++ {
		line, err := a.r.ReadString('\n')
		if err != nil {
			return Unknown, err
		}
		switch {
		case strings.Contains(line, "STATUS:2"):
			return Connected, nil
		case strings.Contains(line, "STATUS:5"):
			return Disconnected, nil
		}
	}
	return Unknown, nil
}
