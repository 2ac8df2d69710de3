package uplink

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatracker.io/buttons"
	"pharmatracker.io/lcd"
)

// scriptedModem is a fake io.ReadWriteCloser standing in for the
// ESP8266's serial port: each Write is matched (after trimming the CRLF
// ATTransport appends) against a canned response, which is queued for
// the next Read the way a real modem would answer synchronously.
type scriptedModem struct {
	responses map[string]string
	buf       bytes.Buffer
	writes    []string
	failWrite bool
}

func newScriptedModem(responses map[string]string) *scriptedModem {
	return &scriptedModem{responses: responses}
}

func (m *scriptedModem) Write(p []byte) (int, error) {
	if m.failWrite {
		return 0, fmt.Errorf("scriptedModem: write failed")
	}
	cmd := strings.TrimRight(string(p), "\r\n")
	m.writes = append(m.writes, cmd)
	if resp, ok := m.responses[cmd]; ok {
		m.buf.WriteString(resp)
	}
	return len(p), nil
}

func (m *scriptedModem) Read(p []byte) (int, error) {
	return m.buf.Read(p)
}

func (m *scriptedModem) Close() error { return nil }

func bootReadyModem(cipstatus string) *scriptedModem {
	return newScriptedModem(map[string]string{
		"AT+RST":       "ready\r\n",
		"ATE0":         "OK\r\n",
		"AT+CIPSTATUS": cipstatus,
	})
}

func TestPollStatusParsesConnected(t *testing.T) {
	m := newScriptedModem(map[string]string{"AT+CIPSTATUS": "STATUS:2\r\n"})
	at := OpenAT(m)

	got := at.PollStatus()

	assert.Equal(t, Connected, got)
	assert.Equal(t, Connected, at.Status(), "PollStatus must cache the parsed result via SetStatus")
	require.Contains(t, m.writes, "AT+CIPSTATUS")
}

func TestPollStatusParsesDisconnected(t *testing.T) {
	m := newScriptedModem(map[string]string{"AT+CIPSTATUS": "STATUS:5\r\n"})
	at := OpenAT(m)

	got := at.PollStatus()

	assert.Equal(t, Disconnected, got)
	assert.Equal(t, Disconnected, at.Status())
}

// No STATUS:2/STATUS:5 line within cipStatusMaxLines responses (an "OK"
// with no STATUS line, e.g. a module that doesn't understand the
// command) must report Unknown rather than hang or misreport Connected.
func TestPollStatusUnknownWhenNoStatusLineFound(t *testing.T) {
	m := newScriptedModem(map[string]string{
		"AT+CIPSTATUS": strings.Repeat("OK\r\n", cipStatusMaxLines),
	})
	at := OpenAT(m)
	at.SetStatus(Connected) // prove it gets overwritten by a parsed (if ambiguous) result

	got := at.PollStatus()

	assert.Equal(t, Unknown, got)
	assert.Equal(t, Unknown, at.Status())
}

// A write failure must not touch the cached status: SetStatus is only
// called once a response was actually parsed.
func TestPollStatusLeavesCacheUntouchedOnWriteError(t *testing.T) {
	m := newScriptedModem(nil)
	at := OpenAT(m)
	at.SetStatus(Connected)
	m.failWrite = true

	got := at.PollStatus()

	assert.Equal(t, Unknown, got, "the returned value reflects the failed poll")
	assert.Equal(t, Connected, at.Status(), "the cache must not be clobbered by a failed poll")
}

func TestBootstrapReturnsConnectedOnceCIPStatusReportsConnected(t *testing.T) {
	m := bootReadyModem("STATUS:2\r\n")
	at := OpenAT(m)
	disp := lcd.NewSim()
	keys := buttons.NewQueue(nil)

	result := Bootstrap(at, keys, disp, time.Millisecond)

	assert.Equal(t, BootstrapConnected, result)
	assert.Contains(t, m.writes, "AT+CIPSTATUS")
}

func TestBootstrapCancelledByLeftWhileDisconnected(t *testing.T) {
	m := bootReadyModem("STATUS:5\r\n")
	at := OpenAT(m)
	disp := lcd.NewSim()
	keys := buttons.NewQueue([]buttons.Event{buttons.None, buttons.None, buttons.Left})

	result := Bootstrap(at, keys, disp, time.Millisecond)

	assert.Equal(t, BootstrapCancelled, result)
}
