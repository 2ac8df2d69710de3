//go:build !(linux && arm)

package main

import (
	"io"

	"pharmatracker.io/buttons"
	"pharmatracker.io/buzzer"
	"pharmatracker.io/config"
	"pharmatracker.io/lcd"
	"pharmatracker.io/scanbuf"
	"pharmatracker.io/uplink"
)

// fakeTransport answers every uplink call successfully and reports
// CONNECTED, for running off the target board (development laptops,
// CI), the same role cmd/controller's debug Platform plays for the
// engraver and camera.
type fakeTransport struct{}

func (fakeTransport) SendLine(s []byte) error   { return nil }
func (fakeTransport) Reset() error              { return nil }
func (fakeTransport) Status() uplink.Status     { return uplink.Connected }
func (fakeTransport) PollStatus() uplink.Status { return uplink.Connected }

// Init assembles a Platform with no real hardware: an in-memory LCD, an
// empty button queue (a debug build swaps in the stdin console, debug.go), a
// no-op buzzer and uplink, and an empty RFID reader. It lets
// cmd/pharmatracker build and run its foreground loop on any OS/arch.
func Init(cfg config.Config) (*Platform, error) {
	t := fakeTransport{}
	rfid, _ := io.Pipe() // never written to: Read blocks forever, no scans on a dev box
	return &Platform{
		Display:    lcd.NewSim(),
		Buttons:    buttons.NewQueue(nil),
		Buzzer:     &buzzer.Sim{},
		ScanBuf:    scanbuf.New(),
		RFIDReader: rfid,
		Uplink:     t,
		Transport:  t,
	}, nil
}
