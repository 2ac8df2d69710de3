//go:build linux && arm

package main

import (
	"fmt"

	"github.com/tarm/serial"

	"pharmatracker.io/antenna"
)

// defaultUART is the reference board's decoder-to-tracker serial device,
// the other end of cmd/pharmatracker's UARTRFID.
const defaultUART = "/dev/ttyAMA0"

// Init opens the reference board's antenna comparator and the UART to
// the main tracker board, adapted from cmd/pharmatracker/platform_rpi.go's
// own GPIO/serial wiring.
func Init(uartOverride string) (*Platform, error) {
	dev := defaultUART
	if uartOverride != "" {
		dev = uartOverride
	}

	src, err := antenna.OpenComparator(antenna.AntennaPin, antenna.SamplePeriod())
	if err != nil {
		return nil, fmt.Errorf("platform: antenna: %w", err)
	}
	out, err := serial.OpenPort(&serial.Config{Name: dev, Baud: 9600})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("platform: uart: %w", err)
	}

	return &Platform{
		Source: src,
		Out:    out,
		close: func() {
			src.Close()
			out.Close()
		},
	}, nil
}
