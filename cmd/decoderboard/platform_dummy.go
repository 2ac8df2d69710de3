//go:build !(linux && arm)

package main

import (
	"fmt"
	"log"

	"pharmatracker.io/em4100"
	"pharmatracker.io/manchester"
)

// demoTag is decoded repeatedly off-board, standing in for a tag sitting
// continuously in range of the antenna; it matches config.Defaults'
// first registered slot so a dummy-built decoderboard paired with a
// dummy-built cmd/pharmatracker (wired to the same RFID UART) exercises
// a real checkout end to end.
const demoTag = "3100037D93"

// loopSource cycles over a fixed sample slice forever, simulating an
// antenna that keeps re-presenting the same EM4100 frame.
type loopSource struct {
	samples []int
	pos     int
}

func (s *loopSource) NextSample() (int, error) {
	if len(s.samples) == 0 {
		return 0, fmt.Errorf("decoderboard: empty demo sample stream")
	}
	bit := s.samples[s.pos]
	s.pos = (s.pos + 1) % len(s.samples)
	return bit, nil
}

// logWriter logs every frame written to it instead of a real UART, for
// running decoderboard off the reference board.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Printf("decoderboard: decoded frame %q", p)
	return len(p), nil
}

// Init assembles a Platform with no real hardware: a looping demo tag
// sample stream and a logging stand-in for the UART, the same role
// cmd/pharmatracker/platform_dummy.go's fakeTransport plays.
func Init(uartOverride string) (*Platform, error) {
	samples, err := em4100.Encode(demoTag, manchester.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("platform: encode demo tag: %w", err)
	}
	return &Platform{
		Source: &loopSource{samples: samples},
		Out:    logWriter{},
	}, nil
}
