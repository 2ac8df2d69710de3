// Package buzzer implements the piezo buzzer collaborator of spec §6: a
// ~1 kHz tone driven by toggling a GPIO pin on a hardware timer, adapted
// from the periodic-ticker pattern antenna.Comparator uses to drive its
// sample clock (here the ticker toggles an output pin instead of
// sampling an input).
package buzzer

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"
)

// Tone is the reference board's buzzer frequency.
const Tone = 1000 // Hz

// Driver is the Buzzer collaborator contract tracker.Controller drives.
type Driver interface {
	Enable()
	Disable()
}

// Pin is the reference board's wiring for the piezo driver transistor.
var Pin gpio.PinOut = bcm283x.GPIO12

// GPIO toggles Pin at twice Tone to approximate a square wave, started
// and stopped by Enable/Disable.
type GPIO struct {
	pin    gpio.PinOut
	ticker *time.Ticker
	stop   chan struct{}
	high   bool
}

// Open configures pin as an output, idle low.
func Open(pin gpio.PinOut) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("buzzer: %w", err)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("buzzer: configure pin: %w", err)
	}
	return &GPIO{pin: pin}, nil
}

// Enable starts the tone. Calling Enable while already enabled is a no-op.
func (g *GPIO) Enable() {
	if g.ticker != nil {
		return
	}
	g.ticker = time.NewTicker(time.Second / time.Duration(2*Tone))
	g.stop = make(chan struct{})
	stop := g.stop
	ticker := g.ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				g.high = !g.high
				g.pin.Out(gpio.Level(g.high))
			case <-stop:
				return
			}
		}
	}()
}

// Disable stops the tone and drives the pin low.
func (g *GPIO) Disable() {
	if g.ticker == nil {
		return
	}
	close(g.stop)
	g.ticker.Stop()
	g.ticker = nil
	g.pin.Out(gpio.Low)
}

// Sim is a Driver used in tests: it records whether the buzzer is
// currently engaged without touching any hardware.
type Sim struct {
	Engaged bool
}

func (s *Sim) Enable()  { s.Engaged = true }
func (s *Sim) Disable() { s.Engaged = false }
