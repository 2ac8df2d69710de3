// Package antenna implements the sample source for the EM4100 decoder: a
// periodic tick driven by the 125 kHz antenna comparator, oversampled
// relative to the Manchester half-bit rate.
package antenna

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"
)

// DefaultOversample is the number of samples taken per Manchester half-bit
// on the reference board: the sample tick runs at 4x the half-bit rate
// (see decoder_firmware's TIM0_OVF_vect divide-by-4 counter).
const DefaultOversample = 4

// CarrierFrequency is the EM4100 carrier frequency assumed by the antenna
// comparator front-end.
const CarrierFrequency = 125 * physic.KiloHertz

// carrierHz is CarrierFrequency expressed as a plain frequency for the
// sample-period arithmetic below; physic.Frequency has no Period method,
// so SamplePeriod computes it directly rather than through the physic API.
const carrierHz = 125000

// SampleDivider is the reference board's timer-0 overflow divider
// (decoder_firmware.c's TIM0_OVF_vect divides the 125 kHz carrier by
// 256*3 to derive the sample tick): every SampleDivider-th carrier cycle
// produces one sample, a sample period of 6.144 ms.
const SampleDivider = 256 * 3

// SamplePeriod is the sample tick period implied by CarrierFrequency and
// SampleDivider, the value OpenComparator's caller ticks at on the
// reference board.
func SamplePeriod() time.Duration {
	return time.Duration(float64(time.Second) * SampleDivider / carrierHz)
}

// Source is the Sample Source contract of spec §4.1: a blocking source of
// binary samples, one per tick, never dropped while actively consumed.
type Source interface {
	// NextSample blocks until the next sample is available and returns it.
	NextSample() (bit int, err error)
}

// Comparator reads a 2-level antenna comparator through a GPIO pin, once
// per call to a periodic ticker. It mirrors the single-slot mailbox the
// decoder firmware's sample ISR uses (data_in/new_data), adapted from the
// edge-driven mailbox pattern in the buttons driver: here the producer
// is a time.Ticker instead of a GPIO edge.
type Comparator struct {
	pin    gpio.PinIn
	ticker *time.Ticker
	close  chan struct{}
	in     chan int
}

// OpenComparator configures pin as a digital input sampled once per period
// and returns a Source that yields one bit per tick.
func OpenComparator(pin gpio.PinIn, period time.Duration) (*Comparator, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("antenna: %w", err)
	}
	if err := pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("antenna: configure comparator pin: %w", err)
	}
	c := &Comparator{
		pin:    pin,
		ticker: time.NewTicker(period),
		close:  make(chan struct{}),
		in:     make(chan int, 1),
	}
	go c.sample()
	return c, nil
}

func (c *Comparator) sample() {
	for {
		select {
		case <-c.ticker.C:
			bit := 0
			if c.pin.Read() == gpio.High {
				bit = 1
			}
			// A sample the decoder has not yet consumed is never
			// overwritten: block until there is room, or until Close.
			select {
			case c.in <- bit:
			case <-c.close:
				return
			}
		case <-c.close:
			return
		}
	}
}

func (c *Comparator) NextSample() (int, error) {
	select {
	case bit := <-c.in:
		return bit, nil
	case <-c.close:
		return 0, fmt.Errorf("antenna: closed")
	}
}

func (c *Comparator) Close() {
	close(c.close)
	c.ticker.Stop()
}

// AntennaPin is the GPIO the reference board wires the comparator output
// to, mirroring the input package's board-specific pin table.
var AntennaPin gpio.PinIn = bcm283x.GPIO18

// Recorded is a Source backed by a fixed slice of samples, used in tests
// and in the decoder's own simulators. It never blocks.
type Recorded struct {
	bits []int
	pos  int
}

// NewRecorded returns a Source that yields bits in order, then an error
// once exhausted.
func NewRecorded(bits []int) *Recorded {
	return &Recorded{bits: bits}
}

func (r *Recorded) NextSample() (int, error) {
	if r.pos >= len(r.bits) {
		return 0, fmt.Errorf("antenna: recorded source exhausted")
	}
	bit := r.bits[r.pos]
	r.pos++
	return bit, nil
}
