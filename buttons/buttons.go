// Package buttons implements the Buttons collaborator of spec §6: a
// five-key pad (LEFT, RIGHT, UP, DOWN, OK) polled with its own debounce,
// adapted from the teacher's edge-triggered GPIO button reader in
// input.Open (same periph.io pin/WaitForEdge pattern, narrowed from the
// HAT's eight-button joystick to the wizard's five-key contract and
// switched from a fan-out event channel to the synchronous Poll() the
// Screen Navigator expects).
package buttons

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"
)

// Event is a single debounced button reading.
type Event int

const (
	None Event = iota
	Left
	Right
	Up
	Down
	OK
	Invalid
)

func (e Event) String() string {
	switch e {
	case None:
		return "NONE"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case OK:
		return "OK"
	default:
		return "INVALID"
	}
}

// Debounce is the minimum spacing spec §5 requires between button
// events ("button events are serialized by a debounce of ~200 ms").
const Debounce = 200 * time.Millisecond

// Source is the Buttons collaborator contract: Poll returns the next
// debounced key, or None if nothing new has settled.
type Source interface {
	Poll() Event
}

// Pad polls five GPIO pins, one per key, debouncing edges with a
// per-pin goroutine that mirrors input.Open's WaitForEdge/timeout loop.
type Pad struct {
	events chan Event
	close  chan struct{}
}

// Pins is the reference board's wiring of the five wizard keys.
type Pins struct {
	Left, Right, Up, Down, OK gpio.PinIn
}

// DefaultPins is the reference appliance's GPIO wiring.
var DefaultPins = Pins{
	Left:  bcm283x.GPIO5,
	Right: bcm283x.GPIO26,
	Up:    bcm283x.GPIO6,
	Down:  bcm283x.GPIO19,
	OK:    bcm283x.GPIO13,
}

// Open configures pins as pulled-up, both-edge inputs and starts one
// debouncing goroutine per key.
func Open(pins Pins) (*Pad, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("buttons: %w", err)
	}
	p := &Pad{
		events: make(chan Event, 8),
		close:  make(chan struct{}),
	}
	keys := []struct {
		Event Event
		Pin   gpio.PinIn
	}{
		{Left, pins.Left},
		{Right, pins.Right},
		{Up, pins.Up},
		{Down, pins.Down},
		{OK, pins.OK},
	}
	for _, k := range keys {
		if err := k.Pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
			return nil, fmt.Errorf("buttons: configure pin %s: %w", k.Pin, err)
		}
		k := k
		go p.debounce(k.Event, k.Pin)
	}
	return p, nil
}

func (p *Pad) debounce(ev Event, pin gpio.PinIn) {
	pressed := false
	for {
		if !pin.WaitForEdge(-1) {
			return
		}
		select {
		case <-p.close:
			return
		default:
		}
		now := pin.Read() == gpio.Low
		if now == pressed {
			continue
		}
		pressed = now
		if !pressed {
			continue
		}
		select {
		case p.events <- ev:
		default:
		}
		time.Sleep(Debounce)
	}
}

// Poll returns the oldest queued key, or None if no key has debounced
// since the last call. Each pin is debounced separately, so presses of
// different keys that land close together are returned on consecutive
// calls with no None reading between them.
func (p *Pad) Poll() Event {
	select {
	case e := <-p.events:
		return e
	default:
		return None
	}
}

// Close stops the debouncing goroutines.
func (p *Pad) Close() {
	close(p.close)
}

// Queue is a Source backed by a fixed slice of events, used in tests.
type Queue struct {
	events []Event
	pos    int
}

// NewQueue returns a Source that yields events in order, then None forever.
func NewQueue(events []Event) *Queue {
	return &Queue{events: events}
}

func (q *Queue) Poll() Event {
	if q.pos >= len(q.events) {
		return None
	}
	e := q.events[q.pos]
	q.pos++
	return e
}

// ChanSource adapts a channel of Events to Source, for feeding key
// presses in from outside the polling loop -- the stdin command
// console of cmd/pharmatracker's -debug build.
type ChanSource struct {
	C chan Event
}

// NewChanSource returns a ChanSource ready to receive pushed events.
func NewChanSource() *ChanSource {
	return &ChanSource{C: make(chan Event, 8)}
}

func (c *ChanSource) Poll() Event {
	select {
	case e := <-c.C:
		return e
	default:
		return None
	}
}
