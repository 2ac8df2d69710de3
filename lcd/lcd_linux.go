//go:build linux

// Hardware backend for the HD44780 character LCD, driven over a 4-bit
// parallel bus through periph.io GPIO pins, the same library the teacher
// uses for its own GPIO-facing drivers (input.Open, antenna.
// OpenComparator).
package lcd

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/bcm283x"
)

// Pins is the reference board's wiring of the HD44780 control and data
// lines: register-select, enable, and the four high data bits (the
// controller is driven in 4-bit mode, so D0-D3 are left unconnected).
type Pins struct {
	RS, EN     gpio.PinIO
	D4, D5, D6, D7 gpio.PinIO
}

// DefaultPins is the reference appliance's GPIO wiring.
var DefaultPins = Pins{
	RS: bcm283x.GPIO22,
	EN: bcm283x.GPIO23,
	D4: bcm283x.GPIO24,
	D5: bcm283x.GPIO25,
	D6: bcm283x.GPIO8,
	D7: bcm283x.GPIO7,
}

const (
	cmdClear       = 0x01
	cmdHome        = 0x02
	cmdEntryMode   = 0x06 // increment, no shift
	cmdFunctionSet = 0x28 // 4-bit, 2 line, 5x8 font
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdDisplayCur  = 0x0E // display on, cursor on
	cmdCursorLeft  = 0x10
	cmdCursorRight = 0x14
	lineAddr0      = 0x80
	lineAddr1      = 0xC0
)

// HD44780 drives a real display over the pins in Pins.
type HD44780 struct {
	pins    Pins
	line    int
	col     int
	visible bool
}

// Open configures pins as outputs and initializes the controller into
// 4-bit, 2-line mode, matching the HD44780 power-on init sequence.
func Open(pins Pins) (*HD44780, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	for _, p := range []gpio.PinIO{pins.RS, pins.EN, pins.D4, pins.D5, pins.D6, pins.D7} {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("lcd: configure pin %s: %w", p, err)
		}
	}
	d := &HD44780{pins: pins}
	time.Sleep(40 * time.Millisecond) // power-on settle
	d.write4(0x03, false)
	time.Sleep(5 * time.Millisecond)
	d.write4(0x03, false)
	time.Sleep(200 * time.Microsecond)
	d.write4(0x03, false)
	d.write4(0x02, false) // enter 4-bit mode
	if err := d.command(cmdFunctionSet); err != nil {
		return nil, err
	}
	if err := d.command(cmdDisplayOn); err != nil {
		return nil, err
	}
	if err := d.command(cmdEntryMode); err != nil {
		return nil, err
	}
	return d, d.Clear()
}

func (d *HD44780) pulseEnable() {
	d.pins.EN.Out(gpio.High)
	time.Sleep(1 * time.Microsecond)
	d.pins.EN.Out(gpio.Low)
	time.Sleep(50 * time.Microsecond)
}

func (d *HD44780) write4(nibble byte, rs bool) {
	level := gpio.Low
	if rs {
		level = gpio.High
	}
	d.pins.RS.Out(level)
	for i, p := range []gpio.PinIO{d.pins.D4, d.pins.D5, d.pins.D6, d.pins.D7} {
		bit := gpio.Low
		if nibble&(1<<uint(i)) != 0 {
			bit = gpio.High
		}
		p.Out(bit)
	}
	d.pulseEnable()
}

func (d *HD44780) send(b byte, rs bool) {
	d.write4(b>>4, rs)
	d.write4(b&0x0F, rs)
}

func (d *HD44780) command(b byte) error {
	d.send(b, false)
	if b == cmdClear || b == cmdHome {
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

func (d *HD44780) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return err
	}
	d.line, d.col = 0, 0
	return nil
}

func (d *HD44780) Home() error {
	if err := d.command(cmdHome); err != nil {
		return err
	}
	d.line, d.col = 0, 0
	return nil
}

func (d *HD44780) SetCursor(line, col int) error {
	if line < 0 || line >= Lines || col < 0 || col >= Columns {
		return ErrOutOfRange
	}
	base := lineAddr0
	if line == 1 {
		base = lineAddr1
	}
	if err := d.command(byte(base + col)); err != nil {
		return err
	}
	d.line, d.col = line, col
	return nil
}

func (d *HD44780) WriteChar(c byte) error {
	d.send(c, true)
	d.col++
	return nil
}

func (d *HD44780) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.WriteChar(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *HD44780) SetCursorVisible(visible bool) error {
	d.visible = visible
	cmd := byte(cmdDisplayOn)
	if visible {
		cmd = cmdDisplayCur
	}
	return d.command(cmd)
}

func (d *HD44780) MoveCursorLeft() error {
	if err := d.command(cmdCursorLeft); err != nil {
		return err
	}
	if d.col > 0 {
		d.col--
	}
	return nil
}

func (d *HD44780) MoveCursorRight() error {
	if err := d.command(cmdCursorRight); err != nil {
		return err
	}
	if d.col < Columns-1 {
		d.col++
	}
	return nil
}
