//go:build linux && arm

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tarm/serial"
	"golang.org/x/sys/unix"

	"pharmatracker.io/buttons"
	"pharmatracker.io/buzzer"
	"pharmatracker.io/config"
	"pharmatracker.io/lcd"
	"pharmatracker.io/scanbuf"
	"pharmatracker.io/uplink"
)

// Init opens the reference board's real collaborators: the HD44780 LCD
// and five-key pad over GPIO, the buzzer over a GPIO-toggled tone, and
// the two UARTs (RFID decoder board, Wi-Fi module) over
// github.com/tarm/serial, adapted from the teacher's own
// platform_rpi.go wiring of GPIO and serial-like devices.
func Init(cfg config.Config) (*Platform, error) {
	disp, err := lcd.Open(lcd.DefaultPins)
	if err != nil {
		return nil, fmt.Errorf("platform: lcd: %w", err)
	}
	pad, err := buttons.Open(buttons.DefaultPins)
	if err != nil {
		disp.Clear()
		return nil, fmt.Errorf("platform: buttons: %w", err)
	}
	buzz, err := buzzer.Open(buzzer.Pin)
	if err != nil {
		pad.Close()
		return nil, fmt.Errorf("platform: buzzer: %w", err)
	}

	rfid, err := openUART(cfg.UARTRFID)
	if err != nil {
		buzz.Disable()
		pad.Close()
		return nil, fmt.Errorf("platform: rfid uart: %w", err)
	}
	wifi, err := openUART(cfg.UARTWifi)
	if err != nil {
		rfid.Close()
		buzz.Disable()
		pad.Close()
		return nil, fmt.Errorf("platform: wifi uart: %w", err)
	}

	at := uplink.OpenAT(wifi)
	p := &Platform{
		Display:    disp,
		Buttons:    pad,
		Buzzer:     buzz,
		ScanBuf:    scanbuf.New(),
		RFIDReader: rfid,
		Uplink:     at,
		Transport:  at,
		close: func() {
			pad.Close()
			buzz.Disable()
			rfid.Close()
			wifi.Close()
		},
	}
	return p, nil
}

// openUART opens dev at the fixed baud the reference board's two serial
// links run at, first waiting for the device node to appear via
// inotify, the same pattern cmd/controller's own platform_rpi.go uses
// to wait for hotplugged device files before opening them.
func openUART(dev string) (*serial.Port, error) {
	if err := waitForDevice(dev, 5*time.Second); err != nil {
		return nil, err
	}
	return serial.OpenPort(&serial.Config{Name: dev, Baud: 9600})
}

func waitForDevice(dev string, timeout time.Duration) error {
	if _, err := os.Stat(dev); err == nil {
		return nil
	}
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("inotify init: %w", err)
	}
	defer unix.Close(fd)
	dir := filepath.Dir(dev)
	if _, err := unix.InotifyAddWatch(fd, dir, unix.IN_CREATE); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(dev); err == nil {
			return nil
		}
		unix.SetNonblock(fd, true)
		buf := make([]byte, unix.SizeofInotifyEvent+unix.PathMax+1)
		unix.Read(fd, buf)
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("device %s did not appear within %s", dev, timeout)
}
