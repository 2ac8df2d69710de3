// command pharmatracker is the two-board RFID asset-tracking appliance of
// SPEC_FULL.md: it decodes EM4100 tag scans from the sidecar decoder
// board, tracks per-tag checkout state, and reports transitions to a
// configured Wi-Fi endpoint. Its overall shape -- a Platform interface
// selected by build tag, a foreground loop driven at a fixed rate, a
// -debug build with a stdin command console -- follows cmd/controller,
// the teacher's own appliance entry point.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"pharmatracker.io/config"
	"pharmatracker.io/registry"
	"pharmatracker.io/tickaccount"
	"pharmatracker.io/tracker"
	"pharmatracker.io/ui"
	"pharmatracker.io/uplink"
)

// version is set via -ldflags, the same mechanism cmd/controller uses
// for its build version string.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pharmatracker: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	var (
		configFlag = pflag.String("config", "", "path to an additional config directory to search first")
		uartRFID   = pflag.String("uart-rfid", "", "override the inter-board RFID UART device path")
		uartWifi   = pflag.String("uart-wifi", "", "override the Wi-Fi module UART device path")
	)
	pflag.Parse()

	var cfg config.Config
	if *configFlag != "" {
		// An explicit -config directory takes precedence over the
		// default search path. config's viper search paths are global and
		// appended in call order, so Load must not run first.
		cfg = config.LoadFrom(*configFlag)
	} else {
		cfg = config.Load()
	}
	if *uartRFID != "" {
		cfg.UARTRFID = *uartRFID
	}
	if *uartWifi != "" {
		cfg.UARTWifi = *uartWifi
	}

	log.Printf("pharmatracker %s: starting", version)

	p, err := Init(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer p.Close()
	if Debug {
		log.Println("pharmatracker: debug console active on stdin")
		wrapDebug(p)
	}

	reg := registry.New(cfg.RegistryTags())
	up := uplink.New(p.Uplink, cfg.ServerAddr())
	ctrl := tracker.New(reg, up, p.Buzzer)
	acct := tickaccount.New(reg)
	nav := ui.New(reg, ctrl, acct, p.ScanBuf, p.Buttons, p.Display)

	nav.Splash(version)
	time.Sleep(2 * time.Second)

	if result := uplink.Bootstrap(p.Transport, p.Buttons, p.Display, time.Second); result == uplink.BootstrapConnected {
		ctrl.Bootstrap()
	}

	go feedScans(p.RFIDReader, p.ScanBuf)
	tick1Hz := time.NewTicker(time.Second)
	defer tick1Hz.Stop()
	frame := time.NewTicker(50 * time.Millisecond)
	defer frame.Stop()
	for {
		select {
		case <-tick1Hz.C:
			acct.Tick()
		case <-frame.C:
			nav.Step()
		}
	}
}

// feedScans copies bytes from r into buf.Feed one at a time, the
// foreground-independent half of the Scan Buffer producer (spec §4.5);
// on the real board this runs as the UART RX ISR, here as a goroutine
// reading the inter-board serial connection.
func feedScans(r interface{ Read([]byte) (int, error) }, buf interface{ Feed(byte) }) {
	var b [64]byte
	for {
		n, err := r.Read(b[:])
		if err != nil {
			log.Printf("pharmatracker: rfid uart read: %v", err)
			time.Sleep(time.Second)
			continue
		}
		for i := 0; i < n; i++ {
			buf.Feed(b[i])
		}
	}
}
