package main

import (
	"io"

	"pharmatracker.io/buttons"
	"pharmatracker.io/buzzer"
	"pharmatracker.io/lcd"
	"pharmatracker.io/scanbuf"
	"pharmatracker.io/uplink"
)

// Platform collects the collaborators Init assembles, one set per build
// tag (platform_rpi.go for the real appliance, platform_dummy.go for
// development off the target board), matching how cmd/controller splits
// Platform across platform_rpi.go/platform_dummy.go/platform_sh2.go.
type Platform struct {
	Display    lcd.Display
	Buttons    buttons.Source
	Buzzer     buzzer.Driver
	ScanBuf    *scanbuf.Buffer
	RFIDReader io.Reader
	Uplink     uplink.Transport
	Transport  interface {
		uplink.Transport
		uplink.StatusPoller
	}

	close func()
}

// Close releases any hardware handles Init opened.
func (p *Platform) Close() {
	if p.close != nil {
		p.close()
	}
}
