// command decoderboard is the EM4100 reader board's firmware (spec §1's
// subsystem 1, the Manchester/EM4100 Frame Decoder): it samples the
// antenna comparator, decodes a tag frame, and writes the 12-byte framed
// id (spec §6's "tag frame over inter-board UART") to the serial link the
// main tracker board's cmd/pharmatracker reads via its RFIDReader.
// Process shape follows cmd/pharmatracker's own main.go, itself grounded
// on the teacher's cmd/controller/main.go.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"pharmatracker.io/antenna"
	"pharmatracker.io/em4100"
	"pharmatracker.io/scanbuf"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "decoderboard: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	uart := pflag.String("uart", "", "override the serial device the decoded frame is written to")
	pflag.Parse()

	p, err := Init(*uart)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer p.Close()

	log.Println("decoderboard: listening for tag frames")
	for {
		id, err := em4100.DecodeSamples(p.Source)
		if err != nil {
			log.Printf("decoderboard: decode: %v", err)
			continue
		}
		if _, err := p.Out.Write(frame(id)); err != nil {
			log.Printf("decoderboard: write: %v", err)
		}
	}
}

// frame wraps id in the fixed LF/CR envelope of spec §4.5 and §6, the
// shape scanbuf.Buffer's producer expects on the other end of the UART.
func frame(id string) []byte {
	b := make([]byte, scanbuf.FrameSize)
	b[0] = 0x0A
	copy(b[1:], id)
	b[scanbuf.FrameSize-1] = 0x0D
	return b
}

// Platform collects the decoder board's two collaborators: the sample
// source (real antenna comparator or a simulated repeating tag) and the
// UART the framed id is written to.
type Platform struct {
	Source antenna.Source
	Out    io.Writer

	close func()
}

func (p *Platform) Close() {
	if p.close != nil {
		p.close()
	}
}
