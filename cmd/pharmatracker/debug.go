//go:build debug

package main

import (
	"bufio"
	"log"
	"os"
	"strings"

	"pharmatracker.io/buttons"
)

// Debug reports whether this binary was built with the stdin command
// console, the same compile-time Debug constant cmd/controller exposes
// from its own debug.go/production.go pair.
const Debug = true

// wrapDebug replaces p.Buttons with a buttons.ChanSource fed by a goroutine
// reading key names off stdin, so the wizard and navigator can be
// exercised without the reference board's GPIO pad. It mirrors
// cmd/controller's debugCommand console, narrowed to this appliance's
// five keys.
func wrapDebug(p *Platform) {
	src := buttons.NewChanSource()
	underlying := p.Buttons
	p.Buttons = src
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			debugCommand(src, strings.TrimSpace(scanner.Text()))
		}
	}()
	_ = underlying // the real Source, if any, goes unpolled in a debug build
}

func debugCommand(src *buttons.ChanSource, cmd string) {
	var ev buttons.Event
	switch cmd {
	case "left":
		ev = buttons.Left
	case "right":
		ev = buttons.Right
	case "up":
		ev = buttons.Up
	case "down":
		ev = buttons.Down
	case "ok":
		ev = buttons.OK
	case "":
		return
	default:
		log.Printf("debug: unrecognized command: %s", cmd)
		return
	}
	select {
	case src.C <- ev:
	default:
		log.Printf("debug: dropped %s, console ahead of the frame loop", ev)
	}
}
