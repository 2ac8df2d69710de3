// Package ui implements the Screen Navigator of spec §4.10: a state
// machine over four screens that dispatches button input, polls the scan
// buffer, runs the alarm check, and orchestrates the setup wizard. It is
// grounded on the teacher's own screen-dispatch idea in gui.Context (a
// foreground loop that polls buttons and routes them to the active
// screen) but replaces gui's seed-backup/QR screen set with the four
// screens spec.md §3/§4.10 names, modeled as a tagged variant rather
// than the teacher's integer screen codes (SPEC_FULL.md, "Magic screen
// codes").
package ui

import (
	"fmt"

	"pharmatracker.io/buttons"
	"pharmatracker.io/lcd"
	"pharmatracker.io/registry"
	"pharmatracker.io/scanbuf"
	"pharmatracker.io/tickaccount"
	"pharmatracker.io/tracker"
)

// Screen is a tagged variant over the navigator's four top-level
// screens; SETUP carries its own wizard substate in Navigator.setup
// rather than folding it into this type.
type Screen int

const (
	Clocks Screen = iota
	ConfirmSetup
	Tags
	Setup
)

func (s Screen) String() string {
	switch s {
	case Clocks:
		return "CLOCKS"
	case ConfirmSetup:
		return "CONFIRM_SETUP"
	case Tags:
		return "TAGS"
	case Setup:
		return "SETUP"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

// ring is the LEFT/RIGHT rotation order of spec §4.10: "rotate between
// CLOCKS <-> CONFIRM_SETUP <-> TAGS (symmetric ring omitting SETUP)".
var ring = [...]Screen{Clocks, ConfirmSetup, Tags}

func ringIndex(s Screen) int {
	for i, r := range ring {
		if r == s {
			return i
		}
	}
	panic(fmt.Sprintf("ui: %v is not a ring screen", s))
}

// Navigator is the Screen Navigator. It owns no registry/controller
// state directly; it drives the collaborators passed to New.
type Navigator struct {
	reg    *registry.Registry
	ctrl   *tracker.Controller
	acct   *tickaccount.Accountant
	scan   *scanbuf.Buffer
	keys   buttons.Source
	disp   lcd.Display

	screen Screen
	setup  wizard
}

// New returns a Navigator starting on the CLOCKS screen.
func New(reg *registry.Registry, ctrl *tracker.Controller, acct *tickaccount.Accountant, scan *scanbuf.Buffer, keys buttons.Source, disp lcd.Display) *Navigator {
	return &Navigator{
		reg:    reg,
		ctrl:   ctrl,
		acct:   acct,
		scan:   scan,
		keys:   keys,
		disp:   disp,
		screen: Clocks,
	}
}

// Screen reports the navigator's current top-level screen.
func (n *Navigator) Screen() Screen { return n.screen }

// Splash shows the two-second boot banner of SPEC_FULL.md's SUPPLEMENTED
// FEATURES, mirroring GccApplication1_644.c's "PharmaTracker 9" startup
// message. It is a pure render: callers own the sleep before moving on.
func (n *Navigator) Splash(version string) {
	n.disp.Clear()
	n.disp.SetCursor(0, 0)
	n.disp.WriteString("PharmaTracker")
	n.disp.SetCursor(1, 0)
	n.disp.WriteString(version)
}

// Step runs one foreground iteration. Each call does the work spec
// §4.10 assigns to "every iteration" of a non-SETUP screen (alarm check,
// scan poll, button poll) and then dispatches whatever button came in
// (None is a valid, frequent result). While SETUP is active it instead
// steps the wizard, which owns its own scan/alarm suppression per §5 and
// §4.10 (ticking is disabled, but the registry is still live).
func (n *Navigator) Step() {
	if n.screen == Setup {
		n.stepSetup()
		return
	}

	n.ctrl.CheckAlarms()
	n.pollScan()
	key := n.keys.Poll()

	switch key {
	case buttons.Left:
		n.rotate(-1)
	case buttons.Right:
		n.rotate(1)
	case buttons.OK:
		if n.screen == ConfirmSetup {
			n.enterSetup()
		}
	}
	n.render()
}

func (n *Navigator) rotate(dir int) {
	i := ringIndex(n.screen)
	i = (i + dir + len(ring)) % len(ring)
	n.screen = ring[i]
}

// pollScan checks the Scan Buffer and, outside the wizard, applies a
// completed scan to the Tag Controller: a match toggles check-in/out or
// clears an alarm (§4.8), a miss is surfaced as "not registered" with no
// state change (§4.8's "any: scan(unknown id)" row).
func (n *Navigator) pollScan() {
	if !n.scan.IsReady() {
		return
	}
	defer n.scan.Release()
	id, err := n.scan.Borrow()
	if err != nil {
		return
	}
	result, err := n.ctrl.Scan(id)
	if err != nil {
		return
	}
	if !result.Matched {
		n.disp.SetCursor(1, 0)
		n.disp.WriteString("not registered  ")
	}
}

func (n *Navigator) render() {
	n.disp.Clear()
	n.disp.SetCursor(0, 0)
	n.disp.WriteString(n.screen.String())
}

func (n *Navigator) enterSetup() {
	n.acct.Disable()
	n.screen = Setup
	n.setup = newWizard(n.reg.Len())
}
