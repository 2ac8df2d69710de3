package ui

import (
	"fmt"

	"pharmatracker.io/buttons"
	"pharmatracker.io/registry"
)

// wizard drives the SETUP screen of spec §4.10, ported bit-for-bit from
// the reference firmware's setup_screen/set_card_id/set_card_timeout
// trio (original_source/GccApplication1_644.c): a stage counter over
// 2*N stages, alternating set_id and set_max_time per slot, where a
// stage's success advances the counter and its abort decrements it.
type wizard struct {
	n       int
	counter int // -1 .. 2n

	// id-stage substate
	pendingID  string
	haveScan   bool

	// time-stage substate: MM:SS digits, cursor_index 0..4 skipping 2 (':').
	digits      [5]int
	cursorIndex int
}

func newWizard(n int) wizard {
	return wizard{n: n, counter: 0}
}

// done reports whether the wizard has exited (counter out of [0, 2n)).
func (w *wizard) done() bool {
	return w.counter < 0 || w.counter >= 2*w.n
}

// aborted reports whether the wizard exited via abort rather than
// completing all 2n stages.
func (w *wizard) aborted() bool {
	return w.counter < 0
}

// slot is the registry index the current stage edits.
func (w *wizard) slot() int { return w.counter >> 1 }

// isIDStage reports whether the current stage is set_id (even counter)
// or set_max_time (odd counter).
func (w *wizard) isIDStage() bool { return w.counter&1 == 0 }

// enterStage resets per-stage substate when the counter moves to a new
// stage (advance or retreat both start the new stage fresh, matching
// the firmware calling set_card_id/set_card_timeout from scratch each
// time through setup_screen's loop).
func (w *wizard) enterStage(reg *registry.Registry) {
	if w.done() {
		return
	}
	if w.isIDStage() {
		w.pendingID = ""
		w.haveScan = false
		return
	}
	tag, err := reg.Get(w.slot())
	if err != nil {
		panic(fmt.Sprintf("ui: setup stage out of range: %d", w.slot()))
	}
	min := tag.MaxTime / 60
	sec := tag.MaxTime % 60
	w.digits = [5]int{min / 10, min % 10, 0, sec / 10, sec % 10}
	w.cursorIndex = 0
}

// stepSetup advances the wizard by at most one button press and
// re-renders the current stage.
func (n *Navigator) stepSetup() {
	w := &n.setup
	key := n.keys.Poll()
	if w.isIDStage() {
		n.stepSetID(key)
	} else {
		n.stepMaxTime(key)
	}
	if w.done() {
		n.acct.Enable()
		n.screen = Clocks
		return
	}
	n.renderSetup()
}

// stepSetID implements set_card_id: a scan buffer poll copies the
// pending id onto the screen (and into haveScan); OK/RIGHT commits (and
// registers it, if a new card was scanned), LEFT aborts the stage.
func (n *Navigator) stepSetID(key buttons.Event) {
	w := &n.setup
	if n.scan.IsReady() {
		if id, err := n.scan.Borrow(); err == nil {
			w.pendingID = id
			w.haveScan = true
		}
		n.scan.Release()
	}
	switch key {
	case buttons.OK, buttons.Right:
		if w.haveScan {
			if err := n.ctrl.Register(w.slot(), w.pendingID); err != nil {
				// spec §7 DuplicateId: reported to the UI, stage not
				// advanced.
				n.disp.SetCursor(1, 0)
				n.disp.WriteString("duplicate id    ")
				return
			}
		}
		w.counter++
		w.enterStage(n.reg)
	case buttons.Left:
		w.counter--
		w.enterStage(n.reg)
	}
}

// stepMaxTime implements set_card_timeout's per-digit MM:SS editor.
func (n *Navigator) stepMaxTime(key buttons.Event) {
	w := &n.setup
	switch key {
	case buttons.Left:
		if w.cursorIndex <= 0 {
			w.counter--
			w.enterStage(n.reg)
			return
		}
		w.cursorIndex--
		if w.cursorIndex == 2 {
			w.cursorIndex--
		}
	case buttons.Right:
		if w.cursorIndex >= 4 {
			n.commitMaxTime()
			w.counter++
			w.enterStage(n.reg)
			return
		}
		w.cursorIndex++
		if w.cursorIndex == 2 {
			w.cursorIndex++
		}
	case buttons.Up:
		w.bumpDigit(1)
	case buttons.Down:
		w.bumpDigit(-1)
	case buttons.OK:
		n.commitMaxTime()
		w.counter++
		w.enterStage(n.reg)
	}
}

func (w *wizard) bumpDigit(inc int) {
	i := w.cursorIndex
	if i == 2 {
		return
	}
	modulus := 10
	if i == 0 || i == 3 {
		modulus = 6
	}
	d := (w.digits[i] + inc) % modulus
	if d < 0 {
		d += modulus
	}
	w.digits[i] = d
}

func (n *Navigator) commitMaxTime() {
	w := &n.setup
	seconds := 60*(10*w.digits[0]+w.digits[1]) + 10*w.digits[3] + w.digits[4]
	n.reg.SetMaxTime(w.slot(), seconds)
}

func (n *Navigator) renderSetup() {
	w := &n.setup
	n.disp.Clear()
	if w.isIDStage() {
		n.disp.SetCursor(0, 0)
		n.disp.WriteString(fmt.Sprintf("Scan card %d:", w.slot()+1))
		n.disp.SetCursor(1, 0)
		if w.haveScan {
			n.disp.WriteString(w.pendingID)
		}
		return
	}
	n.disp.SetCursor(0, 0)
	n.disp.WriteString(fmt.Sprintf("Time for card %d:", w.slot()+1))
	n.disp.SetCursor(1, 0)
	n.disp.WriteString(formatMMSS(w.digits))
	n.disp.SetCursorVisible(true)
}

// formatMMSS writes the five-character MM:SS display, the value-returning
// replacement for the firmware's format_time (SPEC_FULL.md, "Pointer-
// returned static strings": no shared static buffer, the caller gets a
// fresh string each call).
func formatMMSS(digits [5]int) string {
	b := make([]byte, 5)
	for i, d := range digits {
		if i == 2 {
			b[i] = ':'
			continue
		}
		b[i] = byte('0' + d)
	}
	return string(b)
}
