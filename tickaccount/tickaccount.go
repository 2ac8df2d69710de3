// Package tickaccount implements the Tick Accountant of spec §4.7: a 1 Hz
// callback that decrements remaining time on checked-out tags, mirroring
// the reference firmware's timer ISR that touches only time_left.
package tickaccount

import "pharmatracker.io/registry"

// Tick decrements time_left by one second for every CHECKED_OUT tag with
// time_left > 0. CHECKED_IN and ALARMED tags are untouched.
func Tick(reg *registry.Registry) {
	for i := 0; i < reg.Len(); i++ {
		reg.Update(i, func(t *registry.Tag) {
			if t.Status == registry.CheckedOut && t.TimeLeft > 0 {
				t.TimeLeft--
			}
		})
	}
}

// Accountant wraps a registry with an enable/disable flag, matching the
// Screen Navigator's requirement (spec §4.10) to suspend ticking during
// the setup wizard without otherwise altering tag state.
type Accountant struct {
	reg     *registry.Registry
	enabled bool
}

// New returns an enabled Accountant bound to reg.
func New(reg *registry.Registry) *Accountant {
	return &Accountant{reg: reg, enabled: true}
}

// Tick applies one second of decrement if the accountant is enabled; it
// is a no-op while disabled.
func (a *Accountant) Tick() {
	if !a.enabled {
		return
	}
	Tick(a.reg)
}

// Enable and Disable toggle ticking. Disable is used while the setup
// wizard is active; Enable resumes it on wizard completion or abort.
func (a *Accountant) Enable()  { a.enabled = true }
func (a *Accountant) Disable() { a.enabled = false }

// Enabled reports the current state.
func (a *Accountant) Enabled() bool { return a.enabled }
