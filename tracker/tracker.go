// Package tracker implements the Tag Controller of spec §4.8: it applies
// scans and alarm checks to the Tag Registry, decides CHECKED_IN /
// CHECKED_OUT / ALARMED transitions, and emits one Event per transition,
// following the reference firmware's probe_card_reader/check_alarm pair.
package tracker

import (
	"fmt"

	"pharmatracker.io/registry"
)

// Action is the one-character event code uploaded for a transition.
type Action byte

const (
	ActionCheckOut Action = 'o'
	ActionCheckIn  Action = 'i'
	ActionAlarm    Action = 'a'
	ActionRegister Action = 'r'
	ActionBoot     Action = 'b'
)

// Event is one published state transition, the unit the Event Uplink
// serializes (spec §4.9).
type Event struct {
	ID     string
	Action Action
}

// BootstrapID is the id field of the one event emitted at startup,
// matching the reference firmware's upload_to_server("----------", 'b').
const BootstrapID = "----------"

// Sink receives events as they occur, in transition order. Publish must
// not block the caller indefinitely; a slow or failing Sink must not
// roll back the registry mutation that produced the event (spec §4.8:
// "the transition is authoritative").
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

// Buzzer is the piezo buzzer collaborator of spec §6, engaged while a tag
// is ALARMED and disengaged when it's cleared by a scan.
type Buzzer interface {
	Enable()
	Disable()
}

// Controller applies scans and alarm checks against a registry, emitting
// events to a Sink and driving a Buzzer.
type Controller struct {
	reg    *registry.Registry
	events Sink
	buzzer Buzzer
}

// New returns a Controller over reg, publishing to events and driving
// buzzer on alarm engage/disengage.
func New(reg *registry.Registry, events Sink, buzzer Buzzer) *Controller {
	return &Controller{reg: reg, events: events, buzzer: buzzer}
}

// Bootstrap emits the one startup event. Call it once before any scans or
// ticks are processed.
func (c *Controller) Bootstrap() {
	c.events.Publish(Event{ID: BootstrapID, Action: ActionBoot})
}

// ScanResult reports what a Scan call did, for the UI layer to react to
// (spec §4.10's "not registered" display, for instance).
type ScanResult struct {
	// Matched is false when id isn't registered in any slot; no state
	// change and no event occur in that case.
	Matched bool
	Index   int
	NewStatus registry.Status
}

// Scan looks up id and applies the trigger table of spec §4.8: toggling
// CHECKED_IN<->CHECKED_OUT, or clearing an ALARMED tag back to
// CHECKED_IN. Unknown ids are reported via Matched=false and never
// mutate the registry or emit an event.
func (c *Controller) Scan(id string) (ScanResult, error) {
	index, ok := c.reg.FindByID(id)
	if !ok {
		return ScanResult{Matched: false}, nil
	}

	var action Action
	var newStatus registry.Status
	var disengageBuzzer bool
	err := c.reg.Update(index, func(t *registry.Tag) {
		switch t.Status {
		case registry.CheckedIn:
			t.Status = registry.CheckedOut
			action = ActionCheckOut
		case registry.CheckedOut, registry.Alarmed:
			disengageBuzzer = t.Status == registry.Alarmed
			t.Status = registry.CheckedIn
			t.TimeLeft = t.MaxTime
			t.Armed = true
			action = ActionCheckIn
		default:
			panic(fmt.Sprintf("tracker: unknown status %v", t.Status))
		}
		newStatus = t.Status
	})
	if err != nil {
		return ScanResult{}, err
	}
	if disengageBuzzer && c.buzzer != nil {
		c.buzzer.Disable()
	}

	c.events.Publish(Event{ID: id, Action: action})
	return ScanResult{Matched: true, Index: index, NewStatus: newStatus}, nil
}

// Register overwrites a slot's id during the setup wizard (spec §4.10's
// set_id): it resets time_left/armed as a fresh CHECKED_IN tag and emits
// ActionRegister. Duplicate ids are rejected by the registry and
// reported back to the caller without mutating state or emitting an
// event.
func (c *Controller) Register(index int, id string) error {
	if err := c.reg.SetID(index, id); err != nil {
		return err
	}
	if err := c.reg.Update(index, func(t *registry.Tag) {
		t.Status = registry.CheckedIn
		t.TimeLeft = t.MaxTime
		t.Armed = true
	}); err != nil {
		return err
	}
	c.events.Publish(Event{ID: id, Action: ActionRegister})
	return nil
}

// CheckAlarms scans every slot in index order and fires the
// CHECKED_OUT->ALARMED transition for any tag at time_left=0 that is
// still armed, matching the reference firmware's check_alarm loop and
// spec §4.8's tie-break ("alarms are emitted in slot index order").
func (c *Controller) CheckAlarms() {
	for i := 0; i < c.reg.Len(); i++ {
		tag, err := c.reg.Get(i)
		if err != nil {
			panic(fmt.Sprintf("tracker: alarm check index out of range: %d", i))
		}
		if tag.Status != registry.CheckedOut || tag.TimeLeft != 0 || !tag.Armed {
			continue
		}
		c.reg.Update(i, func(t *registry.Tag) {
			t.Status = registry.Alarmed
			t.Armed = false
		})
		if c.buzzer != nil {
			c.buzzer.Enable()
		}
		c.events.Publish(Event{ID: tag.ID, Action: ActionAlarm})
	}
}
