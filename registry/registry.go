// Package registry implements the Tag Registry of spec §4.6: a fixed-size
// set of tag records with configured time budgets, mirroring the
// reference firmware's cards[CARD_COUNT] table and find_card lookup.
package registry

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned when a write would leave two slots sharing the
// same id.
var ErrDuplicate = errors.New("registry: id already registered in another slot")

// ErrOutOfRange is returned for an index outside the registry.
var ErrOutOfRange = errors.New("registry: index out of range")

// IDLength is the number of hex characters in a tag id (the Scan Buffer
// payload region, positions 1..FRAME_SIZE-1).
const IDLength = 10

// Status is a tag's position in the CHECKED_IN/CHECKED_OUT/ALARMED cycle.
type Status int

const (
	CheckedIn Status = iota
	CheckedOut
	Alarmed
)

func (s Status) String() string {
	switch s {
	case CheckedIn:
		return "CHECKED_IN"
	case CheckedOut:
		return "CHECKED_OUT"
	case Alarmed:
		return "ALARMED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Tag is one registered slot's record.
type Tag struct {
	ID       string
	MaxTime  int // seconds, editable, 0-3599
	TimeLeft int // seconds, 0..=MaxTime
	Status   Status
	// Armed enables one-shot alarm emission: CheckAlarms fires at most
	// once per CHECKED_OUT -> ALARMED transition until re-armed by a scan.
	Armed bool
}

// Registry holds N fixed slots. The zero value is not usable; use New.
type Registry struct {
	tags []Tag
}

// New returns a registry with one slot per entry of defaults, all
// CHECKED_IN and armed, with each slot's id and max_time taken from its
// entry and time_left set to that max_time.
func New(defaults []Tag) *Registry {
	tags := make([]Tag, len(defaults))
	for i, d := range defaults {
		tags[i] = Tag{
			ID:       d.ID,
			MaxTime:  d.MaxTime,
			TimeLeft: d.MaxTime,
			Status:   CheckedIn,
			Armed:    true,
		}
	}
	return &Registry{tags: tags}
}

// Len returns the number of slots (N in spec terms).
func (r *Registry) Len() int {
	return len(r.tags)
}

// Get returns a copy of the slot's record.
func (r *Registry) Get(index int) (Tag, error) {
	if index < 0 || index >= len(r.tags) {
		return Tag{}, ErrOutOfRange
	}
	return r.tags[index], nil
}

// FindByID compares only the 10 hex character id region and returns the
// matching slot index, or false if none match.
func (r *Registry) FindByID(id string) (int, bool) {
	for i, t := range r.tags {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// SetID registers id into slot index, rejecting the write with
// ErrDuplicate if id is already present in a different slot.
func (r *Registry) SetID(index int, id string) error {
	if index < 0 || index >= len(r.tags) {
		return ErrOutOfRange
	}
	if other, ok := r.FindByID(id); ok && other != index {
		return ErrDuplicate
	}
	r.tags[index].ID = id
	return nil
}

// SetMaxTime sets slot index's budget and resets time_left to match.
func (r *Registry) SetMaxTime(index, seconds int) error {
	if index < 0 || index >= len(r.tags) {
		return ErrOutOfRange
	}
	r.tags[index].MaxTime = seconds
	r.tags[index].TimeLeft = seconds
	return nil
}

// Update applies fn to slot index's record in place.
func (r *Registry) Update(index int, fn func(*Tag)) error {
	if index < 0 || index >= len(r.tags) {
		return ErrOutOfRange
	}
	fn(&r.tags[index])
	return nil
}
