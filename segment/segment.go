// Package segment implements the run-length segmenter that turns a raw
// sample stream into (logic, run-length) pairs, the first stage of the
// EM4100 decode pipeline (spec §4.2).
package segment

import "fmt"

// Sampler is the minimal contract the segmenter needs from a sample
// source (antenna.Source satisfies it without segment importing antenna).
type Sampler interface {
	NextSample() (bit int, err error)
}

// MaxRunLength bounds how long a run of identical samples may be before
// the segmenter treats it as signal loss rather than a slow edge. It is
// generous relative to a full Manchester bit (a handful of oversampled
// ticks) so only a genuinely stalled antenna trips it.
const MaxRunLength = 4096

// ErrSignalLost is returned when a run exceeds MaxRunLength, the
// "physically impossible run" edge case of spec §4.2.
var ErrSignalLost = fmt.Errorf("segment: run exceeds %d samples, signal lost", MaxRunLength)

// State tracks the transient per-attempt segmenter state of spec §3:
// current_logic and prev_run_length.
type State struct {
	src Sampler

	// CurrentLogic is the most recently observed differing sample.
	CurrentLogic int
	// PrevRunLength is the number of consecutive samples equal to the
	// previous CurrentLogic, including the first one read after
	// construction, exclusive of the differing sample that ended the run.
	PrevRunLength int

	init bool
}

// New resets segmenter state to (0, 0) and binds it to src, per spec §3's
// reset-on-attempt-start rule.
func New(src Sampler) *State {
	return &State{src: src}
}

// AdvanceUntilChange reads samples until one differs from CurrentLogic,
// storing the differing value in CurrentLogic and the run length (including
// the initializing sample on the very first call) in PrevRunLength.
func (s *State) AdvanceUntilChange() error {
	if !s.init {
		bit, err := s.src.NextSample()
		if err != nil {
			return err
		}
		s.CurrentLogic = bit
		s.init = true
	}
	count := 1
	for {
		bit, err := s.src.NextSample()
		if err != nil {
			return err
		}
		if bit != s.CurrentLogic {
			s.CurrentLogic = bit
			s.PrevRunLength = count
			return nil
		}
		count++
		if count > MaxRunLength {
			return ErrSignalLost
		}
	}
}
