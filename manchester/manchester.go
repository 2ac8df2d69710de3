// Package manchester implements the Manchester symbol reader of spec
// §4.3: it turns run-length segmented samples into logical bits by
// distinguishing a half-bit run from a full-bit run against a fixed
// tolerance.
package manchester

import "pharmatracker.io/segment"

// Tolerance is the sample-count threshold distinguishing a half-bit run
// from a full-bit run. The reference decoder firmware samples at 4x the
// half-bit rate and fixes Tolerance at 4 (see decoder_firmware.c); an
// earlier desktop prototype used 6 against a slower 20 kHz capture. This
// implementation follows the deployed firmware.
const Tolerance = 4

// Reader decodes Manchester symbols from a run-length segmenter.
type Reader struct {
	seg *segment.State
}

// NewReader wraps seg, whose state must be freshly reset for the decode
// attempt (segment.New does this).
func NewReader(seg *segment.State) *Reader {
	return &Reader{seg: seg}
}

// First locates a start-of-bit edge: it reads samples until a run longer
// than Tolerance is seen (a run spanning a bit boundary with no mid-bit
// transition) and returns the logic value following that long run.
func (r *Reader) First() (bit int, err error) {
	for {
		if err := r.seg.AdvanceUntilChange(); err != nil {
			return 0, err
		}
		if r.seg.PrevRunLength > Tolerance {
			return r.seg.CurrentLogic, nil
		}
	}
}

// Next decodes the next Manchester bit. A short run (<= Tolerance) is a
// half-bit: the transition ending it is a bit boundary, so a second
// transition (the next bit's mid-bit edge) is consumed and its logic value
// returned. A long run spans the second half of one bit and the first half
// of the next with no boundary transition, so the transition ending it is
// already the next bit's mid-bit edge and the current value is returned.
func (r *Reader) Next() (bit int, err error) {
	if err := r.seg.AdvanceUntilChange(); err != nil {
		return 0, err
	}
	if r.seg.PrevRunLength <= Tolerance {
		if err := r.seg.AdvanceUntilChange(); err != nil {
			return 0, err
		}
		return r.seg.CurrentLogic, nil
	}
	return r.seg.CurrentLogic, nil
}
