package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSampler struct {
	bits []int
	pos  int
}

func (f *fixedSampler) NextSample() (int, error) {
	if f.pos >= len(f.bits) {
		return 0, assertExhausted
	}
	b := f.bits[f.pos]
	f.pos++
	return b, nil
}

var assertExhausted = &exhaustedError{}

type exhaustedError struct{}

func (e *exhaustedError) Error() string { return "segment test: sampler exhausted" }

func TestAdvanceUntilChangeFirstCallCountsInitialSample(t *testing.T) {
	s := New(&fixedSampler{bits: []int{1, 1, 1, 0}})
	require.NoError(t, s.AdvanceUntilChange())
	assert.Equal(t, 0, s.CurrentLogic)
	assert.Equal(t, 3, s.PrevRunLength)
}

func TestAdvanceUntilChangeCountsRun(t *testing.T) {
	s := New(&fixedSampler{bits: []int{0, 0, 0, 0, 1, 1, 0}})
	require.NoError(t, s.AdvanceUntilChange())
	assert.Equal(t, 1, s.CurrentLogic)
	assert.Equal(t, 4, s.PrevRunLength)

	require.NoError(t, s.AdvanceUntilChange())
	assert.Equal(t, 0, s.CurrentLogic)
	assert.Equal(t, 2, s.PrevRunLength)
}

func TestAdvanceUntilChangeSignalLost(t *testing.T) {
	bits := make([]int, MaxRunLength+10)
	for i := range bits {
		bits[i] = 1
	}
	s := New(&fixedSampler{bits: bits})
	err := s.AdvanceUntilChange()
	assert.ErrorIs(t, err, ErrSignalLost)
}
