package manchester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatracker.io/segment"
)

type fixedSampler struct {
	bits []int
	pos  int
}

func (f *fixedSampler) NextSample() (int, error) {
	if f.pos >= len(f.bits) {
		return 0, errExhausted
	}
	b := f.bits[f.pos]
	f.pos++
	return b, nil
}

type exhaustedErr struct{}

func (exhaustedErr) Error() string { return "manchester test: sampler exhausted" }

var errExhausted = exhaustedErr{}

// encodeBits renders bit values (first-half = complement, second-half =
// value) at halfBit samples per half, the same convention em4100.Encode
// uses, with one synthetic leading 0 bit providing a sync edge for First.
func encodeBits(bits []int, halfBit int) []int {
	full := append([]int{0}, bits...)
	samples := make([]int, 0, len(full)*2*halfBit)
	for _, b := range full {
		for i := 0; i < halfBit; i++ {
			samples = append(samples, b^1)
		}
		for i := 0; i < halfBit; i++ {
			samples = append(samples, b)
		}
	}
	return samples
}

func TestReaderDecodesAlternatingAndRepeatedBits(t *testing.T) {
	bits := []int{1, 1, 0, 1, 0, 0}
	samples := encodeBits(bits, Tolerance)
	r := NewReader(segment.New(&fixedSampler{bits: samples}))

	first, err := r.First()
	require.NoError(t, err)
	assert.Equal(t, bits[0], first)

	for i := 1; i < len(bits); i++ {
		bit, err := r.Next()
		require.NoError(t, err)
		assert.Equalf(t, bits[i], bit, "bit %d", i)
	}
}
