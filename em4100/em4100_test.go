package em4100

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pharmatracker.io/antenna"
)

var hexDigits = []rune("0123456789ABCDEF")

func randomID(t *rapid.T) string {
	var b strings.Builder
	for i := 0; i < Digits; i++ {
		b.WriteRune(rapid.SampledFrom(hexDigits).Draw(t, "digit"))
	}
	return b.String()
}

// samplesPerHalfBit is chosen to satisfy manchester.Tolerance's short/long
// classification (halfBit <= Tolerance < 2*halfBit); it need not match any
// particular hardware oversampling ratio.
const samplesPerHalfBit = 4

func decodeID(t *testing.T, id string) (string, error) {
	t.Helper()
	samples, err := Encode(id, samplesPerHalfBit)
	require.NoError(t, err)
	return DecodeSamples(antenna.NewRecorded(samples))
}

func TestRoundTrip(t *testing.T) {
	got, err := decodeID(t, "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", got)
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := randomID(t)
		samples, err := Encode(id, samplesPerHalfBit)
		if err != nil {
			t.Fatalf("encode of %q: %v", id, err)
		}
		got, err := DecodeSamples(antenna.NewRecorded(samples))
		if err != nil {
			t.Fatalf("decode of %q: %v", id, err)
		}
		if got != id {
			t.Fatalf("round trip mismatch: sent %q, got %q", id, got)
		}
	})
}

func TestParityCorruptionRejected(t *testing.T) {
	samples, err := Encode("0123456789", samplesPerHalfBit)
	require.NoError(t, err)

	// Flip one sample in the second half of stream bit 21 (bit 0 is the
	// synthetic predecessor, 1-9 the header), the second data bit of
	// digit 2, corrupting that digit's row without touching header sync.
	flipAt := len(samples) / 3
	samples[flipAt] ^= 1

	_, err = DecodeSamples(antenna.NewRecorded(samples))
	assert.Error(t, err)
}

func TestDecodeSamplesFailsOnExhaustion(t *testing.T) {
	_, err := DecodeSamples(antenna.NewRecorded([]int{1, 1, 1}))
	assert.Error(t, err)
}
