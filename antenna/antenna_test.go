package antenna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordedYieldsInOrderThenErrors(t *testing.T) {
	r := NewRecorded([]int{1, 0, 1})

	for _, want := range []int{1, 0, 1} {
		bit, err := r.NextSample()
		require.NoError(t, err)
		assert.Equal(t, want, bit)
	}

	_, err := r.NextSample()
	assert.Error(t, err)
}
