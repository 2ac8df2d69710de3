package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry() *Registry {
	return New([]Tag{
		{ID: "3100037D93", MaxTime: 5},
		{ID: "66006C4B7F", MaxTime: 10},
	})
}

func TestFindByIDMatchesExactRegion(t *testing.T) {
	r := defaultRegistry()
	idx, ok := r.FindByID("3100037D93")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = r.FindByID("FFFFFFFFFF")
	assert.False(t, ok)
}

func TestSetMaxTimeResetsTimeLeft(t *testing.T) {
	r := defaultRegistry()
	require.NoError(t, r.SetMaxTime(0, 42))
	tag, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 42, tag.MaxTime)
	assert.Equal(t, 42, tag.TimeLeft)
}

func TestSetIDRejectsDuplicate(t *testing.T) {
	r := defaultRegistry()
	err := r.SetID(1, "3100037D93")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSetIDAllowsRewritingSameSlot(t *testing.T) {
	r := defaultRegistry()
	err := r.SetID(0, "3100037D93")
	assert.NoError(t, err)
}

func TestOutOfRangeIndex(t *testing.T) {
	r := defaultRegistry()
	assert.ErrorIs(t, r.SetID(99, "AAAAAAAAAA"), ErrOutOfRange)
	assert.ErrorIs(t, r.SetMaxTime(-1, 1), ErrOutOfRange)
	_, err := r.Get(99)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
