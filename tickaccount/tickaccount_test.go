package tickaccount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatracker.io/registry"
)

func TestTickDecrementsOnlyCheckedOut(t *testing.T) {
	reg := registry.New([]registry.Tag{{ID: "AAAAAAAAAA", MaxTime: 5}, {ID: "BBBBBBBBBB", MaxTime: 5}})
	require.NoError(t, reg.Update(0, func(tag *registry.Tag) { tag.Status = registry.CheckedOut }))
	require.NoError(t, reg.Update(1, func(tag *registry.Tag) { tag.Status = registry.CheckedIn }))

	Tick(reg)

	out, err := reg.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 4, out.TimeLeft)

	in, err := reg.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 5, in.TimeLeft)
}

func TestTickNeverGoesNegative(t *testing.T) {
	reg := registry.New([]registry.Tag{{ID: "AAAAAAAAAA", MaxTime: 1}})
	require.NoError(t, reg.Update(0, func(tag *registry.Tag) {
		tag.Status = registry.CheckedOut
		tag.TimeLeft = 0
	}))

	Tick(reg)

	tag, err := reg.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0, tag.TimeLeft)
}

func TestAccountantDisableSuspendsTicking(t *testing.T) {
	reg := registry.New([]registry.Tag{{ID: "AAAAAAAAAA", MaxTime: 5}})
	require.NoError(t, reg.Update(0, func(tag *registry.Tag) { tag.Status = registry.CheckedOut }))

	a := New(reg)
	a.Disable()
	a.Tick()

	tag, err := reg.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 5, tag.TimeLeft)

	a.Enable()
	a.Tick()
	tag, err = reg.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 4, tag.TimeLeft)
}
