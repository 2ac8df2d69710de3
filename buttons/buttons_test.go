package buttons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueYieldsEventsThenNone(t *testing.T) {
	q := NewQueue([]Event{Left, OK, Right})
	assert.Equal(t, Left, q.Poll())
	assert.Equal(t, OK, q.Poll())
	assert.Equal(t, Right, q.Poll())
	assert.Equal(t, None, q.Poll())
	assert.Equal(t, None, q.Poll())
}

func TestEventStringNames(t *testing.T) {
	assert.Equal(t, "NONE", None.String())
	assert.Equal(t, "LEFT", Left.String())
	assert.Equal(t, "OK", OK.String())
	assert.Equal(t, "INVALID", Invalid.String())
}
