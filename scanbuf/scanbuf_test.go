package scanbuf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func feedFrame(b *Buffer, id string) {
	b.Feed(frameStart)
	for i := 0; i < len(id); i++ {
		b.Feed(id[i])
	}
	b.Feed(frameEnd)
}

func TestCleanScanBecomesReady(t *testing.T) {
	b := New()
	assert.False(t, b.IsReady())
	feedFrame(b, "3100037D93")
	require.True(t, b.IsReady())

	id, err := b.Borrow()
	require.NoError(t, err)
	assert.Equal(t, "3100037D93", id)
}

func TestBorrowBeforeReadyErrors(t *testing.T) {
	b := New()
	_, err := b.Borrow()
	assert.Error(t, err)
}

func TestReleaseAllowsNextScan(t *testing.T) {
	b := New()
	feedFrame(b, "AAAAAAAAAA")
	require.True(t, b.IsReady())
	b.Release()
	assert.False(t, b.IsReady())

	feedFrame(b, "BBBBBBBBBB")
	require.True(t, b.IsReady())
	id, err := b.Borrow()
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", id)
}

func TestReleaseIsIdempotent(t *testing.T) {
	b := New()
	b.Release()
	b.Release()
	assert.False(t, b.IsReady())
}

func TestBadFramingResync(t *testing.T) {
	b := New()
	b.Feed('X') // not LF, dropped, index stays 0
	assert.False(t, b.IsReady())
	feedFrame(b, "CCCCCCCCCC")
	require.True(t, b.IsReady())
}

func TestLockedBufferDropsBytesWithoutCorruption(t *testing.T) {
	b := New()
	feedFrame(b, "1111111111")
	require.True(t, b.IsReady())

	// Further bytes, including what would be a whole second frame, are
	// dropped while locked.
	feedFrame(b, "2222222222")

	id, err := b.Borrow()
	require.NoError(t, err)
	assert.Equal(t, "1111111111", id)
}

var hexDigits = []rune("0123456789ABCDEF")

func randomID(t *rapid.T) string {
	var b strings.Builder
	for i := 0; i < Digits; i++ {
		b.WriteRune(rapid.SampledFrom(hexDigits).Draw(t, "digit"))
	}
	return b.String()
}

// TestNoLossUnderContentionProperty generalizes
// TestLockedBufferDropsBytesWithoutCorruption to spec §8's "No-loss on
// contention" and "Idempotence" properties over an arbitrary Feed/
// Borrow/Release interleaving: whatever arrives on the wire while the
// buffer is locked -- noise bytes, a second complete frame, anything --
// must be dropped without corrupting the frame already waiting to be
// borrowed, and releasing an already-unlocked buffer stays a no-op.
func TestNoLossUnderContentionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()

		// Arbitrary bytes ahead of the frame under test might leave a
		// partial frame in progress or (vanishingly unlikely, but not
		// impossible) complete a frame of their own. Release only clears
		// the lock, not the fill index, so after releasing, FrameSize
		// non-CR bytes are fed to run any partial frame into the CR check
		// and back to index 0; the property below is then about the frame
		// fed after this point, not an accidental one.
		prefix := rapid.SliceOfN(rapid.Byte(), 0, 20).Draw(t, "prefix noise")
		for _, c := range prefix {
			b.Feed(c)
		}
		b.Release()
		for i := 0; i < FrameSize; i++ {
			b.Feed('X')
		}

		id := randomID(t)
		feedFrame(b, id)
		if !b.IsReady() {
			t.Fatalf("expected buffer ready after feeding a well-formed frame for %q", id)
		}

		contention := rapid.SliceOfN(rapid.Byte(), 0, 40).Draw(t, "contention bytes")
		for _, c := range contention {
			b.Feed(c)
		}

		got, err := b.Borrow()
		if err != nil {
			t.Fatalf("borrow after contention: %v", err)
		}
		if got != id {
			t.Fatalf("buffer corrupted under contention: sent %q, got %q (contention=%v)", id, got, contention)
		}

		b.Release()
		if b.IsReady() {
			t.Fatalf("release did not unlock the buffer")
		}
		b.Release()
		if b.IsReady() {
			t.Fatalf("repeated release on an already-unlocked buffer must stay a no-op")
		}
	})
}
