package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{ name string }

func TestRegistry_AcquireSequential(t *testing.T) {
	r := New()
	a, b, c := &fakeSession{"a"}, &fakeSession{"b"}, &fakeSession{"c"}

	assert.Equal(t, 0, r.Acquire(a))
	assert.Equal(t, 1, r.Acquire(b))
	assert.Equal(t, 2, r.Acquire(c))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_ReuseLowestFreeSlot(t *testing.T) {
	r := New()
	a, b, c, d := &fakeSession{"a"}, &fakeSession{"b"}, &fakeSession{"c"}, &fakeSession{"d"}

	r.Acquire(a)
	r.Acquire(b)
	r.Acquire(c)

	r.Release(b)

	// The freed middle slot is reused; no compaction, no appending.
	assert.Equal(t, 1, r.Acquire(d))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_ReleaseDoesNotShiftOthers(t *testing.T) {
	r := New()
	a, b, c := &fakeSession{"a"}, &fakeSession{"b"}, &fakeSession{"c"}

	r.Acquire(a)
	r.Acquire(b)
	r.Acquire(c)
	r.Release(a)

	// b and c keep their slots: the next acquire lands in a's old slot.
	e := &fakeSession{"e"}
	assert.Equal(t, 0, r.Acquire(e))
}

func TestRegistry_DoubleReleasePanics(t *testing.T) {
	r := New()
	a := &fakeSession{"a"}
	r.Acquire(a)
	r.Release(a)

	assert.Panics(t, func() { r.Release(a) })
}

func TestRegistry_VerifyAllReleased(t *testing.T) {
	r := New()
	a, b := &fakeSession{"a"}, &fakeSession{"b"}

	r.Acquire(a)
	r.Acquire(b)
	r.Release(a)

	// b is still occupied somewhere in the slot list, not just the last
	// released one.
	require.Panics(t, func() { r.VerifyAllReleased() })

	r.Release(b)
	require.NotPanics(t, func() { r.VerifyAllReleased() })
}

func TestRegistry_AcquireNilPanics(t *testing.T) {
	r := New()
	assert.Panics(t, func() { r.Acquire(nil) })
}
