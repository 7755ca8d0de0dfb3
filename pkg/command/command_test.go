package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/audioengine/pkg/param"
)

func TestValueSlotPollOnlyOncePerWrite(t *testing.T) {
	vs := NewValueSlot[float64]()

	_, _, ok := vs.Poll()
	assert.False(t, ok, "no write yet")

	vs.Write(5, param.Tween{Duration: time.Second})
	target, tween, ok := vs.Poll()
	require.True(t, ok)
	assert.Equal(t, 5.0, target)
	assert.Equal(t, time.Second, tween.Duration)

	_, _, ok = vs.Poll()
	assert.False(t, ok, "second poll with no intervening write must report false")
}

func TestValueSlotLatestWriteWins(t *testing.T) {
	vs := NewValueSlot[int]()
	vs.Write(1, param.Tween{})
	vs.Write(2, param.Tween{})
	vs.Write(3, param.Tween{})

	target, _, ok := vs.Poll()
	require.True(t, ok)
	assert.Equal(t, 3, target, "only the latest value matters, no queueing")
}

func TestRingFIFOOrderAndCapacity(t *testing.T) {
	r := NewRing[int](3)
	require.NoError(t, r.TryPush(1))
	require.NoError(t, r.TryPush(2))
	require.NoError(t, r.TryPush(3))

	err := r.TryPush(4)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var got []int
	r.DrainAll(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{1, 2, 3}, got)

	// after draining, the ring has room again
	require.NoError(t, r.TryPush(5))
	v, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestRingPopEmpty(t *testing.T) {
	r := NewRing[int](2)
	_, ok := r.TryPop()
	assert.False(t, ok)
}
