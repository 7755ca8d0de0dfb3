package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertGetRemove(t *testing.T) {
	a := NewArena[string](4)

	k1, err := a.Insert("one")
	require.NoError(t, err)
	k2, err := a.Insert("two")
	require.NoError(t, err)

	v, ok := a.Get(k1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	assert.True(t, a.Remove(k1))
	_, ok = a.Get(k1)
	assert.False(t, ok, "key must not resolve after remove")

	// k2 is unaffected by k1's removal.
	v, ok = a.Get(k2)
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestArenaKeyNeverMatchesAfterReuse(t *testing.T) {
	a := NewArena[int](1)

	k1, err := a.Insert(1)
	require.NoError(t, err)
	require.True(t, a.Remove(k1))

	k2, err := a.Insert(2)
	require.NoError(t, err)

	assert.Equal(t, k1.Index, k2.Index, "single-capacity arena must reuse the slot")
	assert.NotEqual(t, k1.Generation, k2.Generation, "generation must bump on reuse")

	_, ok := a.Get(k1)
	assert.False(t, ok, "stale key must never resolve again")
	v, ok := a.Get(k2)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestArenaCapacityExceeded(t *testing.T) {
	a := NewArena[int](2)
	_, err := a.Insert(1)
	require.NoError(t, err)
	_, err = a.Insert(2)
	require.NoError(t, err)

	_, err = a.Insert(3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestArenaIterationOrderIsInsertionOrder(t *testing.T) {
	a := NewArena[int](5)
	var keys []Key
	for i := 0; i < 5; i++ {
		k, err := a.Insert(i)
		require.NoError(t, err)
		keys = append(keys, k)
	}

	// Remove a middle element, then insert a new one; iteration order should
	// still reflect insertion order of the *currently occupied* slots.
	a.Remove(keys[2])
	k5, err := a.Insert(5)
	require.NoError(t, err)

	var got []int
	a.Each(func(_ Key, v *int) bool {
		got = append(got, *v)
		return true
	})
	assert.Equal(t, []int{0, 1, 3, 4, 5}, got)

	var seenFifth bool
	a.Each(func(k Key, v *int) bool {
		if k == k5 {
			seenFifth = true
		}
		return true
	})
	assert.True(t, seenFifth)
}

func TestArenaEachEarlyStop(t *testing.T) {
	a := NewArena[int](3)
	for i := 0; i < 3; i++ {
		_, err := a.Insert(i)
		require.NoError(t, err)
	}

	var visited int
	a.Each(func(_ Key, v *int) bool {
		visited++
		return *v != 1
	})
	assert.Equal(t, 2, visited)
}

func TestArenaInsertWithKeyRequiresReservation(t *testing.T) {
	a := NewArena[int](2)

	k, err := a.Reserve()
	require.NoError(t, err)

	require.NoError(t, a.InsertWithKey(k, 42))

	err = a.InsertWithKey(k, 43)
	assert.ErrorIs(t, err, ErrKeyNotReserved)

	err = a.InsertWithKey(Key{Index: 99, Generation: 1}, 1)
	assert.ErrorIs(t, err, ErrKeyInvalid)
}

func TestArenaGetPointerMutatesInPlace(t *testing.T) {
	a := NewArena[int](1)
	k, err := a.Insert(10)
	require.NoError(t, err)

	p, ok := a.GetPointer(k)
	require.True(t, ok)
	*p = 20

	v, _ := a.Get(k)
	assert.Equal(t, 20, v)
}

func TestArenaLenAndCap(t *testing.T) {
	a := NewArena[int](3)
	assert.Equal(t, 3, a.Cap())
	assert.Equal(t, 0, a.Len())

	k, err := a.Insert(1)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())

	a.Remove(k)
	assert.Equal(t, 0, a.Len())
}
