package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedStoreAppendGet(t *testing.T) {
	store := &typedStore[Position]{}

	i := store.Append(Position{X: 1})
	j := store.Append(&Position{X: 2})

	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)
	assert.Equal(t, 2, store.Len())

	got, ok := store.Get(j).(*Position)
	require.True(t, ok)
	assert.Equal(t, 2.0, got.X)
}

func TestTypedStoreReusesFreedSlots(t *testing.T) {
	store := &typedStore[Position]{}

	a := store.Append(Position{X: 1})
	store.Append(Position{X: 2})
	store.Delete(a)

	c := store.Append(Position{X: 3})
	assert.Equal(t, a, c, "freed slot must be reused")
	assert.Equal(t, 2, store.Len())
}

func TestTypedStoreGrowsPastBlockSize(t *testing.T) {
	store := &typedStore[Position]{}

	for i := 0; i < storeBlockSize+5; i++ {
		store.Append(Position{X: float64(i)})
	}
	assert.Equal(t, storeBlockSize+5, store.Len())

	// Interior pointers stay valid after slab growth.
	first := store.Get(0).(*Position)
	assert.Equal(t, 0.0, first.X)
	last := store.Get(storeBlockSize + 4).(*Position)
	assert.Equal(t, float64(storeBlockSize+4), last.X)
}

func TestTypedStoreCompact(t *testing.T) {
	store := &typedStore[Position]{}

	for i := 0; i < 6; i++ {
		store.Append(Position{X: float64(i)})
	}
	store.Delete(1)
	store.Delete(3)

	indexMap := store.Compact()
	assert.Equal(t, 4, store.Len())
	assert.Len(t, indexMap, 4)

	// Survivors keep their values at the mapped indices, in order.
	for oldIdx, newIdx := range indexMap {
		got := store.Get(newIdx).(*Position)
		assert.Equal(t, float64(oldIdx), got.X)
	}
	assert.Nil(t, store.Get(4))
	assert.Nil(t, store.Get(5))
}

func TestTypedStoreIterSkipsHoles(t *testing.T) {
	store := &typedStore[Position]{}

	for i := 0; i < 4; i++ {
		store.Append(Position{X: float64(i)})
	}
	store.Delete(2)

	var seen []int
	for i := range store.Iter() {
		seen = append(seen, i)
	}
	assert.Equal(t, []int{0, 1, 3}, seen)
}
