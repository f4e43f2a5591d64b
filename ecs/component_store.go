package ecs

import (
	"iter"
	"reflect"
)

// componentStore is the type-erased storage behind one component column of an
// archetype. Indices handed out by Append stay valid until Compact runs.
type componentStore interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to storage factories. Each Storage
// owns its own registry, so independent ECS instances never interfere.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStore
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStore),
	}
}

// RegisterComponent makes T usable as a component with the given registry.
// Every component type must be registered before the first Spawn that uses it.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.factories[t] = func() componentStore {
		return &typedStore[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStore {
	return r.factories[t]
}

const storeBlockSize = 64

// typedStore keeps components of one concrete type in fixed-size slabs so
// that Get can return interior pointers that stay valid across appends.
type typedStore[T any] struct {
	blocks    [][storeBlockSize]T
	filled    [][storeBlockSize]bool
	freeSlots []int
	nextIndex int
}

func (cs *typedStore[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	index := cs.nextIndex
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		cs.nextIndex++
	}

	blockIdx, slotIdx := index/storeBlockSize, index%storeBlockSize
	for blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, [storeBlockSize]T{})
		cs.filled = append(cs.filled, [storeBlockSize]bool{})
	}

	cs.blocks[blockIdx][slotIdx] = value
	cs.filled[blockIdx][slotIdx] = true
	return index
}

func (cs *typedStore[T]) Get(index int) any {
	if index < 0 {
		return nil
	}
	blockIdx, slotIdx := index/storeBlockSize, index%storeBlockSize
	if blockIdx >= len(cs.blocks) || !cs.filled[blockIdx][slotIdx] {
		return nil
	}
	return &cs.blocks[blockIdx][slotIdx]
}

func (cs *typedStore[T]) Delete(index int) {
	if index < 0 {
		return
	}
	blockIdx, slotIdx := index/storeBlockSize, index%storeBlockSize
	if blockIdx >= len(cs.blocks) || !cs.filled[blockIdx][slotIdx] {
		return
	}
	var zero T
	cs.blocks[blockIdx][slotIdx] = zero
	cs.filled[blockIdx][slotIdx] = false
	cs.freeSlots = append(cs.freeSlots, index)
}

func (cs *typedStore[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	blockIdx, slotIdx := index/storeBlockSize, index%storeBlockSize
	return blockIdx < len(cs.blocks) && cs.filled[blockIdx][slotIdx]
}

func (cs *typedStore[T]) Len() int {
	return cs.nextIndex - len(cs.freeSlots)
}

// Compact rewrites the slabs without holes and returns the old->new index map.
func (cs *typedStore[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	live := cs.Len()
	if live == 0 {
		cs.blocks = make([][storeBlockSize]T, 1)
		cs.filled = make([][storeBlockSize]bool, 1)
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (live + storeBlockSize - 1) / storeBlockSize
	newBlocks := make([][storeBlockSize]T, numBlocks)
	newFilled := make([][storeBlockSize]bool, numBlocks)

	writePos := 0
	for readIdx := 0; readIdx < cs.nextIndex; readIdx++ {
		blockIdx, slotIdx := readIdx/storeBlockSize, readIdx%storeBlockSize
		if !cs.filled[blockIdx][slotIdx] {
			continue
		}
		indexMap[readIdx] = writePos
		newBlocks[writePos/storeBlockSize][writePos%storeBlockSize] = cs.blocks[blockIdx][slotIdx]
		newFilled[writePos/storeBlockSize][writePos%storeBlockSize] = true
		writePos++
	}

	cs.blocks = newBlocks
	cs.filled = newFilled
	cs.freeSlots = nil
	cs.nextIndex = writePos
	return indexMap
}

func (cs *typedStore[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			blockIdx, slotIdx := i/storeBlockSize, i%storeBlockSize
			if blockIdx >= len(cs.filled) || !cs.filled[blockIdx][slotIdx] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
