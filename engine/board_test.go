package engine

import (
	"testing"

	"github.com/plus3/panelpop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPlaceAndAt(t *testing.T) {
	b := NewBoard(6, 13)
	ref := &ecs.EntityRef{Id: ecs.NewEntityId(1, 0)}

	b.Place(2, 3, ref)
	assert.Same(t, ref, b.At(2, 3))
	assert.True(t, b.Occupied(2, 3))
	assert.Equal(t, 1, b.Count())
}

func TestBoardAtOutOfBoundsIsNil(t *testing.T) {
	b := NewBoard(6, 13)
	assert.Nil(t, b.At(-1, 0))
	assert.Nil(t, b.At(6, 0))
	assert.Nil(t, b.At(0, 13))
}

func TestBoardPlacePanicsOnOccupied(t *testing.T) {
	b := NewBoard(6, 13)
	ref := &ecs.EntityRef{Id: ecs.NewEntityId(1, 0)}
	b.Place(0, 0, ref)

	assert.Panics(t, func() {
		b.Place(0, 0, ref)
	})
}

func TestBoardVacate(t *testing.T) {
	b := NewBoard(6, 13)
	ref := &ecs.EntityRef{Id: ecs.NewEntityId(1, 0)}
	b.Place(4, 4, ref)

	got := b.Vacate(4, 4)
	assert.Same(t, ref, got)
	assert.False(t, b.Occupied(4, 4))

	assert.Panics(t, func() {
		b.Vacate(4, 4)
	})
}

func TestBoardMove(t *testing.T) {
	b := NewBoard(6, 13)
	ref := &ecs.EntityRef{Id: ecs.NewEntityId(1, 0)}
	b.Place(3, 5, ref)

	b.Move(3, 5, 3, 4)
	assert.Nil(t, b.At(3, 5))
	assert.Same(t, ref, b.At(3, 4))
}

func TestBoardExchange(t *testing.T) {
	b := NewBoard(6, 13)
	left := &ecs.EntityRef{Id: ecs.NewEntityId(1, 0)}
	b.Place(0, 0, left)

	// Occupied with empty.
	b.Exchange(0, 0, 1, 0)
	assert.Nil(t, b.At(0, 0))
	assert.Same(t, left, b.At(1, 0))

	right := &ecs.EntityRef{Id: ecs.NewEntityId(1, 1)}
	b.Place(0, 0, right)

	b.Exchange(0, 0, 1, 0)
	assert.Same(t, left, b.At(0, 0))
	assert.Same(t, right, b.At(1, 0))
}

func TestBoardRequiresRef(t *testing.T) {
	b := NewBoard(6, 13)
	require.Panics(t, func() {
		b.Place(0, 0, nil)
	})
}
