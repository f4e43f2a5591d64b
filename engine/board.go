package engine

import (
	"fmt"

	"github.com/plus3/panelpop/ecs"
)

// Board is the occupancy index: one slot per cell, holding a stable reference
// to the occupying block entity or nil. It is the authority on "what is at
// (col, row)"; the Cell component on each block mirrors it for iteration.
//
// Entries are EntityRefs rather than raw ids because structural changes (tag
// add/remove) reassign an entity's id; refs are patched by the storage and
// stay valid.
type Board struct {
	Width  int
	Height int

	cells []*ecs.EntityRef
}

// NewBoard creates an empty board.
func NewBoard(width, height int) Board {
	return Board{
		Width:  width,
		Height: height,
		cells:  make([]*ecs.EntityRef, width*height),
	}
}

func (b *Board) index(col, row int) int {
	return row*b.Width + col
}

// InBounds reports whether (col, row) is a valid cell.
func (b *Board) InBounds(col, row int) bool {
	return col >= 0 && col < b.Width && row >= 0 && row < b.Height
}

// At returns the reference occupying (col, row), or nil if the cell is empty
// or out of bounds.
func (b *Board) At(col, row int) *ecs.EntityRef {
	if !b.InBounds(col, row) {
		return nil
	}
	return b.cells[b.index(col, row)]
}

// Occupied reports whether (col, row) holds a block.
func (b *Board) Occupied(col, row int) bool {
	return b.At(col, row) != nil
}

// Place puts a reference into an empty cell. Panics on a bounds or occupancy
// violation: callers check first, a violation here is a corrupted index.
func (b *Board) Place(col, row int, ref *ecs.EntityRef) {
	if !b.InBounds(col, row) {
		panic(fmt.Sprintf("board: place out of bounds (%d,%d)", col, row))
	}
	if ref == nil {
		panic(fmt.Sprintf("board: place nil ref at (%d,%d)", col, row))
	}
	i := b.index(col, row)
	if b.cells[i] != nil {
		panic(fmt.Sprintf("board: cell (%d,%d) already occupied", col, row))
	}
	b.cells[i] = ref
}

// Vacate empties a cell and returns the reference that occupied it. Panics if
// the cell was already empty.
func (b *Board) Vacate(col, row int) *ecs.EntityRef {
	if !b.InBounds(col, row) {
		panic(fmt.Sprintf("board: vacate out of bounds (%d,%d)", col, row))
	}
	i := b.index(col, row)
	ref := b.cells[i]
	if ref == nil {
		panic(fmt.Sprintf("board: vacate empty cell (%d,%d)", col, row))
	}
	b.cells[i] = nil
	return ref
}

// Move relocates the occupant of one cell to an empty cell.
func (b *Board) Move(fromCol, fromRow, toCol, toRow int) {
	ref := b.Vacate(fromCol, fromRow)
	b.Place(toCol, toRow, ref)
}

// Exchange swaps the contents of two cells. Either cell may be empty.
func (b *Board) Exchange(colA, rowA, colB, rowB int) {
	if !b.InBounds(colA, rowA) || !b.InBounds(colB, rowB) {
		panic(fmt.Sprintf("board: exchange out of bounds (%d,%d)/(%d,%d)", colA, rowA, colB, rowB))
	}
	ia, ib := b.index(colA, rowA), b.index(colB, rowB)
	b.cells[ia], b.cells[ib] = b.cells[ib], b.cells[ia]
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, ref := range b.cells {
		if ref != nil {
			n++
		}
	}
	return n
}
