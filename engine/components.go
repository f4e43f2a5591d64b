// Package engine implements the falling-block playfield core: a grid of
// colored blocks that fall under gravity, swap horizontally, clear in runs of
// three or more, and cascade into chains. The simulation is deterministic and
// tick-driven; rendering, input capture, and audio live outside and talk to
// the engine through Playfield.
package engine

import "fmt"

// BlockColor is an index into the block palette. A Config may restrict play
// to a prefix of the palette via Colors.
type BlockColor uint8

const (
	ColorRed BlockColor = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorIndigo

	// NumColors is the size of the full palette.
	NumColors = 6
)

func (c BlockColor) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorIndigo:
		return "indigo"
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// State is a block's position in its lifecycle. Every block is in exactly one
// state; all transitions happen inside a tick, in phase order.
type State uint8

const (
	// StateSpawning is the initial state of a freshly inserted block. It
	// occupies its cell but neither supports neighbors nor matches.
	StateSpawning State = iota

	// StateFixed is a block at rest: supported, matchable, swappable.
	StateFixed

	// StateFloatingPrepare is the anti-thrash window after support is lost.
	// If support returns before the delay elapses the block snaps back to
	// Fixed instead of falling.
	StateFloatingPrepare

	// StateFloating is the last support re-check before the drop begins.
	StateFloating

	// StateFall is a block descending one row per fall interval.
	StateFall

	// StateFixedPrepare is the settle delay after a fall stops; when it
	// elapses the block is Fixed again and match checks may see it.
	StateFixedPrepare

	// StateMove is a swap request accepted but not yet started.
	StateMove

	// StateMoving is a horizontal swap in flight. It always completes.
	StateMoving

	// StateMatched is the telegraph window after match detection; the block
	// still occupies and supports, but accepts no input.
	StateMatched

	// StateDespawning is the clear animation window; when it elapses the
	// block is destroyed and its cell vacated.
	StateDespawning
)

func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateFixed:
		return "fixed"
	case StateFloatingPrepare:
		return "floating-prepare"
	case StateFloating:
		return "floating"
	case StateFall:
		return "fall"
	case StateFixedPrepare:
		return "fixed-prepare"
	case StateMove:
		return "move"
	case StateMoving:
		return "moving"
	case StateMatched:
		return "matched"
	case StateDespawning:
		return "despawning"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Supporting reports whether a block in this state can bear the weight of the
// block above it. Matched and Despawning blocks still support: the stack above
// only starts falling once the cell is actually vacated.
func (s State) Supporting() bool {
	switch s {
	case StateFixed, StateFixedPrepare, StateMatched, StateDespawning:
		return true
	}
	return false
}

// Swappable reports whether a player swap may pick up a block in this state.
func (s State) Swappable() bool {
	return s == StateFixed
}

// Cell is a grid coordinate. Column 0 is the left edge, row 0 is the floor.
type Cell struct {
	Col int
	Row int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Block is the immutable part of a block entity.
type Block struct {
	Color BlockColor
}

// Lifecycle is the mutable state-machine part of a block entity. Ticks counts
// down inside every timed state; Total remembers the full length so observers
// can compute a progress fraction.
type Lifecycle struct {
	State State
	Ticks int
	Total int

	// FromCol is the column a Moving block is leaving; the occupancy index
	// already reflects the destination.
	FromCol int

	// Group is the size of the match group this block cleared with, set on
	// entry to Matched.
	Group int
}

// enter moves the lifecycle into a timed state with the given duration.
func (lc *Lifecycle) enter(s State, ticks int) {
	lc.State = s
	lc.Ticks = ticks
	lc.Total = ticks
}

// rest returns the lifecycle to Fixed and clears transition data.
func (lc *Lifecycle) rest() {
	lc.State = StateFixed
	lc.Ticks = 0
	lc.Total = 0
	lc.FromCol = 0
	lc.Group = 0
}

// ChainTag marks a block left hanging by a despawn below it. A match that
// contains a tagged block was caused by settling, not by direct player input,
// and therefore extends the chain.
type ChainTag struct{}
