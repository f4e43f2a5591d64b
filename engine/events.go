package engine

import "fmt"

// Event is a notable simulation occurrence, collected during a tick and
// drained by the caller. The engine emits events instead of calling back into
// the host so ticks stay pure.
type Event interface {
	fmt.Stringer
	event()
}

// EventMatch is emitted once per match group, at the tick the group is
// detected.
type EventMatch struct {
	Blocks int
	Chain  int
	Score  int
}

func (e EventMatch) event() {}

func (e EventMatch) String() string {
	return fmt.Sprintf("match: %d blocks, chain %d, +%d", e.Blocks, e.Chain, e.Score)
}

// EventChain is emitted when the chain counter advances.
type EventChain struct {
	Chain int
}

func (e EventChain) event() {}

func (e EventChain) String() string {
	return fmt.Sprintf("chain: x%d", e.Chain)
}

// EventDespawn is emitted for each block at the moment it is destroyed.
type EventDespawn struct {
	Cell  Cell
	Color BlockColor
}

func (e EventDespawn) event() {}

func (e EventDespawn) String() string {
	return fmt.Sprintf("despawn: %s at %s", e.Color, e.Cell)
}

// EventQueue is the singleton event collector for the current tick window.
type EventQueue struct {
	Events []Event
}

// Emit appends an event.
func (q *EventQueue) Emit(e Event) {
	q.Events = append(q.Events, e)
}

// Drain returns all pending events and resets the queue.
func (q *EventQueue) Drain() []Event {
	out := q.Events
	q.Events = nil
	return out
}

// ChainState is the singleton chain counter and score accumulator. Chain is 0
// while the board is quiet; the first settle-caused match raises it to 1 and
// every further cascade match raises it again. SettleSystem resets it once
// every block is at rest.
type ChainState struct {
	Chain int
	Score int

	// LastDelta is the total score awarded by the most recent tick that
	// scored anything.
	LastDelta int
}
