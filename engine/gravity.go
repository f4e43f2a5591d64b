package engine

import "github.com/plus3/panelpop/ecs"

// supportAt reports whether a block sitting at (col, row) is held up: either
// by the floor or by a block below in a supporting state. An empty cell below
// never supports, and neither does a block in transit.
func supportAt(storage *ecs.Storage, board *Board, col, row int) bool {
	if row <= 0 {
		return true
	}
	ref := board.At(col, row-1)
	if ref == nil {
		return false
	}
	id, ok := storage.ResolveEntityRef(ref)
	if !ok {
		return false
	}
	life, ok := ecs.ReadComponent[Lifecycle](storage, id)
	if !ok {
		return false
	}
	return life.State.Supporting()
}

// GravitySystem detects lost support and walks blocks through the pre-fall
// states. Columns are scanned floor to ceiling in a single pass, so a block
// entering FloatingPrepare is visible to the block above it within the same
// tick and a whole stack begins falling together.
//
// FloatingPrepare and Floating both re-check support every tick; a block whose
// footing returns snaps straight back to Fixed without ever having moved.
type GravitySystem struct {
	Board  ecs.Singleton[Board]
	Config ecs.Singleton[Config]
}

func (s *GravitySystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	cfg := s.Config.Get()

	for col := 0; col < board.Width; col++ {
		for row := 1; row < board.Height; row++ {
			ref := board.At(col, row)
			if ref == nil {
				continue
			}
			id, ok := frame.Storage.ResolveEntityRef(ref)
			if !ok {
				continue
			}
			life, ok := ecs.ReadComponent[Lifecycle](frame.Storage, id)
			if !ok {
				continue
			}

			switch life.State {
			case StateFixed:
				if !supportAt(frame.Storage, board, col, row) {
					life.enter(StateFloatingPrepare, cfg.FloatTicks)
				}
			case StateFloatingPrepare:
				if supportAt(frame.Storage, board, col, row) {
					life.rest()
					break
				}
				life.Ticks--
				if life.Ticks <= 0 {
					life.State = StateFloating
				}
			case StateFloating:
				if supportAt(frame.Storage, board, col, row) {
					life.rest()
				} else {
					life.enter(StateFall, cfg.FallTicks)
				}
			}
		}
	}
}
