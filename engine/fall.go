package engine

import "github.com/plus3/panelpop/ecs"

// settle parks a landed block in FixedPrepare, or straight in Fixed when the
// settle delay is zero.
func settle(life *Lifecycle, cfg *Config) {
	life.enter(StateFixedPrepare, cfg.SettleTicks)
	if life.Ticks <= 0 {
		life.rest()
	}
}

// FallSystem moves falling blocks down one row per fall interval and settles
// them when they land. Columns are scanned floor to ceiling: a falling block
// vacates its row before the block above it is examined, so a stack descends
// in lockstep without ever colliding.
//
// Landing goes through FixedPrepare rather than straight to Fixed, giving the
// board a settle delay before the block can match or be swapped again.
type FallSystem struct {
	Board  ecs.Singleton[Board]
	Config ecs.Singleton[Config]
}

func (s *FallSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	cfg := s.Config.Get()

	for col := 0; col < board.Width; col++ {
		for row := 0; row < board.Height; row++ {
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
			case StateFall:
				life.Ticks--
				if life.Ticks > 0 {
					break
				}
				if supportAt(frame.Storage, board, col, row) {
					settle(life, cfg)
					break
				}
				if board.Occupied(col, row-1) {
					// A non-supporting block in transit holds the cell
					// below. Hold here and retry next tick.
					life.Ticks = 1
					break
				}
				cell, ok := ecs.ReadComponent[Cell](frame.Storage, id)
				if !ok {
					break
				}
				board.Move(col, row, col, row-1)
				cell.Row = row - 1
				if supportAt(frame.Storage, board, col, row-1) {
					settle(life, cfg)
				} else {
					life.enter(StateFall, cfg.FallTicks)
				}
			case StateFixedPrepare:
				life.Ticks--
				if life.Ticks <= 0 {
					life.rest()
				}
			}
		}
	}
}
