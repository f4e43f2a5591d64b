package engine

import "github.com/plus3/panelpop/ecs"

type swapItem struct {
	Life *Lifecycle
}

// SwapSystem drives accepted swaps to completion. A block enters Move when
// Playfield.SwapAt accepts the request (the occupancy index is already
// exchanged at that point); this system starts the travel window and lands
// the block as Fixed when it closes. A swap in flight never aborts.
type SwapSystem struct {
	Blocks ecs.Query[swapItem]
	Config ecs.Singleton[Config]
}

func (s *SwapSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()

	for item := range s.Blocks.Values() {
		switch item.Life.State {
		case StateMove:
			item.Life.enter(StateMoving, cfg.SwapTicks)
			if item.Life.Ticks <= 0 {
				item.Life.rest()
			}
		case StateMoving:
			item.Life.Ticks--
			if item.Life.Ticks <= 0 {
				item.Life.rest()
			}
		}
	}
}
