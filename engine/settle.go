package engine

import "github.com/plus3/panelpop/ecs"

type settleItem struct {
	Life *Lifecycle
}

// SettleSystem resets the chain counter once the board is fully at rest. The
// counter holds its value through an in-flight cascade (falling, matched, and
// despawning blocks all count as activity) and drops to zero only when every
// block is Fixed.
type SettleSystem struct {
	Blocks ecs.Query[settleItem]
	Chain  ecs.Singleton[ChainState]
}

func (s *SettleSystem) Execute(frame *ecs.UpdateFrame) {
	chain := s.Chain.Get()
	if chain.Chain == 0 {
		return
	}
	for item := range s.Blocks.Values() {
		if item.Life.State != StateFixed {
			return
		}
	}
	chain.Chain = 0
}
