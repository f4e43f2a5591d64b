package engine

import "github.com/plus3/panelpop/ecs"

type spawnItem struct {
	Life *Lifecycle
}

// SpawnSystem matures freshly inserted blocks. A Spawning block occupies its
// cell from the moment of insertion but does not support, match, or swap
// until its warm-up elapses and it becomes Fixed.
type SpawnSystem struct {
	Blocks ecs.Query[spawnItem]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Blocks.Values() {
		if item.Life.State != StateSpawning {
			continue
		}
		item.Life.Ticks--
		if item.Life.Ticks <= 0 {
			item.Life.rest()
		}
	}
}
