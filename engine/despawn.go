package engine

import "github.com/plus3/panelpop/ecs"

// DespawnSystem walks matched blocks through the clear window and destroys
// them. When a cell is vacated, every block in the contiguous stack directly
// above it gets a ChainTag: if one of them later matches after settling, the
// match extends the chain instead of starting a fresh one.
//
// Deletion and tagging go through the command buffer and apply after the
// tick's last system, so every system this tick sees a consistent board.
// The occupancy index is vacated immediately; gravity only reacts next tick,
// after the entity is really gone.
type DespawnSystem struct {
	Board  ecs.Singleton[Board]
	Config ecs.Singleton[Config]
	Events ecs.Singleton[EventQueue]
}

func (s *DespawnSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	cfg := s.Config.Get()
	events := s.Events.Get()

	tagged := make(map[ecs.EntityId]bool)

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
			case StateMatched:
				life.Ticks--
				if life.Ticks <= 0 {
					life.enter(StateDespawning, cfg.DespawnTicks+cfg.DespawnTicksPerBlock*life.Group)
				}
			case StateDespawning:
				life.Ticks--
				if life.Ticks > 0 {
					break
				}
				block, _ := ecs.ReadComponent[Block](frame.Storage, id)
				board.Vacate(col, row)
				frame.Commands.Delete(id)
				if block != nil {
					events.Emit(EventDespawn{Cell: Cell{Col: col, Row: row}, Color: block.Color})
				}
				s.tagStackAbove(frame, board, col, row, tagged)
			}
		}
	}
}

// tagStackAbove marks the contiguous run of blocks above a vacated cell as
// chain-eligible. The walk stops at the first gap. Members of the same clear
// group above are skipped; they are being deleted this tick anyway.
func (s *DespawnSystem) tagStackAbove(frame *ecs.UpdateFrame, board *Board, col, row int, tagged map[ecs.EntityId]bool) {
	for r := row + 1; r < board.Height; r++ {
		ref := board.At(col, r)
		if ref == nil {
			return
		}
		id, ok := frame.Storage.ResolveEntityRef(ref)
		if !ok {
			return
		}
		life, ok := ecs.ReadComponent[Lifecycle](frame.Storage, id)
		if !ok {
			return
		}
		if life.State == StateDespawning || life.State == StateMatched {
			continue
		}
		if tagged[id] || frame.Storage.HasComponent(id, chainTagType) {
			continue
		}
		tagged[id] = true
		frame.Commands.AddComponent(id, ChainTag{})
	}
}
