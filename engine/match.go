package engine

import (
	"reflect"

	"github.com/plus3/panelpop/ecs"
)

var chainTagType = reflect.TypeOf(ChainTag{})

// MatchSystem scans the board for runs of three or more same-colored Fixed
// blocks, horizontally and vertically, and retires every block of every run
// into Matched atomically. Runs that cross (an L or T of the same color) are
// unioned into one group and scored once.
//
// The chain counter advances at most once per tick: if any matched block
// carries a ChainTag the whole detection was caused by settling, so the
// cascade deepens by one regardless of how many groups cleared together.
// Tags on blocks that stayed Fixed are stripped, ending their chain
// eligibility.
type MatchSystem struct {
	Board  ecs.Singleton[Board]
	Config ecs.Singleton[Config]
	Chain  ecs.Singleton[ChainState]
	Events ecs.Singleton[EventQueue]
}

func (s *MatchSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	cfg := s.Config.Get()

	w, h := board.Width, board.Height
	ids := make([]ecs.EntityId, w*h)
	colors := make([]BlockColor, w*h)
	fixed := make([]bool, w*h)

	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			ref := board.At(col, row)
			if ref == nil {
				continue
			}
			id, ok := frame.Storage.ResolveEntityRef(ref)
			if !ok {
				continue
			}
			life, ok := ecs.ReadComponent[Lifecycle](frame.Storage, id)
			if !ok || life.State != StateFixed {
				continue
			}
			block, ok := ecs.ReadComponent[Block](frame.Storage, id)
			if !ok {
				continue
			}
			i := row*w + col
			ids[i] = id
			colors[i] = block.Color
			fixed[i] = true
		}
	}

	marked := markRuns(w, h, fixed, colors)
	groups := groupRuns(w, h, marked, colors)

	if len(groups) > 0 {
		chain := s.Chain.Get()
		events := s.Events.Get()

		chained := false
		for _, group := range groups {
			for _, i := range group {
				if frame.Storage.HasComponent(ids[i], chainTagType) {
					chained = true
				}
			}
		}
		if chained {
			chain.Chain++
			events.Emit(EventChain{Chain: chain.Chain})
		}

		delta := 0
		for _, group := range groups {
			score := len(group) * cfg.BaseScore * cfg.bonusFor(chain.Chain)
			delta += score
			for _, i := range group {
				life, ok := ecs.ReadComponent[Lifecycle](frame.Storage, ids[i])
				if !ok {
					continue
				}
				life.enter(StateMatched, cfg.MatchTicks)
				life.Group = len(group)
			}
			events.Emit(EventMatch{Blocks: len(group), Chain: chain.Chain, Score: score})
		}
		chain.Score += delta
		chain.LastDelta = delta
	}

	// A tagged block that came to rest without matching loses its tag; it
	// can no longer extend the chain.
	for i := range fixed {
		if !fixed[i] || marked[i] {
			continue
		}
		if frame.Storage.HasComponent(ids[i], chainTagType) {
			frame.Commands.RemoveComponent(ids[i], chainTagType)
		}
	}
}

// markRuns flags every cell that belongs to a horizontal or vertical run of
// three or more same-colored fixed blocks.
func markRuns(w, h int, fixed []bool, colors []BlockColor) []bool {
	marked := make([]bool, w*h)

	for row := 0; row < h; row++ {
		runStart := 0
		for col := 1; col <= w; col++ {
			i := row*w + col
			prev := row*w + col - 1
			if col < w && fixed[i] && fixed[prev] && colors[i] == colors[prev] {
				continue
			}
			if fixed[prev] && col-runStart >= 3 {
				for c := runStart; c < col; c++ {
					marked[row*w+c] = true
				}
			}
			runStart = col
		}
	}

	for col := 0; col < w; col++ {
		runStart := 0
		for row := 1; row <= h; row++ {
			i := row*w + col
			prev := (row-1)*w + col
			if row < h && fixed[i] && fixed[prev] && colors[i] == colors[prev] {
				continue
			}
			if fixed[prev] && row-runStart >= 3 {
				for r := runStart; r < row; r++ {
					marked[r*w+col] = true
				}
			}
			runStart = row
		}
	}

	return marked
}

// groupRuns unions marked cells into connected same-color groups via flood
// fill over 4-neighborhoods.
func groupRuns(w, h int, marked []bool, colors []BlockColor) [][]int {
	var groups [][]int
	visited := make([]bool, w*h)

	for start := range marked {
		if !marked[start] || visited[start] {
			continue
		}
		visited[start] = true
		group := []int{start}
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			col, row := i%w, i/w
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ncol, nrow := col+d[0], row+d[1]
				if ncol < 0 || ncol >= w || nrow < 0 || nrow >= h {
					continue
				}
				j := nrow*w + ncol
				if !marked[j] || visited[j] || colors[j] != colors[i] {
					continue
				}
				visited[j] = true
				group = append(group, j)
				stack = append(stack, j)
			}
		}
		groups = append(groups, group)
	}

	return groups
}
