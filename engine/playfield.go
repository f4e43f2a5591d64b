package engine

import (
	"errors"
	"fmt"

	"github.com/plus3/panelpop/ecs"
)

var (
	// ErrOutOfBounds is returned for a cell outside the board.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrCellOccupied is returned when a spawn targets an occupied cell.
	ErrCellOccupied = errors.New("cell already occupied")

	// ErrNotSwappable is returned when a swap touches a block in transit, or
	// two empty cells.
	ErrNotSwappable = errors.New("no block in a swappable state")

	// ErrInvalidColor is returned for a color outside the configured palette.
	ErrInvalidColor = errors.New("color outside configured palette")
)

// Playfield is the public face of the simulation: it owns the ECS world, the
// occupancy index, and the phase schedule, and advances everything one tick at
// a time. All methods must be called from a single goroutine; the engine does
// no locking of its own.
type Playfield struct {
	cfg       Config
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	board  *ecs.Singleton[Board]
	chain  *ecs.Singleton[ChainState]
	events *ecs.Singleton[EventQueue]

	blocks *ecs.View[blockView]
	ticks  uint64
}

type blockView struct {
	Id    ecs.EntityId
	Block *Block
	Cell  *Cell
	Life  *Lifecycle
}

// BlockInfo is a read-only snapshot of one block.
type BlockInfo struct {
	Id    ecs.EntityId
	Color BlockColor
	State State
	Cell  Cell

	// FromCol is the origin column while State is Moving.
	FromCol int

	// Progress is how far the current timed state has advanced, in [0,1].
	Progress float64
}

// NewPlayfield builds an empty playfield from the config.
func NewPlayfield(cfg Config) (*Playfield, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Block](registry)
	ecs.RegisterComponent[Cell](registry)
	ecs.RegisterComponent[Lifecycle](registry)
	ecs.RegisterComponent[ChainTag](registry)

	storage := ecs.NewStorage(registry)
	storage.AddSingleton(cfg)
	storage.AddSingleton(NewBoard(cfg.Width, cfg.Height))
	storage.AddSingleton(ChainState{})
	storage.AddSingleton(EventQueue{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&SwapSystem{})
	scheduler.Register(&SpawnSystem{})
	scheduler.Register(&GravitySystem{})
	scheduler.Register(&FallSystem{})
	scheduler.Register(&MatchSystem{})
	scheduler.Register(&DespawnSystem{})
	scheduler.Register(&SettleSystem{})

	return &Playfield{
		cfg:       cfg,
		storage:   storage,
		scheduler: scheduler,
		board:     ecs.NewSingleton[Board](storage),
		chain:     ecs.NewSingleton[ChainState](storage),
		events:    ecs.NewSingleton[EventQueue](storage),
		blocks:    ecs.NewView[blockView](storage),
	}, nil
}

// Config returns the config the playfield was built with.
func (p *Playfield) Config() Config {
	return p.cfg
}

// Tick advances the simulation by one step: swaps progress, spawns mature,
// gravity resolves, falls advance, matches clear, despawns complete, and the
// chain counter settles, in that order.
func (p *Playfield) Tick() {
	p.ticks++
	p.scheduler.Once(1)
}

// Ticks returns the number of ticks run so far.
func (p *Playfield) Ticks() uint64 {
	return p.ticks
}

// SpawnBlock inserts a block at the top row of the column. The block occupies
// its cell immediately but stays inert until its spawn warm-up elapses.
func (p *Playfield) SpawnBlock(col int, color BlockColor) error {
	return p.SpawnBlockAt(col, p.cfg.Height-1, color)
}

// SpawnBlockAt inserts a block at an arbitrary empty cell. Useful for setting
// up board states; normal play feeds blocks in at the top row.
func (p *Playfield) SpawnBlockAt(col, row int, color BlockColor) error {
	board := p.board.Get()
	if !board.InBounds(col, row) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, col, row)
	}
	if int(color) >= p.cfg.Colors {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}
	if board.Occupied(col, row) {
		return fmt.Errorf("%w: (%d,%d)", ErrCellOccupied, col, row)
	}

	life := Lifecycle{State: StateSpawning, Ticks: p.cfg.SpawnTicks, Total: p.cfg.SpawnTicks}
	if life.Ticks <= 0 {
		life = Lifecycle{State: StateFixed}
	}

	id := p.storage.Spawn(
		Block{Color: color},
		Cell{Col: col, Row: row},
		life,
	)
	board.Place(col, row, p.storage.CreateEntityRef(id))
	return nil
}

// SwapAt exchanges the contents of (col, row) and (col+1, row). Either cell
// may be empty, but not both, and any block involved must be Fixed. The
// occupancy index swaps immediately; the blocks spend the swap window in
// Moving before they are Fixed again.
func (p *Playfield) SwapAt(col, row int) error {
	board := p.board.Get()
	if !board.InBounds(col, row) || !board.InBounds(col+1, row) {
		return fmt.Errorf("%w: (%d,%d)-(%d,%d)", ErrOutOfBounds, col, row, col+1, row)
	}

	left := board.At(col, row)
	right := board.At(col+1, row)
	if left == nil && right == nil {
		return fmt.Errorf("%w: both cells empty at (%d,%d)", ErrNotSwappable, col, row)
	}

	leftView, err := p.swappable(left)
	if err != nil {
		return err
	}
	rightView, err := p.swappable(right)
	if err != nil {
		return err
	}

	board.Exchange(col, row, col+1, row)
	if leftView != nil {
		leftView.Life.State = StateMove
		leftView.Life.FromCol = col
		leftView.Cell.Col = col + 1
	}
	if rightView != nil {
		rightView.Life.State = StateMove
		rightView.Life.FromCol = col + 1
		rightView.Cell.Col = col
	}
	return nil
}

// swappable resolves a cell occupant and checks it can be picked up by a
// swap. An empty cell yields nil, nil.
func (p *Playfield) swappable(ref *ecs.EntityRef) (*blockView, error) {
	if ref == nil {
		return nil, nil
	}
	view := p.blocks.GetRef(ref)
	if view == nil {
		return nil, fmt.Errorf("%w: stale block reference", ErrNotSwappable)
	}
	if !view.Life.State.Swappable() {
		return nil, fmt.Errorf("%w: block at %s is %s", ErrNotSwappable, view.Cell, view.Life.State)
	}
	return view, nil
}

// Snapshot returns the current state of every block. Order is unspecified.
func (p *Playfield) Snapshot() []BlockInfo {
	out := make([]BlockInfo, 0, p.board.Get().Count())
	for _, item := range p.blocks.Iter() {
		info := BlockInfo{
			Id:      item.Id,
			Color:   item.Block.Color,
			State:   item.Life.State,
			Cell:    *item.Cell,
			FromCol: item.Life.FromCol,
		}
		if item.Life.Total > 0 {
			info.Progress = float64(item.Life.Total-item.Life.Ticks) / float64(item.Life.Total)
			if info.Progress < 0 {
				info.Progress = 0
			}
			if info.Progress > 1 {
				info.Progress = 1
			}
		}
		out = append(out, info)
	}
	return out
}

// DrainEvents returns all events emitted since the previous drain.
func (p *Playfield) DrainEvents() []Event {
	return p.events.Get().Drain()
}

// Score returns the accumulated score.
func (p *Playfield) Score() int {
	return p.chain.Get().Score
}

// ChainCount returns the current chain depth; 0 while the board is quiet.
func (p *Playfield) ChainCount() int {
	return p.chain.Get().Chain
}

// Settled reports whether every block on the board is Fixed. An empty board
// is settled. Once settled, the board stays unchanged until the next
// SpawnBlock or SwapAt.
func (p *Playfield) Settled() bool {
	for item := range p.blocks.Values() {
		if item.Life.State != StateFixed {
			return false
		}
	}
	return true
}

// BlockCount returns the number of live blocks.
func (p *Playfield) BlockCount() int {
	return p.board.Get().Count()
}

// Compact defragments component storage. Safe between ticks only.
func (p *Playfield) Compact() {
	p.storage.Compact()
}

// Stats returns per-system execution timings.
func (p *Playfield) Stats() *ecs.SchedulerStats {
	return p.scheduler.GetStats()
}

// Validate cross-checks the occupancy index against block components: every
// occupied cell must hold a live block whose Cell points back at it, and every
// block must sit in exactly the cell the index says. Intended for tests and
// debugging.
func (p *Playfield) Validate() error {
	board := p.board.Get()

	indexed := 0
	for col := 0; col < board.Width; col++ {
		for row := 0; row < board.Height; row++ {
			ref := board.At(col, row)
			if ref == nil {
				continue
			}
			indexed++
			view := p.blocks.GetRef(ref)
			if view == nil {
				return fmt.Errorf("board cell (%d,%d) holds a dead reference", col, row)
			}
			if view.Cell.Col != col || view.Cell.Row != row {
				return fmt.Errorf("board cell (%d,%d) holds block that thinks it is at %s", col, row, view.Cell)
			}
		}
	}

	live := 0
	for _, item := range p.blocks.Iter() {
		live++
		if !board.Occupied(item.Cell.Col, item.Cell.Row) {
			return fmt.Errorf("block at %s missing from the occupancy index", item.Cell)
		}
	}
	if live != indexed {
		return fmt.Errorf("occupancy index holds %d blocks, storage holds %d", indexed, live)
	}
	return nil
}
