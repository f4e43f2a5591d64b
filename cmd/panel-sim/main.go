// panel-sim drives a playfield with randomized dealing and swapping for a
// fixed number of ticks, then prints a summary report. It exists to soak-test
// the engine and to measure how chains and scores behave under a tuning.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/plus3/panelpop/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML playfield config (defaults apply when empty)")
	ticks := flag.Int("ticks", 20000, "number of simulation ticks to run")
	seed := flag.Int64("seed", 1, "random seed for dealing and swapping")
	spawnEvery := flag.Int("spawn-every", 4, "deal a new block every N ticks")
	swapEvery := flag.Int("swap-every", 3, "attempt a random swap every N ticks")
	compactEvery := flag.Int("compact-every", 1000, "compact component storage every N ticks (0 disables)")
	verbose := flag.Bool("v", false, "log every match, chain, and despawn event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = engine.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	field, err := engine.NewPlayfield(cfg)
	if err != nil {
		slog.Error("creating playfield", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"ticks", *ticks,
		"seed", *seed,
		"board", cfg.Width*cfg.Height,
		"colors", cfg.Colors,
	)

	rng := rand.New(rand.NewSource(*seed))
	report := NewReport(cfg, *ticks, *seed)
	dealer := newDealer(cfg)

	bar := pb.StartNew(*ticks)
	for i := 0; i < *ticks; i++ {
		if *spawnEvery > 0 && i%*spawnEvery == 0 {
			if dealer.deal(rng, field) {
				report.Spawned++
			}
		}
		if *swapEvery > 0 && i%*swapEvery == 0 {
			report.SwapsAttempted++
			if err := field.SwapAt(rng.Intn(cfg.Width-1), rng.Intn(cfg.Height)); err == nil {
				report.SwapsApplied++
			}
		}

		tickStart := time.Now()
		field.Tick()
		tickTime := time.Since(tickStart)

		for _, ev := range field.DrainEvents() {
			report.Observe(ev)
			slog.Debug("event", "tick", field.Ticks(), "detail", ev.String())
		}
		report.Sample(field, tickTime)

		if *compactEvery > 0 && i%*compactEvery == *compactEvery-1 {
			field.Compact()
		}
		bar.Increment()
	}
	bar.Finish()

	if err := field.Validate(); err != nil {
		slog.Error("playfield failed validation after run", "error", err)
		os.Exit(1)
	}

	report.Finalize(field)
	if err := report.Generate(os.Stdout); err != nil {
		slog.Error("writing report", "error", err)
		os.Exit(1)
	}
}

// dealer picks columns and colors for incoming blocks. It refuses to deal a
// color onto a same-colored pair at the top of a column, the same guard a
// riser row uses so the feed itself does not hand out free clears.
type dealer struct {
	cfg engine.Config
}

func newDealer(cfg engine.Config) *dealer {
	return &dealer{cfg: cfg}
}

func (d *dealer) deal(rng *rand.Rand, field *engine.Playfield) bool {
	top := d.cfg.Height - 1

	// Column stacks, highest two blocks per column.
	type pair struct {
		colors [2]engine.BlockColor
		rows   [2]int
	}
	stacks := make([]pair, d.cfg.Width)
	for i := range stacks {
		stacks[i].rows = [2]int{-1, -1}
	}
	topOccupied := make([]bool, d.cfg.Width)
	for _, info := range field.Snapshot() {
		if info.Cell.Row == top {
			topOccupied[info.Cell.Col] = true
		}
		s := &stacks[info.Cell.Col]
		if info.Cell.Row > s.rows[0] {
			s.rows[1], s.colors[1] = s.rows[0], s.colors[0]
			s.rows[0], s.colors[0] = info.Cell.Row, info.Color
		} else if info.Cell.Row > s.rows[1] {
			s.rows[1], s.colors[1] = info.Cell.Row, info.Color
		}
	}

	free := make([]int, 0, d.cfg.Width)
	for col, occupied := range topOccupied {
		if !occupied {
			free = append(free, col)
		}
	}
	if len(free) == 0 {
		return false
	}
	col := free[rng.Intn(len(free))]

	color := engine.BlockColor(rng.Intn(d.cfg.Colors))
	s := stacks[col]
	if s.rows[0] >= 0 && s.rows[1] == s.rows[0]-1 && s.colors[0] == s.colors[1] {
		for color == s.colors[0] {
			color = engine.BlockColor(rng.Intn(d.cfg.Colors))
		}
	}

	if err := field.SpawnBlock(col, color); err != nil {
		slog.Debug("deal rejected", "col", col, "error", err)
		return false
	}
	return true
}
