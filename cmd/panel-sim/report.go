package main

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/plus3/panelpop/engine"
	"gonum.org/v1/gonum/stat"
)

// Report accumulates per-event and per-tick observations over a run and
// renders them as a text summary.
type Report struct {
	Width  int
	Height int
	Colors int
	Ticks  int
	Seed   int64

	Spawned        int
	SwapsAttempted int
	SwapsApplied   int

	Matches  int
	Despawns int
	Chains   int
	MaxChain int

	FinalScore  int
	FinalBlocks int

	GroupMean   float64
	GroupStdDev float64
	GroupMax    int

	OccupancyMean float64
	OccupancyMax  int

	ScorePerMatchMean float64

	TickMean time.Duration
	TickMax  time.Duration

	groupSizes  []float64
	matchScores []float64
	occupancy   []float64
	tickTimes   []float64
}

func NewReport(cfg engine.Config, ticks int, seed int64) *Report {
	return &Report{
		Width:  cfg.Width,
		Height: cfg.Height,
		Colors: cfg.Colors,
		Ticks:  ticks,
		Seed:   seed,
	}
}

// Observe records one engine event.
func (r *Report) Observe(ev engine.Event) {
	switch e := ev.(type) {
	case engine.EventMatch:
		r.Matches++
		r.groupSizes = append(r.groupSizes, float64(e.Blocks))
		r.matchScores = append(r.matchScores, float64(e.Score))
		if e.Blocks > r.GroupMax {
			r.GroupMax = e.Blocks
		}
	case engine.EventChain:
		r.Chains++
		if e.Chain > r.MaxChain {
			r.MaxChain = e.Chain
		}
	case engine.EventDespawn:
		r.Despawns++
	}
}

// Sample records per-tick board occupancy and tick duration.
func (r *Report) Sample(field *engine.Playfield, tickTime time.Duration) {
	n := field.BlockCount()
	r.occupancy = append(r.occupancy, float64(n))
	if n > r.OccupancyMax {
		r.OccupancyMax = n
	}
	r.tickTimes = append(r.tickTimes, tickTime.Seconds())
	if tickTime > r.TickMax {
		r.TickMax = tickTime
	}
}

// Finalize computes the aggregate statistics.
func (r *Report) Finalize(field *engine.Playfield) {
	r.FinalScore = field.Score()
	r.FinalBlocks = field.BlockCount()

	if len(r.groupSizes) > 0 {
		r.GroupMean = stat.Mean(r.groupSizes, nil)
		r.GroupStdDev = stat.StdDev(r.groupSizes, nil)
	}
	if len(r.matchScores) > 0 {
		r.ScorePerMatchMean = stat.Mean(r.matchScores, nil)
	}
	if len(r.occupancy) > 0 {
		r.OccupancyMean = stat.Mean(r.occupancy, nil)
	}
	if len(r.tickTimes) > 0 {
		r.TickMean = time.Duration(stat.Mean(r.tickTimes, nil) * float64(time.Second))
	}
}

const reportTemplate = `
# Playfield Simulation Report

## Run Configuration
- **Board:** {{.Width}}x{{.Height}}, {{.Colors}} colors
- **Ticks:** {{.Ticks}}
- **Seed:** {{.Seed}}

## Input
- **Blocks Dealt:** {{.Spawned}}
- **Swaps:** {{.SwapsApplied}}/{{.SwapsAttempted}} applied

## Clears
- **Match Groups:** {{.Matches}}
- **Blocks Cleared:** {{.Despawns}}
- **Group Size:** mean {{printf "%.2f" .GroupMean}}, stddev {{printf "%.2f" .GroupStdDev}}, max {{.GroupMax}}
- **Score Per Group:** mean {{printf "%.1f" .ScorePerMatchMean}}

## Chains
- **Chain Advances:** {{.Chains}}
- **Deepest Chain:** {{.MaxChain}}

## Board
- **Occupancy:** mean {{printf "%.1f" .OccupancyMean}}, max {{.OccupancyMax}}
- **Blocks Remaining:** {{.FinalBlocks}}

## Score
- **Final Score:** {{.FinalScore}}

## Timing
- **Tick Time:** mean {{.TickMean}}, max {{.TickMax}}
`

// Generate renders the report.
func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	return tmpl.Execute(w, r)
}
