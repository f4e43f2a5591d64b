package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid builds fixed/colors arrays from rows of runes, top row first.
// '.' is empty; any other rune is a color keyed by the rune itself.
func grid(rows ...string) (w, h int, fixed []bool, colors []BlockColor) {
	h = len(rows)
	w = len(rows[0])
	fixed = make([]bool, w*h)
	colors = make([]BlockColor, w*h)
	for i, line := range rows {
		row := h - 1 - i
		for col, r := range line {
			if r == '.' {
				continue
			}
			fixed[row*w+col] = true
			colors[row*w+col] = BlockColor(r % NumColors)
		}
	}
	return w, h, fixed, colors
}

func markedCount(marked []bool) int {
	n := 0
	for _, m := range marked {
		if m {
			n++
		}
	}
	return n
}

func TestMarkRunsHorizontal(t *testing.T) {
	w, h, fixed, colors := grid(
		"......",
		"RRR...",
	)
	marked := markRuns(w, h, fixed, colors)
	assert.Equal(t, 3, markedCount(marked))
	for col := 0; col < 3; col++ {
		assert.True(t, marked[col], "col %d must be marked", col)
	}
}

func TestMarkRunsVertical(t *testing.T) {
	w, h, fixed, colors := grid(
		"B.....",
		"B.....",
		"B.....",
	)
	marked := markRuns(w, h, fixed, colors)
	assert.Equal(t, 3, markedCount(marked))
}

func TestMarkRunsIgnoresShortAndMixedRuns(t *testing.T) {
	w, h, fixed, colors := grid(
		"......",
		"RRGRR.",
	)
	marked := markRuns(w, h, fixed, colors)
	assert.Equal(t, 0, markedCount(marked))
}

func TestMarkRunsGapBreaksRun(t *testing.T) {
	w, h, fixed, colors := grid(
		"......",
		"RR.RRR",
	)
	marked := markRuns(w, h, fixed, colors)
	assert.Equal(t, 3, markedCount(marked))
	assert.False(t, marked[0])
	assert.False(t, marked[1])
	for col := 3; col < 6; col++ {
		assert.True(t, marked[col])
	}
}

func TestMarkRunsLongRun(t *testing.T) {
	w, h, fixed, colors := grid(
		"......",
		"YYYYY.",
	)
	marked := markRuns(w, h, fixed, colors)
	assert.Equal(t, 5, markedCount(marked))
}

func TestGroupRunsUnionsCrossingRuns(t *testing.T) {
	// An L of one color: horizontal and vertical runs share the corner.
	w, h, fixed, colors := grid(
		"..G...",
		"..G...",
		"GGG...",
	)
	marked := markRuns(w, h, fixed, colors)
	require.Equal(t, 5, markedCount(marked))

	groups := groupRuns(w, h, marked, colors)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 5)
}

func TestGroupRunsKeepsColorsSeparate(t *testing.T) {
	// Two touching runs of different colors stay two groups.
	w, h, fixed, colors := grid(
		"RRR...",
		"GGG...",
	)
	marked := markRuns(w, h, fixed, colors)
	require.Equal(t, 6, markedCount(marked))

	groups := groupRuns(w, h, marked, colors)
	assert.Len(t, groups, 2)
}

func TestGroupRunsDistantSameColor(t *testing.T) {
	w, h, fixed, colors := grid(
		"RRR.RRR",
	)
	marked := markRuns(w, h, fixed, colors)
	groups := groupRuns(w, h, marked, colors)
	assert.Len(t, groups, 2)
}
