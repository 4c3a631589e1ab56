package sim

import (
	"fmt"
	"math/rand"

	"evacsim/internal/cabin"
)

// DefaultTickCap bounds the aisle simulation; a healthy scenario empties a
// 30-row cabin in well under a thousand ticks.
const DefaultTickCap = 100_000

// AisleEngine runs a discrete spatial simulation: one tick per second, one
// aisle cell per row. A passenger advances one row toward its exit when the
// destination cell is free, and leaves the cabin on reaching the exit row.
// The result is the total number of seconds until everyone is out.
type AisleEngine struct {
	// TickCap overrides DefaultTickCap when positive.
	TickCap int
}

func (AisleEngine) Name() string { return "aisle" }

type walker struct {
	row     int
	exitRow int
	out     bool
}

func (e AisleEngine) Simulate(c *cabin.Cabin, rng *rand.Rand) (float64, error) {
	if len(c.Queue) == 0 {
		return 0, ErrEmptyCabin
	}
	limit := e.TickCap
	if limit <= 0 {
		limit = DefaultTickCap
	}

	walkers := make([]walker, len(c.Queue))
	for i, entry := range c.Queue {
		walkers[i] = walker{row: entry.Row, exitRow: entry.Exit}
	}
	// Shuffle so aisle priority is not biased toward front rows.
	rng.Shuffle(len(walkers), func(i, j int) {
		walkers[i], walkers[j] = walkers[j], walkers[i]
	})

	occupied := make([]int, c.Layout.Rows)
	for _, w := range walkers {
		occupied[w.row]++
	}

	remaining := len(walkers)
	ticks := 0
	for remaining > 0 {
		if ticks >= limit {
			return 0, fmt.Errorf("sim: aisle simulation exceeded %d ticks with %d passengers still aboard", limit, remaining)
		}
		for i := range walkers {
			w := &walkers[i]
			if w.out {
				continue
			}
			if w.row == w.exitRow {
				w.out = true
				occupied[w.row]--
				remaining--
				continue
			}
			next := w.row + sign(w.exitRow-w.row)
			if occupied[next] > 0 {
				continue // aisle blocked ahead
			}
			occupied[w.row]--
			occupied[next]++
			w.row = next
		}
		ticks++
	}
	return float64(ticks), nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
