// Package sim contains the evacuation engines and the Monte Carlo runner.
//
// Two engines implement the Engine interface:
//   - queue: per-exit queues with an exit throughput bottleneck and a
//     sampled aisle congestion factor; reports mean seconds per passenger.
//   - aisle: a discrete 1 Hz spatial simulation of passengers stepping
//     along the aisle toward their exits; reports total seconds until the
//     cabin is empty.
//
// Engines are pure functions of a boarded cabin and an RNG, so trials are
// reproducible from a seed.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"evacsim/internal/cabin"
)

// Engine simulates one evacuation of a boarded cabin and returns a time
// in seconds. The meaning of the figure (mean per passenger vs. total)
// depends on the engine.
type Engine interface {
	Name() string
	Simulate(c *cabin.Cabin, rng *rand.Rand) (float64, error)
}

// ErrEmptyCabin is returned when a trial boards zero passengers, which can
// happen at very low occupancy rates on small layouts.
var ErrEmptyCabin = errors.New("sim: no passengers boarded")

// EngineFor resolves an engine by its configured name.
func EngineFor(name string) (Engine, error) {
	switch name {
	case "queue", "":
		return QueueEngine{}, nil
	case "aisle":
		return AisleEngine{}, nil
	default:
		return nil, fmt.Errorf("sim: unknown engine %q (want queue or aisle)", name)
	}
}
