package sim

import (
	"math/rand"

	"evacsim/internal/cabin"
)

// exitSpacing is the minimum headway at an exit door: one passenger clears
// it at most every three seconds.
const exitSpacing = 3.0

// QueueEngine models the evacuation as independent queues draining through
// each exit. Passengers keep seating order within their exit queue; a
// trial-wide congestion factor in [1,1.5) stretches individual times, and
// the exit bottleneck holds each passenger until three seconds after the
// one ahead. The result is the mean evacuation time per passenger, with the
// door-opening penalty added once when an interior exit is in use.
type QueueEngine struct{}

func (QueueEngine) Name() string { return "queue" }

func (QueueEngine) Simulate(c *cabin.Cabin, rng *rand.Rand) (float64, error) {
	if len(c.Queue) == 0 {
		return 0, ErrEmptyCabin
	}

	queues := make(map[int][]cabin.QueueEntry, len(c.Layout.Exits))
	for _, e := range c.Layout.Exits {
		queues[e] = nil
	}
	for _, entry := range c.Queue {
		queues[entry.Exit] = append(queues[entry.Exit], entry)
	}

	congestion := 1 + rng.Float64()*0.5

	total := 0.0
	drained := make(map[int]bool, len(c.Layout.Exits))
	for _, exit := range c.Layout.Exits {
		// A repeated exit row is still one door; draining its queue twice
		// would inflate the mean.
		if drained[exit] {
			continue
		}
		drained[exit] = true
		queue := queues[exit]
		clearTime := 0.0
		for i, entry := range queue {
			t := entry.Time * congestion
			if i > 0 {
				if prev := queue[i-1].Time + exitSpacing; prev > clearTime {
					clearTime = prev
				}
			} else {
				clearTime = t
			}
			total += clearTime
		}
	}

	if c.HasInteriorExit() {
		total += c.Params.DoorOpeningTime
	}

	return total / float64(len(c.Queue)), nil
}
