package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"evacsim/internal/cabin"
)

func queueCabin(exits []int, rows int, entries []cabin.QueueEntry) *cabin.Cabin {
	return &cabin.Cabin{
		Layout: cabin.Layout{Rows: rows, SeatsPerRow: 6, Exits: exits},
		Params: cabin.DefaultParams(),
		Queue:  entries,
	}
}

func TestQueueEngine_EmptyCabin(t *testing.T) {
	_, err := QueueEngine{}.Simulate(queueCabin([]int{0}, 10, nil), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrEmptyCabin) {
		t.Fatalf("expected ErrEmptyCabin, got %v", err)
	}
}

func TestQueueEngine_SinglePassenger(t *testing.T) {
	c := queueCabin([]int{0}, 10, []cabin.QueueEntry{{Row: 4, Exit: 0, Time: 6}})

	got, err := QueueEngine{}.Simulate(c, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	// Same congestion draw as the engine makes.
	congestion := 1 + rand.New(rand.NewSource(5)).Float64()*0.5
	want := 6 * congestion
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Simulate() = %g, want %g", got, want)
	}
}

func TestQueueEngine_Bottleneck(t *testing.T) {
	// Two passengers at one exit: the second is held until three seconds
	// after the first one's raw time.
	c := queueCabin([]int{0}, 10, []cabin.QueueEntry{
		{Row: 1, Exit: 0, Time: 5},
		{Row: 2, Exit: 0, Time: 1},
	})

	got, err := QueueEngine{}.Simulate(c, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	congestion := 1 + rand.New(rand.NewSource(3)).Float64()*0.5
	first := 5 * congestion
	second := math.Max(first, 5+exitSpacing)
	want := (first + second) / 2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Simulate() = %g, want %g", got, want)
	}
}

func TestQueueEngine_RepeatedExitRowCountsOnce(t *testing.T) {
	// A duplicated exit row must not drain its queue twice and double the
	// mean.
	unique := queueCabin([]int{0}, 10, []cabin.QueueEntry{{Row: 4, Exit: 0, Time: 6}})
	dup := queueCabin([]int{0, 0}, 10, []cabin.QueueEntry{{Row: 4, Exit: 0, Time: 6}})

	uniqueTime, err := QueueEngine{}.Simulate(unique, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	dupTime, err := QueueEngine{}.Simulate(dup, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if math.Abs(uniqueTime-dupTime) > 1e-9 {
		t.Errorf("repeated exit row changed the mean: unique=%g dup=%g", uniqueTime, dupTime)
	}
}

func TestQueueEngine_DoorOpeningPenalty(t *testing.T) {
	entries := []cabin.QueueEntry{{Row: 15, Exit: 15, Time: 4}}

	interior := queueCabin([]int{15}, 30, entries)
	ends := queueCabin([]int{0}, 30, []cabin.QueueEntry{{Row: 15, Exit: 0, Time: 4}})

	withDoor, err := QueueEngine{}.Simulate(interior, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	withoutDoor, err := QueueEngine{}.Simulate(ends, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	diff := withDoor - withoutDoor
	if math.Abs(diff-interior.Params.DoorOpeningTime) > 1e-9 {
		t.Errorf("interior exit should add the %.0fs door penalty, got diff %g",
			interior.Params.DoorOpeningTime, diff)
	}
}

func TestQueueEngine_MoreExitsFaster(t *testing.T) {
	meanFor := func(exits []int) float64 {
		sum := 0.0
		const trials = 200
		for seed := int64(0); seed < trials; seed++ {
			rng := rand.New(rand.NewSource(seed))
			c, err := cabin.New(cabin.Layout{Rows: 30, SeatsPerRow: 6, Exits: exits},
				cabin.DefaultParams(), rng)
			if err != nil {
				t.Fatalf("cabin.New failed: %v", err)
			}
			v, err := QueueEngine{}.Simulate(c, rng)
			if err != nil {
				t.Fatalf("Simulate failed: %v", err)
			}
			sum += v
		}
		return sum / trials
	}

	three := meanFor([]int{0, 15, 29})
	two := meanFor([]int{0, 29})
	one := meanFor([]int{0})

	if three >= two {
		t.Errorf("three exits (%.2f) should beat two (%.2f)", three, two)
	}
	if two >= one {
		t.Errorf("two exits (%.2f) should beat one (%.2f)", two, one)
	}
}
