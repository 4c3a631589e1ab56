// Package cabin models the aircraft cabin: rows of seats, exit placement,
// and the stochastic passenger population that boards it. A Cabin is built
// once per simulation trial from a Layout and Params; the evacuation engines
// in internal/sim consume the boarded queue.
package cabin

import (
	"fmt"
	"math/rand"
)

// PremiumRows is the number of rows at the front of the cabin with reduced
// seat count and their own speed factor.
const PremiumRows = 3

// Layout describes the cabin geometry.
type Layout struct {
	// Rows is the number of seat rows, front to back.
	Rows int
	// SeatsPerRow is the seat count for non-premium rows.
	SeatsPerRow int
	// Exits holds the row indices of usable exits, ascending.
	Exits []int
}

// Params holds the behavioral knobs of a scenario.
type Params struct {
	// PremiumSpeedFactor scales movement time for the first PremiumRows rows.
	PremiumSpeedFactor float64
	// DoorOpeningTime is the one-off penalty (seconds) for opening an
	// interior exit door.
	DoorOpeningTime float64
	// ProportionElderly is the probability a boarded passenger is elderly.
	ProportionElderly float64
	// ElderlyFrontBias is the probability an elderly passenger is re-seated
	// into the first PremiumRows rows.
	ElderlyFrontBias float64
	// EmergencyLevel in [0,1] scales panic, baggage handling and urgency.
	EmergencyLevel float64
	// OccupancyRate in (0,1] is the probability each seat is occupied.
	OccupancyRate float64
}

// DefaultParams returns the baseline scenario parameters.
func DefaultParams() Params {
	return Params{
		PremiumSpeedFactor: 0.8,
		DoorOpeningTime:    2,
		ProportionElderly:  0.3,
		ElderlyFrontBias:   0.7,
		EmergencyLevel:     1.0,
		OccupancyRate:      1.0,
	}
}

// Validate checks layout geometry.
func (l Layout) Validate() error {
	if l.Rows <= 0 {
		return fmt.Errorf("layout: rows must be positive, got %d", l.Rows)
	}
	if l.SeatsPerRow <= 0 {
		return fmt.Errorf("layout: seats_per_row must be positive, got %d", l.SeatsPerRow)
	}
	if len(l.Exits) == 0 {
		return fmt.Errorf("layout: at least one exit is required")
	}
	seen := make(map[int]bool, len(l.Exits))
	for _, e := range l.Exits {
		if e < 0 || e >= l.Rows {
			return fmt.Errorf("layout: exit row %d outside cabin of %d rows", e, l.Rows)
		}
		if seen[e] {
			return fmt.Errorf("layout: duplicate exit row %d", e)
		}
		seen[e] = true
	}
	return nil
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	check := func(name string, v, lo, hi float64) error {
		if v < lo || v > hi {
			return fmt.Errorf("params: %s must be in [%g,%g], got %g", name, lo, hi, v)
		}
		return nil
	}
	if p.PremiumSpeedFactor <= 0 {
		return fmt.Errorf("params: premium_speed_factor must be positive, got %g", p.PremiumSpeedFactor)
	}
	if p.DoorOpeningTime < 0 {
		return fmt.Errorf("params: door_opening_time must not be negative, got %g", p.DoorOpeningTime)
	}
	if err := check("proportion_elderly", p.ProportionElderly, 0, 1); err != nil {
		return err
	}
	if err := check("elderly_front_bias", p.ElderlyFrontBias, 0, 1); err != nil {
		return err
	}
	if err := check("emergency_level", p.EmergencyLevel, 0, 1); err != nil {
		return err
	}
	if p.OccupancyRate <= 0 || p.OccupancyRate > 1 {
		return fmt.Errorf("params: occupancy_rate must be in (0,1], got %g", p.OccupancyRate)
	}
	return nil
}

// Seat is a single seat, possibly occupied.
type Seat struct {
	Row         int
	SpeedFactor float64
	ExitRow     int
	Passenger   *Passenger // nil when unoccupied
}

// Row is one seat row.
type Row struct {
	Index       int
	SpeedFactor float64
	Seats       []Seat
}

// QueueEntry is one boarded passenger's position in the evacuation queue:
// the row it evacuates from, the exit it heads for, and its individual
// evacuation time.
type QueueEntry struct {
	Row  int
	Exit int
	Time float64
}

// Cabin is a fully boarded aircraft for one trial.
type Cabin struct {
	Layout Layout
	Params Params
	Rows   []Row
	// Queue lists boarded passengers in seating order (front to back).
	Queue []QueueEntry
}

// New builds the cabin geometry and boards passengers using rng.
// The first PremiumRows rows get 2 seats and the premium speed factor;
// every seat is assigned its nearest exit.
func New(layout Layout, params Params, rng *rand.Rand) (*Cabin, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c := &Cabin{
		Layout: layout,
		Params: params,
		Rows:   make([]Row, 0, layout.Rows),
	}
	for idx := 0; idx < layout.Rows; idx++ {
		seats := layout.SeatsPerRow
		factor := 1.0
		if idx < PremiumRows {
			seats = 2
			factor = params.PremiumSpeedFactor
		}
		row := Row{Index: idx, SpeedFactor: factor}
		exit := NearestExit(idx, layout.Exits)
		for s := 0; s < seats; s++ {
			row.Seats = append(row.Seats, Seat{Row: idx, SpeedFactor: factor, ExitRow: exit})
		}
		c.Rows = append(c.Rows, row)
	}

	c.board(rng)
	return c, nil
}

// board fills seats according to the occupancy rate and generates each
// passenger's attributes. Elderly passengers are re-seated toward the front
// with probability ElderlyFrontBias; the queue entry uses the re-seated row.
func (c *Cabin) board(rng *rand.Rand) {
	for ri := range c.Rows {
		row := &c.Rows[ri]
		for si := range row.Seats {
			if rng.Float64() > c.Params.OccupancyRate {
				continue
			}
			age := AgeYoung
			if rng.Float64() < c.Params.ProportionElderly {
				age = AgeElderly
			}
			effRow := row.Index
			if age == AgeElderly && rng.Float64() < c.Params.ElderlyFrontBias {
				if effRow > PremiumRows-1 {
					effRow = PremiumRows - 1
				}
			}

			seat := &row.Seats[si]
			p := newPassenger(rng, effRow, seat.SpeedFactor, seat.ExitRow, age, c.Params.EmergencyLevel)
			seat.Passenger = p
			c.Queue = append(c.Queue, QueueEntry{
				Row:  effRow,
				Exit: NearestExit(effRow, c.Layout.Exits),
				Time: p.EvacTime,
			})
		}
	}
}

// PassengerCount reports how many passengers boarded.
func (c *Cabin) PassengerCount() int {
	return len(c.Queue)
}

// HasInteriorExit reports whether any usable exit is an over-wing door,
// i.e. neither the front nor the rear row. Interior doors carry the
// door-opening penalty.
func (c *Cabin) HasInteriorExit() bool {
	for _, e := range c.Layout.Exits {
		if e != 0 && e != c.Layout.Rows-1 {
			return true
		}
	}
	return false
}

// NearestExit returns the exit row closest to row by absolute distance.
// Ties resolve to the exit listed first.
func NearestExit(row int, exits []int) int {
	best := exits[0]
	bestDist := abs(row - best)
	for _, e := range exits[1:] {
		if d := abs(row - e); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
