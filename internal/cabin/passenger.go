package cabin

import "math/rand"

// AgeGroup is a passenger mobility class.
type AgeGroup string

const (
	AgeYoung   AgeGroup = "young"
	AgeElderly AgeGroup = "elderly"
)

// Passenger carries the sampled attributes that determine how long one
// person takes to reach their exit.
type Passenger struct {
	Age          AgeGroup
	BaseTime     float64 // seconds to unbuckle and stand up
	PanicLevel   float64 // 0 calm .. 1 panicked
	BaggageDelay float64 // 0 no baggage .. 1 heavy baggage
	MoveTime     float64 // seconds per row of aisle distance
	SpeedFactor  float64 // row speed factor
	ExitRow      int
	Distance     int     // rows between seat and exit
	EvacTime     float64 // individual evacuation time, seconds
}

// newPassenger samples passenger attributes, applies the emergency-level
// adjustments and computes the individual evacuation time.
//
// Elderly passengers move markedly slower (8-10 s per row against 1-4 s
// for the young). Higher emergency levels raise panic, shorten baggage
// fumbling and speed up movement.
func newPassenger(rng *rand.Rand, row int, speedFactor float64, exitRow int, age AgeGroup, emergency float64) *Passenger {
	p := &Passenger{
		Age:          age,
		BaseTime:     uniform(rng, 2, 8),
		PanicLevel:   rng.Float64(),
		BaggageDelay: rng.Float64(),
		SpeedFactor:  speedFactor,
		ExitRow:      exitRow,
		Distance:     abs(row - exitRow),
	}
	if age == AgeElderly {
		p.MoveTime = uniform(rng, 8, 10)
	} else {
		p.MoveTime = uniform(rng, 1, 4)
	}
	p.applyEmergencyLevel(emergency)
	p.EvacTime = p.evacuationTime()
	return p
}

// applyEmergencyLevel scales panic, baggage delay and mobility by the
// emergency severity e in [0,1].
func (p *Passenger) applyEmergencyLevel(e float64) {
	p.PanicLevel *= e
	if p.PanicLevel > 1 {
		p.PanicLevel = 1
	}
	p.BaggageDelay *= 1 - e*0.5
	p.MoveTime *= 1 - e*0.2
}

// evacuationTime is the baggage delay plus the panicked walk to the exit.
func (p *Passenger) evacuationTime() float64 {
	return p.BaggageDelay + p.PanicLevel*p.MoveTime*p.SpeedFactor*float64(p.Distance)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
