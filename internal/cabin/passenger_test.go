package cabin

import (
	"math/rand"
	"testing"
)

func sampleMoveTime(t *testing.T, age AgeGroup, emergency float64, samples int) float64 {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	sum := 0.0
	for i := 0; i < samples; i++ {
		p := newPassenger(rng, 10, 1.0, 0, age, emergency)
		sum += p.MoveTime
	}
	return sum / float64(samples)
}

func TestNewPassenger_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := newPassenger(rng, 10, 1.0, 0, AgeYoung, 1.0)

		if p.EvacTime < 0 {
			t.Fatalf("evacuation time must not be negative, got %g", p.EvacTime)
		}
		if p.PanicLevel < 0 || p.PanicLevel > 1 {
			t.Fatalf("panic level out of range: %g", p.PanicLevel)
		}
		// At full emergency, baggage delay is halved from U(0,1).
		if p.BaggageDelay < 0 || p.BaggageDelay > 0.5 {
			t.Fatalf("baggage delay out of range at full emergency: %g", p.BaggageDelay)
		}
		if p.BaseTime < 2 || p.BaseTime > 8 {
			t.Fatalf("base time out of range: %g", p.BaseTime)
		}
		if p.Distance != 10 {
			t.Fatalf("expected distance 10, got %d", p.Distance)
		}
	}
}

func TestNewPassenger_ElderlySlower(t *testing.T) {
	young := sampleMoveTime(t, AgeYoung, 1.0, 500)
	elderly := sampleMoveTime(t, AgeElderly, 1.0, 500)
	if elderly <= young {
		t.Errorf("elderly mean move time %.2f should exceed young %.2f", elderly, young)
	}
}

func TestApplyEmergencyLevel(t *testing.T) {
	// Higher urgency speeds up movement and cuts baggage fumbling.
	calm := sampleMoveTime(t, AgeYoung, 0.0, 500)
	urgent := sampleMoveTime(t, AgeYoung, 1.0, 500)
	if urgent >= calm {
		t.Errorf("mean move time at full emergency %.2f should be below calm %.2f", urgent, calm)
	}

	p := &Passenger{PanicLevel: 0.9, BaggageDelay: 0.8, MoveTime: 4}
	p.applyEmergencyLevel(1.0)
	if p.PanicLevel != 0.9 {
		t.Errorf("panic at full emergency should be unchanged by scaling, got %g", p.PanicLevel)
	}
	if p.BaggageDelay != 0.4 {
		t.Errorf("baggage delay should be halved at full emergency, got %g", p.BaggageDelay)
	}
	if got, want := p.MoveTime, 4*0.8; got != want {
		t.Errorf("move time should be scaled to %g, got %g", want, got)
	}

	p = &Passenger{PanicLevel: 1.2, BaggageDelay: 0.5, MoveTime: 2}
	p.applyEmergencyLevel(1.0)
	if p.PanicLevel != 1 {
		t.Errorf("panic level should cap at 1, got %g", p.PanicLevel)
	}
}

func TestEvacuationTime_DistanceEffect(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	nearSum, farSum := 0.0, 0.0
	const samples = 500
	for i := 0; i < samples; i++ {
		near := newPassenger(rng, 5, 1.0, 6, AgeYoung, 1.0)
		far := newPassenger(rng, 5, 1.0, 25, AgeYoung, 1.0)
		nearSum += near.EvacTime
		farSum += far.EvacTime
	}
	if farSum/samples <= nearSum/samples {
		t.Errorf("mean time to a far exit %.2f should exceed near exit %.2f",
			farSum/samples, nearSum/samples)
	}
}

func TestEvacuationTime_Formula(t *testing.T) {
	p := &Passenger{
		PanicLevel:   0.5,
		BaggageDelay: 0.3,
		MoveTime:     2.0,
		SpeedFactor:  0.8,
		Distance:     10,
	}
	want := 0.3 + 0.5*2.0*0.8*10
	if got := p.evacuationTime(); got != want {
		t.Errorf("evacuationTime() = %g, want %g", got, want)
	}
}
