package skiers

import (
	"math"
	"testing"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

func TestRecordRunPreferredDeltas(t *testing.T) {
	cfg := tuning.Default()
	s := NewSatisfaction()

	// Preference 0.5 is at or above the preferred threshold: run bonus plus
	// preferred bonus, and exactly one preferred-run increment.
	s.RecordRun(0.5, &cfg)

	want := 0.6 + cfg.SuccessfulRunBonus + cfg.PreferredTrailBonus
	if math.Abs(s.Legacy-want) > 1e-9 {
		t.Fatalf("Legacy = %v, want %v", s.Legacy, want)
	}
	if s.PreferredRuns != 1 {
		t.Fatalf("PreferredRuns = %d, want 1", s.PreferredRuns)
	}
}

func TestRecordRunMismatchPenalty(t *testing.T) {
	cfg := tuning.Default()
	s := NewSatisfaction()

	// Preference 0.05 is at or below the mismatch threshold: forced transit.
	s.RecordRun(0.05, &cfg)

	want := 0.6 + cfg.SuccessfulRunBonus - cfg.MismatchPenalty
	if math.Abs(s.Legacy-want) > 1e-9 {
		t.Fatalf("Legacy = %v, want %v", s.Legacy, want)
	}
	if s.PreferredRuns != 0 {
		t.Fatalf("PreferredRuns = %d, want 0", s.PreferredRuns)
	}
}

func TestRecordRunNeutralBand(t *testing.T) {
	cfg := tuning.Default()
	s := NewSatisfaction()

	// Between the thresholds: only the run bonus applies.
	s.RecordRun(0.25, &cfg)

	want := 0.6 + cfg.SuccessfulRunBonus
	if math.Abs(s.Legacy-want) > 1e-9 {
		t.Fatalf("Legacy = %v, want %v", s.Legacy, want)
	}
}

func TestRecordWaitUnits(t *testing.T) {
	cfg := tuning.Default()
	s := NewSatisfaction()

	// 12 minutes is two full 5-minute units; the partial third is free.
	s.RecordWait(12, &cfg)
	want := 0.6 - 2*cfg.WaitPenaltyPer5Min
	if math.Abs(s.Legacy-want) > 1e-9 {
		t.Fatalf("Legacy = %v, want %v", s.Legacy, want)
	}

	// Under 5 minutes costs nothing.
	s2 := NewSatisfaction()
	s2.RecordWait(4.9, &cfg)
	if s2.Legacy != 0.6 {
		t.Fatalf("Legacy = %v, want 0.6 for a short wait", s2.Legacy)
	}
}

func TestApplyClamps(t *testing.T) {
	s := NewSatisfaction()
	s.Apply(5)
	if s.Legacy != 1 {
		t.Fatalf("Legacy = %v, want 1 after large positive delta", s.Legacy)
	}
	s.Apply(-5)
	if s.Legacy != 0 {
		t.Fatalf("Legacy = %v, want 0 after large negative delta", s.Legacy)
	}
}

func TestScoreLegacyFallback(t *testing.T) {
	// No factors registered: Score degrades to the legacy scalar.
	s := Satisfaction{Legacy: 0.42}
	if got := s.Score(Snapshot{}); got != 0.42 {
		t.Fatalf("Score = %v, want legacy 0.42", got)
	}
}

func TestScoreWeightNormalized(t *testing.T) {
	s := NewSatisfaction()
	snap := Snapshot{UrgentThreshold: 0.7, LodgeBasePrice: 12}

	// Fresh skier: needs 1.0 (w 1.5), friction 1.0 (w 1.0), pricing 0.8
	// neutral (w 0.5), return ease 1.0 (w 0.8).
	want := (1.5*1.0 + 1.0*1.0 + 0.5*0.8 + 0.8*1.0) / (1.5 + 1.0 + 0.5 + 0.8)
	if got := s.Score(snap); math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

type fixedFactor struct {
	name   string
	weight float64
	value  float64
}

func (f fixedFactor) Name() string              { return f.name }
func (f fixedFactor) Weight() float64           { return f.weight }
func (f fixedFactor) Evaluate(Snapshot) float64 { return f.value }

func TestAddFactorReplacesByName(t *testing.T) {
	s := NewSatisfaction()
	n := s.FactorCount()

	s.AddFactor(fixedFactor{name: "crowding", weight: 1, value: 0.5})
	if got := s.FactorCount(); got != n+1 {
		t.Fatalf("FactorCount = %d, want %d", got, n+1)
	}

	// Same name again: replaced in place, count unchanged.
	s.AddFactor(fixedFactor{name: "crowding", weight: 2, value: 0.1})
	if got := s.FactorCount(); got != n+1 {
		t.Fatalf("FactorCount = %d after replacement, want %d", got, n+1)
	}

	s.RemoveFactor("crowding")
	if got := s.FactorCount(); got != n {
		t.Fatalf("FactorCount = %d after removal, want %d", got, n)
	}
}

func TestCustomFactorDominatesScore(t *testing.T) {
	s := Satisfaction{Legacy: 0.5}
	s.AddFactor(fixedFactor{name: "only", weight: 3, value: 0.25})

	if got := s.Score(Snapshot{}); got != 0.25 {
		t.Fatalf("Score = %v, want 0.25 from the single factor", got)
	}
}

func TestNeedsFactorPenalizesUrgency(t *testing.T) {
	fresh := Snapshot{UrgentThreshold: 0.7}
	strained := Snapshot{
		UrgentThreshold: 0.7,
		Needs: Needs{
			Hunger: 0.9,
			Session: SessionStats{
				UnfulfilledNeeds:  2,
				UrgentNeedMinutes: 30,
			},
		},
	}

	f := needsFulfillmentFactor{}
	if f.Evaluate(strained) >= f.Evaluate(fresh) {
		t.Fatal("urgent needs must lower the needs-fulfillment score")
	}
	if got := f.Evaluate(strained); got < 0.2 {
		t.Fatalf("penalty exceeded its cap: score %v", got)
	}
}
