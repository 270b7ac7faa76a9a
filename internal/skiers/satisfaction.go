// Satisfaction is scored by a pluggable set of weighted factors. Each
// factor is an independent scoring strategy over a needs snapshot; the
// aggregator knows nothing about concrete factors beyond name, weight and
// evaluate. With no factors registered it degrades to the legacy scalar.
package skiers

import "github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"

// Snapshot is the read-only view of a skier's needs handed to factors.
type Snapshot struct {
	Needs           Needs
	UrgentThreshold float64
	LodgeBasePrice  float64
}

// Factor is one satisfaction scoring strategy. Evaluate returns [0,1].
type Factor interface {
	Name() string
	Weight() float64
	Evaluate(s Snapshot) float64
}

// Satisfaction tracks a skier's mood: a legacy scalar nudged by fixed
// event deltas, plus the factor set used for aggregate scoring.
type Satisfaction struct {
	Legacy        float64 `json:"legacy"` // [0,1]
	PreferredRuns int     `json:"preferred_runs"`

	factors []Factor
}

// NewSatisfaction starts a skier in a mildly positive mood with the
// default factor set registered.
func NewSatisfaction() Satisfaction {
	return Satisfaction{
		Legacy:  0.6,
		factors: DefaultFactors(),
	}
}

// AddFactor registers a factor. A factor with a duplicate name replaces
// the existing one, keeping its slot order.
func (t *Satisfaction) AddFactor(f Factor) {
	for i, existing := range t.factors {
		if existing.Name() == f.Name() {
			t.factors[i] = f
			return
		}
	}
	t.factors = append(t.factors, f)
}

// RemoveFactor unregisters a factor by name.
func (t *Satisfaction) RemoveFactor(name string) {
	for i, f := range t.factors {
		if f.Name() == name {
			t.factors = append(t.factors[:i], t.factors[i+1:]...)
			return
		}
	}
}

// FactorCount returns the number of registered factors.
func (t *Satisfaction) FactorCount() int {
	return len(t.factors)
}

// Score returns the weight-normalized mean of all factor evaluations.
// With no factors registered it degrades to the legacy scalar.
func (t *Satisfaction) Score(s Snapshot) float64 {
	if len(t.factors) == 0 {
		return t.Legacy
	}
	totalWeight := 0.0
	sum := 0.0
	for _, f := range t.factors {
		w := f.Weight()
		if w <= 0 {
			continue
		}
		totalWeight += w
		sum += w * clamp01(f.Evaluate(s))
	}
	if totalWeight == 0 {
		return t.Legacy
	}
	return clamp01(sum / totalWeight)
}

// Apply nudges the legacy scalar by delta, clamped to [0,1].
func (t *Satisfaction) Apply(delta float64) {
	t.Legacy = clamp01(t.Legacy + delta)
}

// RecordRun applies the fixed deltas for a completed run. preference is
// the skier's preference weight for the trail's difficulty.
func (t *Satisfaction) RecordRun(preference float64, cfg *tuning.Config) {
	t.Apply(cfg.SuccessfulRunBonus)
	if preference >= cfg.PreferredThreshold {
		t.Apply(cfg.PreferredTrailBonus)
		t.PreferredRuns++
	} else if preference <= cfg.MismatchThreshold {
		// Forced transit on a mismatched difficulty.
		t.Apply(-cfg.MismatchPenalty)
	}
}

// RecordWait applies the fixed penalty unit per 5 minutes of lift wait.
func (t *Satisfaction) RecordWait(minutes float64, cfg *tuning.Config) {
	units := int(minutes / 5)
	if units > 0 {
		t.Apply(-cfg.WaitPenaltyPer5Min * float64(units))
	}
}

// DefaultFactors returns the four shipped scoring strategies.
func DefaultFactors() []Factor {
	return []Factor{
		needsFulfillmentFactor{},
		traversalFrictionFactor{},
		lodgePricingFactor{},
		returnEaseFactor{},
	}
}

// needsFulfillmentFactor penalizes needs past threshold, failed lodge
// access attempts, and prolonged urgent-need time. Total penalty capped.
type needsFulfillmentFactor struct{}

func (needsFulfillmentFactor) Name() string    { return "needs-fulfillment" }
func (needsFulfillmentFactor) Weight() float64 { return 1.5 }

func (needsFulfillmentFactor) Evaluate(s Snapshot) float64 {
	thr := s.UrgentThreshold
	penalty := 0.0
	for _, need := range []float64{s.Needs.Hunger, s.Needs.Bladder, s.Needs.Fatigue} {
		if need > thr && thr < 1 {
			penalty += (need - thr) / (1 - thr) * 0.3
		}
	}
	penalty += float64(s.Needs.Session.UnfulfilledNeeds) * 0.10
	penalty += s.Needs.Session.UrgentNeedMinutes * 0.002
	if penalty > 0.8 {
		penalty = 0.8
	}
	return 1 - penalty
}

// traversalFrictionFactor linearly penalizes cumulative walking distance
// and lift wait time, capped.
type traversalFrictionFactor struct{}

func (traversalFrictionFactor) Name() string    { return "traversal-friction" }
func (traversalFrictionFactor) Weight() float64 { return 1.0 }

func (traversalFrictionFactor) Evaluate(s Snapshot) float64 {
	penalty := s.Needs.Session.WalkingDistance*0.0004 + s.Needs.Session.WaitMinutes*0.01
	if penalty > 0.7 {
		penalty = 0.7
	}
	return 1 - penalty
}

// lodgePricingFactor penalizes paying above the price baseline and gives
// a small bonus for visits at or below it.
type lodgePricingFactor struct{}

func (lodgePricingFactor) Name() string    { return "lodge-pricing" }
func (lodgePricingFactor) Weight() float64 { return 0.5 }

func (lodgePricingFactor) Evaluate(s Snapshot) float64 {
	visits := s.Needs.Session.LodgeVisits
	if visits == 0 {
		return 0.8 // Neutral: no data
	}
	avgExcess := s.Needs.Session.LodgePricePenalty / float64(visits)
	if avgExcess <= 0 {
		return 0.9 // Paid at or below baseline
	}
	return clamp01(0.8 - 0.4*avgExcess)
}

// returnEaseFactor penalizes high fatigue combined with long walks, plus
// unfulfilled-need attempts — a proxy for "how hard is getting home".
type returnEaseFactor struct{}

func (returnEaseFactor) Name() string    { return "return-to-base-ease" }
func (returnEaseFactor) Weight() float64 { return 0.8 }

func (returnEaseFactor) Evaluate(s Snapshot) float64 {
	penalty := 0.0
	if s.Needs.Fatigue > 0.6 {
		walkScale := s.Needs.Session.WalkingDistance / 1000
		if walkScale > 1 {
			walkScale = 1
		}
		penalty += (s.Needs.Fatigue - 0.6) * walkScale * 0.8
	}
	penalty += float64(s.Needs.Session.UnfulfilledNeeds) * 0.05
	return clamp01(1 - penalty)
}
