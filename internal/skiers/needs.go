// Physiological needs accrue with simulated time. Hunger and bladder only
// rise until resolved at an amenity; fatigue rises per completed run and
// decays while resting.
package skiers

import "github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"

// Needs holds the per-skier physiological accumulators, all in [0,1].
type Needs struct {
	Hunger  float64 `json:"hunger"`
	Bladder float64 `json:"bladder"`
	Fatigue float64 `json:"fatigue"`

	Session SessionStats `json:"session"`
}

// SessionStats only increase during a visit and reset at agent creation.
type SessionStats struct {
	WalkingDistance    float64 `json:"walking_distance"` // World units walked
	WaitMinutes        float64 `json:"wait_minutes"`
	UnfulfilledNeeds   int     `json:"unfulfilled_needs"`     // Failed amenity-access attempts
	UrgentNeedMinutes  float64 `json:"urgent_need_minutes"`   // Time spent with any need past threshold
	LodgePricePenalty  float64 `json:"lodge_price_penalty"`   // Accumulated price-to-baseline excess
	LodgeVisits        int     `json:"lodge_visits"`
}

// Accrue advances hunger and bladder by elapsed sim-minutes and tracks
// urgent-need time.
func (n *Needs) Accrue(minutes float64, cfg *tuning.Config) {
	n.Hunger = clamp01(n.Hunger + cfg.HungerPerMinute*minutes)
	n.Bladder = clamp01(n.Bladder + cfg.BladderPerMinute*minutes)
	if n.HasUrgent(cfg) {
		n.Session.UrgentNeedMinutes += minutes
	}
}

// Rest decays fatigue linearly while the skier is off their feet.
func (n *Needs) Rest(minutes float64, cfg *tuning.Config) {
	n.Fatigue = clamp01(n.Fatigue - cfg.FatigueRestDecay*minutes)
}

// OnRunCompleted adds the fixed per-run fatigue increment.
func (n *Needs) OnRunCompleted(cfg *tuning.Config) {
	n.Fatigue = clamp01(n.Fatigue + cfg.FatiguePerRun)
}

// HasUrgent reports whether any need has crossed its threshold.
func (n *Needs) HasUrgent(cfg *tuning.Config) bool {
	return n.Hunger >= cfg.UrgentThreshold ||
		n.Bladder >= cfg.UrgentThreshold ||
		n.Fatigue >= cfg.UrgentThreshold
}

// ResolveAtLodge satisfies hunger and bladder after a lodge visit and
// records the price paid relative to the baseline.
func (n *Needs) ResolveAtLodge(price, basePrice float64) {
	n.Hunger = 0
	n.Bladder = 0
	n.Session.LodgeVisits++
	if basePrice > 0 && price > basePrice {
		n.Session.LodgePricePenalty += (price - basePrice) / basePrice
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
