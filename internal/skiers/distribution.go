// Distribution model: skill-level skiing preferences, hard skill caps, and
// the derived effective weight blending preference, transit tolerance, and
// downstream value. Hard caps are enforced independently of preference
// weights — a zero weight does not imply disallowed, and vice versa.
package skiers

import (
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

// DownstreamNotComputed is the sentinel for "caller did not pre-compute
// what lies beyond this trail"; the downstream blend is skipped entirely.
const DownstreamNotComputed = -1.0

// Distribution answers preference and allowance questions for skill ×
// difficulty pairs. Tables live in the tuning config so they stay
// runtime-tunable per simulation session.
type Distribution struct {
	cfg *tuning.Config
}

// NewDistribution wraps the session tuning tables.
func NewDistribution(cfg *tuning.Config) *Distribution {
	return &Distribution{cfg: cfg}
}

// Preference returns the raw table weight in [0,1].
func (d *Distribution) Preference(skill SkillLevel, diff resort.Difficulty) float64 {
	return d.cfg.PreferenceTable[skill][diff]
}

// Allowed reports whether the skill is hard-capped to permit the
// difficulty. Checked separately from preference weights.
func (d *Distribution) Allowed(skill SkillLevel, diff resort.Difficulty) bool {
	return d.cfg.HardCaps[skill][diff]
}

// DesperateOnly reports whether the pairing is too dangerous to choose
// except as an absolute last resort.
func (d *Distribution) DesperateOnly(skill SkillLevel, diff resort.Difficulty) bool {
	return !d.Allowed(skill, diff)
}

// EffectiveWeight computes how attractive a trail difficulty is to a
// skill level, optionally blending in the best preference reachable
// beyond the trail. Pass DownstreamNotComputed to skip the blend.
//
// Monotonically non-decreasing in downstream once supplied.
func (d *Distribution) EffectiveWeight(skill SkillLevel, diff resort.Difficulty, downstream float64) float64 {
	cfg := d.cfg

	// Desperate-only pairings get a near-zero constant: never attractive,
	// still selectable when nothing else exists.
	if d.DesperateOnly(skill, diff) {
		return cfg.DesperateWeight
	}

	// Transit floor: even an unloved trail is tolerable as a connector.
	floor := 0.0
	skillIdx, diffIdx := int(skill), int(diff)
	switch {
	case diffIdx <= skillIdx:
		// At or below skill: floor rises the easier the cruising.
		floor = cfg.TransitFloorBase + cfg.TransitFloorPerLevel*float64(skillIdx-diffIdx)
	case diffIdx == skillIdx+1:
		// Exactly one level above: a fixed stretch.
		floor = cfg.StretchFloor
	}

	weight := d.Preference(skill, diff)
	if floor > weight {
		weight = floor
	}

	if downstream == DownstreamNotComputed {
		return weight
	}

	if downstream > cfg.DownstreamEpsilon {
		// The trail leads somewhere good.
		return weight + downstream*cfg.DownstreamMultiplier
	}
	// Dead end for this agent: no safe exit beyond, collapse the weight.
	return cfg.DeadEndWeight
}

// AllowedDifficulties returns the set of difficulties the skill may ski.
func (d *Distribution) AllowedDifficulties(skill SkillLevel) []resort.Difficulty {
	var out []resort.Difficulty
	for diff := 0; diff < resort.NumDifficulties; diff++ {
		if d.Allowed(skill, resort.Difficulty(diff)) {
			out = append(out, resort.Difficulty(diff))
		}
	}
	return out
}
