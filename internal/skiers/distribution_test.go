package skiers

import (
	"math"
	"testing"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

func defaultDist() *Distribution {
	cfg := tuning.Default()
	return NewDistribution(&cfg)
}

func TestHardCapsIndependentOfWeights(t *testing.T) {
	d := defaultDist()

	// Intermediate prefers double black at 0.00 yet is also hard-capped;
	// expert prefers green at only 0.05 but is fully allowed. Preference
	// weight and allowance are independent axes.
	if d.Allowed(SkillIntermediate, resort.DifficultyDoubleBlack) {
		t.Fatal("intermediate must be capped off double black")
	}
	if !d.Allowed(SkillExpert, resort.DifficultyGreen) {
		t.Fatal("expert must be allowed on green despite near-zero preference")
	}
	if !d.Allowed(SkillBeginner, resort.DifficultyBlue) {
		t.Fatal("beginner must be allowed on blue")
	}
	if d.Allowed(SkillBeginner, resort.DifficultyBlack) {
		t.Fatal("beginner must be capped off black")
	}
}

func TestDesperateOnlyWeightIsConstant(t *testing.T) {
	cfg := tuning.Default()
	d := NewDistribution(&cfg)

	// A capped pairing always scores the desperate constant, no matter how
	// attractive the terrain beyond it is.
	for _, downstream := range []float64{DownstreamNotComputed, 0, 0.7, 1.0} {
		got := d.EffectiveWeight(SkillBeginner, resort.DifficultyBlack, downstream)
		if got != cfg.DesperateWeight {
			t.Fatalf("EffectiveWeight(beginner, black, %v) = %v, want %v",
				downstream, got, cfg.DesperateWeight)
		}
	}
}

func TestTransitFloorLiftsLowPreference(t *testing.T) {
	cfg := tuning.Default()
	d := NewDistribution(&cfg)

	// Expert on green: preference 0.05, floor 0.10 + 0.05×3 = 0.25.
	got := d.EffectiveWeight(SkillExpert, resort.DifficultyGreen, DownstreamNotComputed)
	want := cfg.TransitFloorBase + 3*cfg.TransitFloorPerLevel
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expert/green weight = %v, want transit floor %v", got, want)
	}

	// Beginner on green: preference 0.70 beats the floor.
	got = d.EffectiveWeight(SkillBeginner, resort.DifficultyGreen, DownstreamNotComputed)
	if got != 0.70 {
		t.Fatalf("beginner/green weight = %v, want raw preference 0.70", got)
	}
}

func TestStretchFloor(t *testing.T) {
	cfg := tuning.Default()
	// Zero out the preference so the stretch floor is what remains.
	cfg.PreferenceTable[SkillIntermediate][resort.DifficultyBlack] = 0
	d := NewDistribution(&cfg)

	got := d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlack, DownstreamNotComputed)
	if got != cfg.StretchFloor {
		t.Fatalf("one-level-above weight = %v, want stretch floor %v", got, cfg.StretchFloor)
	}
}

func TestDownstreamBlend(t *testing.T) {
	cfg := tuning.Default()
	d := NewDistribution(&cfg)

	base := d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlue, DownstreamNotComputed)

	// Good downstream adds downstream × multiplier.
	got := d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlue, 0.6)
	want := base + 0.6*cfg.DownstreamMultiplier
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("downstream blend = %v, want %v", got, want)
	}

	// At or below epsilon the trail is a dead end for this agent.
	got = d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlue, 0)
	if got != cfg.DeadEndWeight {
		t.Fatalf("dead-end weight = %v, want %v", got, cfg.DeadEndWeight)
	}
	got = d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlue, cfg.DownstreamEpsilon)
	if got != cfg.DeadEndWeight {
		t.Fatalf("epsilon-boundary weight = %v, want %v", got, cfg.DeadEndWeight)
	}

	// Sentinel skips the blend entirely, so no dead-end collapse occurs.
	got = d.EffectiveWeight(SkillIntermediate, resort.DifficultyBlue, DownstreamNotComputed)
	if got != base {
		t.Fatalf("sentinel weight = %v, want %v", got, base)
	}
}

func TestDownstreamMonotonic(t *testing.T) {
	d := defaultDist()

	prev := -1.0
	for ds := 0.0; ds <= 1.0; ds += 0.01 {
		w := d.EffectiveWeight(SkillBeginner, resort.DifficultyGreen, ds)
		if w < prev {
			t.Fatalf("weight decreased from %v to %v at downstream %v", prev, w, ds)
		}
		prev = w
	}
}

func TestAllowedDifficulties(t *testing.T) {
	d := defaultDist()

	got := d.AllowedDifficulties(SkillBeginner)
	if len(got) != 2 || got[0] != resort.DifficultyGreen || got[1] != resort.DifficultyBlue {
		t.Fatalf("beginner allowed = %v, want [Green Blue]", got)
	}
	if got := d.AllowedDifficulties(SkillExpert); len(got) != 4 {
		t.Fatalf("expert allowed %d difficulties, want 4", len(got))
	}
}
