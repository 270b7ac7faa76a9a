// Package tuning holds every runtime-tunable constant of the flow
// simulation in one explicit struct. The struct is owned by the simulation
// session and passed down — never ambient — so two resorts (or two test
// fixtures) can run side by side without interfering.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full tunable surface. Arrays indexed by skill are ordered
// Beginner, Intermediate, Advanced, Expert; arrays indexed by difficulty
// are ordered Green, Blue, Black, DoubleBlack.
type Config struct {
	// Graph thresholds.
	SnapRadius         float64 `yaml:"snap_radius"`
	BaseSnapMultiplier float64 `yaml:"base_snap_multiplier"`
	LegacyTileRadius   int     `yaml:"legacy_tile_radius"`
	UseLegacyDistance  bool    `yaml:"use_legacy_distance"`

	// Visitor generation.
	SkillDistribution [4]float64 `yaml:"skill_distribution"` // Fractions, sum ~1
	BaseRunsPerSkill  [4]int     `yaml:"base_runs_per_skill"`
	RunsVariance      int        `yaml:"runs_variance"`

	// Preference model.
	PreferenceTable [4][4]float64 `yaml:"preference_table"` // [skill][difficulty]
	HardCaps        [4][4]bool    `yaml:"hard_caps"`        // [skill][difficulty] allowed

	// Effective weight constants.
	DesperateWeight      float64 `yaml:"desperate_weight"`
	TransitFloorBase     float64 `yaml:"transit_floor_base"`
	TransitFloorPerLevel float64 `yaml:"transit_floor_per_level"`
	StretchFloor         float64 `yaml:"stretch_floor"`
	DownstreamMultiplier float64 `yaml:"downstream_multiplier"`
	DownstreamEpsilon    float64 `yaml:"downstream_epsilon"`
	DeadEndWeight        float64 `yaml:"dead_end_weight"`

	// Decision engine.
	DestinationRetries int     `yaml:"destination_retries"`
	DeficitBias        float64 `yaml:"deficit_bias"`    // 0 disables deficit steering
	HerdingPenalty     float64 `yaml:"herding_penalty"` // Recent-popularity damp, 0 disables

	// Satisfaction modifiers.
	SuccessfulRunBonus   float64 `yaml:"successful_run_bonus"`
	PreferredTrailBonus  float64 `yaml:"preferred_trail_bonus"`
	MismatchPenalty      float64 `yaml:"mismatch_penalty"`
	NoPathPenalty        float64 `yaml:"no_path_penalty"`
	WaitPenaltyPer5Min   float64 `yaml:"wait_penalty_per_5min"`
	PreferredThreshold   float64 `yaml:"preferred_threshold"` // Preference ≥ this counts as preferred
	MismatchThreshold    float64 `yaml:"mismatch_threshold"`  // Preference ≤ this counts as forced transit

	// Needs accrual per sim-minute.
	HungerPerMinute  float64 `yaml:"hunger_per_minute"`
	BladderPerMinute float64 `yaml:"bladder_per_minute"`
	FatiguePerRun    float64 `yaml:"fatigue_per_run"`
	FatigueRestDecay float64 `yaml:"fatigue_rest_decay"` // Per sim-minute while resting
	UrgentThreshold  float64 `yaml:"urgent_threshold"`

	// Departure gates.
	FatigueLeaveLevel      float64 `yaml:"fatigue_leave_level"`
	SatisfactionLeaveLevel float64 `yaml:"satisfaction_leave_level"`

	// Real-time stepping durations (sim-minutes per state).
	WalkMinutes float64 `yaml:"walk_minutes"`
	LiftMinutes float64 `yaml:"lift_minutes"`
	SkiMinutes  float64 `yaml:"ski_minutes"`
	LodgeMinutes float64 `yaml:"lodge_minutes"`

	// Lodge.
	LodgeCapacity  int     `yaml:"lodge_capacity"`
	LodgeBasePrice float64 `yaml:"lodge_base_price"`
}

// Default returns the reference tuning. Values mirror the shipped balance.
func Default() Config {
	return Config{
		SnapRadius:         25.0,
		BaseSnapMultiplier: 1.5,
		LegacyTileRadius:   3,

		SkillDistribution: [4]float64{0.30, 0.40, 0.20, 0.10},
		BaseRunsPerSkill:  [4]int{4, 6, 8, 10},
		RunsVariance:      2,

		// Rows: Beginner, Intermediate, Advanced, Expert.
		// Columns: Green, Blue, Black, DoubleBlack.
		PreferenceTable: [4][4]float64{
			{0.70, 0.30, 0.00, 0.00},
			{0.25, 0.60, 0.15, 0.00},
			{0.10, 0.40, 0.55, 0.20},
			{0.05, 0.20, 0.50, 0.70},
		},
		HardCaps: [4][4]bool{
			{true, true, false, false},
			{true, true, true, false},
			{true, true, true, true},
			{true, true, true, true},
		},

		DesperateWeight:      0.001,
		TransitFloorBase:     0.10,
		TransitFloorPerLevel: 0.05,
		StretchFloor:         0.08,
		DownstreamMultiplier: 0.50,
		DownstreamEpsilon:    0.05,
		DeadEndWeight:        0.05,

		DestinationRetries: 3,
		DeficitBias:        0.5,
		HerdingPenalty:     0.25,

		SuccessfulRunBonus:  0.03,
		PreferredTrailBonus: 0.04,
		MismatchPenalty:     0.02,
		NoPathPenalty:       0.10,
		WaitPenaltyPer5Min:  0.02,
		PreferredThreshold:  0.4,
		MismatchThreshold:   0.1,

		HungerPerMinute:  0.0020,
		BladderPerMinute: 0.0025,
		FatiguePerRun:    0.06,
		FatigueRestDecay: 0.01,
		UrgentThreshold:  0.7,

		FatigueLeaveLevel:      0.9,
		SatisfactionLeaveLevel: 0.2,

		WalkMinutes:  3,
		LiftMinutes:  8,
		SkiMinutes:   6,
		LodgeMinutes: 20,

		LodgeCapacity:  40,
		LodgeBasePrice: 12,
	}
}

// Load reads a YAML override file on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("tuning %s: %w", path, err)
	}
	return c, nil
}
