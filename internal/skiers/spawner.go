// Skier spawning — rolls skill level and desired run count for arriving
// visitors. Deterministic given the seed.
package skiers

import (
	"math/rand"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

// Spawner creates skier agents for the simulation.
type Spawner struct {
	rng    *rand.Rand
	cfg    *tuning.Config
	nextID SkierID
}

// NewSpawner creates a skier spawner with the given seed.
func NewSpawner(seed int64, cfg *tuning.Config) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		cfg:    cfg,
		nextID: 1,
	}
}

// SetNextID sets the next skier ID to be issued (used when restoring).
func (s *Spawner) SetNextID(id SkierID) {
	s.nextID = id
}

// SpawnBatch creates count arriving skiers.
func (s *Spawner) SpawnBatch(count int) []*Skier {
	out := make([]*Skier, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.SpawnOne())
	}
	return out
}

// SpawnOne creates a single skier with a rolled skill level and a
// skill-biased desired-run count.
func (s *Spawner) SpawnOne() *Skier {
	id := s.nextID
	s.nextID++

	skill := s.rollSkill()

	return &Skier{
		ID:           id,
		Skill:        skill,
		State:        StateAtBase,
		DesiredRuns:  s.rollDesiredRuns(skill),
		Satisfaction: NewSatisfaction(),
	}
}

// rollSkill samples the configured skill distribution by cumulative sum.
func (s *Spawner) rollSkill() SkillLevel {
	roll := s.rng.Float64()
	cum := 0.0
	for i, share := range s.cfg.SkillDistribution {
		cum += share
		if roll < cum {
			return SkillLevel(i)
		}
	}
	return SkillExpert
}

// rollDesiredRuns biases run count by skill: stronger skiers want more
// runs, plus-or-minus the configured variance.
func (s *Spawner) rollDesiredRuns(skill SkillLevel) int {
	base := s.cfg.BaseRunsPerSkill[skill]
	v := s.cfg.RunsVariance
	runs := base
	if v > 0 {
		runs += s.rng.Intn(2*v+1) - v
	}
	if runs < 1 {
		runs = 1
	}
	return runs
}
