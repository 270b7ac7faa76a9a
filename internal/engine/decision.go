// Per-skier goal selection. Deterministic given the seeded random source:
// pick a destination trail by effective weight (deficit- and
// popularity-biased), verify reachability, and convert the BFS path into
// an ordered ride/ski plan. Every failure mode degrades to a narrower
// goal — nothing here can halt the simulation.
package engine

import (
	"math/rand"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
)

// Planner is the decision/routing engine for one simulation session.
type Planner struct {
	sim *Simulation
	rng *rand.Rand
}

// NewPlanner creates a planner over the simulation with its own seeded
// random stream.
func NewPlanner(sim *Simulation, seed int64) *Planner {
	return &Planner{sim: sim, rng: rand.New(rand.NewSource(seed + 500))}
}

// returnToBaseGoal is the universal fallback objective.
func returnToBaseGoal() *skiers.Goal {
	return &skiers.Goal{Type: skiers.GoalReturnToBase, Priority: 0.5}
}

// WantsToContinue reports whether the skier still wants another run.
func (p *Planner) WantsToContinue(sk *skiers.Skier) bool {
	cfg := p.sim.Cfg
	if sk.RunsCompleted >= sk.DesiredRuns {
		return false
	}
	if sk.Needs.Fatigue >= cfg.FatigueLeaveLevel {
		return false
	}
	if sk.Satisfaction.Legacy <= cfg.SatisfactionLeaveLevel {
		return false
	}
	return true
}

// ChooseGoal picks the skier's next objective and routes it.
func (p *Planner) ChooseGoal(sk *skiers.Skier) *skiers.Goal {
	if !p.WantsToContinue(sk) {
		return returnToBaseGoal()
	}

	trail := p.ChooseDestinationTrail(sk)
	if trail == nil {
		sk.Satisfaction.Apply(-p.sim.Cfg.NoPathPenalty)
		return returnToBaseGoal()
	}

	return p.routeTo(sk, trail, skiers.GoalSkiPreferredTrail)
}

// routeTo plans a path to the trail's entry point, escalating through the
// fallback chain on failure.
func (p *Planner) routeTo(sk *skiers.Skier, trail *resort.Trail, goalType skiers.GoalType) *skiers.Goal {
	g := p.sim.Graph()
	start, ok := p.CurrentPosition(sk)
	if !ok {
		// No base spawn registered: not servable this tick.
		return returnToBaseGoal()
	}

	target, ok := p.sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, trail.ID)
	if !ok {
		return returnToBaseGoal()
	}

	path := p.FindPath(g, start.Key(), target.Key(), sk.Skill)
	if path == nil {
		// Half penalty, then try any reachable trail at all.
		sk.Satisfaction.Apply(-p.sim.Cfg.NoPathPenalty / 2)
		if alt := p.findAnyReachable(sk, start); alt != nil {
			trail = alt.trail
			path = alt.path
			goalType = skiers.GoalSkiSpecificTrail
		}
	}
	if path == nil {
		return returnToBaseGoal()
	}

	return &skiers.Goal{
		Type:             goalType,
		DestinationTrail: trail.ID,
		Steps:            BuildPlan(path),
		Priority:         1.0,
	}
}

// ChooseDestinationTrail performs the weighted selection with reachability
// retries. Returns nil when no trail carries any weight at all.
func (p *Planner) ChooseDestinationTrail(sk *skiers.Skier) *resort.Trail {
	candidates, weights := p.weighTrails(sk)
	if len(candidates) == 0 {
		return nil
	}

	start, haveStart := p.CurrentPosition(sk)
	g := p.sim.Graph()

	// Weighted draws, each verified reachable so the goal isn't wasted on
	// an island trail.
	for attempt := 0; attempt < p.sim.Cfg.DestinationRetries; attempt++ {
		pick := weightedPick(p.rng, candidates, weights)
		if pick == nil {
			break
		}
		if !haveStart {
			return pick
		}
		if target, ok := p.sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, pick.ID); ok {
			if p.FindPath(g, start.Key(), target.Key(), sk.Skill) != nil {
				return pick
			}
		}
	}

	// Every verified draw failed: fall back to a uniformly random
	// candidate and let downstream routing fail gracefully.
	return candidates[p.rng.Intn(len(candidates))]
}

// weightTrail scores one candidate for this skier, including downstream
// value, deficit bias, and the anti-herding popularity damp.
func (p *Planner) weightTrail(sk *skiers.Skier, t *resort.Trail) float64 {
	cfg := p.sim.Cfg
	w := p.sim.Dist.EffectiveWeight(sk.Skill, t.Difficulty, p.downstreamBest(sk, t))
	if w <= 0 {
		return 0
	}
	if cfg.DeficitBias > 0 {
		bias := 1 + cfg.DeficitBias*p.sim.Tracker.GetTrailDeficit(t.ID)
		if bias < 0.1 {
			bias = 0.1
		}
		w *= bias
		if cfg.HerdingPenalty > 0 {
			w *= 1 - cfg.HerdingPenalty*p.sim.Tracker.TrailPopularity(t.ID)
		}
	}
	return w
}

// weighTrails gathers the candidate set. Hard-capped trails carry their
// effective weight; if the skier's cap allows nothing, every valid trail
// becomes a desperate-only candidate.
func (p *Planner) weighTrails(sk *skiers.Skier) ([]*resort.Trail, []float64) {
	var candidates []*resort.Trail
	var weights []float64

	for _, id := range p.sim.trailOrder {
		t := p.sim.Trails[id]
		if !t.Valid || !p.sim.Dist.Allowed(sk.Skill, t.Difficulty) {
			continue
		}
		if w := p.weightTrail(sk, t); w > 0 {
			candidates = append(candidates, t)
			weights = append(weights, w)
		}
	}

	if len(candidates) == 0 {
		// Desperate-only last resort: no safe trail exists anywhere.
		for _, id := range p.sim.trailOrder {
			t := p.sim.Trails[id]
			if !t.Valid {
				continue
			}
			candidates = append(candidates, t)
			weights = append(weights, p.sim.Cfg.DesperateWeight)
		}
	}
	return candidates, weights
}

// downstreamBest pre-computes the best preference among trails lying
// beyond this one: branch trails off its end, and trails served by lifts
// its end feeds. No exit at all reads as zero — a dead end.
func (p *Planner) downstreamBest(sk *skiers.Skier, t *resort.Trail) float64 {
	g := p.sim.Graph()
	end, ok := p.sim.Registry.ByTypeAndOwner(resort.SnapTrailEnd, t.ID)
	if !ok {
		return skiers.DownstreamNotComputed
	}

	best := 0.0
	for _, next := range g.Neighbors(end.Key()) {
		switch next.Type {
		case resort.SnapTrailStart:
			if other, ok := p.sim.Trails[next.OwnerID]; ok && p.sim.Dist.Allowed(sk.Skill, other.Difficulty) {
				if pref := p.sim.Dist.Preference(sk.Skill, other.Difficulty); pref > best {
					best = pref
				}
			}
		case resort.SnapLiftBottom:
			// A lift out is a safe exit; score it by the best allowed
			// trail off its top.
			if top, ok := p.sim.Registry.ByTypeAndOwner(resort.SnapLiftTop, next.OwnerID); ok {
				for _, served := range g.Neighbors(top.Key()) {
					if served.Type != resort.SnapTrailStart {
						continue
					}
					if other, ok := p.sim.Trails[served.OwnerID]; ok && p.sim.Dist.Allowed(sk.Skill, other.Difficulty) {
						if pref := p.sim.Dist.Preference(sk.Skill, other.Difficulty); pref > best {
							best = pref
						}
					}
				}
			}
		}
	}
	return best
}

type reachable struct {
	trail *resort.Trail
	path  []resort.SnapPoint
}

// findAnyReachable tries every allowed trail in random order until one
// has a valid path from start.
func (p *Planner) findAnyReachable(sk *skiers.Skier, start resort.SnapPoint) *reachable {
	g := p.sim.Graph()

	var allowed []*resort.Trail
	for _, id := range p.sim.trailOrder {
		t := p.sim.Trails[id]
		if t.Valid && p.sim.Dist.Allowed(sk.Skill, t.Difficulty) {
			allowed = append(allowed, t)
		}
	}
	p.rng.Shuffle(len(allowed), func(i, j int) {
		allowed[i], allowed[j] = allowed[j], allowed[i]
	})

	for _, t := range allowed {
		target, ok := p.sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, t.ID)
		if !ok {
			continue
		}
		if path := p.FindPath(g, start.Key(), target.Key(), sk.Skill); path != nil {
			return &reachable{trail: t, path: path}
		}
	}
	return nil
}

// weightedPick draws by cumulative sum: roll in [0, total), then walk the
// weights accumulating until the running sum passes the roll.
func weightedPick(rng *rand.Rand, candidates []*resort.Trail, weights []float64) *resort.Trail {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil
	}
	roll := rng.Float64() * total
	running := 0.0
	for i, w := range weights {
		running += w
		if running >= roll {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}
