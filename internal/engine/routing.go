// Skill-aware breadth-first routing over the traversal graph. The graph
// is unweighted: shortest path is fewest hops. The one non-standard rule
// is the trail-body gate — a TrailStart→TrailEnd edge of the same owner
// means "ski this trail" and is skipped unless the skier's hard cap
// allows that trail's difficulty, so a beginner is never routed down a
// double black merely as a connector.
package engine

import (
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
)

// FindPath runs BFS from start to target, honoring the skier's hard caps
// on trail-body edges. Returns the snap point sequence including both
// endpoints, or nil when no legal path exists.
func (p *Planner) FindPath(g *resort.Graph, start, target resort.SnapKey, skill skiers.SkillLevel) []resort.SnapPoint {
	startPt, ok := g.Point(start)
	if !ok {
		return nil
	}
	if start == target {
		return []resort.SnapPoint{startPt}
	}

	visited := map[resort.SnapKey]bool{start: true}
	prev := make(map[resort.SnapKey]resort.SnapKey)
	queue := []resort.SnapKey{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curPt, _ := g.Point(cur)

		for _, next := range g.Neighbors(cur) {
			nk := next.Key()
			if visited[nk] {
				continue
			}
			if !p.canTraverse(curPt, next, skill) {
				continue
			}
			visited[nk] = true
			prev[nk] = cur
			if nk == target {
				return p.reconstruct(g, prev, start, target)
			}
			queue = append(queue, nk)
		}
	}
	return nil
}

// canTraverse gates the trail-body edge class on the skier's hard cap.
// Every other edge class is always traversable.
func (p *Planner) canTraverse(from, to resort.SnapPoint, skill skiers.SkillLevel) bool {
	if from.Type != resort.SnapTrailStart || to.Type != resort.SnapTrailEnd {
		return true
	}
	if from.OwnerID != to.OwnerID {
		return true
	}
	trail, ok := p.sim.Trails[from.OwnerID]
	if !ok {
		return false
	}
	return p.sim.Dist.Allowed(skill, trail.Difficulty)
}

func (p *Planner) reconstruct(g *resort.Graph, prev map[resort.SnapKey]resort.SnapKey, start, target resort.SnapKey) []resort.SnapPoint {
	var keys []resort.SnapKey
	for k := target; ; k = prev[k] {
		keys = append(keys, k)
		if k == start {
			break
		}
	}
	path := make([]resort.SnapPoint, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		pt, _ := g.Point(keys[i])
		path = append(path, pt)
	}
	return path
}

// CurrentPosition resolves the BFS start point for a skier from their
// discrete state: base spawn at the base, the lift's top while riding
// (already in transit to there), the trail's end while skiing, otherwise
// the current lift's bottom, defaulting to base.
func (p *Planner) CurrentPosition(sk *skiers.Skier) (resort.SnapPoint, bool) {
	reg := p.sim.Registry
	switch sk.State {
	case skiers.StateRidingLift:
		if pt, ok := reg.ByTypeAndOwner(resort.SnapLiftTop, sk.CurrentLiftID); ok {
			return pt, true
		}
	case skiers.StateSkiingTrail:
		if pt, ok := reg.ByTypeAndOwner(resort.SnapTrailEnd, sk.CurrentTrailID); ok {
			return pt, true
		}
	case skiers.StateAtBase, skiers.StateAtAmenity:
		// Fall through to base spawn below.
	default:
		if pt, ok := reg.ByTypeAndOwner(resort.SnapLiftBottom, sk.CurrentLiftID); ok {
			return pt, true
		}
	}
	spawns := reg.ByType(resort.SnapBaseSpawn)
	if len(spawns) == 0 {
		return resort.SnapPoint{}, false
	}
	return spawns[0], true
}

// BuildPlan converts a snap point path into an ordered action plan. Only
// LiftBottom and TrailStart nodes emit a step; LiftTop and TrailEnd are
// transitional and elided.
func BuildPlan(path []resort.SnapPoint) []skiers.PlanStep {
	var steps []skiers.PlanStep
	for _, pt := range path {
		switch pt.Type {
		case resort.SnapLiftBottom:
			steps = append(steps, skiers.PlanStep{
				Type:     skiers.StepRideLift,
				EntityID: pt.OwnerID,
				Name:     pt.Name,
			})
		case resort.SnapTrailStart:
			steps = append(steps, skiers.PlanStep{
				Type:     skiers.StepSkiTrail,
				EntityID: pt.OwnerID,
				Name:     pt.Name,
			})
		}
	}
	return steps
}
