// Simulation ties the resort systems together: the snap registry, the
// traversal graph, the traffic tracker, the distribution model, and the
// skier population, plus the batch day simulation.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/economy"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/traffic"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

// Event is a notable occurrence in the resort.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "skier", "infra", "day"
}

// DayStats aggregates one simulated day, broken down by skill and by
// trail difficulty skied.
type DayStats struct {
	Day              int     `json:"day"`
	Visitors         int     `json:"visitors"`
	Served           int     `json:"served"`
	Unserved         int     `json:"unserved"`
	ServedBySkill    [4]int  `json:"served_by_skill"`
	UnservedBySkill  [4]int  `json:"unserved_by_skill"`
	RunsByDifficulty [4]int  `json:"runs_by_difficulty"`
	TotalRuns        int     `json:"total_runs"`
	AvgSatisfaction  float64 `json:"avg_satisfaction"`
	AvgScore         float64 `json:"avg_score"` // Factor-aggregated
}

// Simulation holds the complete resort state and wires systems together.
type Simulation struct {
	Cfg      *tuning.Config
	Registry *resort.Registry
	Tracker  *traffic.Tracker
	Dist     *skiers.Distribution
	Spawner  *skiers.Spawner
	Economy  *economy.DayCycle
	Planner  *Planner

	Trails map[resort.EntityID]*resort.Trail
	Lifts  map[resort.EntityID]*resort.Lift
	// Insertion order for deterministic iteration over the maps.
	trailOrder []resort.EntityID
	liftOrder  []resort.EntityID

	Skiers []*skiers.Skier
	Events []Event

	Stats   DayStats
	History []DayStats

	LastTick uint64

	rng          *rand.Rand
	nextEntityID resort.EntityID
	graph        atomic.Pointer[resort.Graph]
	lodgeGuests  int
}

// NewSimulation creates an empty resort simulation.
func NewSimulation(cfg *tuning.Config, eco *economy.DayCycle, seed int64) *Simulation {
	s := &Simulation{
		Cfg:          cfg,
		Registry:     resort.NewRegistry(),
		Tracker:      traffic.NewTracker(),
		Dist:         skiers.NewDistribution(cfg),
		Spawner:      skiers.NewSpawner(seed, cfg),
		Economy:      eco,
		Trails:       make(map[resort.EntityID]*resort.Trail),
		Lifts:        make(map[resort.EntityID]*resort.Lift),
		rng:          rand.New(rand.NewSource(seed)),
		nextEntityID: 1,
	}
	s.Planner = NewPlanner(s, seed)
	s.graph.Store(resort.BuildGraph(s.Registry, s.graphConfig()))
	return s
}

func (s *Simulation) graphConfig() resort.GraphConfig {
	gc := resort.DefaultGraphConfig()
	gc.SnapRadius = s.Cfg.SnapRadius
	gc.BaseSnapMultiplier = s.Cfg.BaseSnapMultiplier
	gc.TileRadius = s.Cfg.LegacyTileRadius
	if s.Cfg.UseLegacyDistance {
		gc.Mode = resort.DistanceManhattan2D
	}
	return gc
}

// Graph returns the current traversal graph. Rebuilds construct a
// complete replacement before the swap, so no reader ever observes a
// partially built graph.
func (s *Simulation) Graph() *resort.Graph {
	return s.graph.Load()
}

// RebuildGraph reconstructs the traversal graph from the registry and
// swaps it in atomically.
func (s *Simulation) RebuildGraph() {
	g := resort.BuildGraph(s.Registry, s.graphConfig())
	s.graph.Store(g)
	slog.Debug("traversal graph rebuilt", "nodes", g.NodeCount(), "edges", g.EdgeCount())
}

// NextEntityID issues an infrastructure ID. One sequence covers lifts and
// trails so snap point ownership is unambiguous.
func (s *Simulation) NextEntityID() resort.EntityID {
	id := s.nextEntityID
	s.nextEntityID++
	return id
}

// SetNextEntityID moves the ID sequence past externally loaded entities.
func (s *Simulation) SetNextEntityID(id resort.EntityID) {
	if id > s.nextEntityID {
		s.nextEntityID = id
	}
}

// AddBaseSpawn registers a resort entry point and rebuilds the graph.
func (s *Simulation) AddBaseSpawn(pos resort.Vec3, name string) {
	s.Registry.Register(resort.SnapPoint{
		Type:     resort.SnapBaseSpawn,
		OwnerID:  0,
		Position: pos,
		Tile:     resort.TileCoord{X: int(pos.X), Z: int(pos.Z)},
		Name:     name,
	})
	s.RebuildGraph()
}

// AddLift accepts a validated lift from the placement system: registers
// its snap points, starts traffic tracking, and rebuilds the graph.
func (s *Simulation) AddLift(l *resort.Lift) {
	if !l.Valid {
		return
	}
	s.Lifts[l.ID] = l
	s.liftOrder = append(s.liftOrder, l.ID)
	s.Registry.Register(resort.SnapPoint{
		Type: resort.SnapLiftBottom, OwnerID: l.ID, Position: l.Bottom,
		Tile: resort.TileCoord{X: int(l.Bottom.X), Z: int(l.Bottom.Z)},
		Name: l.Name,
	})
	s.Registry.Register(resort.SnapPoint{
		Type: resort.SnapLiftTop, OwnerID: l.ID, Position: l.Top,
		Tile: resort.TileCoord{X: int(l.Top.X), Z: int(l.Top.Z)},
		Name: l.Name,
	})
	s.Tracker.RegisterLift(l.ID, l.Capacity)
	s.RebuildGraph()
}

// AddTrail accepts a validated trail from the placement system.
func (s *Simulation) AddTrail(t *resort.Trail) {
	if !t.Valid {
		return
	}
	s.Trails[t.ID] = t
	s.trailOrder = append(s.trailOrder, t.ID)
	s.Registry.Register(resort.SnapPoint{
		Type: resort.SnapTrailStart, OwnerID: t.ID, Position: t.Start,
		Tile: resort.TileCoord{X: int(t.Start.X), Z: int(t.Start.Z)},
		Name: t.Name,
	})
	s.Registry.Register(resort.SnapPoint{
		Type: resort.SnapTrailEnd, OwnerID: t.ID, Position: t.End,
		Tile: resort.TileCoord{X: int(t.End.X), Z: int(t.End.Z)},
		Name: t.Name,
	})
	s.Tracker.RegisterTrail(t.ID, t.Capacity())
	s.RebuildGraph()
}

// RemoveLift tears a lift down: all of its snap points leave together.
func (s *Simulation) RemoveLift(id resort.EntityID) {
	delete(s.Lifts, id)
	s.liftOrder = removeID(s.liftOrder, id)
	s.Registry.UnregisterOwner(id)
	s.Tracker.UnregisterLift(id)
	s.RebuildGraph()
}

// RemoveTrail tears a trail down.
func (s *Simulation) RemoveTrail(id resort.EntityID) {
	delete(s.Trails, id)
	s.trailOrder = removeID(s.trailOrder, id)
	s.Registry.UnregisterOwner(id)
	s.Tracker.UnregisterTrail(id)
	s.RebuildGraph()
}

func removeID(ids []resort.EntityID, id resort.EntityID) []resort.EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// TrailOrder returns trail IDs in placement order.
func (s *Simulation) TrailOrder() []resort.EntityID {
	return s.trailOrder
}

// LiftOrder returns lift IDs in placement order.
func (s *Simulation) LiftOrder() []resort.EntityID {
	return s.liftOrder
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

func (s *Simulation) recordEvent(tick uint64, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        tick,
		Category:    category,
		Description: fmt.Sprintf(format, args...),
	})
	// Trim to prevent unbounded growth.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// RunDay executes the batch day simulation: visitors are generated up
// front and processed one at a time, each running its full decision and
// run loop to completion before the next starts. Later visitors see the
// deficits earlier ones created — intentional; it models that visitors
// decide at different times.
func (s *Simulation) RunDay(tick uint64) DayStats {
	count := s.Economy.TodaysVisitors()
	visitors := s.Spawner.SpawnBatch(count)

	stats := DayStats{Day: s.Economy.Day + 1, Visitors: count}
	sumSat, sumScore := 0.0, 0.0

	for _, sk := range visitors {
		s.runVisitor(sk, &stats)
		sumSat += sk.Satisfaction.Legacy
		sumScore += sk.Satisfaction.Score(s.snapshot(sk))
	}

	if count > 0 {
		stats.AvgSatisfaction = sumSat / float64(count)
		stats.AvgScore = sumScore / float64(count)
	}

	s.Economy.RecordDaySatisfaction(stats.AvgSatisfaction)
	s.Stats = stats
	s.History = append(s.History, stats)

	s.recordEvent(tick, "day", "day %d: %d visitors, %d served, %d runs",
		stats.Day, stats.Visitors, stats.Served, stats.TotalRuns)
	slog.Info("day simulated",
		"day", stats.Day,
		"visitors", stats.Visitors,
		"served", stats.Served,
		"unserved", stats.Unserved,
		"runs", stats.TotalRuns,
		"avg_satisfaction", fmt.Sprintf("%.3f", stats.AvgSatisfaction),
		"rate_multiplier", fmt.Sprintf("%.2f", s.Economy.VisitorRateMultiplier),
	)
	return stats
}

// runVisitor drives one batch-mode visitor through their whole day.
func (s *Simulation) runVisitor(sk *skiers.Skier, stats *DayStats) {
	cfg := s.Cfg

	// Bounded by desired runs plus fallback attempts, so no visitor can
	// spin forever.
	for attempts := 0; attempts < sk.DesiredRuns*2+4; attempts++ {
		goal := s.Planner.ChooseGoal(sk)
		sk.Goal = goal
		if goal.Type == skiers.GoalReturnToBase || goal.Type == skiers.GoalLeaveResort {
			break
		}
		s.executePlan(sk, goal, stats)

		// Urgent needs head for the lodge between runs.
		if sk.Needs.HasUrgent(cfg) {
			s.visitLodge(sk)
		}
	}

	sk.Departed = true
	if sk.RunsCompleted > 0 {
		stats.Served++
		stats.ServedBySkill[sk.Skill]++
	} else {
		stats.Unserved++
		stats.UnservedBySkill[sk.Skill]++
	}
	stats.TotalRuns += sk.RunsCompleted
}

// executePlan walks a plan's steps, firing traffic events in order.
func (s *Simulation) executePlan(sk *skiers.Skier, goal *skiers.Goal, stats *DayStats) {
	cfg := s.Cfg
	for _, step := range goal.Steps {
		switch step.Type {
		case skiers.StepRideLift:
			s.Tracker.OnLiftIntended(step.EntityID)
			wait := s.queueMinutes(step.EntityID)
			sk.Needs.Session.WaitMinutes += wait
			s.Tracker.OnLiftWait(wait)
			sk.Satisfaction.RecordWait(wait, cfg)
			s.Tracker.OnLiftEntered(step.EntityID)
			sk.Needs.Accrue(wait+cfg.LiftMinutes, cfg)
			sk.Needs.Rest(cfg.LiftMinutes, cfg)
			s.Tracker.OnLiftExited(step.EntityID)

		case skiers.StepSkiTrail:
			s.Tracker.OnTrailIntended(step.EntityID)
			s.Tracker.OnTrailEntered(step.EntityID)
			sk.Needs.Accrue(cfg.SkiMinutes, cfg)
			s.Tracker.OnTrailCompleted(step.EntityID)
			s.completeRun(sk, step.EntityID, stats)
		}
		goal.Advance()
	}
}

// completeRun applies run-completion effects: fixed satisfaction deltas,
// fatigue, counters, and per-difficulty statistics.
func (s *Simulation) completeRun(sk *skiers.Skier, trailID resort.EntityID, stats *DayStats) {
	t, ok := s.Trails[trailID]
	if !ok {
		return
	}
	pref := s.Dist.Preference(sk.Skill, t.Difficulty)
	sk.Satisfaction.RecordRun(pref, s.Cfg)
	sk.Needs.OnRunCompleted(s.Cfg)
	sk.RunsCompleted++
	if stats != nil {
		stats.RunsByDifficulty[t.Difficulty]++
	}
}

// queueMinutes derives wait time from lift crowding.
func (s *Simulation) queueMinutes(liftID resort.EntityID) float64 {
	return 1 + 4*s.Tracker.LiftCrowdingRatio(liftID)
}

// visitLodge resolves urgent hunger/bladder at the base lodge. A full
// lodge is a failed access attempt — the need stays unmet and the
// session accumulator records it.
func (s *Simulation) visitLodge(sk *skiers.Skier) {
	if s.lodgeGuests >= s.Cfg.LodgeCapacity {
		sk.Needs.Session.UnfulfilledNeeds++
		return
	}
	s.lodgeGuests++
	sk.Needs.Rest(s.Cfg.LodgeMinutes, s.Cfg)
	sk.Needs.ResolveAtLodge(s.Economy.LodgePrice, s.Economy.LodgeBasePrice)
	s.lodgeGuests--
}

// snapshot builds the factor evaluation view for a skier.
func (s *Simulation) snapshot(sk *skiers.Skier) skiers.Snapshot {
	return skiers.Snapshot{
		Needs:           sk.Needs,
		UrgentThreshold: s.Cfg.UrgentThreshold,
		LodgeBasePrice:  s.Economy.LodgeBasePrice,
	}
}

// AverageSatisfaction returns the mean legacy satisfaction of skiers
// currently on the mountain.
func (s *Simulation) AverageSatisfaction() float64 {
	n, sum := 0, 0.0
	for _, sk := range s.Skiers {
		if sk.Departed {
			continue
		}
		n++
		sum += sk.Satisfaction.Legacy
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
