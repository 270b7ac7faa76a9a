package engine

import (
	"testing"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/economy"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

func newTestSim() *Simulation {
	cfg := tuning.Default()
	eco := economy.NewDayCycle(20, cfg.LodgeBasePrice)
	sim := NewSimulation(&cfg, eco, 1)
	sim.AddBaseSpawn(resort.Vec3{}, "Base")
	return sim
}

func addLift(sim *Simulation, bottom, top resort.Vec3, name string) *resort.Lift {
	l := &resort.Lift{
		ID: sim.NextEntityID(), Name: name,
		Bottom: bottom, Top: top,
		Capacity: 20, Valid: true,
	}
	sim.AddLift(l)
	return l
}

func addTrail(sim *Simulation, start, end resort.Vec3, diff resort.Difficulty, name string) *resort.Trail {
	t := &resort.Trail{
		ID: sim.NextEntityID(), Name: name,
		Start: start, End: end,
		Length:     start.Dist(end),
		Difficulty: diff, Valid: true,
	}
	sim.AddTrail(t)
	return t
}

// connectedResort builds base → lift → {green, black} trails, both looping
// back to the lift bottom.
func connectedResort() (*Simulation, *resort.Trail, *resort.Trail) {
	sim := newTestSim()
	addLift(sim, resort.Vec3{X: 10}, resort.Vec3{Y: 200, Z: -300}, "Main Chair")
	green := addTrail(sim,
		resort.Vec3{X: 5, Y: 200, Z: -295}, resort.Vec3{X: 15, Z: 5},
		resort.DifficultyGreen, "Meadow")
	black := addTrail(sim,
		resort.Vec3{X: -5, Y: 200, Z: -305}, resort.Vec3{X: 12, Z: 3},
		resort.DifficultyBlack, "Chute")
	return sim, green, black
}

func TestFindPathBaseToTrail(t *testing.T) {
	sim, green, _ := connectedResort()
	p := sim.Planner

	sk := &skiers.Skier{Skill: skiers.SkillBeginner, State: skiers.StateAtBase}
	start, ok := p.CurrentPosition(sk)
	if !ok {
		t.Fatal("no base spawn resolved")
	}
	target, _ := sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, green.ID)

	path := p.FindPath(sim.Graph(), start.Key(), target.Key(), sk.Skill)
	if path == nil {
		t.Fatal("no path from base to the green trail")
	}
	if path[0].Key() != start.Key() {
		t.Fatalf("path starts at %v, want %v", path[0].Key(), start.Key())
	}
	if last := path[len(path)-1]; last.Key() != target.Key() {
		t.Fatalf("path ends at %v, want %v", last.Key(), target.Key())
	}
}

// Chain resort where the only route onward runs down a black trail:
// base → lift1 → black → lift2 → green. A beginner must never be routed
// down the black body even as a connector.
func chainResort() (*Simulation, *resort.Trail) {
	sim := newTestSim()
	addLift(sim, resort.Vec3{X: 10}, resort.Vec3{Y: 200, Z: -300}, "Lower Chair")
	addTrail(sim,
		resort.Vec3{X: 5, Y: 200, Z: -295}, resort.Vec3{X: 400, Y: 100, Z: -400},
		resort.DifficultyBlack, "Connector Chute")
	addLift(sim, resort.Vec3{X: 405, Y: 100, Z: -395}, resort.Vec3{X: 300, Y: 300, Z: -500}, "Upper Chair")
	green := addTrail(sim,
		resort.Vec3{X: 305, Y: 300, Z: -495}, resort.Vec3{X: 600, Y: 0, Z: 0},
		resort.DifficultyGreen, "Summit Meadow")
	return sim, green
}

func TestTrailBodyGating(t *testing.T) {
	sim, green := chainResort()
	p := sim.Planner

	target, _ := sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, green.ID)
	base := sim.Registry.ByType(resort.SnapBaseSpawn)[0]

	if path := p.FindPath(sim.Graph(), base.Key(), target.Key(), skiers.SkillBeginner); path != nil {
		t.Fatal("beginner was routed through a black trail body")
	}
	if path := p.FindPath(sim.Graph(), base.Key(), target.Key(), skiers.SkillAdvanced); path == nil {
		t.Fatal("advanced skier should reach the upper green")
	}
}

func TestBuildPlanElidesTransitionalNodes(t *testing.T) {
	sim, green, _ := connectedResort()
	p := sim.Planner

	base := sim.Registry.ByType(resort.SnapBaseSpawn)[0]
	target, _ := sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, green.ID)

	path := p.FindPath(sim.Graph(), base.Key(), target.Key(), skiers.SkillBeginner)
	if path == nil {
		t.Fatal("no path to plan over")
	}

	steps := BuildPlan(path)
	if len(steps) != 2 {
		t.Fatalf("plan has %d steps, want 2 (ride, ski)", len(steps))
	}
	if steps[0].Type != skiers.StepRideLift {
		t.Fatalf("step 0 type = %v, want ride lift", steps[0].Type)
	}
	if steps[1].Type != skiers.StepSkiTrail || steps[1].EntityID != green.ID {
		t.Fatalf("step 1 = %+v, want ski trail %d", steps[1], green.ID)
	}
}

func TestRemoveLiftDisconnects(t *testing.T) {
	sim, green, _ := connectedResort()
	p := sim.Planner

	base := sim.Registry.ByType(resort.SnapBaseSpawn)[0]
	target, _ := sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, green.ID)

	liftID := sim.LiftOrder()[0]
	sim.RemoveLift(liftID)

	if path := p.FindPath(sim.Graph(), base.Key(), target.Key(), skiers.SkillExpert); path != nil {
		t.Fatal("path survived removal of the only lift")
	}
	if _, ok := sim.Registry.ByTypeAndOwner(resort.SnapLiftBottom, liftID); ok {
		t.Fatal("lift snap points survived teardown")
	}
}

func TestChooseGoalPrefersAllowed(t *testing.T) {
	sim, green, black := connectedResort()
	p := sim.Planner

	// Beginners are capped off the black trail; over many draws every goal
	// must target the green.
	for i := 0; i < 20; i++ {
		sk := &skiers.Skier{
			Skill: skiers.SkillBeginner, State: skiers.StateAtBase,
			DesiredRuns: 5, Satisfaction: skiers.NewSatisfaction(),
		}
		goal := p.ChooseGoal(sk)
		if goal.Type == skiers.GoalReturnToBase {
			t.Fatal("beginner could not be served at all")
		}
		if goal.DestinationTrail == black.ID {
			t.Fatal("beginner goal targeted the black trail")
		}
		if goal.DestinationTrail != green.ID {
			t.Fatalf("goal targeted trail %d, want %d", goal.DestinationTrail, green.ID)
		}
		if len(goal.Steps) == 0 {
			t.Fatal("goal carries no plan steps")
		}
	}
}

func TestDesperateOnlyLastResort(t *testing.T) {
	// A resort with only a double black trail: a beginner still gets a
	// destination rather than none at all.
	sim := newTestSim()
	addLift(sim, resort.Vec3{X: 10}, resort.Vec3{Y: 200, Z: -300}, "Chair")
	dblack := addTrail(sim,
		resort.Vec3{X: 5, Y: 200, Z: -295}, resort.Vec3{X: 15, Z: 5},
		resort.DifficultyDoubleBlack, "Free Fall")

	sk := &skiers.Skier{Skill: skiers.SkillBeginner, State: skiers.StateAtBase, DesiredRuns: 3}
	pick := sim.Planner.ChooseDestinationTrail(sk)
	if pick == nil {
		t.Fatal("desperate fallback returned no trail")
	}
	if pick.ID != dblack.ID {
		t.Fatalf("picked trail %d, want the only trail %d", pick.ID, dblack.ID)
	}

	// Once any allowed trail exists, the desperate trail is never chosen.
	green := addTrail(sim,
		resort.Vec3{X: -5, Y: 200, Z: -305}, resort.Vec3{X: 12, Z: 3},
		resort.DifficultyGreen, "Meadow")
	for i := 0; i < 20; i++ {
		pick := sim.Planner.ChooseDestinationTrail(sk)
		if pick == nil || pick.ID != green.ID {
			t.Fatalf("with a green present, pick = %+v, want trail %d", pick, green.ID)
		}
	}
}

func TestWantsToContinueGates(t *testing.T) {
	sim, _, _ := connectedResort()
	p := sim.Planner

	fresh := &skiers.Skier{DesiredRuns: 5, Satisfaction: skiers.NewSatisfaction()}
	if !p.WantsToContinue(fresh) {
		t.Fatal("fresh skier should want to continue")
	}

	done := &skiers.Skier{DesiredRuns: 3, RunsCompleted: 3, Satisfaction: skiers.NewSatisfaction()}
	if p.WantsToContinue(done) {
		t.Fatal("skier at desired runs should stop")
	}

	tired := &skiers.Skier{DesiredRuns: 5, Satisfaction: skiers.NewSatisfaction()}
	tired.Needs.Fatigue = 0.95
	if p.WantsToContinue(tired) {
		t.Fatal("exhausted skier should stop")
	}

	miserable := &skiers.Skier{DesiredRuns: 5, Satisfaction: skiers.Satisfaction{Legacy: 0.1}}
	if p.WantsToContinue(miserable) {
		t.Fatal("dissatisfied skier should stop")
	}
}
