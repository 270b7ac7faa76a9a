package engine

import (
	"testing"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/resort"
	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/skiers"
)

func TestRunDayServesVisitors(t *testing.T) {
	sim, _, _ := connectedResort()

	stats := sim.RunDay(0)

	if stats.Visitors != 20 {
		t.Fatalf("Visitors = %d, want 20", stats.Visitors)
	}
	if stats.Served+stats.Unserved != stats.Visitors {
		t.Fatalf("served %d + unserved %d != visitors %d",
			stats.Served, stats.Unserved, stats.Visitors)
	}
	if stats.Served == 0 {
		t.Fatal("a connected resort served nobody")
	}
	if stats.TotalRuns == 0 {
		t.Fatal("no runs completed on a connected resort")
	}
	if stats.AvgSatisfaction < 0 || stats.AvgSatisfaction > 1 {
		t.Fatalf("AvgSatisfaction = %v, want [0,1]", stats.AvgSatisfaction)
	}
	if stats.AvgScore < 0 || stats.AvgScore > 1 {
		t.Fatalf("AvgScore = %v, want [0,1]", stats.AvgScore)
	}

	runSum := 0
	for _, n := range stats.RunsByDifficulty {
		runSum += n
	}
	if runSum != stats.TotalRuns {
		t.Fatalf("per-difficulty runs sum to %d, want %d", runSum, stats.TotalRuns)
	}

	if len(sim.History) != 1 {
		t.Fatalf("History length = %d, want 1", len(sim.History))
	}
	if sim.Economy.Day != 1 {
		t.Fatalf("Economy.Day = %d, want 1 after one simulated day", sim.Economy.Day)
	}
}

func TestRunDayEmptyResortServesNobody(t *testing.T) {
	sim := newTestSim()

	stats := sim.RunDay(0)

	if stats.Served != 0 {
		t.Fatalf("Served = %d on an empty resort, want 0", stats.Served)
	}
	if stats.Unserved != stats.Visitors {
		t.Fatalf("Unserved = %d, want all %d visitors", stats.Unserved, stats.Visitors)
	}
}

func TestRunDayDeterministic(t *testing.T) {
	s1, _, _ := connectedResort()
	s2, _, _ := connectedResort()

	a := s1.RunDay(0)
	b := s2.RunDay(0)

	if a != b {
		t.Fatalf("identical seeds diverged:\n%+v\n%+v", a, b)
	}
}

func TestStepperCompletesRuns(t *testing.T) {
	sim, _, _ := connectedResort()
	sim.SpawnArrivals(3)

	for tick := uint64(1); tick <= 600; tick++ {
		sim.TickMinute(tick)
	}

	totalRuns := 0
	for _, sk := range sim.Skiers {
		totalRuns += sk.RunsCompleted
	}
	if totalRuns == 0 {
		t.Fatal("no runs completed after a full simulated day")
	}
}

func TestStepperStateTransitions(t *testing.T) {
	sim, green, _ := connectedResort()
	sim.SpawnArrivals(1)
	sk := sim.Skiers[0]
	sk.Skill = skiers.SkillBeginner

	// First tick: goal chosen, lift intent fired, walking.
	sim.TickMinute(1)
	if sk.State != skiers.StateWalkingToLift {
		t.Fatalf("state = %s after tick 1, want WalkingToLift", skiers.StateName(sk.State))
	}
	liftID := sim.LiftOrder()[0]
	info, _ := sim.Tracker.LiftInfo(liftID)
	if info.PendingIntent != 1 {
		t.Fatalf("lift pending intent = %d, want 1", info.PendingIntent)
	}

	// Walk, queue, ride, ski: generously bounded.
	sawQueue, sawLift, sawTrail := false, false, false
	for tick := uint64(2); tick <= 60; tick++ {
		sim.TickMinute(tick)
		switch sk.State {
		case skiers.StateInQueue:
			sawQueue = true
		case skiers.StateRidingLift:
			sawLift = true
		case skiers.StateSkiingTrail:
			sawTrail = true
		}
		if sk.RunsCompleted > 0 {
			break
		}
	}

	if !sawQueue || !sawLift || !sawTrail {
		t.Fatalf("missing states: queue=%v lift=%v trail=%v", sawQueue, sawLift, sawTrail)
	}
	if sk.RunsCompleted != 1 {
		t.Fatalf("RunsCompleted = %d, want 1", sk.RunsCompleted)
	}
	if sk.CurrentTrailID != green.ID {
		t.Fatalf("skied trail %d, want green %d", sk.CurrentTrailID, green.ID)
	}

	// The completed run left the trail's occupancy clean.
	tInfo, _ := sim.Tracker.TrailInfo(green.ID)
	if tInfo.Occupancy != 0 {
		t.Fatalf("trail occupancy = %d after run completion, want 0", tInfo.Occupancy)
	}
}

func TestTickDayCompactsDeparted(t *testing.T) {
	sim, _, _ := connectedResort()
	sim.SpawnArrivals(4)
	sim.Skiers[0].Departed = true
	sim.Skiers[2].Departed = true

	sim.TickDay(600)

	if len(sim.Skiers) != 2 {
		t.Fatalf("population = %d after compaction, want 2", len(sim.Skiers))
	}
	for _, sk := range sim.Skiers {
		if sk.Departed {
			t.Fatal("departed skier survived compaction")
		}
	}
}

func TestAddRemoveTrailRebuildsGraph(t *testing.T) {
	sim := newTestSim()
	addLift(sim, resort.Vec3{X: 10}, resort.Vec3{Y: 200, Z: -300}, "Chair")

	before := sim.Graph().EdgeCount()

	trail := addTrail(sim,
		resort.Vec3{X: 5, Y: 200, Z: -295}, resort.Vec3{X: 15, Z: 5},
		resort.DifficultyBlue, "Cruiser")

	after := sim.Graph().EdgeCount()
	if after <= before {
		t.Fatalf("edge count %d after adding a trail, want more than %d", after, before)
	}

	sim.RemoveTrail(trail.ID)
	if got := sim.Graph().EdgeCount(); got != before {
		t.Fatalf("edge count %d after removal, want %d", got, before)
	}
}

func TestEntityIDSequenceShared(t *testing.T) {
	sim := newTestSim()
	l := addLift(sim, resort.Vec3{X: 10}, resort.Vec3{Y: 200, Z: -300}, "Chair")
	tr := addTrail(sim,
		resort.Vec3{X: 5, Y: 200, Z: -295}, resort.Vec3{X: 15, Z: 5},
		resort.DifficultyGreen, "Meadow")

	if l.ID == tr.ID {
		t.Fatalf("lift and trail share ID %d", l.ID)
	}

	// Snap point ownership stays unambiguous across classes.
	if p, ok := sim.Registry.ByTypeAndOwner(resort.SnapTrailStart, l.ID); ok {
		t.Fatalf("lift ID %d owns a trail start: %+v", l.ID, p)
	}
}
