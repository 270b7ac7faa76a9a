package skiers

import (
	"testing"

	"github.com/brandonbohrer/SkiResortTycoonUnity-sub002/internal/tuning"
)

func TestSpawnDeterministic(t *testing.T) {
	cfg := tuning.Default()
	a := NewSpawner(7, &cfg)
	b := NewSpawner(7, &cfg)

	for i := 0; i < 50; i++ {
		x, y := a.SpawnOne(), b.SpawnOne()
		if x.ID != y.ID || x.Skill != y.Skill || x.DesiredRuns != y.DesiredRuns {
			t.Fatalf("spawn %d diverged: %+v vs %+v", i, x, y)
		}
	}
}

func TestSpawnDefaults(t *testing.T) {
	cfg := tuning.Default()
	s := NewSpawner(1, &cfg)

	sk := s.SpawnOne()
	if sk.State != StateAtBase {
		t.Fatalf("new skier state = %v, want AtBase", StateName(sk.State))
	}
	if sk.DesiredRuns < 1 {
		t.Fatalf("DesiredRuns = %d, want at least 1", sk.DesiredRuns)
	}
	if sk.Satisfaction.Legacy != 0.6 {
		t.Fatalf("initial satisfaction = %v, want 0.6", sk.Satisfaction.Legacy)
	}
	if sk.Satisfaction.FactorCount() == 0 {
		t.Fatal("new skier has no satisfaction factors registered")
	}
}

func TestSpawnBatchIDsSequential(t *testing.T) {
	cfg := tuning.Default()
	s := NewSpawner(1, &cfg)
	s.SetNextID(100)

	batch := s.SpawnBatch(5)
	if len(batch) != 5 {
		t.Fatalf("batch size = %d, want 5", len(batch))
	}
	for i, sk := range batch {
		if want := SkierID(100 + i); sk.ID != want {
			t.Fatalf("skier %d has ID %d, want %d", i, sk.ID, want)
		}
	}
}

func TestSkillDistributionRoughlyMatches(t *testing.T) {
	cfg := tuning.Default()
	s := NewSpawner(42, &cfg)

	counts := [NumSkills]int{}
	const n = 4000
	for i := 0; i < n; i++ {
		counts[s.SpawnOne().Skill]++
	}

	for skill, want := range cfg.SkillDistribution {
		got := float64(counts[skill]) / n
		if got < want-0.05 || got > want+0.05 {
			t.Fatalf("skill %s share = %.3f, want %.2f ± 0.05",
				SkillName(SkillLevel(skill)), got, want)
		}
	}
}
