// Demo resort generator: lays out lifts up the slope and trails back down,
// deterministic from the seed. Stands in for the interactive placement
// tools so a session has something to simulate on first boot.
package resort

import (
	"fmt"
	"math/rand"
)

// GenConfig controls the demo layout.
type GenConfig struct {
	Seed          int64
	Lifts         int
	TrailsPerLift int
	LiftCapacity  float64
}

// DefaultGenConfig returns a small but connected starter resort.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:          1,
		Lifts:         3,
		TrailsPerLift: 2,
		LiftCapacity:  20,
	}
}

var liftNames = []string{
	"Summit Express", "Eagle Chair", "Timberline", "North Face", "Village Gondola",
}

var trailNames = []string{
	"Meadow Lane", "Cruiser", "Powder Bowl", "The Chute", "Ridge Run",
	"Sunset Traverse", "Widowmaker", "Glade Alley", "Corduroy", "Free Fall",
}

// GenerateDemoResort builds lifts and trails over the terrain. Trail starts
// land next to lift tops and trail ends next to lift bottoms, so the
// traversal graph comes out fully connected under the standard snap radius.
// nextID supplies entity IDs from the owning simulation's sequence.
func GenerateDemoResort(t *Terrain, cfg GenConfig, nextID func() EntityID) ([]*Lift, []*Trail) {
	rng := rand.New(rand.NewSource(cfg.Seed + 700))
	extent := t.cfg.Extent

	var lifts []*Lift
	var trails []*Trail

	for i := 0; i < cfg.Lifts; i++ {
		// Bottoms spread along the base line; tops climb toward the ridge.
		bx := -extent*0.6 + float64(i)*extent*1.2/float64(max(cfg.Lifts-1, 1))
		bz := extent * 0.8
		tx := bx + (rng.Float64()-0.5)*extent*0.2
		tz := extent*0.8 - (0.4+0.5*rng.Float64())*extent

		if !t.Buildable(tx, tz) {
			// Pull the top back below the tree line.
			tz = extent * 0.2
		}

		bottom := Vec3{X: bx, Y: t.HeightAt(bx, bz), Z: bz}
		top := Vec3{X: tx, Y: t.HeightAt(tx, tz), Z: tz}

		lift := &Lift{
			ID:       nextID(),
			Name:     liftNames[i%len(liftNames)],
			Bottom:   bottom,
			Top:      top,
			Capacity: cfg.LiftCapacity,
			Valid:    true,
		}
		lifts = append(lifts, lift)

		for j := 0; j < cfg.TrailsPerLift; j++ {
			// Start just off the lift top; end next to a lift bottom. Every
			// other trail ends at a neighboring lift's base to create
			// cross-mountain connectors.
			endLift := lift
			if j%2 == 1 && len(lifts) > 1 {
				endLift = lifts[rng.Intn(len(lifts))]
			}

			sx := top.X + (rng.Float64()-0.5)*10
			sz := top.Z + (rng.Float64()-0.5)*10
			ex := endLift.Bottom.X + (rng.Float64()-0.5)*10
			ez := endLift.Bottom.Z + (rng.Float64()-0.5)*10

			start := Vec3{X: sx, Y: t.HeightAt(sx, sz), Z: sz}
			end := Vec3{X: ex, Y: t.HeightAt(ex, ez), Z: ez}
			length := start.Dist(end)
			if length <= 0 {
				continue
			}

			trail := &Trail{
				ID:         nextID(),
				Name:       trailNames[(i*cfg.TrailsPerLift+j)%len(trailNames)],
				Start:      start,
				End:        end,
				Length:     length,
				Difficulty: difficultyFromGradient(t.DropOver(sx, sz, ex, ez) / length),
				Valid:      true,
			}
			trails = append(trails, trail)
		}
	}

	return lifts, trails
}

// difficultyFromGradient rates a trail by average steepness, drop over
// length. Thresholds roughly track real-world trail ratings.
func difficultyFromGradient(gradient float64) Difficulty {
	switch {
	case gradient < 0.15:
		return DifficultyGreen
	case gradient < 0.30:
		return DifficultyBlue
	case gradient < 0.45:
		return DifficultyBlack
	default:
		return DifficultyDoubleBlack
	}
}

// DescribeLayout returns a one-line summary for startup logging.
func DescribeLayout(lifts []*Lift, trails []*Trail) string {
	counts := [NumDifficulties]int{}
	for _, t := range trails {
		counts[t.Difficulty]++
	}
	return fmt.Sprintf("%d lifts, %d trails (%d green, %d blue, %d black, %d double black)",
		len(lifts), len(trails), counts[0], counts[1], counts[2], counts[3])
}
