// Terrain is a black box to the flow simulation: it supplies a height
// lookup and a per-tile buildability answer, nothing more. The layered
// simplex field here stands in for whatever height source the placement
// tools actually use.
package resort

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainConfig controls the demo heightfield.
type TerrainConfig struct {
	Seed      int64
	PeakHeight float64 // Vertical scale of the mountain in world units
	Extent    float64  // Half-width of the buildable square
	TreeLine  float64  // Fraction of peak height above which nothing builds
}

// DefaultTerrainConfig returns a mountain suitable for a small resort.
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		Seed:       1,
		PeakHeight: 400,
		Extent:     600,
		TreeLine:   0.92,
	}
}

// Terrain provides height lookups over a simplex-noise mountainside.
type Terrain struct {
	cfg   TerrainConfig
	noise opensimplex.Noise
}

// NewTerrain creates a terrain height provider from the config seed.
func NewTerrain(cfg TerrainConfig) *Terrain {
	return &Terrain{
		cfg:   cfg,
		noise: opensimplex.NewNormalized(cfg.Seed),
	}
}

// HeightAt returns the terrain height at a horizontal position. The base
// shape is a ridge rising with -Z, roughened by two noise octaves.
func (t *Terrain) HeightAt(x, z float64) float64 {
	// Ridge profile: height grows linearly toward the back of the extent.
	slope := (t.cfg.Extent - z) / (2 * t.cfg.Extent)
	if slope < 0 {
		slope = 0
	}
	if slope > 1 {
		slope = 1
	}

	n := t.noise.Eval2(x*0.004, z*0.004)*0.7 + t.noise.Eval2(x*0.015, z*0.015)*0.3
	h := (slope*0.85 + n*0.15) * t.cfg.PeakHeight
	if h < 0 {
		h = 0
	}
	return h
}

// Buildable reports whether infrastructure may be placed at a position:
// inside the extent and below the tree line.
func (t *Terrain) Buildable(x, z float64) bool {
	if math.Abs(x) > t.cfg.Extent || math.Abs(z) > t.cfg.Extent {
		return false
	}
	return t.HeightAt(x, z) <= t.cfg.TreeLine*t.cfg.PeakHeight
}

// DropOver returns the vertical drop between two horizontal positions,
// positive when the first is higher. Used by the demo trail generator to
// derive a difficulty rating.
func (t *Terrain) DropOver(x1, z1, x2, z2 float64) float64 {
	return t.HeightAt(x1, z1) - t.HeightAt(x2, z2)
}
