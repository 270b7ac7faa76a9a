// Package resort provides the infrastructure data model: lifts, trails,
// snap points, and the directed traversal graph that stitches them together.
package resort

import "math"

// EntityID identifies a placed lift or trail. IDs are unique within their
// entity class (lift IDs and trail IDs are separate sequences).
type EntityID uint64

// Difficulty rates a trail. Ordering matters: comparisons against skill
// levels assume Green < Blue < Black < DoubleBlack.
type Difficulty uint8

const (
	DifficultyGreen       Difficulty = iota // Gentle groomed runs
	DifficultyBlue                          // Intermediate cruisers
	DifficultyBlack                         // Steep expert terrain
	DifficultyDoubleBlack                   // Extreme terrain
)

// NumDifficulties is the number of trail difficulty ratings.
const NumDifficulties = 4

// DifficultyName returns a display name for a difficulty rating.
func DifficultyName(d Difficulty) string {
	switch d {
	case DifficultyGreen:
		return "Green"
	case DifficultyBlue:
		return "Blue"
	case DifficultyBlack:
		return "Black"
	case DifficultyDoubleBlack:
		return "DoubleBlack"
	}
	return "Unknown"
}

// Vec3 is a position in world space. Y is vertical.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dist returns the 3D Euclidean distance to other.
func (v Vec3) Dist(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// TileCoord is a legacy 2D tile position kept for backward data
// compatibility with resorts laid out before the 3D placement pass.
type TileCoord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// ManhattanDist returns the legacy 2D Manhattan distance to other.
func (t TileCoord) ManhattanDist(other TileCoord) int {
	dx := t.X - other.X
	dz := t.Z - other.Z
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}

// Lift is a validated, placed lift. Produced by the placement system;
// the simulation core only reads it.
type Lift struct {
	ID       EntityID `json:"id"`
	Name     string   `json:"name"`
	Bottom   Vec3     `json:"bottom"`
	Top      Vec3     `json:"top"`
	Capacity float64  `json:"capacity"` // Riders the lift comfortably serves
	Valid    bool     `json:"valid"`
}

// Trail is a validated, placed trail. Difficulty is pre-computed by the
// trail validator before the core sees it.
type Trail struct {
	ID         EntityID   `json:"id"`
	Name       string     `json:"name"`
	Start      Vec3       `json:"start"`
	End        Vec3       `json:"end"`
	Length     float64    `json:"length"`
	Difficulty Difficulty `json:"difficulty"`
	Valid      bool       `json:"valid"`
}

// Capacity derives a trail's comfortable skier count from its physical
// length. Longer trails absorb more simultaneous skiers.
func (t *Trail) Capacity() float64 {
	if t.Length <= 0 {
		return 1
	}
	return t.Length / 25.0
}
