// Snap points are the typed connection locations infrastructure exposes:
// lift stations, trail mouths, building entrances, and the base spawn.
// The traversal graph is built entirely from the registry's contents.
package resort

import "fmt"

// SnapPointType classifies a connection point.
type SnapPointType uint8

const (
	SnapLiftBottom SnapPointType = iota
	SnapLiftTop
	SnapTrailStart
	SnapTrailEnd
	SnapBuildingEntrance
	SnapBaseSpawn
)

// SnapTypeName returns a display name for a snap point type.
func SnapTypeName(t SnapPointType) string {
	switch t {
	case SnapLiftBottom:
		return "LiftBottom"
	case SnapLiftTop:
		return "LiftTop"
	case SnapTrailStart:
		return "TrailStart"
	case SnapTrailEnd:
		return "TrailEnd"
	case SnapBuildingEntrance:
		return "BuildingEntrance"
	case SnapBaseSpawn:
		return "BaseSpawn"
	}
	return "Unknown"
}

// SnapPoint is an immutable connection point owned by a placed entity.
// Compared by key, never by pointer, so graph edges can hold copies.
type SnapPoint struct {
	Type     SnapPointType `json:"type"`
	OwnerID  EntityID      `json:"owner_id"`
	Position Vec3          `json:"position"`
	Tile     TileCoord     `json:"tile"` // Legacy 2D coordinate
	Name     string        `json:"name"`
}

// SnapKey deterministically identifies a snap point by value. Positions are
// quantized to centimeters so recomputing the key from equal inputs always
// yields an equal key.
type SnapKey struct {
	Type    SnapPointType
	OwnerID EntityID
	QX, QY, QZ int64
}

// Key returns the composite identity key for this snap point.
func (p SnapPoint) Key() SnapKey {
	return SnapKey{
		Type:    p.Type,
		OwnerID: p.OwnerID,
		QX:      int64(p.Position.X * 100),
		QY:      int64(p.Position.Y * 100),
		QZ:      int64(p.Position.Z * 100),
	}
}

// String renders a key for logs and test failures.
func (k SnapKey) String() string {
	return fmt.Sprintf("%s/%d@(%d,%d,%d)", SnapTypeName(k.Type), k.OwnerID, k.QX, k.QY, k.QZ)
}

// Registry stores registered snap points, queryable by type and owner.
// Points are registered when infrastructure is finalized and removed
// atomically per owner when it is torn down.
type Registry struct {
	points map[SnapKey]SnapPoint
	// byOwner lets teardown remove every point for an entity in one call.
	byOwner map[EntityID][]SnapKey
}

// NewRegistry creates an empty snap point registry.
func NewRegistry() *Registry {
	return &Registry{
		points:  make(map[SnapKey]SnapPoint),
		byOwner: make(map[EntityID][]SnapKey),
	}
}

// Register adds a snap point. Re-registering an identical point is a no-op.
func (r *Registry) Register(p SnapPoint) {
	k := p.Key()
	if _, ok := r.points[k]; ok {
		return
	}
	r.points[k] = p
	r.byOwner[p.OwnerID] = append(r.byOwner[p.OwnerID], k)
}

// UnregisterOwner removes every snap point belonging to an owner. All
// points for an owner leave together; there is no partial teardown.
func (r *Registry) UnregisterOwner(owner EntityID) {
	for _, k := range r.byOwner[owner] {
		delete(r.points, k)
	}
	delete(r.byOwner, owner)
}

// Get returns the point stored for a key, if present.
func (r *Registry) Get(k SnapKey) (SnapPoint, bool) {
	p, ok := r.points[k]
	return p, ok
}

// ByType returns all points of the given type.
func (r *Registry) ByType(t SnapPointType) []SnapPoint {
	var out []SnapPoint
	for _, p := range r.points {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// ByTypeAndOwner returns the first point matching both type and owner.
// Owners with no matching point simply yield nothing; that is not an error.
func (r *Registry) ByTypeAndOwner(t SnapPointType, owner EntityID) (SnapPoint, bool) {
	for _, k := range r.byOwner[owner] {
		p := r.points[k]
		if p.Type == t {
			return p, true
		}
	}
	return SnapPoint{}, false
}

// Nearest returns the closest point of the given type within maxDist of
// pos, or false if none qualifies.
func (r *Registry) Nearest(t SnapPointType, pos Vec3, maxDist float64) (SnapPoint, bool) {
	best := SnapPoint{}
	bestDist := maxDist
	found := false
	for _, p := range r.points {
		if p.Type != t {
			continue
		}
		if d := p.Position.Dist(pos); d <= bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

// Len returns the number of registered points.
func (r *Registry) Len() int {
	return len(r.points)
}
