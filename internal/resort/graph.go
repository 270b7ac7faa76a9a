// Traversal graph builder. The graph connects base spawns to lift bottoms,
// lift bottoms to their tops, tops to nearby trail starts, trail starts to
// their own ends, and trail ends onward to lifts or other trails. Routing
// treats the graph as unweighted: shortest path is fewest hops.
package resort

import "sort"

// DistanceMode selects the metric used for proximity-gated edges.
type DistanceMode uint8

const (
	// DistanceEuclidean3D is the current metric.
	DistanceEuclidean3D DistanceMode = iota
	// DistanceManhattan2D is the legacy tile metric, kept so resorts laid
	// out before the 3D placement pass still build a usable graph.
	DistanceManhattan2D
)

// GraphConfig gates each proximity edge class.
type GraphConfig struct {
	// SnapRadius is the standard connection threshold in world units.
	SnapRadius float64
	// BaseSnapMultiplier widens the BaseSpawn→LiftBottom threshold. Entry
	// points should just work, so this class is deliberately permissive.
	BaseSnapMultiplier float64
	// Mode selects the distance metric.
	Mode DistanceMode
	// TileRadius is the threshold in tiles for DistanceManhattan2D.
	TileRadius int
}

// DefaultGraphConfig returns the standard thresholds.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		SnapRadius:         25.0,
		BaseSnapMultiplier: 1.5,
		Mode:               DistanceEuclidean3D,
		TileRadius:         3,
	}
}

// Graph is a directed adjacency structure over snap points. It is built
// wholesale and never mutated afterward; infrastructure changes trigger a
// full rebuild whose result is swapped in atomically by the caller.
type Graph struct {
	adj    map[SnapKey][]SnapPoint
	points map[SnapKey]SnapPoint
}

// BuildGraph constructs the traversal graph from the registry. Idempotent:
// two builds from an unchanged registry produce identical adjacency.
func BuildGraph(reg *Registry, cfg GraphConfig) *Graph {
	g := &Graph{
		adj:    make(map[SnapKey][]SnapPoint),
		points: make(map[SnapKey]SnapPoint),
	}

	spawns := reg.ByType(SnapBaseSpawn)
	liftBottoms := reg.ByType(SnapLiftBottom)
	liftTops := reg.ByType(SnapLiftTop)
	trailStarts := reg.ByType(SnapTrailStart)
	trailEnds := reg.ByType(SnapTrailEnd)

	for _, pts := range [][]SnapPoint{spawns, liftBottoms, liftTops, trailStarts, trailEnds} {
		for _, p := range pts {
			g.points[p.Key()] = p
		}
	}

	// Base spawn → lift bottom. Widened threshold.
	for _, spawn := range spawns {
		for _, lb := range liftBottoms {
			if withinWidened(spawn, lb, cfg) {
				g.addEdge(spawn, lb)
			}
		}
	}

	// Lift bottom → lift top. Logical edge: same lift, geometry ignored.
	for _, lb := range liftBottoms {
		for _, lt := range liftTops {
			if lt.OwnerID == lb.OwnerID {
				g.addEdge(lb, lt)
			}
		}
	}

	// Lift top → trail start.
	for _, lt := range liftTops {
		for _, ts := range trailStarts {
			if within(lt, ts, cfg) {
				g.addEdge(lt, ts)
			}
		}
	}

	// Trail start → trail end of the same trail: skiing the trail body.
	// Without this class no multi-hop plan is constructible.
	for _, ts := range trailStarts {
		for _, te := range trailEnds {
			if te.OwnerID == ts.OwnerID {
				g.addEdge(ts, te)
			}
		}
	}

	for _, te := range trailEnds {
		// Trail end → next lift bottom.
		for _, lb := range liftBottoms {
			if within(te, lb, cfg) {
				g.addEdge(te, lb)
			}
		}
		// Trail end → start of a different trail (branch skiing).
		for _, ts := range trailStarts {
			if ts.OwnerID == te.OwnerID {
				continue
			}
			if within(te, ts, cfg) {
				g.addEdge(te, ts)
			}
		}
	}

	// Stable neighbor order so rebuilds are byte-identical.
	for _, nbrs := range g.adj {
		sortNeighbors(nbrs)
	}

	return g
}

func within(a, b SnapPoint, cfg GraphConfig) bool {
	if cfg.Mode == DistanceManhattan2D {
		return a.Tile.ManhattanDist(b.Tile) <= cfg.TileRadius
	}
	return a.Position.Dist(b.Position) <= cfg.SnapRadius
}

func withinWidened(a, b SnapPoint, cfg GraphConfig) bool {
	if cfg.Mode == DistanceManhattan2D {
		return float64(a.Tile.ManhattanDist(b.Tile)) <= float64(cfg.TileRadius)*cfg.BaseSnapMultiplier
	}
	return a.Position.Dist(b.Position) <= cfg.SnapRadius*cfg.BaseSnapMultiplier
}

func (g *Graph) addEdge(from, to SnapPoint) {
	g.adj[from.Key()] = append(g.adj[from.Key()], to)
}

func sortNeighbors(pts []SnapPoint) {
	sort.Slice(pts, func(i, j int) bool {
		a, b := pts[i].Key(), pts[j].Key()
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.OwnerID != b.OwnerID {
			return a.OwnerID < b.OwnerID
		}
		if a.QX != b.QX {
			return a.QX < b.QX
		}
		if a.QY != b.QY {
			return a.QY < b.QY
		}
		return a.QZ < b.QZ
	})
}

// Neighbors returns the reachable points from a key. The returned slice is
// owned by the graph and must not be mutated.
func (g *Graph) Neighbors(k SnapKey) []SnapPoint {
	return g.adj[k]
}

// Point returns the snap point stored for a key.
func (g *Graph) Point(k SnapKey) (SnapPoint, bool) {
	p, ok := g.points[k]
	return p, ok
}

// NodeCount returns the number of snap points known to the graph.
func (g *Graph) NodeCount() int {
	return len(g.points)
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n
}
