package resort

import "testing"

func TestSnapKeyDeterministic(t *testing.T) {
	a := SnapPoint{Type: SnapTrailStart, OwnerID: 7, Position: Vec3{X: 1.234, Y: 56.78, Z: -9.01}}
	b := SnapPoint{Type: SnapTrailStart, OwnerID: 7, Position: Vec3{X: 1.234, Y: 56.78, Z: -9.01}}

	if a.Key() != b.Key() {
		t.Fatalf("equal points produced different keys: %v vs %v", a.Key(), b.Key())
	}

	c := SnapPoint{Type: SnapTrailEnd, OwnerID: 7, Position: a.Position}
	if a.Key() == c.Key() {
		t.Fatalf("different types produced the same key: %v", a.Key())
	}

	d := SnapPoint{Type: SnapTrailStart, OwnerID: 8, Position: a.Position}
	if a.Key() == d.Key() {
		t.Fatalf("different owners produced the same key: %v", a.Key())
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	p := SnapPoint{Type: SnapLiftBottom, OwnerID: 1, Position: Vec3{X: 10}}

	r.Register(p)
	r.Register(p)
	r.Register(p)

	if got := r.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1 after duplicate registration", got)
	}
}

func TestUnregisterOwnerRemovesAll(t *testing.T) {
	r := NewRegistry()
	r.Register(SnapPoint{Type: SnapLiftBottom, OwnerID: 1, Position: Vec3{X: 0}})
	r.Register(SnapPoint{Type: SnapLiftTop, OwnerID: 1, Position: Vec3{X: 0, Y: 300}})
	r.Register(SnapPoint{Type: SnapTrailStart, OwnerID: 2, Position: Vec3{X: 5, Y: 300}})

	r.UnregisterOwner(1)

	if got := r.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1 after owner teardown", got)
	}
	if _, ok := r.ByTypeAndOwner(SnapLiftBottom, 1); ok {
		t.Fatal("lift bottom survived owner teardown")
	}
	if _, ok := r.ByTypeAndOwner(SnapLiftTop, 1); ok {
		t.Fatal("lift top survived owner teardown")
	}
	if _, ok := r.ByTypeAndOwner(SnapTrailStart, 2); !ok {
		t.Fatal("unrelated owner's point was removed")
	}
}

func TestByTypeAndOwner(t *testing.T) {
	r := NewRegistry()
	r.Register(SnapPoint{Type: SnapTrailStart, OwnerID: 3, Position: Vec3{X: 1}})
	r.Register(SnapPoint{Type: SnapTrailEnd, OwnerID: 3, Position: Vec3{X: 2}})

	p, ok := r.ByTypeAndOwner(SnapTrailEnd, 3)
	if !ok {
		t.Fatal("ByTypeAndOwner missed a registered point")
	}
	if p.Position.X != 2 {
		t.Fatalf("got point at X=%v, want X=2", p.Position.X)
	}

	if _, ok := r.ByTypeAndOwner(SnapLiftTop, 3); ok {
		t.Fatal("ByTypeAndOwner returned a point of the wrong type")
	}
	if _, ok := r.ByTypeAndOwner(SnapTrailEnd, 99); ok {
		t.Fatal("ByTypeAndOwner returned a point for an unknown owner")
	}
}

func TestNearest(t *testing.T) {
	r := NewRegistry()
	r.Register(SnapPoint{Type: SnapLiftBottom, OwnerID: 1, Position: Vec3{X: 10}})
	r.Register(SnapPoint{Type: SnapLiftBottom, OwnerID: 2, Position: Vec3{X: 30}})

	p, ok := r.Nearest(SnapLiftBottom, Vec3{X: 0}, 50)
	if !ok {
		t.Fatal("Nearest found nothing within range")
	}
	if p.OwnerID != 1 {
		t.Fatalf("Nearest picked owner %d, want 1", p.OwnerID)
	}

	if _, ok := r.Nearest(SnapLiftBottom, Vec3{X: 0}, 5); ok {
		t.Fatal("Nearest returned a point beyond maxDist")
	}
}
