package projector

import (
	"math"
	"testing"

	"github.com/drapehq/drape/pkg/geometry"
)

func TestFisheyeCenterKeepsRelief(t *testing.T) {
	// The banner center is the dome apex; its relief depth must pass
	// through exactly.
	src := unitSquare(2)
	center := findVertex(src, 0.5, 0.5, 0)
	src.SetPosition(center, 0.5, 0.5, 0.3)

	m := geometry.NewMesh("embossed", src)
	proj := NewFisheye()
	if err := proj.Apply(m, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	x, y, z := m.Geometry().Position(center)
	const tol = 1e-9
	if math.Abs(x) > tol || math.Abs(y) > tol || math.Abs(z-0.3) > tol {
		t.Fatalf("center vertex at (%f,%f,%f), expected (0,0,0.3)", x, y, z)
	}
}

func TestFisheyeEdgeMidpointAngle(t *testing.T) {
	// Edge midpoints reach exactly half the aperture. With the default
	// pi/2 aperture that is 45 degrees around the dome.
	m := geometry.NewMesh("banner", unitSquare(2))
	proj := NewFisheye()
	if err := proj.Apply(m, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	i := findVertex(unitSquare(2), 1, 0.5, 0)
	if i < 0 {
		t.Fatal("right edge midpoint not found")
	}
	x, y, z := m.Geometry().Position(i)

	const tol = 1e-9
	r := defaultFisheyeRadius
	wantX := r * math.Sin(math.Pi/4)
	wantZ := r*math.Cos(math.Pi/4) - r
	if math.Abs(x-wantX) > tol || math.Abs(y) > tol || math.Abs(z-wantZ) > tol {
		t.Fatalf("edge midpoint at (%f,%f,%f), expected (%f,0,%f)", x, y, z, wantX, wantZ)
	}
}

func TestFisheyeVerticesOnDome(t *testing.T) {
	// Every flat vertex sits on the sphere centered at (0,0,-radius).
	m := geometry.NewMesh("banner", unitSquare(8))
	proj := NewFisheye()
	if err := proj.Apply(m, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	const tol = 1e-9
	g := m.Geometry()
	for i := 0; i < g.VertexCount(); i++ {
		x, y, z := g.Position(i)
		d := math.Sqrt(x*x + y*y + (z+defaultFisheyeRadius)*(z+defaultFisheyeRadius))
		if math.Abs(d-defaultFisheyeRadius) > tol {
			t.Fatalf("vertex %d off the dome: distance %f, expected %f", i, d, defaultFisheyeRadius)
		}
	}
}

func TestFisheyeRadialSymmetry(t *testing.T) {
	// The four edge midpoints are all the same parameter distance from
	// the center, so they share z and sit at equal spacing around the axis.
	m := geometry.NewMesh("banner", unitSquare(2))
	proj := NewFisheye()
	if err := proj.Apply(m, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	src := unitSquare(2)
	mids := [][2]float64{{1, 0.5}, {0, 0.5}, {0.5, 1}, {0.5, 0}}
	const tol = 1e-9
	var wantZ float64
	for k, mid := range mids {
		i := findVertex(src, mid[0], mid[1], 0)
		x, y, z := m.Geometry().Position(i)
		if k == 0 {
			wantZ = z
		} else if math.Abs(z-wantZ) > tol {
			t.Fatalf("midpoint %v z = %f, expected %f", mid, z, wantZ)
		}
		if math.Abs(math.Hypot(x, y)-defaultFisheyeRadius*math.Sin(math.Pi/4)) > tol {
			t.Fatalf("midpoint %v lateral distance %f off", mid, math.Hypot(x, y))
		}
	}
}

func TestFisheyeAperture(t *testing.T) {
	// Full pi aperture folds the edge midpoints to the dome equator.
	m := geometry.NewMesh("banner", unitSquare(2))
	proj := NewFisheye()
	proj.SetAperture(math.Pi)

	if err := proj.Apply(m, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	i := findVertex(unitSquare(2), 1, 0.5, 0)
	x, y, z := m.Geometry().Position(i)
	const tol = 1e-9
	if math.Abs(x-defaultFisheyeRadius) > tol || math.Abs(y) > tol || math.Abs(z+defaultFisheyeRadius) > tol {
		t.Fatalf("equator vertex at (%f,%f,%f), expected (%f,0,%f)",
			x, y, z, defaultFisheyeRadius, -defaultFisheyeRadius)
	}
}

func TestFisheyeReapplyDoesNotCompose(t *testing.T) {
	m := geometry.NewMesh("banner", unitSquare(4))
	proj := NewFisheye()

	if err := proj.Apply(m, Options{"aperture": 1.0}); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	first := m.Geometry().Fingerprint()

	if err := proj.Apply(m, Options{"aperture": 1.0}); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if m.Geometry().Fingerprint() != first {
		t.Fatal("re-apply composed the projection instead of re-basing")
	}
}

func TestFisheyeName(t *testing.T) {
	if name := NewFisheye().Name(); name != ModeFisheye {
		t.Fatalf("Name = %q, expected %q", name, ModeFisheye)
	}
}
