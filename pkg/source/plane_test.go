package source

import (
	"math"
	"testing"

	"github.com/drapehq/drape/pkg/geometry"
)

func TestPlaneCounts(t *testing.T) {
	g := Plane(2, 1, 4, 3)

	wantVerts := 5 * 4
	wantTris := 4 * 3 * 2
	if g.VertexCount() != wantVerts {
		t.Fatalf("VertexCount = %d, expected %d", g.VertexCount(), wantVerts)
	}
	if g.TriangleCount() != wantTris {
		t.Fatalf("TriangleCount = %d, expected %d", g.TriangleCount(), wantTris)
	}
	if err := geometry.Validate(g); err != nil {
		t.Fatalf("plane failed validation: %v", err)
	}
}

func TestPlaneCentered(t *testing.T) {
	g := Plane(4, 2, 8, 8)
	b := geometry.ComputeBounds(g)

	const tol = 1e-12
	if math.Abs(b.Min.X()+2) > tol || math.Abs(b.Max.X()-2) > tol {
		t.Fatalf("X span [%f,%f], expected [-2,2]", b.Min.X(), b.Max.X())
	}
	if math.Abs(b.Min.Y()+1) > tol || math.Abs(b.Max.Y()-1) > tol {
		t.Fatalf("Y span [%f,%f], expected [-1,1]", b.Min.Y(), b.Max.Y())
	}
	if b.Depth() != 0 {
		t.Fatalf("plane depth = %f, expected 0", b.Depth())
	}
}

func TestPlaneUVs(t *testing.T) {
	g := Plane(2, 2, 2, 2)

	const tol = 1e-12
	// Bottom-left vertex carries uv (0,0), top-right carries (1,1).
	u, v := g.UV(0)
	if math.Abs(u) > tol || math.Abs(v) > tol {
		t.Fatalf("corner uv = (%f,%f), expected (0,0)", u, v)
	}
	u, v = g.UV(g.VertexCount() - 1)
	if math.Abs(u-1) > tol || math.Abs(v-1) > tol {
		t.Fatalf("corner uv = (%f,%f), expected (1,1)", u, v)
	}
}

func TestPlaneNormalsFaceForward(t *testing.T) {
	g := Plane(1, 1, 3, 3)
	for i := 0; i < g.VertexCount(); i++ {
		if g.Normals[i*3+2] != 1 {
			t.Fatalf("vertex %d normal = %v, expected (0,0,1)", i, g.Normals[i*3:i*3+3])
		}
	}

	// Winding agrees with the stored normals once recomputed.
	geometry.ComputeNormals(g)
	const tol = 1e-9
	for i := 0; i < g.VertexCount(); i++ {
		if math.Abs(g.Normals[i*3+2]-1) > tol {
			t.Fatalf("recomputed vertex %d normal = %v, expected (0,0,1)", i, g.Normals[i*3:i*3+3])
		}
	}
}

func TestPlaneClampsSegments(t *testing.T) {
	g := Plane(1, 1, 0, -5)
	if g.VertexCount() != 4 {
		t.Fatalf("VertexCount = %d, expected 4 for a 1x1 grid", g.VertexCount())
	}
	if g.TriangleCount() != 2 {
		t.Fatalf("TriangleCount = %d, expected 2", g.TriangleCount())
	}
}
