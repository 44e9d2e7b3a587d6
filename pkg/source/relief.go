package source

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/drapehq/drape/pkg/geometry"
)

// defaultReliefCells controls marching cubes tessellation resolution.
const defaultReliefCells = 120

// Relief triangulates a signed distance field into banner geometry.
// The result is recentered so the XY footprint straddles the origin and
// the lowest point sits at z=0, putting all relief depth on +Z where the
// projectors fold it into the surface radius. UVs span the XY footprint.
func Relief(s sdf.SDF3, cells int) (*geometry.Geometry, error) {
	if s == nil {
		return nil, fmt.Errorf("source: relief: nil solid")
	}
	if cells <= 0 {
		cells = defaultReliefCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("source: relief: solid produced no triangles")
	}

	numVerts := len(triangles) * 3
	g := &geometry.Geometry{
		Positions: make([]float64, 0, numVerts*3),
		Indices:   make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			g.Positions = append(g.Positions, v.X, v.Y, v.Z)
			g.Indices = append(g.Indices, uint32(i*3+j))
		}
	}

	rebase(g)
	assignFootprintUVs(g)
	geometry.ComputeNormals(g)
	return g, nil
}

// Badge returns a coin-like relief solid: a flattened cylinder of the
// given diameter lying on the XY plane with its depth along Z.
func Badge(diameter, depth float64) (sdf.SDF3, error) {
	if diameter <= 0 || depth <= 0 {
		return nil, fmt.Errorf("source: badge: diameter and depth must be positive, got %f x %f", diameter, depth)
	}
	round := depth * 0.25
	s, err := sdf.Cylinder3D(depth, diameter/2, round)
	if err != nil {
		return nil, fmt.Errorf("source: badge: %w", err)
	}
	return s, nil
}

// Plaque returns a rounded-edge box relief solid.
func Plaque(width, height, depth float64) (sdf.SDF3, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("source: plaque: dimensions must be positive, got %f x %f x %f", width, height, depth)
	}
	round := depth * 0.25
	s, err := sdf.Box3D(v3.Vec{X: width, Y: height, Z: depth}, round)
	if err != nil {
		return nil, fmt.Errorf("source: plaque: %w", err)
	}
	return s, nil
}

// rebase recenters the XY footprint on the origin and floors Z at 0.
func rebase(g *geometry.Geometry) {
	b := geometry.ComputeBounds(g)
	c := b.Center()
	for i := 0; i < g.VertexCount(); i++ {
		x, y, z := g.Position(i)
		g.SetPosition(i, x-c.X(), y-c.Y(), z-b.Min.Z())
	}
}

// assignFootprintUVs maps each vertex's XY position across [0,1]. A
// zero-span axis pins its coordinate to 0.5.
func assignFootprintUVs(g *geometry.Geometry) {
	b := geometry.ComputeBounds(g)
	width, height := b.Width(), b.Height()

	g.UVs = make([]float64, g.VertexCount()*2)
	for i := 0; i < g.VertexCount(); i++ {
		x, y, _ := g.Position(i)
		u, v := 0.5, 0.5
		if width > 0 {
			u = (x - b.Min.X()) / width
		}
		if height > 0 {
			v = (y - b.Min.Y()) / height
		}
		g.UVs[i*2] = u
		g.UVs[i*2+1] = v
	}
}
