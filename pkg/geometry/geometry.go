// Package geometry defines the flat-buffer triangle mesh model used by the
// projection engine. Positions, UVs and normals are flat float64 arrays
// (3, 2 and 3 components per vertex); indices are optional and reference
// vertices in groups of three per triangle. Buffers stand in for GPU-side
// resources, so geometries are released explicitly rather than left to the
// garbage collector.
package geometry

// Geometry is a triangle mesh buffer set.
// All arrays are flat: positions has 3 floats per vertex (x,y,z),
// uvs has 2 floats per vertex, normals has 3 floats per vertex,
// indices has 3 uint32s per triangle.
type Geometry struct {
	Positions []float64 // [x0,y0,z0, x1,y1,z1, ...]
	UVs       []float64 // [u0,v0, u1,v1, ...]
	Normals   []float64 // [nx0,ny0,nz0, ...]
	Indices   []uint32  // [i0,i1,i2, ...] triangles; empty means sequential

	released bool
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles. Non-indexed geometries
// form one triangle per three consecutive vertices.
func (g *Geometry) TriangleCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return g.VertexCount() / 3
}

// IsEmpty returns true if the geometry has no vertices.
func (g *Geometry) IsEmpty() bool {
	return len(g.Positions) == 0
}

// Position returns the position of vertex i.
func (g *Geometry) Position(i int) (x, y, z float64) {
	return g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
}

// SetPosition overwrites the position of vertex i.
func (g *Geometry) SetPosition(i int, x, y, z float64) {
	g.Positions[i*3] = x
	g.Positions[i*3+1] = y
	g.Positions[i*3+2] = z
}

// UV returns the texture coordinate of vertex i, or (0,0) when the
// geometry carries no UV channel.
func (g *Geometry) UV(i int) (u, v float64) {
	if len(g.UVs) < (i+1)*2 {
		return 0, 0
	}
	return g.UVs[i*2], g.UVs[i*2+1]
}

// Clone returns an independent deep copy. The released flag carries over,
// so a released geometry cannot be laundered back into use by cloning it.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	return &Geometry{
		Positions: append([]float64(nil), g.Positions...),
		UVs:       append([]float64(nil), g.UVs...),
		Normals:   append([]float64(nil), g.Normals...),
		Indices:   append([]uint32(nil), g.Indices...),
		released:  g.released,
	}
}

// Release drops all buffers and marks the geometry released.
// Releasing twice is a no-op.
func (g *Geometry) Release() {
	if g == nil || g.released {
		return
	}
	g.Positions = nil
	g.UVs = nil
	g.Normals = nil
	g.Indices = nil
	g.released = true
}

// Released reports whether Release has been called.
func (g *Geometry) Released() bool {
	return g != nil && g.released
}
