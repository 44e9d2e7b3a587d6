package geometry

import "github.com/go-gl/mathgl/mgl64"

// ComputeNormals recomputes smooth per-vertex normals from positions and
// indices, overwriting whatever normal buffer was present. Face normals are
// accumulated unnormalized, so larger triangles contribute proportionally
// more (area weighting), then each vertex normal is normalized once.
// Non-indexed geometries are treated as sequential triangles.
func ComputeNormals(g *Geometry) {
	if g == nil || g.IsEmpty() {
		return
	}

	numVerts := g.VertexCount()
	normals := make([]float64, numVerts*3)

	forEachTriangle(g, func(i0, i1, i2 uint32) {
		ax, ay, az := g.Position(int(i0))
		bx, by, bz := g.Position(int(i1))
		cx, cy, cz := g.Position(int(i2))

		a := mgl64.Vec3{ax, ay, az}
		e1 := mgl64.Vec3{bx, by, bz}.Sub(a)
		e2 := mgl64.Vec3{cx, cy, cz}.Sub(a)

		// Unnormalized face normal; magnitude is twice the triangle area.
		n := e1.Cross(e2)

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3+0] += n.X()
			normals[idx*3+1] += n.Y()
			normals[idx*3+2] += n.Z()
		}
	})

	for i := 0; i < numVerts; i++ {
		n := mgl64.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		if length := n.Len(); length > 1e-12 {
			n = n.Mul(1 / length)
			normals[i*3+0] = n.X()
			normals[i*3+1] = n.Y()
			normals[i*3+2] = n.Z()
		}
	}

	g.Normals = normals
}

// forEachTriangle visits every triangle of the geometry, following the
// index buffer when present and sequential vertex order otherwise.
func forEachTriangle(g *Geometry, visit func(i0, i1, i2 uint32)) {
	if len(g.Indices) > 0 {
		for t := 0; t+2 < len(g.Indices); t += 3 {
			visit(g.Indices[t], g.Indices[t+1], g.Indices[t+2])
		}
		return
	}
	n := uint32(g.VertexCount())
	for i := uint32(0); i+2 < n; i += 3 {
		visit(i, i+1, i+2)
	}
}
