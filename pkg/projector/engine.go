package projector

import (
	"fmt"

	"github.com/drapehq/drape/pkg/geometry"
)

// MapFunc computes the projected position of a single vertex. It receives
// the vertex position (x, y, z), its normalized parameter coordinates
// (u, v) derived from the source bounding box, and the bounding box
// itself. It must be pure: no state, no side effects.
type MapFunc func(x, y, z, u, v float64, b geometry.Bounds) (px, py, pz float64)

// Transform runs every vertex of src through fn and returns a fresh
// geometry. Vertex count, ordering and triangle topology are preserved;
// UVs are rewritten to the parameter coordinates and normals are
// recomputed from the projected positions. src itself is never mutated.
//
// Parameter coordinates come from the bounding box: u spans the X extent,
// v spans the Y extent. A zero-span axis pins its parameter to 0.5, the
// domain midpoint, so angular surfaces stay centered and the output is
// finite for any finite input.
func Transform(src *geometry.Geometry, fn MapFunc) (*geometry.Geometry, error) {
	if err := geometry.Validate(src); err != nil {
		return nil, fmt.Errorf("projector: transform: %w", err)
	}

	b := geometry.ComputeBounds(src)
	width, height := b.Width(), b.Height()

	numVerts := src.VertexCount()
	out := &geometry.Geometry{
		Positions: make([]float64, numVerts*3),
		UVs:       make([]float64, numVerts*2),
		Indices:   append([]uint32(nil), src.Indices...),
	}

	for i := 0; i < numVerts; i++ {
		x, y, z := src.Position(i)

		u, v := 0.5, 0.5
		if width > 0 {
			u = (x - b.Min.X()) / width
		}
		if height > 0 {
			v = (y - b.Min.Y()) / height
		}

		px, py, pz := fn(x, y, z, u, v, b)
		out.SetPosition(i, px, py, pz)
		out.UVs[i*2] = u
		out.UVs[i*2+1] = v
	}

	geometry.ComputeNormals(out)
	return out, nil
}
