// Package source builds the flat banner geometries that the projection
// engine re-embeds onto curved surfaces: subdivided planes, artwork
// banners displaced by image luminance, and bas-relief surfaces
// triangulated from signed distance fields.
package source

import "github.com/drapehq/drape/pkg/geometry"

// Plane returns a subdivided rectangle in the XY plane, centered at the
// origin at z=0, with UVs spanning [0,1] on both axes. Segment counts
// below 1 are clamped to 1.
func Plane(width, height float64, segX, segY int) *geometry.Geometry {
	if segX < 1 {
		segX = 1
	}
	if segY < 1 {
		segY = 1
	}

	nx, ny := segX+1, segY+1
	g := &geometry.Geometry{
		Positions: make([]float64, 0, nx*ny*3),
		UVs:       make([]float64, 0, nx*ny*2),
		Normals:   make([]float64, 0, nx*ny*3),
		Indices:   make([]uint32, 0, segX*segY*6),
	}

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			u := float64(i) / float64(segX)
			v := float64(j) / float64(segY)
			g.Positions = append(g.Positions, (u-0.5)*width, (v-0.5)*height, 0)
			g.UVs = append(g.UVs, u, v)
			g.Normals = append(g.Normals, 0, 0, 1)
		}
	}

	for j := 0; j < segY; j++ {
		for i := 0; i < segX; i++ {
			a := uint32(j*nx + i)
			b := a + 1
			c := a + uint32(nx)
			d := c + 1
			// Counter-clockwise when viewed from +Z.
			g.Indices = append(g.Indices, a, b, d, a, d, c)
		}
	}

	return g
}
