package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned bounding box. It is always derived from a
// geometry's current positions, never cached on the geometry itself.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the box.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Width returns the X extent.
func (b Bounds) Width() float64 { return b.Max.X() - b.Min.X() }

// Height returns the Y extent.
func (b Bounds) Height() float64 { return b.Max.Y() - b.Min.Y() }

// Depth returns the Z extent.
func (b Bounds) Depth() float64 { return b.Max.Z() - b.Min.Z() }

// ComputeBounds scans the position buffer and returns the bounding box.
// An empty geometry yields the zero Bounds.
func ComputeBounds(g *Geometry) Bounds {
	if g == nil || g.IsEmpty() {
		return Bounds{}
	}

	b := Bounds{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i < g.VertexCount(); i++ {
		x, y, z := g.Position(i)
		b.Min = mgl64.Vec3{math.Min(b.Min.X(), x), math.Min(b.Min.Y(), y), math.Min(b.Min.Z(), z)}
		b.Max = mgl64.Vec3{math.Max(b.Max.X(), x), math.Max(b.Max.Y(), y), math.Max(b.Max.Z(), z)}
	}
	return b
}
