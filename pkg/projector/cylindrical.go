package projector

import (
	"math"

	"github.com/drapehq/drape/pkg/geometry"
)

// Compile-time interface check.
var _ Projector = (*Cylindrical)(nil)

// ModeCylindrical is the registered mode name for Cylindrical.
const ModeCylindrical = "cylindrical"

// Default cylinder: a half wrap facing the camera on a radius-2 surface.
const (
	defaultCylinderRadius = 2.0
	defaultCylinderHeight = 2.0
	defaultThetaStart     = -math.Pi / 2
	defaultThetaLength    = math.Pi
)

// Cylindrical wraps flat artwork around a vertical cylinder, the way a
// label wraps around a can or bottle. u runs along the arc from
// thetaStart, v runs up the height, and the source z offset folds into
// the radius so embossed artwork keeps its relief after wrapping.
type Cylindrical struct {
	base
	radius      float64
	height      float64
	thetaStart  float64
	thetaLength float64
}

// NewCylindrical returns a cylindrical projector with default dimensions.
func NewCylindrical() *Cylindrical {
	return &Cylindrical{
		base:        newBase(ModeCylindrical),
		radius:      defaultCylinderRadius,
		height:      defaultCylinderHeight,
		thetaStart:  defaultThetaStart,
		thetaLength: defaultThetaLength,
	}
}

// SetDimensions changes the stored cylinder radius and height. Meshes
// already projected are unaffected until the next Apply.
func (c *Cylindrical) SetDimensions(radius, height float64) {
	c.radius = radius
	c.height = height
}

// SetAngleRange changes the stored arc start and sweep, in radians.
func (c *Cylindrical) SetAngleRange(thetaStart, thetaLength float64) {
	c.thetaStart = thetaStart
	c.thetaLength = thetaLength
}

// Apply projects the mesh onto the cylinder. Recognized options:
// radius, height, thetaStart, thetaLength.
func (c *Cylindrical) Apply(m *geometry.Mesh, opts Options) error {
	p := c.mergeOptions(map[string]float64{
		"radius":      c.radius,
		"height":      c.height,
		"thetaStart":  c.thetaStart,
		"thetaLength": c.thetaLength,
	}, opts)
	return c.project(m, cylindricalMap(p), p)
}

func cylindricalMap(p map[string]float64) MapFunc {
	radius := p["radius"]
	height := p["height"]
	thetaStart := p["thetaStart"]
	thetaLength := p["thetaLength"]

	return func(x, y, z, u, v float64, _ geometry.Bounds) (float64, float64, float64) {
		theta := thetaStart + u*thetaLength
		r := radius + z
		return r * math.Cos(theta), (v - 0.5) * height, r * math.Sin(theta)
	}
}
