package projector

import (
	"math"

	"github.com/drapehq/drape/pkg/geometry"
)

// Compile-time interface check.
var _ Projector = (*Spherical)(nil)

// ModeSpherical is the registered mode name for Spherical.
const ModeSpherical = "spherical"

const (
	defaultSphereRadius = 2.0
	defaultPhiLength    = math.Pi / 2
)

// Spherical drapes flat artwork over a sphere segment, like a print on a
// ball or an ornament. u sweeps the azimuth in the XZ plane exactly as
// the cylindrical projector does, v sweeps the elevation, and z folds
// into the radius. With the elevation span taken to zero the equator
// line matches a cylinder of equal radius, so the two surfaces are
// directly comparable in the viewer.
type Spherical struct {
	base
	radius      float64
	thetaStart  float64
	thetaLength float64
	phiLength   float64
}

// NewSpherical returns a spherical projector with default angles.
func NewSpherical() *Spherical {
	return &Spherical{
		base:        newBase(ModeSpherical),
		radius:      defaultSphereRadius,
		thetaStart:  defaultThetaStart,
		thetaLength: defaultThetaLength,
		phiLength:   defaultPhiLength,
	}
}

// SetRadius changes the stored sphere radius.
func (s *Spherical) SetRadius(radius float64) {
	s.radius = radius
}

// SetAngles changes the stored azimuth start, azimuth sweep and
// elevation sweep, in radians.
func (s *Spherical) SetAngles(thetaStart, thetaLength, phiLength float64) {
	s.thetaStart = thetaStart
	s.thetaLength = thetaLength
	s.phiLength = phiLength
}

// Apply projects the mesh onto the sphere. Recognized options:
// radius, thetaStart, thetaLength, phiLength.
func (s *Spherical) Apply(m *geometry.Mesh, opts Options) error {
	p := s.mergeOptions(map[string]float64{
		"radius":      s.radius,
		"thetaStart":  s.thetaStart,
		"thetaLength": s.thetaLength,
		"phiLength":   s.phiLength,
	}, opts)
	return s.project(m, sphericalMap(p), p)
}

func sphericalMap(p map[string]float64) MapFunc {
	radius := p["radius"]
	thetaStart := p["thetaStart"]
	thetaLength := p["thetaLength"]
	phiLength := p["phiLength"]

	return func(x, y, z, u, v float64, _ geometry.Bounds) (float64, float64, float64) {
		theta := thetaStart + u*thetaLength
		phi := (v - 0.5) * phiLength
		r := radius + z
		return r * math.Cos(phi) * math.Cos(theta), r * math.Sin(phi), r * math.Cos(phi) * math.Sin(theta)
	}
}
