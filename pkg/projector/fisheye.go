package projector

import (
	"math"

	"github.com/drapehq/drape/pkg/geometry"
)

// Compile-time interface check.
var _ Projector = (*Fisheye)(nil)

// ModeFisheye is the registered mode name for Fisheye.
const ModeFisheye = "fisheye"

const (
	defaultFisheyeRadius   = 2.0
	defaultFisheyeAperture = math.Pi / 2
)

// Fisheye bulges flat artwork into an equidistant dome, previewing how it
// reads through a porthole or wide-angle lens. Each vertex moves along a
// great circle whose polar angle grows linearly with the vertex's
// parameter-space distance from the banner center; the aperture sets the
// angle reached at the edge midpoints. The dome apex is shifted back to
// z=0 so the untouched banner center keeps its relief depth exactly.
type Fisheye struct {
	base
	radius   float64
	aperture float64
}

// NewFisheye returns a fisheye projector with default curvature.
func NewFisheye() *Fisheye {
	return &Fisheye{
		base:     newBase(ModeFisheye),
		radius:   defaultFisheyeRadius,
		aperture: defaultFisheyeAperture,
	}
}

// SetRadius changes the stored dome radius.
func (f *Fisheye) SetRadius(radius float64) {
	f.radius = radius
}

// SetAperture changes the stored lens aperture, in radians.
func (f *Fisheye) SetAperture(aperture float64) {
	f.aperture = aperture
}

// Apply projects the mesh onto the dome. Recognized options:
// radius, aperture.
func (f *Fisheye) Apply(m *geometry.Mesh, opts Options) error {
	p := f.mergeOptions(map[string]float64{
		"radius":   f.radius,
		"aperture": f.aperture,
	}, opts)
	return f.project(m, fisheyeMap(p), p)
}

func fisheyeMap(p map[string]float64) MapFunc {
	radius := p["radius"]
	aperture := p["aperture"]

	return func(x, y, z, u, v float64, _ geometry.Bounds) (float64, float64, float64) {
		dx := u - 0.5
		dy := v - 0.5

		// d is 0 at the banner center, 1 at edge midpoints.
		d := 2 * math.Hypot(dx, dy)
		ang := d * aperture / 2
		az := math.Atan2(dy, dx)
		r := radius + z

		return r * math.Sin(ang) * math.Cos(az),
			r * math.Sin(ang) * math.Sin(az),
			r*math.Cos(ang) - radius
	}
}
