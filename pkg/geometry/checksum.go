package geometry

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the position buffer into a 64-bit content identity.
// Two geometries with bitwise-equal positions share a fingerprint, so it
// survives Clone and can be used to detect whether a transform actually
// moved anything. UVs, normals and indices are deliberately excluded:
// identity follows the shape, not its shading attributes.
func (g *Geometry) Fingerprint() uint64 {
	if g == nil || len(g.Positions) == 0 {
		return 0
	}

	d := xxhash.New()
	var buf [8]byte
	for _, p := range g.Positions {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p))
		d.Write(buf[:])
	}
	return d.Sum64()
}
