package geometry

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed input geometry. Callers match with
// errors.Is; the wrapped message carries the specifics.
var (
	ErrNilGeometry     = errors.New("geometry: nil geometry")
	ErrReleased        = errors.New("geometry: geometry has been released")
	ErrNoVertices      = errors.New("geometry: no vertices")
	ErrMalformedBuffer = errors.New("geometry: malformed buffer")
	ErrIndexRange      = errors.New("geometry: index out of range")
)

// Validate checks that a geometry is usable as transform input: present,
// not released, with a well-formed position buffer and in-range indices.
func Validate(g *Geometry) error {
	if g == nil {
		return ErrNilGeometry
	}
	if g.released {
		return ErrReleased
	}
	if len(g.Positions) == 0 {
		return ErrNoVertices
	}
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%w: position buffer length %d is not a multiple of 3", ErrMalformedBuffer, len(g.Positions))
	}
	if len(g.UVs) > 0 && len(g.UVs)%2 != 0 {
		return fmt.Errorf("%w: uv buffer length %d is not a multiple of 2", ErrMalformedBuffer, len(g.UVs))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: index buffer length %d is not a multiple of 3", ErrMalformedBuffer, len(g.Indices))
	}

	numVerts := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= numVerts {
			return fmt.Errorf("%w: index %d at offset %d exceeds vertex count %d", ErrIndexRange, idx, i, numVerts)
		}
	}
	return nil
}
