// Package projector re-embeds flat banner geometry onto curved display
// surfaces. Each projector caches a pristine snapshot of every mesh it
// touches and always transforms from that snapshot, so changing parameters
// or switching surfaces never compounds one projection onto another. The
// Manager enforces that at most one projection is active per mesh.
package projector

import (
	"errors"
	"time"

	"github.com/drapehq/drape/pkg/geometry"
	"go.uber.org/zap"
)

// ErrUnknownMode is returned by the Manager for unregistered mode names.
var ErrUnknownMode = errors.New("projector: unknown mode")

// Options overrides a subset of a projector's stored parameters for a
// single Apply call. Keys are the projector's parameter names; unknown
// keys are logged and ignored. The stored parameters are never mutated.
type Options map[string]float64

// Projector is the surface projection contract. Implementations are cheap
// to construct and hold no resources beyond their mesh snapshots.
type Projector interface {
	// Apply re-embeds the mesh geometry onto the projector's surface,
	// re-basing on the pristine snapshot when one exists.
	Apply(m *geometry.Mesh, opts Options) error

	// Restore puts the pristine pre-projection geometry back on the mesh
	// and forgets the snapshot. Without a snapshot it is a no-op.
	Restore(m *geometry.Mesh) error

	// Name returns the stable mode identifier.
	Name() string

	// Dispose releases every cached snapshot. Safe to call repeatedly.
	Dispose()
}

// ApplyEvent describes one completed projection for observers.
type ApplyEvent struct {
	Mode        string
	MeshID      string
	MeshName    string
	VertexCount int
	Params      map[string]float64
	Fingerprint uint64
	Elapsed     time.Duration
}

// EventFunc receives ApplyEvents. Hooks run synchronously on the applying
// goroutine and must not retain the event's Params map.
type EventFunc func(ApplyEvent)

// loggerSetter and eventSetter are optional capabilities the Manager
// wires up on registered projectors.
type loggerSetter interface{ SetLogger(*zap.Logger) }
type eventSetter interface{ OnApply(EventFunc) }
