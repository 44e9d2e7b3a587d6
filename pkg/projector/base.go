package projector

import (
	"fmt"
	"time"

	"github.com/drapehq/drape/pkg/geometry"
	"go.uber.org/zap"
)

// base carries the snapshot cache and observability plumbing shared by
// every projector variant. Variants embed it and supply only their
// parameters and mapping function.
type base struct {
	name      string
	log       *zap.Logger
	onApply   EventFunc
	snapshots map[string]*geometry.Geometry // mesh ID -> pristine geometry
}

func newBase(name string) base {
	return base{
		name:      name,
		log:       zap.NewNop(),
		snapshots: make(map[string]*geometry.Geometry),
	}
}

// Name returns the stable mode identifier.
func (b *base) Name() string { return b.name }

// SetLogger replaces the no-op default logger.
func (b *base) SetLogger(log *zap.Logger) {
	if log != nil {
		b.log = log
	}
}

// OnApply installs a hook invoked after every successful Apply.
func (b *base) OnApply(fn EventFunc) { b.onApply = fn }

// saveOriginal caches a pristine copy of the mesh geometry on first use.
// Later calls return the existing snapshot untouched, which is what makes
// repeated Apply calls re-base instead of compounding.
func (b *base) saveOriginal(m *geometry.Mesh) (*geometry.Geometry, error) {
	if snap, ok := b.snapshots[m.ID]; ok {
		return snap, nil
	}
	if err := geometry.Validate(m.Geometry()); err != nil {
		return nil, err
	}
	snap := m.Geometry().Clone()
	b.snapshots[m.ID] = snap
	return snap, nil
}

// project is the shared Apply flow: snapshot, transform from the
// snapshot, swap the result onto the mesh, then report.
func (b *base) project(m *geometry.Mesh, fn MapFunc, params map[string]float64) error {
	if m == nil {
		return fmt.Errorf("projector: %s: nil mesh", b.name)
	}

	start := time.Now()
	src, err := b.saveOriginal(m)
	if err != nil {
		return fmt.Errorf("projector: %s: %w", b.name, err)
	}

	bounds := geometry.ComputeBounds(src)
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		b.log.Warn("degenerate bounds, pinning parameters to domain midpoint",
			zap.String("projector", b.name),
			zap.String("mesh", m.ID),
			zap.Float64("width", bounds.Width()),
			zap.Float64("height", bounds.Height()),
		)
	}

	out, err := Transform(src, fn)
	if err != nil {
		return fmt.Errorf("projector: %s: %w", b.name, err)
	}
	m.SetGeometry(out)

	ev := ApplyEvent{
		Mode:        b.name,
		MeshID:      m.ID,
		MeshName:    m.Name,
		VertexCount: out.VertexCount(),
		Params:      params,
		Fingerprint: out.Fingerprint(),
		Elapsed:     time.Since(start),
	}
	b.log.Info("projection applied",
		zap.String("projector", ev.Mode),
		zap.String("mesh", ev.MeshID),
		zap.Int("vertices", ev.VertexCount),
		zap.Uint64("fingerprint", ev.Fingerprint),
		zap.Duration("elapsed", ev.Elapsed),
	)
	if b.onApply != nil {
		b.onApply(ev)
	}
	return nil
}

// Restore puts the pristine geometry back onto the mesh and drops the
// snapshot. The projected geometry it replaces is released. Nothing
// cached means nothing to do.
func (b *base) Restore(m *geometry.Mesh) error {
	if m == nil {
		return fmt.Errorf("projector: %s: nil mesh", b.name)
	}
	snap, ok := b.snapshots[m.ID]
	if !ok {
		return nil
	}
	delete(b.snapshots, m.ID)
	m.SetGeometry(snap)
	b.log.Debug("projection restored",
		zap.String("projector", b.name),
		zap.String("mesh", m.ID),
	)
	return nil
}

// Dispose releases every cached snapshot. Meshes keep whatever geometry
// they currently show; only the ability to restore is lost. Idempotent.
func (b *base) Dispose() {
	for id, snap := range b.snapshots {
		snap.Release()
		delete(b.snapshots, id)
	}
}

// mergeOptions overlays call-site options onto the variant's current
// parameters. Unknown keys are logged and skipped so a typo cannot
// silently become a new parameter.
func (b *base) mergeOptions(params map[string]float64, opts Options) map[string]float64 {
	merged := make(map[string]float64, len(params))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range opts {
		if _, ok := merged[k]; !ok {
			b.log.Warn("ignoring unknown option",
				zap.String("projector", b.name),
				zap.String("option", k),
			)
			continue
		}
		merged[k] = v
	}
	return merged
}
