package projector

import (
	"fmt"
	"sort"

	"github.com/drapehq/drape/pkg/geometry"
	"go.uber.org/zap"
)

// Manager owns one projector per mode and guarantees mutual exclusion:
// switching modes restores a mesh to its pristine geometry before the
// next projection is applied, so projections never stack.
type Manager struct {
	log        *zap.Logger
	onApply    EventFunc
	projectors map[string]Projector
	active     map[string]string // mesh ID -> mode
}

// NewManager returns a manager with the built-in cylindrical, spherical
// and fisheye projectors registered. A nil logger means no logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		log:        log,
		projectors: make(map[string]Projector),
		active:     make(map[string]string),
	}
	m.Register(NewCylindrical())
	m.Register(NewSpherical())
	m.Register(NewFisheye())
	return m
}

// Register adds a projector under its Name, replacing any previous
// registration. The manager's logger and event hook are wired onto it
// when the projector supports them.
func (m *Manager) Register(p Projector) {
	if ls, ok := p.(loggerSetter); ok {
		ls.SetLogger(m.log)
	}
	if es, ok := p.(eventSetter); ok && m.onApply != nil {
		es.OnApply(m.onApply)
	}
	m.projectors[p.Name()] = p
}

// OnApply installs an event hook on every registered projector and on
// projectors registered later.
func (m *Manager) OnApply(fn EventFunc) {
	m.onApply = fn
	for _, p := range m.projectors {
		if es, ok := p.(eventSetter); ok {
			es.OnApply(fn)
		}
	}
}

// Modes returns the registered mode names, sorted.
func (m *Manager) Modes() []string {
	modes := make([]string, 0, len(m.projectors))
	for name := range m.projectors {
		modes = append(modes, name)
	}
	sort.Strings(modes)
	return modes
}

// SwitchMode projects the mesh with the named mode. An active projection
// in a different mode is restored first. Re-switching to the active mode
// re-applies with the given options, still based on the pristine
// geometry.
func (m *Manager) SwitchMode(mode string, mesh *geometry.Mesh, opts Options) error {
	next, ok := m.projectors[mode]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if mesh == nil {
		return fmt.Errorf("projector: manager: nil mesh")
	}

	if current, ok := m.active[mesh.ID]; ok && current != mode {
		if err := m.projectors[current].Restore(mesh); err != nil {
			return fmt.Errorf("projector: manager: restore %s: %w", current, err)
		}
		delete(m.active, mesh.ID)
	}

	if err := next.Apply(mesh, opts); err != nil {
		return err
	}
	m.active[mesh.ID] = mode
	m.log.Debug("mode switched",
		zap.String("mesh", mesh.ID),
		zap.String("mode", mode),
	)
	return nil
}

// CurrentMode returns the active mode for the mesh, or "" when no
// projection is active.
func (m *Manager) CurrentMode(mesh *geometry.Mesh) string {
	if mesh == nil {
		return ""
	}
	return m.active[mesh.ID]
}

// Restore undoes the active projection on the mesh, if any.
func (m *Manager) Restore(mesh *geometry.Mesh) error {
	if mesh == nil {
		return nil
	}
	mode, ok := m.active[mesh.ID]
	if !ok {
		return nil
	}
	delete(m.active, mesh.ID)
	return m.projectors[mode].Restore(mesh)
}

// Dispose disposes every registered projector and forgets all active
// projections. Meshes keep their current geometry. Idempotent.
func (m *Manager) Dispose() {
	for _, p := range m.projectors {
		p.Dispose()
	}
	m.active = make(map[string]string)
}
