package geometry

import "github.com/google/uuid"

// Mesh binds an identity to exactly one owned Geometry. The frontend
// addresses meshes by ID, and projectors key their snapshots by it.
type Mesh struct {
	ID   string
	Name string

	geometry *Geometry
}

// NewMesh creates a mesh owning the given geometry.
func NewMesh(name string, g *Geometry) *Mesh {
	return &Mesh{
		ID:       uuid.NewString(),
		Name:     name,
		geometry: g,
	}
}

// Geometry returns the currently attached geometry.
func (m *Mesh) Geometry() *Geometry {
	return m.geometry
}

// SetGeometry attaches g and releases the previously attached geometry.
// Ownership of g transfers to the mesh; the caller must not release it.
func (m *Mesh) SetGeometry(g *Geometry) {
	old := m.geometry
	m.geometry = g
	old.Release()
}

// Clone returns a deep copy of the mesh under a fresh ID.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		ID:       uuid.NewString(),
		Name:     m.Name,
		geometry: m.geometry.Clone(),
	}
}

// Release releases the attached geometry. The mesh keeps its identity so
// that late Restore calls can still find and ignore it.
func (m *Mesh) Release() {
	m.geometry.Release()
}
