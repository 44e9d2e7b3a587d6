// Package viewer converts meshes into the JSON payloads the frontend
// renderer consumes. The same payloads are written to disk by batch
// rendering, so the shape lives here rather than in the app bindings.
package viewer

import "github.com/drapehq/drape/pkg/geometry"

// Palette assigns distinct colors to meshes without artwork textures.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// PickColor returns a palette color for the i-th mesh.
func PickColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// MeshPayload is the JSON-serializable mesh format sent to the frontend.
// Positions are converted to float32; the renderer has no use for the
// engine's float64 precision.
type MeshPayload struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs"`
	Indices  []uint32  `json:"indices"`
	MeshID   string    `json:"meshId"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Mode     string    `json:"mode"`
}

// FromMesh builds a payload from a mesh. A nil or released geometry
// yields an empty payload that still carries the mesh identity, which
// lets the frontend drop the object.
func FromMesh(m *geometry.Mesh, color, mode string) MeshPayload {
	p := MeshPayload{
		Vertices: []float32{},
		Normals:  []float32{},
		UVs:      []float32{},
		Indices:  []uint32{},
		MeshID:   m.ID,
		PartName: m.Name,
		Color:    color,
		Mode:     mode,
	}

	g := m.Geometry()
	if g == nil || g.Released() {
		return p
	}

	p.Vertices = toFloat32(g.Positions)
	p.Normals = toFloat32(g.Normals)
	p.UVs = toFloat32(g.UVs)
	if len(g.Indices) > 0 {
		p.Indices = make([]uint32, len(g.Indices))
		copy(p.Indices, g.Indices)
	}
	return p
}

func toFloat32(src []float64) []float32 {
	if len(src) == 0 {
		return []float32{}
	}
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(v)
	}
	return dst
}
