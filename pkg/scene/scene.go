// Package scene provides the Lisp staging language for Drape. It wraps
// zygomys in a sandboxed environment and produces an ordered list of
// staging directives from user source code. The directives are data;
// executing them against live meshes is the caller's job.
package scene

import "fmt"

// StepKind identifies the directive a Step carries.
type StepKind int

const (
	// StepBanner builds a mesh from an artwork file.
	StepBanner StepKind = iota
	// StepPlane builds a plain subdivided quad.
	StepPlane
	// StepRelief builds a mesh from a solid description.
	StepRelief
	// StepProject wraps a mesh onto a projection surface.
	StepProject
	// StepRestore returns a mesh to its flat state.
	StepRestore
)

func (k StepKind) String() string {
	switch k {
	case StepBanner:
		return "banner"
	case StepPlane:
		return "plane"
	case StepRelief:
		return "relief"
	case StepProject:
		return "project"
	case StepRestore:
		return "restore"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// StepData is the kind-specific payload of a directive.
type StepData interface {
	isStepData()
}

// Step is one directive in an evaluated scene, bound to a mesh by name.
type Step struct {
	Kind StepKind
	Mesh string
	Data StepData
}

// BannerData describes a banner mesh sourced from an artwork file.
// Zero dimensions defer to the artwork's aspect ratio at build time.
type BannerData struct {
	Artwork  string
	Width    float64
	Height   float64
	Segments int
	Emboss   float64
}

func (BannerData) isStepData() {}

// PlaneData describes a plain subdivided quad.
type PlaneData struct {
	Width     float64
	Height    float64
	SegmentsX int
	SegmentsY int
}

func (PlaneData) isStepData() {}

// SolidKind identifies a relief solid shape.
type SolidKind int

const (
	SolidBadge SolidKind = iota
	SolidPlaque
)

func (k SolidKind) String() string {
	switch k {
	case SolidBadge:
		return "badge"
	case SolidPlaque:
		return "plaque"
	}
	return fmt.Sprintf("SolidKind(%d)", int(k))
}

// SolidSpec describes a relief solid. Badge uses Diameter and Depth;
// Plaque uses Width, Height and Depth.
type SolidSpec struct {
	Kind     SolidKind
	Diameter float64
	Width    float64
	Height   float64
	Depth    float64
}

// ReliefData describes a mesh triangulated from a solid. Zero Cells
// defers to the default tessellation resolution at build time.
type ReliefData struct {
	Solid SolidSpec
	Cells int
}

func (ReliefData) isStepData() {}

// ProjectData wraps a mesh onto the named projection mode. Options
// override projector parameters for this application only.
type ProjectData struct {
	Mode    string
	Options map[string]float64
}

func (ProjectData) isStepData() {}

// RestoreData returns a mesh to its flat state.
type RestoreData struct{}

func (RestoreData) isStepData() {}

// Scene is the ordered result of evaluating staging source code.
type Scene struct {
	steps []Step
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Append adds a directive to the end of the scene.
func (s *Scene) Append(st Step) {
	s.steps = append(s.steps, st)
}

// Steps returns the directives in evaluation order.
func (s *Scene) Steps() []Step {
	return s.steps
}

// StepCount returns the number of directives in the scene.
func (s *Scene) StepCount() int {
	return len(s.steps)
}
