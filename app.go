package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deadsy/sdfx/sdf"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/drapehq/drape/pkg/config"
	"github.com/drapehq/drape/pkg/geometry"
	"github.com/drapehq/drape/pkg/projector"
	"github.com/drapehq/drape/pkg/scene"
	"github.com/drapehq/drape/pkg/source"
	"github.com/drapehq/drape/pkg/texture"
	"github.com/drapehq/drape/pkg/viewer"
)

// App is the Wails backend. It exposes methods to the frontend via
// bindings. All mesh state lives here; the frontend only renders what
// it is sent.
type App struct {
	ctx     context.Context
	log     *zap.Logger
	cfg     config.Config
	engine  *scene.Engine
	manager *projector.Manager

	// Bindings may be called from concurrent frontend calls, but the
	// projection core is synchronous, so the registry gate serializes.
	mu     sync.Mutex
	meshes map[string]*geometry.Mesh
	order  []string
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SceneResult is the full result of a scene evaluation: every live
// mesh plus any errors.
type SceneResult struct {
	Meshes []viewer.MeshPayload `json:"meshes"`
	Errors []EvalErrorData      `json:"errors"`
}

// MeshResult is the result of an operation on a single mesh.
type MeshResult struct {
	Mesh  viewer.MeshPayload `json:"mesh"`
	Error string             `json:"error"`
}

// ArtworkResult carries a freshly built banner mesh and its viewer
// texture. The texture crosses the bridge as base64 WebP.
type ArtworkResult struct {
	Mesh    viewer.MeshPayload `json:"mesh"`
	Texture []byte             `json:"texture"`
	Error   string             `json:"error"`
}

// ApplyEventData is the payload of the projection:applied event.
type ApplyEventData struct {
	Mode        string `json:"mode"`
	MeshID      string `json:"meshId"`
	MeshName    string `json:"meshName"`
	VertexCount int    `json:"vertexCount"`
	Fingerprint string `json:"fingerprint"`
	ElapsedUS   int64  `json:"elapsedUs"`
}

// NewApp creates an App with default settings and no logging.
func NewApp() *App {
	return NewAppWithConfig(config.Config{}, nil)
}

// NewAppWithConfig creates an App with resolved settings.
func NewAppWithConfig(cfg config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Resolve(config.Flags{})

	a := &App{
		log:    log,
		cfg:    cfg,
		engine: scene.NewEngine(),
		meshes: make(map[string]*geometry.Mesh),
	}
	a.manager = projector.NewManager(log)
	a.manager.OnApply(a.emitApplied)
	return a
}

// startup is called by Wails on app startup. The context is saved for
// runtime event emission.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("drape started", zap.Strings("modes", a.manager.Modes()))
}

// shutdown releases every mesh and projection snapshot.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.manager.Dispose()
	for _, m := range a.meshes {
		m.Release()
	}
	a.meshes = make(map[string]*geometry.Mesh)
	a.order = nil
	a.log.Info("drape shut down")
}

// emitApplied forwards projection events to the frontend.
func (a *App) emitApplied(ev projector.ApplyEvent) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, "projection:applied", ApplyEventData{
		Mode:        ev.Mode,
		MeshID:      ev.MeshID,
		MeshName:    ev.MeshName,
		VertexCount: ev.VertexCount,
		Fingerprint: fmt.Sprintf("%016x", ev.Fingerprint),
		ElapsedUS:   ev.Elapsed.Microseconds(),
	})
}

// EvaluateScene takes staging source and executes it against the mesh
// registry. This is the primary binding called by the frontend editor.
func (a *App) EvaluateScene(sourceCode string) SceneResult {
	result := SceneResult{
		Meshes: []viewer.MeshPayload{},
		Errors: []EvalErrorData{},
	}

	sc, evalErrs, err := a.engine.Evaluate(sourceCode)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("scene evaluation failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, st := range sc.Steps() {
		if err := a.runStep(st); err != nil {
			a.log.Warn("scene step failed",
				zap.Stringer("step", st.Kind),
				zap.String("mesh", st.Mesh),
				zap.Error(err))
			result.Errors = append(result.Errors, EvalErrorData{
				Message: fmt.Sprintf("%s %q: %v", st.Kind, st.Mesh, err),
			})
			break
		}
	}

	result.Meshes = a.payloadsLocked()
	return result
}

// runStep executes one scene directive. Caller holds the registry gate.
func (a *App) runStep(st scene.Step) error {
	switch d := st.Data.(type) {
	case scene.BannerData:
		img, err := source.LoadArtwork(d.Artwork)
		if err != nil {
			return err
		}
		segments := d.Segments
		if segments == 0 {
			segments = a.cfg.Segments
		}
		g, err := source.FromImage(img, source.BannerOptions{
			Width:     d.Width,
			Height:    d.Height,
			SegmentsX: segments,
			Emboss:    d.Emboss,
		})
		if err != nil {
			return err
		}
		a.registerLocked(st.Mesh, g)
		return nil

	case scene.PlaneData:
		a.registerLocked(st.Mesh, source.Plane(d.Width, d.Height, d.SegmentsX, d.SegmentsY))
		return nil

	case scene.ReliefData:
		s, err := buildSolid(d.Solid)
		if err != nil {
			return err
		}
		g, err := source.Relief(s, d.Cells)
		if err != nil {
			return err
		}
		a.registerLocked(st.Mesh, g)
		return nil

	case scene.ProjectData:
		m, err := a.lookupLocked(st.Mesh)
		if err != nil {
			return err
		}
		return a.manager.SwitchMode(d.Mode, m, projector.Options(d.Options))

	case scene.RestoreData:
		m, err := a.lookupLocked(st.Mesh)
		if err != nil {
			return err
		}
		return a.manager.Restore(m)
	}
	return fmt.Errorf("unhandled directive %s", st.Kind)
}

// buildSolid turns a scene solid description into a signed distance field.
func buildSolid(spec scene.SolidSpec) (sdf.SDF3, error) {
	switch spec.Kind {
	case scene.SolidBadge:
		return source.Badge(spec.Diameter, spec.Depth)
	case scene.SolidPlaque:
		return source.Plaque(spec.Width, spec.Height, spec.Depth)
	}
	return nil, fmt.Errorf("unhandled solid kind %s", spec.Kind)
}

// LoadArtwork builds a banner mesh and viewer texture from a file on
// disk, using the configured segment and emboss defaults.
func (a *App) LoadArtwork(path string) ArtworkResult {
	img, err := source.LoadArtwork(path)
	if err != nil {
		return ArtworkResult{Error: err.Error()}
	}

	g, err := source.FromImage(img, source.BannerOptions{
		SegmentsX: a.cfg.Segments,
		Emboss:    a.cfg.Emboss,
	})
	if err != nil {
		return ArtworkResult{Error: err.Error()}
	}

	webp, err := texture.EncodeWebP(texture.FitPowerOfTwo(img, a.cfg.TextureMax))
	if err != nil {
		return ArtworkResult{Error: err.Error()}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	name := stem(filepath.Base(path))
	m := a.registerLocked(name, g)

	a.log.Info("artwork loaded",
		zap.String("path", path),
		zap.String("mesh", name),
		zap.Int("vertices", g.VertexCount()))

	return ArtworkResult{
		Mesh:    viewer.FromMesh(m, a.colorLocked(name), ""),
		Texture: webp,
	}
}

// SwitchMode wraps the named mesh onto a projection surface. Options
// override projector parameters for this application only.
func (a *App) SwitchMode(name, mode string, opts map[string]float64) MeshResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.lookupLocked(name)
	if err != nil {
		return MeshResult{Error: err.Error()}
	}
	if err := a.manager.SwitchMode(mode, m, projector.Options(opts)); err != nil {
		return MeshResult{Error: err.Error()}
	}
	return MeshResult{Mesh: viewer.FromMesh(m, a.colorLocked(name), mode)}
}

// RestoreMesh returns the named mesh to its flat state.
func (a *App) RestoreMesh(name string) MeshResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.lookupLocked(name)
	if err != nil {
		return MeshResult{Error: err.Error()}
	}
	if err := a.manager.Restore(m); err != nil {
		return MeshResult{Error: err.Error()}
	}
	return MeshResult{Mesh: viewer.FromMesh(m, a.colorLocked(name), "")}
}

// RemoveMesh drops the named mesh and its projection snapshot.
func (a *App) RemoveMesh(name string) MeshResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.lookupLocked(name)
	if err != nil {
		return MeshResult{Error: err.Error()}
	}
	if err := a.manager.Restore(m); err != nil {
		return MeshResult{Error: err.Error()}
	}
	m.Release()
	delete(a.meshes, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return MeshResult{}
}

// Modes lists the registered projection modes.
func (a *App) Modes() []string {
	return a.manager.Modes()
}

// CurrentMode reports the active mode for the named mesh, or "".
func (a *App) CurrentMode(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.meshes[name]
	if !ok {
		return ""
	}
	return a.manager.CurrentMode(m)
}

// SceneSnapshot returns every live mesh for a full frontend refresh.
func (a *App) SceneSnapshot() SceneResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return SceneResult{Meshes: a.payloadsLocked(), Errors: []EvalErrorData{}}
}

// registerLocked installs geometry under a name, replacing any previous
// mesh of that name.
func (a *App) registerLocked(name string, g *geometry.Geometry) *geometry.Mesh {
	if old, ok := a.meshes[name]; ok {
		// Drop the stale snapshot before the old mesh goes away.
		if err := a.manager.Restore(old); err != nil {
			a.log.Warn("restore before replace failed", zap.String("mesh", name), zap.Error(err))
		}
		old.Release()
	} else {
		a.order = append(a.order, name)
	}
	m := geometry.NewMesh(name, g)
	a.meshes[name] = m
	return m
}

func (a *App) lookupLocked(name string) (*geometry.Mesh, error) {
	m, ok := a.meshes[name]
	if !ok {
		return nil, fmt.Errorf("no mesh named %q", name)
	}
	return m, nil
}

func (a *App) colorLocked(name string) string {
	for i, n := range a.order {
		if n == name {
			return viewer.PickColor(i)
		}
	}
	return viewer.Palette[0]
}

func (a *App) payloadsLocked() []viewer.MeshPayload {
	payloads := make([]viewer.MeshPayload, 0, len(a.order))
	for i, name := range a.order {
		m := a.meshes[name]
		payloads = append(payloads, viewer.FromMesh(m, viewer.PickColor(i), a.manager.CurrentMode(m)))
	}
	return payloads
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
