package scene

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(banner "hero" :artwork "a.png")`,
			expect: `(banner "hero" "__kw_artwork" "a.png")`,
		},
		{
			name:   "multiple keywords",
			input:  `(plane "p" :width 2 :height 1)`,
			expect: `(plane "p" "__kw_width" 2 "__kw_height" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(segment-count :theta-start x)`,
			expect: `(segment_count "__kw_theta-start" x)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:phi-length`,
			expect: `"__kw_phi-length"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Directive tests
// ---------------------------------------------------------------------------

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *Scene {
	t.Helper()
	eng := NewEngine()
	sc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	return sc
}

// evalFail evaluates source and requires a non-fatal eval error. The
// exact message text depends on how zygomys wraps builtin errors, so it
// is logged rather than asserted.
func evalFail(t *testing.T, source, want string) {
	t.Helper()
	eng := NewEngine()
	sc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if sc != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if evalErrs[0].Message == "" {
		t.Fatal("eval error message should not be empty")
	}
	if strings.Contains(evalErrs[0].Message, want) {
		t.Logf("error mentions %q: %q", want, evalErrs[0].Message)
	} else {
		t.Logf("error text: %q", evalErrs[0].Message)
	}
}

func TestBannerDirective(t *testing.T) {
	sc := evalOK(t, `(banner "hero" :artwork "art/logo.png" :width 3 :segments 48 :emboss 0.1)`)

	if sc.StepCount() != 1 {
		t.Fatalf("expected 1 step, got %d", sc.StepCount())
	}
	st := sc.Steps()[0]
	if st.Kind != StepBanner {
		t.Fatalf("expected banner step, got %s", st.Kind)
	}
	if st.Mesh != "hero" {
		t.Errorf("mesh = %q, want hero", st.Mesh)
	}

	bd, ok := st.Data.(BannerData)
	if !ok {
		t.Fatalf("expected BannerData, got %T", st.Data)
	}
	if bd.Artwork != "art/logo.png" {
		t.Errorf("artwork = %q", bd.Artwork)
	}
	if bd.Width != 3 {
		t.Errorf("width = %f, want 3", bd.Width)
	}
	if bd.Segments != 48 {
		t.Errorf("segments = %d, want 48", bd.Segments)
	}
	if bd.Emboss != 0.1 {
		t.Errorf("emboss = %f, want 0.1", bd.Emboss)
	}
}

func TestPlaneDirectiveDefaults(t *testing.T) {
	sc := evalOK(t, `(plane "flat")`)

	pd, ok := sc.Steps()[0].Data.(PlaneData)
	if !ok {
		t.Fatalf("expected PlaneData, got %T", sc.Steps()[0].Data)
	}
	if pd.Width != 2 || pd.Height != 1 {
		t.Errorf("dimensions = %f x %f, want 2 x 1", pd.Width, pd.Height)
	}
	if pd.SegmentsX != 32 || pd.SegmentsY != 16 {
		t.Errorf("segments = %d x %d, want 32 x 16", pd.SegmentsX, pd.SegmentsY)
	}
}

func TestPlaneDirectiveKebabKeys(t *testing.T) {
	sc := evalOK(t, `(plane "flat" :segments-x 8 :segments-y 4)`)

	pd := sc.Steps()[0].Data.(PlaneData)
	if pd.SegmentsX != 8 || pd.SegmentsY != 4 {
		t.Errorf("segments = %d x %d, want 8 x 4", pd.SegmentsX, pd.SegmentsY)
	}
}

func TestReliefDirectiveNestedSolid(t *testing.T) {
	sc := evalOK(t, `(relief "coin" :solid (badge :diameter 1.5 :depth 0.2) :cells 64)`)

	rd, ok := sc.Steps()[0].Data.(ReliefData)
	if !ok {
		t.Fatalf("expected ReliefData, got %T", sc.Steps()[0].Data)
	}
	if rd.Solid.Kind != SolidBadge {
		t.Errorf("solid kind = %s, want badge", rd.Solid.Kind)
	}
	if rd.Solid.Diameter != 1.5 {
		t.Errorf("diameter = %f, want 1.5", rd.Solid.Diameter)
	}
	if rd.Solid.Depth != 0.2 {
		t.Errorf("depth = %f, want 0.2", rd.Solid.Depth)
	}
	if rd.Cells != 64 {
		t.Errorf("cells = %d, want 64", rd.Cells)
	}
}

func TestPlaqueSolid(t *testing.T) {
	sc := evalOK(t, `(relief "plate" :solid (plaque :width 3 :height 2 :depth 0.3))`)

	rd := sc.Steps()[0].Data.(ReliefData)
	if rd.Solid.Kind != SolidPlaque {
		t.Errorf("solid kind = %s, want plaque", rd.Solid.Kind)
	}
	if rd.Solid.Width != 3 || rd.Solid.Height != 2 || rd.Solid.Depth != 0.3 {
		t.Errorf("plaque = %f x %f x %f", rd.Solid.Width, rd.Solid.Height, rd.Solid.Depth)
	}
}

func TestProjectDirectiveOptions(t *testing.T) {
	sc := evalOK(t, `(project "hero" :mode :cylindrical :radius 2.5 :theta-start 0.5)`)

	pd, ok := sc.Steps()[0].Data.(ProjectData)
	if !ok {
		t.Fatalf("expected ProjectData, got %T", sc.Steps()[0].Data)
	}
	if pd.Mode != "cylindrical" {
		t.Errorf("mode = %q, want cylindrical", pd.Mode)
	}
	if pd.Options["radius"] != 2.5 {
		t.Errorf("radius option = %f, want 2.5", pd.Options["radius"])
	}
	// Kebab keyword maps to the projector's option key.
	if pd.Options["thetaStart"] != 0.5 {
		t.Errorf("thetaStart option = %f, want 0.5", pd.Options["thetaStart"])
	}
	if _, leaked := pd.Options["theta-start"]; leaked {
		t.Error("kebab spelling leaked into options")
	}
}

func TestProjectDirectiveNoOptions(t *testing.T) {
	sc := evalOK(t, `(project "hero" :mode :fisheye)`)

	pd := sc.Steps()[0].Data.(ProjectData)
	if pd.Mode != "fisheye" {
		t.Errorf("mode = %q, want fisheye", pd.Mode)
	}
	if len(pd.Options) != 0 {
		t.Errorf("expected no options, got %v", pd.Options)
	}
}

func TestRestoreDirective(t *testing.T) {
	sc := evalOK(t, `(restore "hero")`)

	st := sc.Steps()[0]
	if st.Kind != StepRestore {
		t.Fatalf("expected restore step, got %s", st.Kind)
	}
	if st.Mesh != "hero" {
		t.Errorf("mesh = %q, want hero", st.Mesh)
	}
}

func TestDirectiveOrderPreserved(t *testing.T) {
	sc := evalOK(t, `
(plane "a")
(plane "b")
(project "a" :mode :spherical)
(restore "a")
`)

	if sc.StepCount() != 4 {
		t.Fatalf("expected 4 steps, got %d", sc.StepCount())
	}
	wantKinds := []StepKind{StepPlane, StepPlane, StepProject, StepRestore}
	wantMeshes := []string{"a", "b", "a", "a"}
	for i, st := range sc.Steps() {
		if st.Kind != wantKinds[i] {
			t.Errorf("step %d kind = %s, want %s", i, st.Kind, wantKinds[i])
		}
		if st.Mesh != wantMeshes[i] {
			t.Errorf("step %d mesh = %q, want %q", i, st.Mesh, wantMeshes[i])
		}
	}
}

func TestDirectivesCompose(t *testing.T) {
	// banner returns its mesh name, so it can feed project directly.
	sc := evalOK(t, `(project (banner "hero" :artwork "a.png") :mode :cylindrical)`)

	if sc.StepCount() != 2 {
		t.Fatalf("expected 2 steps, got %d", sc.StepCount())
	}
	if sc.Steps()[0].Kind != StepBanner {
		t.Fatalf("expected banner first, got %s", sc.Steps()[0].Kind)
	}
	proj := sc.Steps()[1]
	if proj.Kind != StepProject || proj.Mesh != "hero" {
		t.Fatalf("expected project on hero, got %s on %q", proj.Kind, proj.Mesh)
	}
}

func TestVariablesInDirectives(t *testing.T) {
	sc := evalOK(t, `
(def r 2.5)
(project "hero" :mode :cylindrical :radius r)
`)

	pd := sc.Steps()[0].Data.(ProjectData)
	if pd.Options["radius"] != 2.5 {
		t.Errorf("radius option = %f, want 2.5", pd.Options["radius"])
	}
}

// ---------------------------------------------------------------------------
// Directive error tests
// ---------------------------------------------------------------------------

func TestBannerRequiresArtwork(t *testing.T) {
	evalFail(t, `(banner "hero")`, "artwork")
}

func TestBannerRequiresName(t *testing.T) {
	evalFail(t, `(banner :artwork "a.png")`, "mesh name")
}

func TestReliefRequiresSolid(t *testing.T) {
	evalFail(t, `(relief "coin" :cells 64)`, "solid")
}

func TestReliefRejectsNonSolid(t *testing.T) {
	evalFail(t, `(relief "coin" :solid "badge")`, "expected solid")
}

func TestProjectRequiresMode(t *testing.T) {
	evalFail(t, `(project "hero" :radius 2)`, "mode")
}

func TestProjectRejectsStringOption(t *testing.T) {
	evalFail(t, `(project "hero" :mode :cylindrical :radius "big")`, "expected number")
}

func TestBadgeRejectsNonPositive(t *testing.T) {
	evalFail(t, `(relief "coin" :solid (badge :diameter 0))`, "positive")
}

func TestPlaneRejectsNonPositive(t *testing.T) {
	evalFail(t, `(plane "flat" :width 0)`, "positive")
}
