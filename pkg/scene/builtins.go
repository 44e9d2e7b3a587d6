package scene

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms staging source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: theta-start -> theta_start
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a SolidSpec so it can be returned from `badge` or
// `plaque` and consumed by `relief`.
type sexpSolid struct {
	spec SolidSpec
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	if s.spec.Kind == SolidBadge {
		return fmt.Sprintf("(badge %.2f x %.2f)", s.spec.Diameter, s.spec.Depth)
	}
	return fmt.Sprintf("(plaque %.2f x %.2f x %.2f)", s.spec.Width, s.spec.Height, s.spec.Depth)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_cylindrical) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toSolid extracts a SolidSpec from a sexpSolid.
func toSolid(s zygo.Sexp) (SolidSpec, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.spec, nil
	}
	return SolidSpec{}, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// meshName extracts the mesh name from the first positional argument.
// Builtins that build meshes return the name, so directives compose:
// (project (banner "hero" :artwork "a.png") :mode :cylindrical)
func meshName(pa kwArgs, directive string) (string, error) {
	if len(pa.positional) < 1 {
		return "", fmt.Errorf("%s requires a mesh name as first argument", directive)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", directive, err)
	}
	if name == "" {
		return "", fmt.Errorf("%s: mesh name must not be empty", directive)
	}
	return name, nil
}

// optionKeyNames maps DSL keyword spellings to projector option keys.
// Unlisted keywords pass through unchanged and are vetted downstream.
var optionKeyNames = map[string]string{
	"theta-start":  "thetaStart",
	"theta-length": "thetaLength",
	"phi-length":   "phiLength",
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the staging directives into a zygomys
// environment. The builtins append to the provided Scene in evaluation
// order; each mesh-producing directive returns its mesh name so calls
// can nest.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *Scene) {

	// -----------------------------------------------------------------------
	// (banner "hero" :artwork "art/logo.png" :width 2 :segments 64 :emboss 0.1)
	// -----------------------------------------------------------------------
	env.AddFunction("banner", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		mesh, err := meshName(pa, "banner")
		if err != nil {
			return zygo.SexpNull, err
		}

		bd := BannerData{}
		if v, ok := pa.kw["artwork"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("banner: artwork: %w", err)
			}
			bd.Artwork = s
		}
		if bd.Artwork == "" {
			return zygo.SexpNull, fmt.Errorf("banner: :artwork is required")
		}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("banner: width: %w", err)
			}
			bd.Width = f
		}
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("banner: height: %w", err)
			}
			bd.Height = f
		}
		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("banner: segments: %w", err)
			}
			bd.Segments = n
		}
		if v, ok := pa.kw["emboss"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("banner: emboss: %w", err)
			}
			bd.Emboss = f
		}

		sc.Append(Step{Kind: StepBanner, Mesh: mesh, Data: bd})
		return &zygo.SexpStr{S: mesh}, nil
	})

	// -----------------------------------------------------------------------
	// (plane "flat" :width 2 :height 1 :segments-x 32 :segments-y 16)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		mesh, err := meshName(pa, "plane")
		if err != nil {
			return zygo.SexpNull, err
		}

		pd := PlaneData{Width: 2, Height: 1, SegmentsX: 32, SegmentsY: 16}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: width: %w", err)
			}
			pd.Width = f
		}
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: height: %w", err)
			}
			pd.Height = f
		}
		if v, ok := pa.kw["segments-x"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: segments-x: %w", err)
			}
			pd.SegmentsX = n
		}
		if v, ok := pa.kw["segments-y"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: segments-y: %w", err)
			}
			pd.SegmentsY = n
		}
		if pd.Width <= 0 || pd.Height <= 0 {
			return zygo.SexpNull, fmt.Errorf("plane: width and height must be positive, got %f x %f", pd.Width, pd.Height)
		}

		sc.Append(Step{Kind: StepPlane, Mesh: mesh, Data: pd})
		return &zygo.SexpStr{S: mesh}, nil
	})

	// -----------------------------------------------------------------------
	// (badge :diameter 1.5 :depth 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("badge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := SolidSpec{Kind: SolidBadge, Diameter: 2, Depth: 0.25}

		if v, ok := pa.kw["diameter"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("badge: diameter: %w", err)
			}
			spec.Diameter = f
		}
		if v, ok := pa.kw["depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("badge: depth: %w", err)
			}
			spec.Depth = f
		}
		if spec.Diameter <= 0 || spec.Depth <= 0 {
			return zygo.SexpNull, fmt.Errorf("badge: diameter and depth must be positive, got %f x %f", spec.Diameter, spec.Depth)
		}

		return &sexpSolid{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (plaque :width 2 :height 1 :depth 0.25)
	// -----------------------------------------------------------------------
	env.AddFunction("plaque", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := SolidSpec{Kind: SolidPlaque, Width: 2, Height: 1, Depth: 0.25}

		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plaque: width: %w", err)
			}
			spec.Width = f
		}
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plaque: height: %w", err)
			}
			spec.Height = f
		}
		if v, ok := pa.kw["depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plaque: depth: %w", err)
			}
			spec.Depth = f
		}
		if spec.Width <= 0 || spec.Height <= 0 || spec.Depth <= 0 {
			return zygo.SexpNull, fmt.Errorf("plaque: dimensions must be positive, got %f x %f x %f", spec.Width, spec.Height, spec.Depth)
		}

		return &sexpSolid{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (relief "coin" :solid (badge :diameter 1.5) :cells 64)
	// -----------------------------------------------------------------------
	env.AddFunction("relief", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		mesh, err := meshName(pa, "relief")
		if err != nil {
			return zygo.SexpNull, err
		}

		rd := ReliefData{}
		v, ok := pa.kw["solid"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("relief: :solid is required")
		}
		spec, err := toSolid(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("relief: solid: %w", err)
		}
		rd.Solid = spec

		if v, ok := pa.kw["cells"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("relief: cells: %w", err)
			}
			rd.Cells = n
		}

		sc.Append(Step{Kind: StepRelief, Mesh: mesh, Data: rd})
		return &zygo.SexpStr{S: mesh}, nil
	})

	// -----------------------------------------------------------------------
	// (project "hero" :mode :cylindrical :radius 2.5 :theta-start -1.2)
	//
	// :mode is required; every other keyword must be numeric and is passed
	// to the projector as a parameter override for this application.
	// -----------------------------------------------------------------------
	env.AddFunction("project", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		mesh, err := meshName(pa, "project")
		if err != nil {
			return zygo.SexpNull, err
		}

		pd := ProjectData{}
		v, ok := pa.kw["mode"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("project: :mode is required")
		}
		mode, err := toKeywordString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("project: mode: %w", err)
		}
		pd.Mode = mode

		for key, val := range pa.kw {
			if key == "mode" {
				continue
			}
			f, err := toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("project: %s: %w", key, err)
			}
			opt := key
			if mapped, ok := optionKeyNames[key]; ok {
				opt = mapped
			}
			if pd.Options == nil {
				pd.Options = make(map[string]float64)
			}
			pd.Options[opt] = f
		}

		sc.Append(Step{Kind: StepProject, Mesh: mesh, Data: pd})
		return &zygo.SexpStr{S: mesh}, nil
	})

	// -----------------------------------------------------------------------
	// (restore "hero")
	// -----------------------------------------------------------------------
	env.AddFunction("restore", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		mesh, err := meshName(pa, "restore")
		if err != nil {
			return zygo.SexpNull, err
		}

		sc.Append(Step{Kind: StepRestore, Mesh: mesh, Data: RestoreData{}})
		return &zygo.SexpStr{S: mesh}, nil
	})
}
