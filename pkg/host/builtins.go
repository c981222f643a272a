package host

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/keelcad/keel/pkg/geom"
	"github.com/keelcad/keel/pkg/model"
	"github.com/keelcad/keel/pkg/topology"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms model script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: swept-solid -> swept_solid
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
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
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
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
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
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

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a model.Shape so shape builtins can consume the results of
// other shape builtins. The script's last expression must evaluate to one.
type sexpShape struct {
	shape model.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %T)", s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

type sexpVec2 struct {
	vec geom.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.3f %.3f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpColor struct {
	color topology.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(color %d %d %d %d)", c.color[0], c.color[1], c.color[2], c.color[3])
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name without the prefix.
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

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec2(s zygo.Sexp) (geom.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return geom.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toColor(s zygo.Sexp) (topology.Color, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.color, nil
	}
	return topology.Color{}, fmt.Errorf("expected color, got %T (%s)", s, s.SexpString(nil))
}

func toChannel(s zygo.Sexp) (uint8, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 255 {
		return 0, fmt.Errorf("color channel %g out of range 0..255", f)
	}
	return uint8(f), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// defaultColor is applied to shapes that do not specify one.
var defaultColor = topology.Color{255, 0, 0, 255}

// registerBuiltins installs the shape DSL into a zygomys environment. Source
// code must be preprocessed with preprocessSource() first so that :keyword
// tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, params model.Parameters) {

	// -----------------------------------------------------------------------
	// (vec2 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: geom.V2(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 0 0 50)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: geom.V3(x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (color 255 0 0) or (color 255 0 0 128)
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("color requires 3 or 4 arguments, got %d", len(args))
		}
		c := topology.Color{0, 0, 0, 255}
		for i, arg := range args {
			ch, err := toChannel(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("color: channel %d: %w", i, err)
			}
			c[i] = ch
		}
		return &sexpColor{color: c}, nil
	})

	// -----------------------------------------------------------------------
	// (param "height" 50)
	//
	// Reads a numeric model parameter, falling back to the given default when
	// the parameter is absent or unparsable.
	// -----------------------------------------------------------------------
	env.AddFunction("param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("param requires a name and a default, got %d arguments", len(args))
		}
		key, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("param: name: %w", err)
		}
		def, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("param: default: %w", err)
		}
		return &zygo.SexpFloat{Val: params.Float64(key, def)}, nil
	})

	// -----------------------------------------------------------------------
	// (sketch (vec2 0 0) (vec2 100 0) (vec2 100 50) :color (color 0 255 0))
	// -----------------------------------------------------------------------
	env.AddFunction("sketch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 3 {
			return zygo.SexpNull, fmt.Errorf("sketch requires at least 3 points, got %d", len(pa.positional))
		}

		s := model.Sketch{Color: defaultColor}
		for i, arg := range pa.positional {
			p, err := toVec2(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch: point %d: %w", i, err)
			}
			s.Points = append(s.Points, p)
		}
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sketch: color: %w", err)
			}
			s.Color = c
		}
		return &sexpShape{shape: s}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :radius 25 :color (color 0 0 255))
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := model.Circle{Color: defaultColor}

		v, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("circle requires :radius")
		}
		r, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %g", r)
		}
		c.Radius = r

		if v, ok := pa.kw["color"]; ok {
			col, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: color: %w", err)
			}
			c.Color = col
		}
		return &sexpShape{shape: c}, nil
	})

	// -----------------------------------------------------------------------
	// (sweep (circle :radius 25) :path (vec3 0 0 100))
	// -----------------------------------------------------------------------
	env.AddFunction("sweep", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("sweep requires exactly one shape argument, got %d", len(pa.positional))
		}

		wrapped, ok := pa.positional[0].(*sexpShape)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sweep: expected shape, got %T (%s)",
				pa.positional[0], pa.positional[0].SexpString(nil))
		}
		base, ok := wrapped.shape.(model.SketchShape)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sweep: shape %T is not a 2D shape", wrapped.shape)
		}

		v, ok := pa.kw["path"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sweep requires :path")
		}
		path, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep: path: %w", err)
		}
		if path.Norm() == 0 {
			return zygo.SexpNull, fmt.Errorf("sweep: path must be non-zero")
		}

		return &sexpShape{shape: model.Sweep{Shape: base, Path: path}}, nil
	})
}
