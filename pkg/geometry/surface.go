package geometry

import "github.com/keelcad/keel/pkg/geom"

// Surface is the sum type over surface kinds. The only kind currently defined
// is SweptCurve.
type Surface interface {
	isSurface()
}

// SweptCurve is a curve extruded along a direction: the point at surface
// coordinates (u, v) is the curve's point at u, offset by v times the path.
type SweptCurve struct {
	Curve Curve
	Path  geom.Vec3
}

func (SweptCurve) isSurface() {}

// XYPlane returns the global XY plane as a swept curve: the x axis extruded
// along the y axis, so surface coordinates (u, v) map to (u, v, 0).
func XYPlane() Surface {
	return SweptCurve{
		Curve: Line{Origin: geom.Vec3{}, Direction: geom.V3(1, 0, 0)},
		Path:  geom.V3(0, 1, 0),
	}
}

// SurfacePointAt maps surface coordinates to the surface's point in global
// space.
func SurfacePointAt(s Surface, uv geom.Vec2) geom.Vec3 {
	switch s := s.(type) {
	case SweptCurve:
		return CurvePointAt(s.Curve, uv.X).Add(s.Path.Scale(uv.Y))
	default:
		panic("geometry: unknown surface kind")
	}
}

// SurfaceCoordsFromPoint projects a global point onto the surface and returns
// its surface coordinates. As with curves, the result is only meaningful for
// points on the surface within tolerance.
func SurfaceCoordsFromPoint(s Surface, p geom.Vec3) geom.Vec2 {
	switch s := s.(type) {
	case SweptCurve:
		switch c := s.Curve.(type) {
		case Line:
			// Solve p - origin = u*direction + v*path in the least-squares
			// sense via the 2x2 Gram system.
			d := p.Sub(c.Origin)
			dd := c.Direction.Dot(c.Direction)
			dp := c.Direction.Dot(s.Path)
			pp := s.Path.Dot(s.Path)
			det := dd*pp - dp*dp
			if det == 0 {
				return geom.Vec2{}
			}
			b0 := d.Dot(c.Direction)
			b1 := d.Dot(s.Path)
			u := (b0*pp - b1*dp) / det
			v := (b1*dd - b0*dp) / det
			return geom.V2(u, v)
		case Circle:
			pp := s.Path.Dot(s.Path)
			if pp == 0 {
				return geom.V2(CurveCoordsFromPoint(c, p), 0)
			}
			v := p.Sub(c.Center).Dot(s.Path) / pp
			u := CurveCoordsFromPoint(c, p.Sub(s.Path.Scale(v)))
			return geom.V2(u, v)
		default:
			panic("geometry: unknown curve kind")
		}
	default:
		panic("geometry: unknown surface kind")
	}
}

// PlaneNormal returns the unit normal of a planar surface. The second return
// is false for surfaces that are not planes (for example a circle swept into
// a cylinder).
func PlaneNormal(s Surface) (geom.Vec3, bool) {
	sc, ok := s.(SweptCurve)
	if !ok {
		return geom.Vec3{}, false
	}
	line, ok := sc.Curve.(Line)
	if !ok {
		return geom.Vec3{}, false
	}
	n := line.Direction.Cross(sc.Path)
	if n.Norm() == 0 {
		return geom.Vec3{}, false
	}
	return n.Normalized(), true
}

// TransformSurface maps a surface through an affine transform.
func TransformSurface(s Surface, t geom.Transform) Surface {
	switch s := s.(type) {
	case SweptCurve:
		return SweptCurve{
			Curve: TransformCurve(s.Curve, t),
			Path:  t.TransformVector(s.Path),
		}
	default:
		panic("geometry: unknown surface kind")
	}
}
